// Package query builds request parameters for GitLab list operations and
// provides the single-page listing helper the tools share.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrSortDirection is returned by BuildSort for a direction that is not
// exactly "asc" or "desc". Unlike the entity-level format validators, no
// case normalization happens here.
var ErrSortDirection = errors.New(`sort must be "asc" or "desc"`)

// Filters are the common list filters. Zero values are treated as unset
// and dropped; pointer fields distinguish "unset" from a zero that should
// be sent.
type Filters struct {
	State          string
	AuthorID       *int
	AuthorUsername string
	AssigneeID     *int
	Labels         []string
	Milestone      string
	Search         string

	// Accept either a time.Time or an already-formatted string.
	CreatedAfter  any
	CreatedBefore any
	UpdatedAfter  any
	UpdatedBefore any

	// Extra filters forwarded as-is; nil values are dropped.
	Extra map[string]any
}

// BuildFilters flattens f into a parameter map: unset values are dropped,
// labels are joined with commas, and time.Time values become ISO-8601
// strings. Already-string timestamps pass through unmodified.
func BuildFilters(f Filters) map[string]any {
	out := map[string]any{}

	if f.State != "" {
		out["state"] = f.State
	}

	if f.AuthorID != nil {
		out["author_id"] = *f.AuthorID
	}

	if f.AuthorUsername != "" {
		out["author_username"] = f.AuthorUsername
	}

	if f.AssigneeID != nil {
		out["assignee_id"] = *f.AssigneeID
	}

	if f.Milestone != "" {
		out["milestone"] = f.Milestone
	}

	if f.Search != "" {
		out["search"] = f.Search
	}

	if len(f.Labels) > 0 {
		out["labels"] = strings.Join(f.Labels, ",")
	}

	setTimestamp(out, "created_after", f.CreatedAfter)
	setTimestamp(out, "created_before", f.CreatedBefore)
	setTimestamp(out, "updated_after", f.UpdatedAfter)
	setTimestamp(out, "updated_before", f.UpdatedBefore)

	for key, value := range f.Extra {
		if value != nil {
			out[key] = value
		}
	}

	return out
}

func setTimestamp(out map[string]any, key string, value any) {
	switch v := value.(type) {
	case nil:
	case time.Time:
		out[key] = v.Format(time.RFC3339)
	case *time.Time:
		if v != nil {
			out[key] = v.Format(time.RFC3339)
		}
	case string:
		if v != "" {
			out[key] = v
		}
	default:
		out[key] = fmt.Sprintf("%v", value)
	}
}

// BuildSort returns order_by/sort parameters. An empty sort means the
// caller did not ask for a direction and gets the "desc" default; anything
// else must be exactly "asc" or "desc". An empty orderBy yields an empty
// map with no parameters emitted at all.
func BuildSort(orderBy, sort string) (map[string]any, error) {
	if sort == "" {
		sort = "desc"
	}

	if sort != "asc" && sort != "desc" {
		return nil, fmt.Errorf("%w, got %q", ErrSortDirection, sort)
	}

	if orderBy == "" {
		return map[string]any{}, nil
	}

	return map[string]any{"order_by": orderBy, "sort": sort}, nil
}
