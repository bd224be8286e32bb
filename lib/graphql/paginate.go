package graphql

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"gitlab.com/akervel/gitlab-mcp/lib/models"
)

// DefaultMaxPages caps a pagination run when the caller does not set a
// limit.
const DefaultMaxPages = 10

// PaginateOptions configures a pagination run. The cursor and has-next
// paths are dot-separated paths into the response's data object, e.g.
// "project.issues.pageInfo.endCursor".
type PaginateOptions struct {
	CursorPath  string
	HasNextPath string

	// Variable name the cursor is fed back through. Defaults to "after".
	CursorVariable string

	// Page cap. Zero means DefaultMaxPages.
	MaxPages int
}

func (o PaginateOptions) withDefaults() PaginateOptions {
	if o.CursorPath == "" {
		o.CursorPath = "pageInfo.endCursor"
	}

	if o.HasNextPath == "" {
		o.HasNextPath = "pageInfo.hasNextPage"
	}

	if o.CursorVariable == "" {
		o.CursorVariable = "after"
	}

	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}

	return o
}

// Paginate runs query repeatedly, feeding each page's end cursor back into
// the variables, until the server reports no next page, a page fails, or
// the page cap is reached.
//
// Failures are partial results, not Go errors: a transport failure or a
// page with GraphQL errors terminates the run, the failing page's body is
// not appended, and everything fetched so far is returned. Complete is
// true only when the server reported no further pages.
func Paginate(ctx context.Context, ex Executor, query string, variables map[string]any, opts PaginateOptions) (*models.PaginationResult, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	vars := make(map[string]any, len(variables)+1)
	for k, v := range variables {
		vars[k] = v
	}

	result := &models.PaginationResult{AllPages: []map[string]any{}}

	errorExit := func(errs []models.GraphQLError) *models.PaginationResult {
		fetched := result.PageCount
		return &models.PaginationResult{
			AllPages:       []map[string]any{},
			Errors:         errs,
			PagesFetched:   &fetched,
			PartialResults: result.AllPages,
		}
	}

	for result.PageCount < opts.MaxPages {
		resp, err := ex.Execute(ctx, query, vars)
		if err != nil {
			return errorExit([]models.GraphQLError{{
				Message: fmt.Sprintf("page %d: %v", result.PageCount+1, err),
			}}), nil
		}

		// Error bodies are data: stop here with the pages accumulated so
		// far, without appending the failing page's body.
		if resp.HasErrors() {
			return errorExit(resp.Errors), nil
		}

		body := resp.Raw
		if body == nil {
			body = map[string]any{"data": resp.Data}
		}

		result.AllPages = append(result.AllPages, body)
		result.PageCount++

		hasNext, ok := lookupPath(resp.Data, opts.HasNextPath)
		if !ok || hasNext != true {
			result.Complete = true
			return result, nil
		}

		cursor, ok := lookupPath(resp.Data, opts.CursorPath)
		cursorStr := cast.ToString(cursor)
		if !ok || cursorStr == "" {
			// hasNextPage true with no cursor to follow: nothing more we
			// can fetch, treat as exhausted.
			result.Complete = true
			return result, nil
		}

		vars[opts.CursorVariable] = cursorStr
	}

	// Page cap reached with more pages remaining.
	return result, nil
}

// lookupPath walks a dot-separated path through nested maps.
func lookupPath(data map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = data

	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}
