// Package discussions wraps the GitLab Discussions API for the resource
// kinds the server exposes comment tools for: issues and merge requests.
//
// Each resource kind has a manager type (IssueDiscussion,
// MergeRequestDiscussion) implementing the common Manager methods for
// listing threads and adding notes. Merge request discussions additionally
// support resolving, via ResolvableManager.
//
// Listing walks all pages of the upstream API so callers see complete
// threads, and filters out internal notes unless confidential content is
// explicitly requested.
package discussions

import (
	"context"
	"errors"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const maxPerPage = 100

var ErrInvalidArgument = errors.New("invalid argument")

// Manager defines the common methods for working with discussion threads
// on a GitLab resource, independent of the resource kind.
type Manager interface {
	// List returns all discussions for the resource. Internal notes are
	// filtered out unless confidential is true.
	List(ctx context.Context, confidential bool) ([]*gitlab.Discussion, error)

	// NewDiscussion creates a new discussion thread on the resource.
	NewDiscussion(ctx context.Context, body string) (*gitlab.Discussion, error)

	// AddNote adds a note to an existing discussion thread.
	AddNote(ctx context.Context, discussionID string, body string) (*gitlab.Note, error)
}

// ResolvableManager extends Manager for resources whose discussions can
// be resolved, which is merge requests only.
type ResolvableManager interface {
	Manager

	// ResolveDiscussion resolves or unresolves a discussion thread.
	ResolveDiscussion(ctx context.Context, discussionID string, resolved bool) (*gitlab.Discussion, error)
}

// filterDiscussions drops internal notes, and discussions left empty by
// that, unless includeConfidential is set.
func filterDiscussions(discussions []*gitlab.Discussion, includeConfidential bool) []*gitlab.Discussion {
	if includeConfidential {
		return discussions
	}

	var ret []*gitlab.Discussion

	for _, discussion := range discussions {
		d := *discussion
		d.Notes = filterNotes(d.Notes)

		if len(d.Notes) > 0 {
			ret = append(ret, &d)
		}
	}

	return ret
}

func filterNotes(notes []*gitlab.Note) []*gitlab.Note {
	var ret []*gitlab.Note

	for _, note := range notes {
		if !note.Internal {
			ret = append(ret, note)
		}
	}

	return ret
}
