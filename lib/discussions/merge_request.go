package discussions

import (
	"context"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
)

// MergeRequestDiscussion manages discussions on a single GitLab merge
// request.
type MergeRequestDiscussion struct {
	client          *gitlab.Client
	projectID       mcpargs.ID
	mergeRequestIID int
}

var _ ResolvableManager = (*MergeRequestDiscussion)(nil)

// NewMergeRequestDiscussion creates a manager for the discussions of one
// merge request.
func NewMergeRequestDiscussion(client *gitlab.Client, projectID mcpargs.ID, mergeRequestIID int) (*MergeRequestDiscussion, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", ErrInvalidArgument)
	}

	if projectID.IsZero() {
		return nil, fmt.Errorf("%w: projectID cannot be zero", ErrInvalidArgument)
	}

	if mergeRequestIID == 0 {
		return nil, fmt.Errorf("%w: mergeRequestIID cannot be zero", ErrInvalidArgument)
	}

	return &MergeRequestDiscussion{
		client:          client,
		projectID:       projectID,
		mergeRequestIID: mergeRequestIID,
	}, nil
}

// List returns all discussions for the merge request.
func (d *MergeRequestDiscussion) List(ctx context.Context, confidential bool) ([]*gitlab.Discussion, error) {
	var (
		opt = &gitlab.ListMergeRequestDiscussionsOptions{
			PerPage: maxPerPage,
		}
		allDiscussions []*gitlab.Discussion
	)

	for {
		discussions, resp, err := d.client.Discussions.ListMergeRequestDiscussions(d.projectID.Value(), d.mergeRequestIID, opt, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list merge request discussions: %w", err)
		}

		allDiscussions = append(allDiscussions, discussions...)

		if resp.NextPage == 0 {
			break
		}

		opt.Page = resp.NextPage
	}

	return filterDiscussions(allDiscussions, confidential), nil
}

// NewDiscussion creates a new discussion thread on the merge request.
func (d *MergeRequestDiscussion) NewDiscussion(ctx context.Context, body string) (*gitlab.Discussion, error) {
	opt := &gitlab.CreateMergeRequestDiscussionOptions{
		Body: gitlab.Ptr(body),
	}

	discussion, _, err := d.client.Discussions.CreateMergeRequestDiscussion(d.projectID.Value(), d.mergeRequestIID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request discussion: %w", err)
	}

	return discussion, nil
}

// AddNote adds a new note to an existing discussion thread.
func (d *MergeRequestDiscussion) AddNote(ctx context.Context, discussionID string, body string) (*gitlab.Note, error) {
	opt := &gitlab.AddMergeRequestDiscussionNoteOptions{
		Body: gitlab.Ptr(body),
	}

	note, _, err := d.client.Discussions.AddMergeRequestDiscussionNote(d.projectID.Value(), d.mergeRequestIID, discussionID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to add note to merge request discussion: %w", err)
	}

	return note, nil
}

// ResolveDiscussion resolves or unresolves a discussion thread.
func (d *MergeRequestDiscussion) ResolveDiscussion(ctx context.Context, discussionID string, resolved bool) (*gitlab.Discussion, error) {
	opt := &gitlab.ResolveMergeRequestDiscussionOptions{
		Resolved: gitlab.Ptr(resolved),
	}

	discussion, _, err := d.client.Discussions.ResolveMergeRequestDiscussion(d.projectID.Value(), d.mergeRequestIID, discussionID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to %s discussion: %w", resolveActionText(resolved), err)
	}

	return discussion, nil
}

func resolveActionText(resolved bool) string {
	if resolved {
		return "resolve"
	}

	return "unresolve"
}
