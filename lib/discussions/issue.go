package discussions

import (
	"context"
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
)

// IssueDiscussion manages discussions on a single GitLab issue.
type IssueDiscussion struct {
	client    *gitlab.Client
	projectID mcpargs.ID
	issueIID  int
}

var _ Manager = (*IssueDiscussion)(nil)

// NewIssueDiscussion creates a manager for the discussions of one issue.
func NewIssueDiscussion(client *gitlab.Client, projectID mcpargs.ID, issueIID int) (*IssueDiscussion, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", ErrInvalidArgument)
	}

	if projectID.IsZero() {
		return nil, fmt.Errorf("%w: projectID cannot be zero", ErrInvalidArgument)
	}

	if issueIID == 0 {
		return nil, fmt.Errorf("%w: issueIID cannot be zero", ErrInvalidArgument)
	}

	return &IssueDiscussion{
		client:    client,
		projectID: projectID,
		issueIID:  issueIID,
	}, nil
}

// List returns all discussions for the issue.
func (d *IssueDiscussion) List(ctx context.Context, confidential bool) ([]*gitlab.Discussion, error) {
	var (
		opt = &gitlab.ListIssueDiscussionsOptions{
			PerPage: maxPerPage,
		}
		allDiscussions []*gitlab.Discussion
	)

	for {
		discussions, resp, err := d.client.Discussions.ListIssueDiscussions(d.projectID.Value(), d.issueIID, opt, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list discussions: %w", err)
		}

		allDiscussions = append(allDiscussions, discussions...)

		if resp.NextPage == 0 {
			break
		}

		opt.Page = resp.NextPage
	}

	return filterDiscussions(allDiscussions, confidential), nil
}

// NewDiscussion creates a new discussion thread on the issue.
func (d *IssueDiscussion) NewDiscussion(ctx context.Context, body string) (*gitlab.Discussion, error) {
	opt := &gitlab.CreateIssueDiscussionOptions{
		Body: gitlab.Ptr(body),
	}

	discussion, _, err := d.client.Discussions.CreateIssueDiscussion(d.projectID.Value(), d.issueIID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create discussion: %w", err)
	}

	return discussion, nil
}

// AddNote adds a new note to an existing discussion thread.
func (d *IssueDiscussion) AddNote(ctx context.Context, discussionID string, body string) (*gitlab.Note, error) {
	opt := &gitlab.AddIssueDiscussionNoteOptions{
		Body: gitlab.Ptr(body),
	}

	note, _, err := d.client.Discussions.AddIssueDiscussionNote(d.projectID.Value(), d.issueIID, discussionID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to add note to discussion: %w", err)
	}

	return note, nil
}
