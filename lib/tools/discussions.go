package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/discussions"
	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
	"gitlab.com/akervel/gitlab-mcp/lib/models"
)

// DiscussionsServiceInterface defines the interface for discussion-related
// GitLab operations on issues and merge requests.
type DiscussionsServiceInterface interface {
	// AddTo registers the discussion tools with the provided MCPServer,
	// honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// ListIssueDiscussions returns a tool for listing the discussions of
	// an issue.
	ListIssueDiscussions() server.ServerTool

	// ListMergeRequestDiscussions returns a tool for listing the
	// discussions of a merge request.
	ListMergeRequestDiscussions() server.ServerTool

	// CreateIssueNote returns a tool for commenting on an issue.
	CreateIssueNote() server.ServerTool

	// CreateMergeRequestNote returns a tool for commenting on a merge
	// request.
	CreateMergeRequestNote() server.ServerTool

	// ResolveMergeRequestDiscussion returns a tool for resolving or
	// unresolving a merge request discussion thread.
	ResolveMergeRequestDiscussion() server.ServerTool
}

// NewDiscussionsTools creates a new discussions service backed by the
// provided GitLab client.
func NewDiscussionsTools(client *gitlab.Client) *DiscussionsService {
	return &DiscussionsService{client: client}
}

type DiscussionsService struct {
	client *gitlab.Client
}

// AddTo registers the discussion tools. Mutation tools are skipped in
// read-only mode.
func (d *DiscussionsService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(
		d.ListIssueDiscussions(),
		d.ListMergeRequestDiscussions(),
	)

	if !opts.ReadOnly {
		srv.AddTools(
			d.CreateIssueNote(),
			d.CreateMergeRequestNote(),
			d.ResolveMergeRequestDiscussion(),
		)
	}
}

type listIssueDiscussionsArgs struct {
	ProjectID    mcpargs.ID           `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID     int                  `mcp_desc:"The internal ID of the issue within the project" mcp_required:"true"`
	Confidential mcpargs.OptionalBool `mcp_desc:"Include internal notes in the result"`
}

// ListIssueDiscussions returns a ServerTool for listing all discussion
// threads of an issue.
func (d *DiscussionsService) ListIssueDiscussions() server.ServerTool {
	return server.ServerTool{
		Handler: d.listIssueDiscussions,
		Tool: mcpargs.NewTool("list_issue_discussions", listIssueDiscussionsArgs{},
			mcp.WithDescription("Get all discussion threads of an issue, including their notes"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (d *DiscussionsService) listIssueDiscussions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listIssueDiscussionsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	mgr, err := discussions.NewIssueDiscussion(d.client, args.ProjectID, args.IssueIID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return d.listDiscussions(ctx, mgr, args.Confidential.ValueOr(false))
}

type listMergeRequestDiscussionsArgs struct {
	ProjectID       mcpargs.ID           `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int                  `mcp_desc:"The internal ID of the merge request within the project" mcp_required:"true"`
	Confidential    mcpargs.OptionalBool `mcp_desc:"Include internal notes in the result"`
}

// ListMergeRequestDiscussions returns a ServerTool for listing all
// discussion threads of a merge request.
func (d *DiscussionsService) ListMergeRequestDiscussions() server.ServerTool {
	return server.ServerTool{
		Handler: d.listMergeRequestDiscussions,
		Tool: mcpargs.NewTool("list_merge_request_discussions", listMergeRequestDiscussionsArgs{},
			mcp.WithDescription("Get all discussion threads of a merge request, including their notes"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (d *DiscussionsService) listMergeRequestDiscussions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listMergeRequestDiscussionsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	mgr, err := discussions.NewMergeRequestDiscussion(d.client, args.ProjectID, args.MergeRequestIID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return d.listDiscussions(ctx, mgr, args.Confidential.ValueOr(false))
}

func (d *DiscussionsService) listDiscussions(ctx context.Context, mgr discussions.Manager, confidential bool) (*mcp.CallToolResult, error) {
	threads, err := mgr.List(ctx, confidential)
	if err != nil {
		return nil, fmt.Errorf("listing discussions: %w", err)
	}

	summaries, err := models.FromNativeList[models.DiscussionSummary](threads)
	if err != nil {
		return nil, fmt.Errorf("summarizing discussions: %w", err)
	}

	return newToolResultJSON(summaries)
}

type createIssueNoteArgs struct {
	ProjectID    mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID     int        `mcp_desc:"The internal ID of the issue within the project" mcp_required:"true"`
	Body         string     `mcp_desc:"The content of the note, in Markdown" mcp_required:"true"`
	DiscussionID string     `mcp_desc:"ID of an existing discussion thread to reply to. Omit to start a new thread."`
}

// CreateIssueNote returns a ServerTool for commenting on an issue,
// either starting a new thread or replying to an existing one.
func (d *DiscussionsService) CreateIssueNote() server.ServerTool {
	return server.ServerTool{
		Handler: d.createIssueNote,
		Tool: mcpargs.NewTool("create_issue_note", createIssueNoteArgs{},
			mcp.WithDescription("Adds a comment to an issue, starting a new discussion thread or replying to an existing one"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (d *DiscussionsService) createIssueNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createIssueNoteArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	mgr, err := discussions.NewIssueDiscussion(d.client, args.ProjectID, args.IssueIID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	note, err := addNote(ctx, mgr, args.DiscussionID, args.Body)
	if err != nil {
		return nil, err
	}

	result, err := models.FromNative[models.IssueNote](note)
	if err != nil {
		return nil, fmt.Errorf("summarizing note: %w", err)
	}

	return newToolResultJSON(result)
}

type createMergeRequestNoteArgs struct {
	ProjectID       mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int        `mcp_desc:"The internal ID of the merge request within the project" mcp_required:"true"`
	Body            string     `mcp_desc:"The content of the note, in Markdown" mcp_required:"true"`
	DiscussionID    string     `mcp_desc:"ID of an existing discussion thread to reply to. Omit to start a new thread."`
}

// CreateMergeRequestNote returns a ServerTool for commenting on a merge
// request, either starting a new thread or replying to an existing one.
func (d *DiscussionsService) CreateMergeRequestNote() server.ServerTool {
	return server.ServerTool{
		Handler: d.createMergeRequestNote,
		Tool: mcpargs.NewTool("create_merge_request_note", createMergeRequestNoteArgs{},
			mcp.WithDescription("Adds a comment to a merge request, starting a new discussion thread or replying to an existing one"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (d *DiscussionsService) createMergeRequestNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createMergeRequestNoteArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	mgr, err := discussions.NewMergeRequestDiscussion(d.client, args.ProjectID, args.MergeRequestIID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	note, err := addNote(ctx, mgr, args.DiscussionID, args.Body)
	if err != nil {
		return nil, err
	}

	result, err := models.FromNative[models.NoteSummary](note)
	if err != nil {
		return nil, fmt.Errorf("summarizing note: %w", err)
	}

	return newToolResultJSON(result)
}

// addNote replies to discussionID when given, and starts a new thread
// otherwise.
func addNote(ctx context.Context, mgr discussions.Manager, discussionID, body string) (*gitlab.Note, error) {
	if discussionID != "" {
		note, err := mgr.AddNote(ctx, discussionID, body)
		if err != nil {
			return nil, fmt.Errorf("adding note: %w", err)
		}

		return note, nil
	}

	discussion, err := mgr.NewDiscussion(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("creating discussion: %w", err)
	}

	if len(discussion.Notes) == 0 {
		return nil, fmt.Errorf("discussion %q has no notes", discussion.ID)
	}

	return discussion.Notes[0], nil
}

type resolveMergeRequestDiscussionArgs struct {
	ProjectID       mcpargs.ID           `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int                  `mcp_desc:"The internal ID of the merge request within the project" mcp_required:"true"`
	DiscussionID    string               `mcp_desc:"ID of the discussion thread to resolve" mcp_required:"true"`
	Resolved        mcpargs.OptionalBool `mcp_desc:"Whether the thread should be resolved. Defaults to true."`
}

// ResolveMergeRequestDiscussion returns a ServerTool for resolving or
// unresolving a merge request discussion thread.
func (d *DiscussionsService) ResolveMergeRequestDiscussion() server.ServerTool {
	return server.ServerTool{
		Handler: d.resolveMergeRequestDiscussion,
		Tool: mcpargs.NewTool("resolve_merge_request_discussion", resolveMergeRequestDiscussionArgs{},
			mcp.WithDescription("Resolves or unresolves a discussion thread of a merge request"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (d *DiscussionsService) resolveMergeRequestDiscussion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args resolveMergeRequestDiscussionArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	mgr, err := discussions.NewMergeRequestDiscussion(d.client, args.ProjectID, args.MergeRequestIID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved := args.Resolved.ValueOr(true)

	if _, err := mgr.ResolveDiscussion(ctx, args.DiscussionID, resolved); err != nil {
		return nil, fmt.Errorf("ResolveDiscussion(%q): %w", args.DiscussionID, err)
	}

	return newToolResultJSON(models.NoteResolveResult{
		DiscussionID: args.DiscussionID,
		Resolved:     resolved,
	})
}
