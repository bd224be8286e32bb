package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
	"gitlab.com/akervel/gitlab-mcp/lib/models"
	"gitlab.com/akervel/gitlab-mcp/lib/query"
)

type listDraftNotesArgs struct {
	ProjectID       mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int        `mcp_desc:"The internal ID of the merge request" mcp_required:"true"`
	PerPage         int        `mcp_desc:"Number of draft notes to return, between 1 and 100. Defaults to 20."`
}

// ListDraftNotes returns a ServerTool for listing the authenticated
// user's pending review notes on a merge request.
func (m *MergeRequestsService) ListDraftNotes() server.ServerTool {
	return server.ServerTool{
		Handler: m.listDraftNotes,
		Tool: mcpargs.NewTool("list_draft_notes", listDraftNotesArgs{},
			mcp.WithDescription("List the pending (unpublished) review notes on a merge request"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (m *MergeRequestsService) listDraftNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listDraftNotesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListDraftNotesOptions{}

	setPage := func(opts *gitlab.ListDraftNotesOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	getter := func(id any, opts *gitlab.ListDraftNotesOptions, options ...gitlab.RequestOptionFunc) ([]*gitlab.DraftNote, *gitlab.Response, error) {
		return m.client.DraftNotes.ListDraftNotes(id, args.MergeRequestIID, opts, options...)
	}

	notes, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, getter, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListDraftNotes(%q, %d): %w", args.ProjectID.Value(), args.MergeRequestIID, err)
	}

	summaries, err := models.FromNativeList[models.DraftNoteSummary](notes)
	if err != nil {
		return nil, fmt.Errorf("summarizing draft notes: %w", err)
	}

	return newToolResultJSON(summaries)
}

type createDraftNoteArgs struct {
	ProjectID         mcpargs.ID           `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID   int                  `mcp_desc:"The internal ID of the merge request" mcp_required:"true"`
	Note              string               `mcp_desc:"Content of the draft note" mcp_required:"true"`
	InDiscussion      string               `mcp_desc:"ID of an existing discussion to attach the draft note to"`
	ResolveDiscussion mcpargs.OptionalBool `mcp_desc:"If true, the discussion is resolved when the note is published"`
}

// CreateDraftNote returns a ServerTool for creating a pending review
// note. The note stays invisible to others until it is published.
func (m *MergeRequestsService) CreateDraftNote() server.ServerTool {
	return server.ServerTool{
		Handler: m.createDraftNote,
		Tool: mcpargs.NewTool("create_draft_note", createDraftNoteArgs{},
			mcp.WithDescription("Create a pending review note on a merge request, to be published later"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (m *MergeRequestsService) createDraftNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createDraftNoteArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.CreateDraftNoteOptions{
		Note: gitlab.Ptr(args.Note),
	}
	if args.InDiscussion != "" {
		opt.InReplyToDiscussionID = gitlab.Ptr(args.InDiscussion)
	}
	opt.ResolveDiscussion = args.ResolveDiscussion.Ptr()

	note, _, err := m.client.DraftNotes.CreateDraftNote(args.ProjectID.Value(), args.MergeRequestIID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateDraftNote(%q, %d): %w", args.ProjectID.Value(), args.MergeRequestIID, err)
	}

	summary, err := models.FromNative[models.DraftNoteSummary](note)
	if err != nil {
		return nil, fmt.Errorf("summarizing draft note: %w", err)
	}

	return newToolResultJSON(summary)
}

type publishDraftNoteArgs struct {
	ProjectID       mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int        `mcp_desc:"The internal ID of the merge request" mcp_required:"true"`
	DraftNoteID     int        `mcp_desc:"ID of the draft note to publish" mcp_required:"true"`
}

// PublishDraftNote returns a ServerTool for publishing a single draft
// note, making it visible to everyone on the merge request.
func (m *MergeRequestsService) PublishDraftNote() server.ServerTool {
	return server.ServerTool{
		Handler: m.publishDraftNote,
		Tool: mcpargs.NewTool("publish_draft_note", publishDraftNoteArgs{},
			mcp.WithDescription("Publish a single pending review note on a merge request"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (m *MergeRequestsService) publishDraftNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args publishDraftNoteArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := m.client.DraftNotes.PublishDraftNote(args.ProjectID.Value(), args.MergeRequestIID, args.DraftNoteID, gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("PublishDraftNote(%q, %d, %d): %w", args.ProjectID.Value(), args.MergeRequestIID, args.DraftNoteID, err)
	}

	return newToolResultJSON(models.DraftNotePublishResult{Published: true, DraftID: &args.DraftNoteID})
}

type publishAllDraftNotesArgs struct {
	ProjectID       mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int        `mcp_desc:"The internal ID of the merge request" mcp_required:"true"`
}

// PublishAllDraftNotes returns a ServerTool for publishing every pending
// review note on a merge request in one call.
func (m *MergeRequestsService) PublishAllDraftNotes() server.ServerTool {
	return server.ServerTool{
		Handler: m.publishAllDraftNotes,
		Tool: mcpargs.NewTool("publish_all_draft_notes", publishAllDraftNotesArgs{},
			mcp.WithDescription("Publish all pending review notes on a merge request at once"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (m *MergeRequestsService) publishAllDraftNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args publishAllDraftNotesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := m.client.DraftNotes.PublishAllDraftNotes(args.ProjectID.Value(), args.MergeRequestIID, gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("PublishAllDraftNotes(%q, %d): %w", args.ProjectID.Value(), args.MergeRequestIID, err)
	}

	return newToolResultJSON(models.DraftNotePublishResult{Published: true, All: true})
}
