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
	"gitlab.com/akervel/gitlab-mcp/lib/validate"
)

// MergeRequestsServiceInterface defines the interface for merge
// request-related GitLab operations.
type MergeRequestsServiceInterface interface {
	// AddTo registers the merge request tools with the provided
	// MCPServer, honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// GetMergeRequest returns a tool for fetching a single merge request.
	GetMergeRequest() server.ServerTool

	// ListMergeRequests returns a tool for listing a project's merge requests.
	ListMergeRequests() server.ServerTool

	// GetMergeRequestDiffs returns a tool for fetching the file diffs of a merge request.
	GetMergeRequestDiffs() server.ServerTool

	// GetApprovalState returns a tool for fetching the approval state of a merge request.
	GetApprovalState() server.ServerTool

	// CreateMergeRequest returns a tool for creating a merge request.
	CreateMergeRequest() server.ServerTool

	// ListDraftNotes returns a tool for listing the pending review notes
	// on a merge request.
	ListDraftNotes() server.ServerTool

	// CreateDraftNote returns a tool for creating a pending review note.
	CreateDraftNote() server.ServerTool

	// PublishDraftNote returns a tool for publishing a single draft note.
	PublishDraftNote() server.ServerTool

	// PublishAllDraftNotes returns a tool for publishing every draft note
	// on a merge request at once.
	PublishAllDraftNotes() server.ServerTool
}

// NewMergeRequestsTools creates a new merge requests service backed by
// the provided GitLab client.
func NewMergeRequestsTools(client *gitlab.Client) *MergeRequestsService {
	return &MergeRequestsService{client: client}
}

type MergeRequestsService struct {
	client *gitlab.Client
}

// AddTo registers the merge request tools. Mutation tools are skipped in
// read-only mode.
func (m *MergeRequestsService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(
		m.GetMergeRequest(),
		m.ListMergeRequests(),
		m.GetMergeRequestDiffs(),
		m.GetApprovalState(),
		m.ListDraftNotes(),
	)

	if !opts.ReadOnly {
		srv.AddTools(
			m.CreateMergeRequest(),
			m.CreateDraftNote(),
			m.PublishDraftNote(),
			m.PublishAllDraftNotes(),
		)
	}
}

type getMergeRequestArgs struct {
	ProjectID       mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int        `mcp_desc:"The internal ID of the merge request" mcp_required:"true"`
}

// GetMergeRequest returns a ServerTool for fetching a single merge
// request, including its merge blockers and readiness.
func (m *MergeRequestsService) GetMergeRequest() server.ServerTool {
	return server.ServerTool{
		Handler: m.getMergeRequest,
		Tool: mcpargs.NewTool("get_merge_request", getMergeRequestArgs{},
			mcp.WithDescription("Get a single merge request as a compact summary that includes what currently blocks merging and whether it is ready to merge."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (m *MergeRequestsService) getMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getMergeRequestArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.GetMergeRequestsOptions{}

	mr, _, err := m.client.MergeRequests.GetMergeRequest(args.ProjectID.Value(), args.MergeRequestIID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetMergeRequest(%q, %d): %w", args.ProjectID.Value(), args.MergeRequestIID, err)
	}

	summary, err := models.FromNative[models.MergeRequestSummary](mr)
	if err != nil {
		return nil, fmt.Errorf("summarizing merge request %d: %w", args.MergeRequestIID, err)
	}

	return newToolResultJSON(summary)
}

type listMergeRequestsArgs struct {
	ProjectID      mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	State          string     `mcp_desc:"Filter merge requests by state. Defaults to 'opened'." mcp_enum:"all,opened,closed,merged"`
	Labels         string     `mcp_desc:"Comma-separated list of label names to filter by"`
	Milestone      string     `mcp_desc:"The milestone title to filter by"`
	AuthorUsername string     `mcp_desc:"Filter by author username"`
	TargetBranch   string     `mcp_desc:"Filter by target branch name"`
	SourceBranch   string     `mcp_desc:"Filter by source branch name"`
	Search         string     `mcp_desc:"Search merge requests against their title and description"`
	OrderBy        string     `mcp_desc:"Sort merge requests by the selected field" mcp_enum:"created_at,title,updated_at"`
	SortOrder      string     `mcp_desc:"Sort order to use. Default is 'desc'" mcp_enum:"asc,desc"`
	PerPage        int        `mcp_desc:"Number of merge requests to return, between 1 and 100. Defaults to 20."`
}

// ListMergeRequests returns a ServerTool for listing a project's merge
// requests.
func (m *MergeRequestsService) ListMergeRequests() server.ServerTool {
	return server.ServerTool{
		Handler: m.listMergeRequests,
		Tool: mcpargs.NewTool("list_merge_requests", listMergeRequestsArgs{},
			mcp.WithDescription("Get a list of a project's merge requests as compact summaries"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (m *MergeRequestsService) listMergeRequests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listMergeRequestsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.ListProjectMergeRequestsOptions{}

	state := args.State
	if state == "" {
		state = "opened"
	}

	state, err := validate.State(state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if state != "all" {
		opt.State = gitlab.Ptr(state)
	}

	opt.Labels = newLabelOptions(args.Labels)

	if args.Milestone != "" {
		opt.Milestone = gitlab.Ptr(args.Milestone)
	}

	if args.AuthorUsername != "" {
		opt.AuthorUsername = gitlab.Ptr(args.AuthorUsername)
	}

	if args.TargetBranch != "" {
		opt.TargetBranch = gitlab.Ptr(args.TargetBranch)
	}

	if args.SourceBranch != "" {
		opt.SourceBranch = gitlab.Ptr(args.SourceBranch)
	}

	if args.Search != "" {
		opt.Search = gitlab.Ptr(args.Search)
	}

	sortParams, err := query.BuildSort(args.OrderBy, args.SortOrder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if orderBy, ok := sortParams["order_by"].(string); ok {
		opt.OrderBy = gitlab.Ptr(orderBy)
		opt.Sort = gitlab.Ptr(sortParams["sort"].(string))
	}

	setPage := func(opts *gitlab.ListProjectMergeRequestsOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	mrs, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, m.client.MergeRequests.ListProjectMergeRequests, *opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListProjectMergeRequests(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.MergeRequestSummary](mrs)
	if err != nil {
		return nil, fmt.Errorf("summarizing merge requests: %w", err)
	}

	return newToolResultJSON(summaries)
}

type mergeRequestDiffsArgs struct {
	ProjectID       mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int        `mcp_desc:"The internal ID of the merge request" mcp_required:"true"`
	PerPage         int        `mcp_desc:"Number of file diffs to return, between 1 and 100. Defaults to 20."`
}

// GetMergeRequestDiffs returns a ServerTool for fetching the file diffs
// of a merge request.
func (m *MergeRequestsService) GetMergeRequestDiffs() server.ServerTool {
	return server.ServerTool{
		Handler: m.getMergeRequestDiffs,
		Tool: mcpargs.NewTool("get_merge_request_diffs", mergeRequestDiffsArgs{},
			mcp.WithDescription("Get the file diffs of a merge request. Each entry carries the file path, its change status (new, deleted, renamed, or modified), and the diff text."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (m *MergeRequestsService) getMergeRequestDiffs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args mergeRequestDiffsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.ListMergeRequestDiffsOptions{
		ListOptions: gitlab.ListOptions{
			Page:    1,
			PerPage: query.ClampPerPage(args.PerPage),
		},
	}

	diffs, _, err := m.client.MergeRequests.ListMergeRequestDiffs(args.ProjectID.Value(), args.MergeRequestIID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ListMergeRequestDiffs(%q, %d): %w", args.ProjectID.Value(), args.MergeRequestIID, err)
	}

	out, err := models.FromNativeList[models.MergeRequestDiff](diffs)
	if err != nil {
		return nil, fmt.Errorf("summarizing diffs: %w", err)
	}

	return newToolResultJSON(out)
}

type approvalStateArgs struct {
	ProjectID       mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MergeRequestIID int        `mcp_desc:"The internal ID of the merge request" mcp_required:"true"`
}

// GetApprovalState returns a ServerTool for fetching the approval state
// of a merge request.
func (m *MergeRequestsService) GetApprovalState() server.ServerTool {
	return server.ServerTool{
		Handler: m.getApprovalState,
		Tool: mcpargs.NewTool("get_approval_state", approvalStateArgs{},
			mcp.WithDescription("Get the approval rules of a merge request and who has approved it so far"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (m *MergeRequestsService) getApprovalState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args approvalStateArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	state, _, err := m.client.MergeRequestApprovals.GetApprovalState(args.ProjectID.Value(), args.MergeRequestIID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetApprovalState(%q, %d): %w", args.ProjectID.Value(), args.MergeRequestIID, err)
	}

	out, err := models.FromNative[models.ApprovalState](state)
	if err != nil {
		return nil, fmt.Errorf("summarizing approval state: %w", err)
	}

	return newToolResultJSON(out)
}

type createMergeRequestArgs struct {
	ProjectID          mcpargs.ID           `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	SourceBranch       string               `mcp_desc:"The source branch name" mcp_required:"true"`
	TargetBranch       string               `mcp_desc:"The target branch name" mcp_required:"true"`
	Title              string               `mcp_desc:"The title of the merge request" mcp_required:"true"`
	Description        string               `mcp_desc:"The description of the merge request in GitLab Flavored Markdown"`
	Labels             string               `mcp_desc:"Comma-separated label names to assign to the new merge request"`
	RemoveSourceBranch mcpargs.OptionalBool `mcp_desc:"If true, the source branch is deleted after merging"`
	Squash             mcpargs.OptionalBool `mcp_desc:"If true, the commits are squashed into a single commit on merge"`
}

// CreateMergeRequest returns a ServerTool for creating a merge request.
func (m *MergeRequestsService) CreateMergeRequest() server.ServerTool {
	return server.ServerTool{
		Handler: m.createMergeRequest,
		Tool: mcpargs.NewTool("create_merge_request", createMergeRequestArgs{},
			mcp.WithDescription("Creates a new GitLab merge request"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (m *MergeRequestsService) createMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createMergeRequestArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := validate.StringLength(args.Title, 1, 255, "title"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.SourceBranch == args.TargetBranch {
		return mcp.NewToolResultError("source_branch and target_branch must differ"), nil
	}

	opt := &gitlab.CreateMergeRequestOptions{
		SourceBranch: gitlab.Ptr(args.SourceBranch),
		TargetBranch: gitlab.Ptr(args.TargetBranch),
		Title:        gitlab.Ptr(args.Title),
	}

	if args.Description != "" {
		opt.Description = gitlab.Ptr(args.Description)
	}

	opt.Labels = newLabelOptions(args.Labels)
	opt.RemoveSourceBranch = args.RemoveSourceBranch.Ptr()
	opt.Squash = args.Squash.Ptr()

	mr, _, err := m.client.MergeRequests.CreateMergeRequest(args.ProjectID.Value(), opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateMergeRequest(%q): %w", args.ProjectID.Value(), err)
	}

	summary, err := models.FromNative[models.MergeRequestSummary](mr)
	if err != nil {
		return nil, fmt.Errorf("summarizing merge request: %w", err)
	}

	return newToolResultJSON(summary)
}
