package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
	"gitlab.com/akervel/gitlab-mcp/lib/models"
	"gitlab.com/akervel/gitlab-mcp/lib/query"
	"gitlab.com/akervel/gitlab-mcp/lib/validate"
)

// MilestonesServiceInterface defines the interface for milestone-related
// GitLab operations.
type MilestonesServiceInterface interface {
	// AddTo registers the milestone tools with the provided MCPServer,
	// honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// ListMilestones returns a tool for listing a project's milestones.
	ListMilestones() server.ServerTool

	// CreateMilestone returns a tool for creating a milestone.
	CreateMilestone() server.ServerTool

	// DeleteMilestone returns a tool for deleting a milestone.
	DeleteMilestone() server.ServerTool

	// ListIterations returns a tool for listing a project's iterations.
	ListIterations() server.ServerTool
}

// NewMilestonesTools creates a new milestones service backed by the
// provided GitLab client.
func NewMilestonesTools(client *gitlab.Client) *MilestonesService {
	return &MilestonesService{client: client}
}

type MilestonesService struct {
	client *gitlab.Client
}

// AddTo registers the milestone tools. Mutation tools are skipped in
// read-only mode.
func (m *MilestonesService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(
		m.ListMilestones(),
		m.ListIterations(),
	)

	if !opts.ReadOnly {
		srv.AddTools(
			m.CreateMilestone(),
			m.DeleteMilestone(),
		)
	}
}

type listMilestonesArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	State     string     `mcp_desc:"Return only milestones in this state" mcp_enum:"active,closed"`
	Search    string     `mcp_desc:"Filter milestones by a search term matched against title"`
	PerPage   int        `mcp_desc:"Number of milestones to return, between 1 and 100. Defaults to 20."`
}

// ListMilestones returns a ServerTool for listing a project's milestones.
func (m *MilestonesService) ListMilestones() server.ServerTool {
	return server.ServerTool{
		Handler: m.listMilestones,
		Tool: mcpargs.NewTool("list_milestones", listMilestonesArgs{},
			mcp.WithDescription("Get a list of a project's milestones"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (m *MilestonesService) listMilestones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listMilestonesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListMilestonesOptions{}
	if args.State != "" {
		state, err := validate.Format(args.State, []string{"active", "closed"}, "state")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.State = gitlab.Ptr(state)
	}
	if args.Search != "" {
		opt.Search = gitlab.Ptr(args.Search)
	}

	setPage := func(opts *gitlab.ListMilestonesOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	milestones, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, m.client.Milestones.ListMilestones, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListMilestones(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.MilestoneSummary](milestones)
	if err != nil {
		return nil, fmt.Errorf("summarizing milestones: %w", err)
	}

	return newToolResultJSON(summaries)
}

type createMilestoneArgs struct {
	ProjectID   mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Title       string     `mcp_desc:"The title of the milestone" mcp_required:"true"`
	Description string     `mcp_desc:"The description of the milestone"`
	DueDate     string     `mcp_desc:"The due date of the milestone in YYYY-MM-DD format"`
	StartDate   string     `mcp_desc:"The start date of the milestone in YYYY-MM-DD format"`
}

// CreateMilestone returns a ServerTool for creating a milestone. Dates
// are validated as YYYY-MM-DD before the API call.
func (m *MilestonesService) CreateMilestone() server.ServerTool {
	return server.ServerTool{
		Handler: m.createMilestone,
		Tool: mcpargs.NewTool("create_milestone", createMilestoneArgs{},
			mcp.WithDescription("Creates a new project milestone"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (m *MilestonesService) createMilestone(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createMilestoneArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := validate.StringLength(args.Title, 1, 255, "title"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opt := &gitlab.CreateMilestoneOptions{
		Title: gitlab.Ptr(args.Title),
	}

	if args.Description != "" {
		opt.Description = gitlab.Ptr(args.Description)
	}

	if args.DueDate != "" {
		due, err := validate.Date(args.DueDate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.DueDate = isoDate(due)
	}

	if args.StartDate != "" {
		start, err := validate.Date(args.StartDate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.StartDate = isoDate(start)
	}

	milestone, _, err := m.client.Milestones.CreateMilestone(args.ProjectID.Value(), opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateMilestone(%q, %q): %w", args.ProjectID.Value(), args.Title, err)
	}

	summary, err := models.FromNative[models.MilestoneSummary](milestone)
	if err != nil {
		return nil, fmt.Errorf("summarizing milestone: %w", err)
	}

	return newToolResultJSON(summary)
}

type deleteMilestoneArgs struct {
	ProjectID   mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	MilestoneID int        `mcp_desc:"The ID of the milestone to delete" mcp_required:"true"`
}

// DeleteMilestone returns a ServerTool for deleting a milestone.
func (m *MilestonesService) DeleteMilestone() server.ServerTool {
	return server.ServerTool{
		Handler: m.deleteMilestone,
		Tool: mcpargs.NewTool("delete_milestone", deleteMilestoneArgs{},
			mcp.WithDescription("Deletes a project milestone. Only for users with Developer role or higher."),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (m *MilestonesService) deleteMilestone(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteMilestoneArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := m.client.Milestones.DeleteMilestone(args.ProjectID.Value(), args.MilestoneID, gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("DeleteMilestone(%q, %d): %w", args.ProjectID.Value(), args.MilestoneID, err)
	}

	return newToolResultJSON(models.MilestoneDeleteResult{Deleted: true, MilestoneID: args.MilestoneID})
}

type listIterationsArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	State     string     `mcp_desc:"Return only iterations in this state" mcp_enum:"opened,upcoming,current,closed,all"`
	Search    string     `mcp_desc:"Filter iterations by a search term matched against title"`
	PerPage   int        `mcp_desc:"Number of iterations to return, between 1 and 100. Defaults to 20."`
}

// ListIterations returns a ServerTool for listing a project's iterations
// (sprints).
func (m *MilestonesService) ListIterations() server.ServerTool {
	return server.ServerTool{
		Handler: m.listIterations,
		Tool: mcpargs.NewTool("list_iterations", listIterationsArgs{},
			mcp.WithDescription("Get a list of a project's iterations, including those inherited from ancestor groups"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (m *MilestonesService) listIterations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listIterationsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListProjectIterationsOptions{}
	if args.State != "" {
		state, err := validate.Format(args.State, []string{"opened", "upcoming", "current", "closed", "all"}, "state")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.State = gitlab.Ptr(state)
	}
	if args.Search != "" {
		opt.Search = gitlab.Ptr(args.Search)
	}

	setPage := func(opts *gitlab.ListProjectIterationsOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	iterations, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, m.client.ProjectIterations.ListProjectIterations, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListProjectIterations(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.IterationSummary](iterations)
	if err != nil {
		return nil, fmt.Errorf("summarizing iterations: %w", err)
	}

	return newToolResultJSON(summaries)
}

// isoDate converts a date string that already passed validate.Date into
// the SDK's date type.
func isoDate(date string) *gitlab.ISOTime {
	t, _ := time.Parse(time.DateOnly, date)
	iso := gitlab.ISOTime(t)

	return &iso
}
