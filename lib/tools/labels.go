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

// LabelsServiceInterface defines the interface for label-related GitLab
// operations.
type LabelsServiceInterface interface {
	// AddTo registers the label tools with the provided MCPServer,
	// honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// ListLabels returns a tool for listing a project's labels.
	ListLabels() server.ServerTool

	// CreateLabel returns a tool for creating a label.
	CreateLabel() server.ServerTool

	// DeleteLabel returns a tool for deleting a label.
	DeleteLabel() server.ServerTool
}

// NewLabelsTools creates a new labels service backed by the provided
// GitLab client.
func NewLabelsTools(client *gitlab.Client) *LabelsService {
	return &LabelsService{client: client}
}

type LabelsService struct {
	client *gitlab.Client
}

// AddTo registers the label tools. Mutation tools are skipped in
// read-only mode.
func (l *LabelsService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(l.ListLabels())

	if !opts.ReadOnly {
		srv.AddTools(
			l.CreateLabel(),
			l.DeleteLabel(),
		)
	}
}

type listLabelsArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Search    string     `mcp_desc:"Filter labels by a search term"`
	PerPage   int        `mcp_desc:"Number of labels to return, between 1 and 100. Defaults to 20."`
}

// ListLabels returns a ServerTool for listing a project's labels.
func (l *LabelsService) ListLabels() server.ServerTool {
	return server.ServerTool{
		Handler: l.listLabels,
		Tool: mcpargs.NewTool("list_labels", listLabelsArgs{},
			mcp.WithDescription("Get a list of a project's labels"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (l *LabelsService) listLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listLabelsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListLabelsOptions{}
	if args.Search != "" {
		opt.Search = gitlab.Ptr(args.Search)
	}

	setPage := func(opts *gitlab.ListLabelsOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	labels, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, l.client.Labels.ListLabels, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListLabels(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.LabelSummary](labels)
	if err != nil {
		return nil, fmt.Errorf("summarizing labels: %w", err)
	}

	return newToolResultJSON(summaries)
}

type createLabelArgs struct {
	ProjectID   mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Name        string     `mcp_desc:"The name of the label" mcp_required:"true"`
	Color       string     `mcp_desc:"The color of the label as 6 hex digits, with or without the leading '#' (e.g. FF0000 or #FF0000)" mcp_required:"true"`
	Description string     `mcp_desc:"The description of the label"`
	Priority    int        `mcp_desc:"The priority of the label, used for label-priority sorting"`
}

// CreateLabel returns a ServerTool for creating a label. The color is
// validated and normalized before the API call.
func (l *LabelsService) CreateLabel() server.ServerTool {
	return server.ServerTool{
		Handler: l.createLabel,
		Tool: mcpargs.NewTool("create_label", createLabelArgs{},
			mcp.WithDescription("Creates a new project label"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (l *LabelsService) createLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createLabelArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	color, err := validate.Color(args.Color)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opt := &gitlab.CreateLabelOptions{
		Name:  gitlab.Ptr(args.Name),
		Color: gitlab.Ptr("#" + color),
	}

	if args.Description != "" {
		opt.Description = gitlab.Ptr(args.Description)
	}

	if args.Priority != 0 {
		opt.Priority = gitlab.Ptr(args.Priority)
	}

	label, _, err := l.client.Labels.CreateLabel(args.ProjectID.Value(), opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateLabel(%q, %q): %w", args.ProjectID.Value(), args.Name, err)
	}

	summary, err := models.FromNative[models.LabelSummary](label)
	if err != nil {
		return nil, fmt.Errorf("summarizing label: %w", err)
	}

	return newToolResultJSON(summary)
}

type deleteLabelArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Name      string     `mcp_desc:"The name of the label to delete" mcp_required:"true"`
}

// DeleteLabel returns a ServerTool for deleting a label.
func (l *LabelsService) DeleteLabel() server.ServerTool {
	return server.ServerTool{
		Handler: l.deleteLabel,
		Tool: mcpargs.NewTool("delete_label", deleteLabelArgs{},
			mcp.WithDescription("Deletes a project label"),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (l *LabelsService) deleteLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteLabelArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := l.client.Labels.DeleteLabel(args.ProjectID.Value(), args.Name, nil, gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("DeleteLabel(%q, %q): %w", args.ProjectID.Value(), args.Name, err)
	}

	return newToolResultJSON(models.LabelDeleteResult{Deleted: true, Label: args.Name})
}
