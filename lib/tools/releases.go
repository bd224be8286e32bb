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

// ReleasesServiceInterface defines the interface for release-related
// GitLab operations.
type ReleasesServiceInterface interface {
	// AddTo registers the release tools with the provided MCPServer,
	// honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// ListReleases returns a tool for listing a project's releases.
	ListReleases() server.ServerTool

	// GetRelease returns a tool for fetching a single release by tag.
	GetRelease() server.ServerTool

	// CreateRelease returns a tool for creating a release.
	CreateRelease() server.ServerTool

	// DeleteRelease returns a tool for deleting a release.
	DeleteRelease() server.ServerTool
}

// NewReleasesTools creates a new releases service backed by the provided
// GitLab client.
func NewReleasesTools(client *gitlab.Client) *ReleasesService {
	return &ReleasesService{client: client}
}

type ReleasesService struct {
	client *gitlab.Client
}

// AddTo registers the release tools. Mutation tools are skipped in
// read-only mode.
func (r *ReleasesService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(
		r.ListReleases(),
		r.GetRelease(),
	)

	if !opts.ReadOnly {
		srv.AddTools(
			r.CreateRelease(),
			r.DeleteRelease(),
		)
	}
}

type listReleasesArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	PerPage   int        `mcp_desc:"Number of releases to return, between 1 and 100. Defaults to 20."`
}

// ListReleases returns a ServerTool for listing a project's releases.
func (r *ReleasesService) ListReleases() server.ServerTool {
	return server.ServerTool{
		Handler: r.listReleases,
		Tool: mcpargs.NewTool("list_releases", listReleasesArgs{},
			mcp.WithDescription("Get a list of a project's releases, most recent first"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (r *ReleasesService) listReleases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listReleasesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListReleasesOptions{}

	setPage := func(opts *gitlab.ListReleasesOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	releases, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, r.client.Releases.ListReleases, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListReleases(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.ReleaseSummary](releases)
	if err != nil {
		return nil, fmt.Errorf("summarizing releases: %w", err)
	}

	return newToolResultJSON(summaries)
}

type getReleaseArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	TagName   string     `mcp_desc:"The Git tag the release is associated with" mcp_required:"true"`
}

// GetRelease returns a ServerTool for fetching a single release by its
// tag name.
func (r *ReleasesService) GetRelease() server.ServerTool {
	return server.ServerTool{
		Handler: r.getRelease,
		Tool: mcpargs.NewTool("get_release", getReleaseArgs{},
			mcp.WithDescription("Get a single release of a project by its tag name"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (r *ReleasesService) getRelease(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getReleaseArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	release, _, err := r.client.Releases.GetRelease(args.ProjectID.Value(), args.TagName, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetRelease(%q, %q): %w", args.ProjectID.Value(), args.TagName, err)
	}

	summary, err := models.FromNative[models.ReleaseSummary](release)
	if err != nil {
		return nil, fmt.Errorf("summarizing release: %w", err)
	}

	return newToolResultJSON(summary)
}

type createReleaseArgs struct {
	ProjectID   mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	TagName     string     `mcp_desc:"The tag the release is created from. If the tag does not exist yet, ref must be provided." mcp_required:"true"`
	Ref         string     `mcp_desc:"A commit SHA, branch or tag to create the tag from, if the tag does not exist yet"`
	Name        string     `mcp_desc:"The release name. Defaults to the tag name."`
	Description string     `mcp_desc:"The description of the release, in Markdown"`
}

// CreateRelease returns a ServerTool for creating a release.
func (r *ReleasesService) CreateRelease() server.ServerTool {
	return server.ServerTool{
		Handler: r.createRelease,
		Tool: mcpargs.NewTool("create_release", createReleaseArgs{},
			mcp.WithDescription("Creates a release from an existing tag, or creates the tag from a ref"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (r *ReleasesService) createRelease(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createReleaseArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.CreateReleaseOptions{
		TagName: gitlab.Ptr(args.TagName),
	}

	if args.Ref != "" {
		opt.Ref = gitlab.Ptr(args.Ref)
	}
	if args.Name != "" {
		opt.Name = gitlab.Ptr(args.Name)
	}
	if args.Description != "" {
		opt.Description = gitlab.Ptr(args.Description)
	}

	release, _, err := r.client.Releases.CreateRelease(args.ProjectID.Value(), opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateRelease(%q, %q): %w", args.ProjectID.Value(), args.TagName, err)
	}

	summary, err := models.FromNative[models.ReleaseSummary](release)
	if err != nil {
		return nil, fmt.Errorf("summarizing release: %w", err)
	}

	return newToolResultJSON(summary)
}

type deleteReleaseArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	TagName   string     `mcp_desc:"The Git tag the release is associated with. The tag itself is not deleted." mcp_required:"true"`
}

// DeleteRelease returns a ServerTool for deleting a release. The
// underlying Git tag is left in place.
func (r *ReleasesService) DeleteRelease() server.ServerTool {
	return server.ServerTool{
		Handler: r.deleteRelease,
		Tool: mcpargs.NewTool("delete_release", deleteReleaseArgs{},
			mcp.WithDescription("Deletes a release of a project, keeping the underlying Git tag"),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (r *ReleasesService) deleteRelease(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteReleaseArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, _, err := r.client.Releases.DeleteRelease(args.ProjectID.Value(), args.TagName, gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("DeleteRelease(%q, %q): %w", args.ProjectID.Value(), args.TagName, err)
	}

	return newToolResultJSON(models.ReleaseDeleteResult{Deleted: true, TagName: args.TagName})
}
