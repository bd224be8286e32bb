package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
	"gitlab.com/akervel/gitlab-mcp/lib/models"
	"gitlab.com/akervel/gitlab-mcp/lib/query"
	"gitlab.com/akervel/gitlab-mcp/lib/validate"
)

// ProjectsServiceInterface defines the interface for project-related
// GitLab operations.
type ProjectsServiceInterface interface {
	// AddTo registers the project tools with the provided MCPServer,
	// honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// ListProjects returns a tool for listing projects visible to the
	// authenticated user.
	ListProjects() server.ServerTool

	// GetProject returns a tool for fetching a single project.
	GetProject() server.ServerTool

	// ListProjectMembers returns a tool for listing a project's members.
	ListProjectMembers() server.ServerTool

	// UploadFile returns a tool for uploading a file to a project.
	UploadFile() server.ServerTool
}

// NewProjectsTools creates a new projects service backed by the provided
// GitLab client.
func NewProjectsTools(client *gitlab.Client) *ProjectsService {
	return &ProjectsService{client: client}
}

type ProjectsService struct {
	client *gitlab.Client
}

// AddTo registers the project tools. Mutation tools are skipped in
// read-only mode.
func (p *ProjectsService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(
		p.ListProjects(),
		p.GetProject(),
		p.ListProjectMembers(),
	)

	if !opts.ReadOnly {
		srv.AddTools(
			p.UploadFile(),
		)
	}
}

type listProjectsArgs struct {
	Search     string `mcp_desc:"Return projects matching this search term"`
	Membership bool   `mcp_desc:"Only return projects the authenticated user is a member of"`
	Owned      bool   `mcp_desc:"Only return projects owned by the authenticated user"`
	Topic      string `mcp_desc:"Only return projects with this topic"`
	Visibility string `mcp_desc:"Only return projects with this visibility level" mcp_enum:"public,internal,private"`
	OrderBy    string `mcp_desc:"Field to order results by" mcp_enum:"id,name,path,created_at,updated_at,last_activity_at,star_count"`
	Sort       string `mcp_desc:"Sort direction" mcp_enum:"asc,desc"`
	PerPage    int    `mcp_desc:"Number of projects to return, between 1 and 100. Defaults to 20."`
}

// ListProjects returns a ServerTool for listing projects visible to the
// authenticated user.
func (p *ProjectsService) ListProjects() server.ServerTool {
	return server.ServerTool{
		Handler: p.listProjects,
		Tool: mcpargs.NewTool("list_projects", listProjectsArgs{},
			mcp.WithDescription("List projects visible to the authenticated user, with optional search and visibility filters"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (p *ProjectsService) listProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listProjectsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListProjectsOptions{}

	if args.Search != "" {
		opt.Search = gitlab.Ptr(args.Search)
	}
	if args.Membership {
		opt.Membership = gitlab.Ptr(true)
	}
	if args.Owned {
		opt.Owned = gitlab.Ptr(true)
	}
	if args.Topic != "" {
		opt.Topic = gitlab.Ptr(args.Topic)
	}
	if args.Visibility != "" {
		visibility, err := validate.Format(args.Visibility, []string{"public", "internal", "private"}, "visibility")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.Visibility = gitlab.Ptr(gitlab.VisibilityValue(visibility))
	}
	if args.OrderBy != "" {
		opt.OrderBy = gitlab.Ptr(args.OrderBy)
	}
	if args.Sort != "" {
		sort, err := validate.Format(args.Sort, []string{"asc", "desc"}, "sort")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.Sort = gitlab.Ptr(sort)
	}

	setPage := func(opts *gitlab.ListProjectsOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	projects, err := query.SinglePageN(ctx, args.PerPage, p.client.Projects.ListProjects, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListProjects: %w", err)
	}

	summaries, err := models.FromNativeList[models.ProjectSummary](projects)
	if err != nil {
		return nil, fmt.Errorf("summarizing projects: %w", err)
	}

	return newToolResultJSON(summaries)
}

type getProjectArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
}

// GetProject returns a ServerTool for fetching a single project.
func (p *ProjectsService) GetProject() server.ServerTool {
	return server.ServerTool{
		Handler: p.getProject,
		Tool: mcpargs.NewTool("get_project", getProjectArgs{},
			mcp.WithDescription("Get a single project by path or numeric ID"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (p *ProjectsService) getProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getProjectArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	project, _, err := p.client.Projects.GetProject(args.ProjectID.Value(), &gitlab.GetProjectOptions{}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetProject(%q): %w", args.ProjectID.Value(), err)
	}

	summary, err := models.FromNative[models.ProjectSummary](project)
	if err != nil {
		return nil, fmt.Errorf("summarizing project: %w", err)
	}

	return newToolResultJSON(summary)
}

type listProjectMembersArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Query     string     `mcp_desc:"Filter members by name or username"`
	PerPage   int        `mcp_desc:"Number of members to return, between 1 and 100. Defaults to 20."`
}

// ListProjectMembers returns a ServerTool for listing a project's
// members, including those inherited from parent groups.
func (p *ProjectsService) ListProjectMembers() server.ServerTool {
	return server.ServerTool{
		Handler: p.listProjectMembers,
		Tool: mcpargs.NewTool("list_project_members", listProjectMembersArgs{},
			mcp.WithDescription("List the members of a project, including inherited members"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (p *ProjectsService) listProjectMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listProjectMembersArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListProjectMembersOptions{}
	if args.Query != "" {
		opt.Query = gitlab.Ptr(args.Query)
	}

	setPage := func(opts *gitlab.ListProjectMembersOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	members, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, p.client.ProjectMembers.ListAllProjectMembers, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListAllProjectMembers(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.ProjectMember](members)
	if err != nil {
		return nil, fmt.Errorf("summarizing members: %w", err)
	}

	return newToolResultJSON(summaries)
}

type uploadFileArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	FileName  string     `mcp_desc:"Name of the file, including the extension" mcp_required:"true"`
	Content   string     `mcp_desc:"Content of the file to upload" mcp_required:"true"`
}

// UploadFile returns a ServerTool for uploading a file to a project. The
// result contains a markdown snippet referencing the upload.
func (p *ProjectsService) UploadFile() server.ServerTool {
	return server.ServerTool{
		Handler: p.uploadFile,
		Tool: mcpargs.NewTool("upload_file", uploadFileArgs{},
			mcp.WithDescription("Upload a file to a project for use in issue or merge request descriptions"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (p *ProjectsService) uploadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args uploadFileArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := validate.StringLength(args.FileName, 1, 255, "file_name"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	file, _, err := p.client.ProjectMarkdownUploads.UploadProjectMarkdown(args.ProjectID.Value(), strings.NewReader(args.Content), args.FileName, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("UploadProjectMarkdown(%q, %q): %w", args.ProjectID.Value(), args.FileName, err)
	}

	result, err := models.FromNative[models.UploadResult](file)
	if err != nil {
		return nil, fmt.Errorf("summarizing upload: %w", err)
	}

	return newToolResultJSON(result)
}
