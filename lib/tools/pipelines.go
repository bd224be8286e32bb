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

// PipelinesServiceInterface defines the interface for pipeline-related
// GitLab operations.
type PipelinesServiceInterface interface {
	// AddTo registers the pipeline tools with the provided MCPServer.
	AddTo(srv *server.MCPServer, opts Options)

	// ListPipelines returns a tool for listing a project's pipelines.
	ListPipelines() server.ServerTool

	// GetPipeline returns a tool for fetching a single pipeline.
	GetPipeline() server.ServerTool

	// ListPipelineJobs returns a tool for listing the jobs of a pipeline.
	ListPipelineJobs() server.ServerTool
}

// NewPipelinesTools creates a new pipelines service backed by the
// provided GitLab client.
func NewPipelinesTools(client *gitlab.Client) *PipelinesService {
	return &PipelinesService{client: client}
}

type PipelinesService struct {
	client *gitlab.Client
}

// AddTo registers the pipeline tools. All of them are read-only.
func (p *PipelinesService) AddTo(srv *server.MCPServer, _ Options) {
	srv.AddTools(
		p.ListPipelines(),
		p.GetPipeline(),
		p.ListPipelineJobs(),
	)
}

type listPipelinesArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Ref       string     `mcp_desc:"Filter pipelines by branch or tag name"`
	Status    string     `mcp_desc:"Filter pipelines by status" mcp_enum:"created,waiting_for_resource,preparing,pending,running,success,failed,canceled,skipped,manual,scheduled"`
	SHA       string     `mcp_desc:"Filter pipelines by commit SHA"`
	PerPage   int        `mcp_desc:"Number of pipelines to return, between 1 and 100. Defaults to 20."`
}

// ListPipelines returns a ServerTool for listing a project's pipelines.
func (p *PipelinesService) ListPipelines() server.ServerTool {
	return server.ServerTool{
		Handler: p.listPipelines,
		Tool: mcpargs.NewTool("list_pipelines", listPipelinesArgs{},
			mcp.WithDescription("Get a list of a project's CI pipelines as compact summaries"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (p *PipelinesService) listPipelines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listPipelinesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListProjectPipelinesOptions{}

	if args.Ref != "" {
		opt.Ref = gitlab.Ptr(args.Ref)
	}

	if args.Status != "" {
		opt.Status = gitlab.Ptr(gitlab.BuildStateValue(args.Status))
	}

	if args.SHA != "" {
		opt.SHA = gitlab.Ptr(args.SHA)
	}

	setPage := func(opts *gitlab.ListProjectPipelinesOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	pipelines, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, p.client.Pipelines.ListProjectPipelines, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListProjectPipelines(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.PipelineSummary](pipelines)
	if err != nil {
		return nil, fmt.Errorf("summarizing pipelines: %w", err)
	}

	return newToolResultJSON(summaries)
}

type getPipelineArgs struct {
	ProjectID  mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	PipelineID int        `mcp_desc:"The ID of the pipeline" mcp_required:"true"`
}

// GetPipeline returns a ServerTool for fetching a single pipeline.
func (p *PipelinesService) GetPipeline() server.ServerTool {
	return server.ServerTool{
		Handler: p.getPipeline,
		Tool: mcpargs.NewTool("get_pipeline", getPipelineArgs{},
			mcp.WithDescription("Get a single CI pipeline as a compact summary, including its duration"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (p *PipelinesService) getPipeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getPipelineArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	pipeline, _, err := p.client.Pipelines.GetPipeline(args.ProjectID.Value(), args.PipelineID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetPipeline(%q, %d): %w", args.ProjectID.Value(), args.PipelineID, err)
	}

	summary, err := models.FromNative[models.PipelineSummary](pipeline)
	if err != nil {
		return nil, fmt.Errorf("summarizing pipeline %d: %w", args.PipelineID, err)
	}

	return newToolResultJSON(summary)
}

type listPipelineJobsArgs struct {
	ProjectID  mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	PipelineID int        `mcp_desc:"The ID of the pipeline" mcp_required:"true"`
	PerPage    int        `mcp_desc:"Number of jobs to return, between 1 and 100. Defaults to 20."`
}

// ListPipelineJobs returns a ServerTool for listing the jobs of a
// pipeline.
func (p *PipelinesService) ListPipelineJobs() server.ServerTool {
	return server.ServerTool{
		Handler: p.listPipelineJobs,
		Tool: mcpargs.NewTool("list_pipeline_jobs", listPipelineJobsArgs{},
			mcp.WithDescription("Get the jobs of a CI pipeline, including their stage, status, failure reason, and artifact names."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (p *PipelinesService) listPipelineJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listPipelineJobsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.ListJobsOptions{
		ListOptions: gitlab.ListOptions{
			Page:    1,
			PerPage: query.ClampPerPage(args.PerPage),
		},
	}

	jobs, _, err := p.client.Jobs.ListPipelineJobs(args.ProjectID.Value(), args.PipelineID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ListPipelineJobs(%q, %d): %w", args.ProjectID.Value(), args.PipelineID, err)
	}

	summaries, err := models.FromNativeList[models.JobSummary](jobs)
	if err != nil {
		return nil, fmt.Errorf("summarizing jobs: %w", err)
	}

	return newToolResultJSON(summaries)
}
