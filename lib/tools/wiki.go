package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
	"gitlab.com/akervel/gitlab-mcp/lib/models"
	"gitlab.com/akervel/gitlab-mcp/lib/validate"
)

// WikiServiceInterface defines the interface for wiki-related GitLab
// operations.
type WikiServiceInterface interface {
	// AddTo registers the wiki tools with the provided MCPServer,
	// honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// ListWikiPages returns a tool for listing a project's wiki pages.
	ListWikiPages() server.ServerTool

	// GetWikiPage returns a tool for fetching a single wiki page.
	GetWikiPage() server.ServerTool

	// CreateWikiPage returns a tool for creating a wiki page.
	CreateWikiPage() server.ServerTool

	// DeleteWikiPage returns a tool for deleting a wiki page.
	DeleteWikiPage() server.ServerTool
}

// NewWikiTools creates a new wiki service backed by the provided GitLab
// client.
func NewWikiTools(client *gitlab.Client) *WikiService {
	return &WikiService{client: client}
}

type WikiService struct {
	client *gitlab.Client
}

// AddTo registers the wiki tools. Mutation tools are skipped in
// read-only mode.
func (w *WikiService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(
		w.ListWikiPages(),
		w.GetWikiPage(),
	)

	if !opts.ReadOnly {
		srv.AddTools(
			w.CreateWikiPage(),
			w.DeleteWikiPage(),
		)
	}
}

type listWikiPagesArgs struct {
	ProjectID   mcpargs.ID           `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	WithContent mcpargs.OptionalBool `mcp_desc:"Include the page content in the listing"`
}

// ListWikiPages returns a ServerTool for listing a project's wiki pages.
func (w *WikiService) ListWikiPages() server.ServerTool {
	return server.ServerTool{
		Handler: w.listWikiPages,
		Tool: mcpargs.NewTool("list_wiki_pages", listWikiPagesArgs{},
			mcp.WithDescription("Get a list of a project's wiki pages"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (w *WikiService) listWikiPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listWikiPagesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.ListWikisOptions{
		WithContent: args.WithContent.Ptr(),
	}

	pages, _, err := w.client.Wikis.ListWikis(args.ProjectID.Value(), opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ListWikis(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.WikiPageSummary](pages)
	if err != nil {
		return nil, fmt.Errorf("summarizing wiki pages: %w", err)
	}

	return newToolResultJSON(summaries)
}

type getWikiPageArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Slug      string     `mcp_desc:"URL-encoded slug of the wiki page, e.g. dir%2Fpage" mcp_required:"true"`
}

// GetWikiPage returns a ServerTool for fetching a single wiki page,
// including its content.
func (w *WikiService) GetWikiPage() server.ServerTool {
	return server.ServerTool{
		Handler: w.getWikiPage,
		Tool: mcpargs.NewTool("get_wiki_page", getWikiPageArgs{},
			mcp.WithDescription("Get a single wiki page of a project, including its content"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (w *WikiService) getWikiPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getWikiPageArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	page, _, err := w.client.Wikis.GetWikiPage(args.ProjectID.Value(), args.Slug, &gitlab.GetWikiPageOptions{}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetWikiPage(%q, %q): %w", args.ProjectID.Value(), args.Slug, err)
	}

	result, err := models.FromNative[models.WikiPage](page)
	if err != nil {
		return nil, fmt.Errorf("summarizing wiki page: %w", err)
	}

	return newToolResultJSON(result)
}

type createWikiPageArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Title     string     `mcp_desc:"The title of the wiki page" mcp_required:"true"`
	Content   string     `mcp_desc:"The content of the wiki page" mcp_required:"true"`
	Format    string     `mcp_desc:"The format of the wiki page" mcp_enum:"markdown,rdoc,asciidoc,org"`
}

// CreateWikiPage returns a ServerTool for creating a wiki page.
func (w *WikiService) CreateWikiPage() server.ServerTool {
	return server.ServerTool{
		Handler: w.createWikiPage,
		Tool: mcpargs.NewTool("create_wiki_page", createWikiPageArgs{},
			mcp.WithDescription("Creates a new wiki page for a project"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (w *WikiService) createWikiPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createWikiPageArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := validate.StringLength(args.Title, 1, 255, "title"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opt := &gitlab.CreateWikiPageOptions{
		Title:   gitlab.Ptr(args.Title),
		Content: gitlab.Ptr(args.Content),
	}

	if args.Format != "" {
		format, err := validate.Format(args.Format, []string{"markdown", "rdoc", "asciidoc", "org"}, "format")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.Format = gitlab.Ptr(gitlab.WikiFormatValue(format))
	}

	page, _, err := w.client.Wikis.CreateWikiPage(args.ProjectID.Value(), opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateWikiPage(%q, %q): %w", args.ProjectID.Value(), args.Title, err)
	}

	result, err := models.FromNative[models.WikiPage](page)
	if err != nil {
		return nil, fmt.Errorf("summarizing wiki page: %w", err)
	}

	return newToolResultJSON(result)
}

type deleteWikiPageArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Slug      string     `mcp_desc:"URL-encoded slug of the wiki page to delete" mcp_required:"true"`
}

// DeleteWikiPage returns a ServerTool for deleting a wiki page.
func (w *WikiService) DeleteWikiPage() server.ServerTool {
	return server.ServerTool{
		Handler: w.deleteWikiPage,
		Tool: mcpargs.NewTool("delete_wiki_page", deleteWikiPageArgs{},
			mcp.WithDescription("Deletes a wiki page of a project"),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (w *WikiService) deleteWikiPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteWikiPageArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := w.client.Wikis.DeleteWikiPage(args.ProjectID.Value(), args.Slug, gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("DeleteWikiPage(%q, %q): %w", args.ProjectID.Value(), args.Slug, err)
	}

	return newToolResultJSON(models.WikiPageDeleteResult{Deleted: true, Slug: args.Slug})
}
