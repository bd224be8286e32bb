package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/cache"
	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
	"gitlab.com/akervel/gitlab-mcp/lib/models"
	"gitlab.com/akervel/gitlab-mcp/lib/query"
)

// NamespacesServiceInterface defines the interface for namespace-related
// GitLab operations.
type NamespacesServiceInterface interface {
	// AddTo registers the namespace tools with the provided MCPServer.
	AddTo(srv *server.MCPServer, opts Options)

	// ListNamespaces returns a tool for listing namespaces available to
	// the authenticated user.
	ListNamespaces() server.ServerTool

	// GetNamespace returns a tool for fetching a single namespace.
	GetNamespace() server.ServerTool

	// VerifyNamespace returns a tool for checking whether a namespace
	// path exists.
	VerifyNamespace() server.ServerTool
}

// NewNamespacesTools creates a new namespaces service. Existence checks
// are memoized in the provided cache.
func NewNamespacesTools(client *gitlab.Client, verified *cache.Cache) *NamespacesService {
	return &NamespacesService{client: client, verified: verified}
}

type NamespacesService struct {
	client   *gitlab.Client
	verified *cache.Cache
}

// AddTo registers the namespace tools. All namespace tools are
// read-only, so the read-only option has no effect here.
func (n *NamespacesService) AddTo(srv *server.MCPServer, _ Options) {
	srv.AddTools(
		n.ListNamespaces(),
		n.GetNamespace(),
		n.VerifyNamespace(),
	)
}

type listNamespacesArgs struct {
	Search    string `mcp_desc:"Filter namespaces by a search term matched against path and name"`
	OwnedOnly bool   `mcp_desc:"Only return namespaces owned by the authenticated user"`
	PerPage   int    `mcp_desc:"Number of namespaces to return, between 1 and 100. Defaults to 20."`
}

// ListNamespaces returns a ServerTool for listing the namespaces the
// authenticated user has access to.
func (n *NamespacesService) ListNamespaces() server.ServerTool {
	return server.ServerTool{
		Handler: n.listNamespaces,
		Tool: mcpargs.NewTool("list_namespaces", listNamespacesArgs{},
			mcp.WithDescription("Get a list of the namespaces of the authenticated user"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (n *NamespacesService) listNamespaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listNamespacesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListNamespacesOptions{}
	if args.Search != "" {
		opt.Search = gitlab.Ptr(args.Search)
	}
	if args.OwnedOnly {
		opt.OwnedOnly = gitlab.Ptr(true)
	}

	setPage := func(opts *gitlab.ListNamespacesOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	namespaces, err := query.SinglePageN(ctx, args.PerPage, n.client.Namespaces.ListNamespaces, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListNamespaces: %w", err)
	}

	summaries, err := models.FromNativeList[models.NamespaceSummary](namespaces)
	if err != nil {
		return nil, fmt.Errorf("summarizing namespaces: %w", err)
	}

	return newToolResultJSON(summaries)
}

type getNamespaceArgs struct {
	NamespaceID mcpargs.ID `mcp_desc:"ID or URL-encoded path of the namespace" mcp_required:"true"`
}

// GetNamespace returns a ServerTool for fetching a single namespace by
// ID or path.
func (n *NamespacesService) GetNamespace() server.ServerTool {
	return server.ServerTool{
		Handler: n.getNamespace,
		Tool: mcpargs.NewTool("get_namespace", getNamespaceArgs{},
			mcp.WithDescription("Get a single namespace by its ID or path"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (n *NamespacesService) getNamespace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getNamespaceArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	namespace, _, err := n.client.Namespaces.GetNamespace(args.NamespaceID.Value(), gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetNamespace(%q): %w", args.NamespaceID.Value(), err)
	}

	summary, err := models.FromNative[models.NamespaceSummary](namespace)
	if err != nil {
		return nil, fmt.Errorf("summarizing namespace: %w", err)
	}

	return newToolResultJSON(summary)
}

type verifyNamespaceArgs struct {
	Path string `mcp_desc:"The namespace path to check, e.g. a username or group/subgroup path" mcp_required:"true"`
}

// VerifyNamespace returns a ServerTool for checking whether a namespace
// path exists. Results are cached for a few minutes since namespaces
// change rarely and agents tend to re-check the same paths.
func (n *NamespacesService) VerifyNamespace() server.ServerTool {
	return server.ServerTool{
		Handler: n.verifyNamespace,
		Tool: mcpargs.NewTool("verify_namespace", verifyNamespaceArgs{},
			mcp.WithDescription("Check whether a namespace path exists and what it resolves to"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (n *NamespacesService) verifyNamespace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args verifyNamespaceArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	key := cache.Key("verify_namespace", args.Path)

	result, err := n.verified.Do(key, func() (any, error) {
		return n.lookupNamespace(ctx, args.Path)
	})
	if err != nil {
		return nil, fmt.Errorf("VerifyNamespace(%q): %w", args.Path, err)
	}

	return newToolResultJSON(result)
}

// lookupNamespace resolves a path to a verification result. A 404 is a
// negative result, not an error, so it is cached like a positive one.
func (n *NamespacesService) lookupNamespace(ctx context.Context, path string) (models.NamespaceVerification, error) {
	namespace, resp, err := n.client.Namespaces.GetNamespace(path, gitlab.WithContext(ctx))
	if err != nil {
		if isNotFound(err, resp) {
			return models.NamespaceVerification{Exists: false, Path: path}, nil
		}

		return models.NamespaceVerification{}, err
	}

	summary, err := models.FromNative[models.NamespaceSummary](namespace)
	if err != nil {
		return models.NamespaceVerification{}, err
	}

	return models.NamespaceVerification{
		Exists:    true,
		Path:      path,
		Namespace: &summary,
	}, nil
}

func isNotFound(err error, resp *gitlab.Response) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}

	var glerr *gitlab.ErrorResponse
	return errors.As(err, &glerr) && glerr.Response != nil && glerr.Response.StatusCode == http.StatusNotFound
}
