package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gitlab.com/akervel/gitlab-mcp/lib/graphql"
	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
)

// GraphQLServiceInterface defines the interface for raw GraphQL access to
// GitLab.
type GraphQLServiceInterface interface {
	// AddTo registers the GraphQL tools with the provided MCPServer.
	AddTo(srv *server.MCPServer, opts Options)

	// ExecuteGraphQL returns a tool for running a single GraphQL query.
	ExecuteGraphQL() server.ServerTool

	// RunCommonQuery returns a tool for running one of the pre-built
	// queries by name.
	RunCommonQuery() server.ServerTool

	// GraphQLPaginate returns a tool for running a cursor-paginated
	// GraphQL query to completion.
	GraphQLPaginate() server.ServerTool
}

// NewGraphQLTools creates a new GraphQL service backed by the provided
// executor.
func NewGraphQLTools(gq graphql.Executor) *GraphQLService {
	return &GraphQLService{gq: gq}
}

type GraphQLService struct {
	gq graphql.Executor
}

// AddTo registers the GraphQL tools. All of them only read data, so the
// read-only option has no effect here.
func (g *GraphQLService) AddTo(srv *server.MCPServer, _ Options) {
	srv.AddTools(
		g.ExecuteGraphQL(),
		g.RunCommonQuery(),
		g.GraphQLPaginate(),
	)
}

type executeGraphQLArgs struct {
	Query     string `mcp_desc:"The GraphQL query or mutation to execute" mcp_required:"true"`
	Variables string `mcp_desc:"Query variables as a JSON object, e.g. {\"path\": \"group/project\"}"`
}

// ExecuteGraphQL returns a ServerTool for running a single GraphQL query
// against the GitLab API.
func (g *GraphQLService) ExecuteGraphQL() server.ServerTool {
	return server.ServerTool{
		Handler: g.executeGraphQL,
		Tool: mcpargs.NewTool("execute_graphql", executeGraphQLArgs{},
			mcp.WithDescription("Execute a GraphQL query against the GitLab API"),
		),
	}
}

func (g *GraphQLService) executeGraphQL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args executeGraphQLArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	variables, err := parseVariables(args.Variables)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := g.gq.Execute(ctx, args.Query, variables)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return newToolResultJSON(resp)
}

type runCommonQueryArgs struct {
	Name      string `mcp_desc:"Name of the pre-built query" mcp_required:"true" mcp_enum:"current_user,project_details,merge_request_details,issue_details,pipeline_status"`
	Variables string `mcp_desc:"Query variables as a JSON object. project_details takes {\"path\"}; the *_details queries take {\"projectPath\", \"iid\"}."`
}

// RunCommonQuery returns a ServerTool for running one of the pre-built
// GraphQL queries by name.
func (g *GraphQLService) RunCommonQuery() server.ServerTool {
	return server.ServerTool{
		Handler: g.runCommonQuery,
		Tool: mcpargs.NewTool("run_common_query", runCommonQueryArgs{},
			mcp.WithDescription("Run one of the pre-built GraphQL queries for frequent lookups"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (g *GraphQLService) runCommonQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args runCommonQueryArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	query, err := graphql.CommonQuery(args.Name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	variables, err := parseVariables(args.Variables)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := g.gq.Execute(ctx, query, variables)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return newToolResultJSON(resp)
}

type graphqlPaginateArgs struct {
	Query          string `mcp_desc:"The GraphQL query to paginate. It must select the cursor and has-next fields named below." mcp_required:"true"`
	Variables      string `mcp_desc:"Initial query variables as a JSON object"`
	CursorPath     string `mcp_desc:"Dot-separated path to the end cursor inside the response data, e.g. project.issues.pageInfo.endCursor. Defaults to pageInfo.endCursor."`
	HasNextPath    string `mcp_desc:"Dot-separated path to the has-next flag inside the response data. Defaults to pageInfo.hasNextPage."`
	CursorVariable string `mcp_desc:"Variable name the cursor is passed back through. Defaults to after."`
	MaxPages       int    `mcp_desc:"Maximum number of pages to fetch. Defaults to 10."`
}

// GraphQLPaginate returns a ServerTool for running a cursor-paginated
// GraphQL query, accumulating pages up to a cap.
func (g *GraphQLService) GraphQLPaginate() server.ServerTool {
	return server.ServerTool{
		Handler: g.graphqlPaginate,
		Tool: mcpargs.NewTool("graphql_paginate", graphqlPaginateArgs{},
			mcp.WithDescription("Execute a GraphQL query repeatedly, following its pagination cursor, and return all pages"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (g *GraphQLService) graphqlPaginate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args graphqlPaginateArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	variables, err := parseVariables(args.Variables)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := graphql.Paginate(ctx, g.gq, args.Query, variables, graphql.PaginateOptions{
		CursorPath:     args.CursorPath,
		HasNextPath:    args.HasNextPath,
		CursorVariable: args.CursorVariable,
		MaxPages:       args.MaxPages,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return newToolResultJSON(result)
}

func parseVariables(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}

	var variables map[string]any
	if err := json.Unmarshal([]byte(raw), &variables); err != nil {
		return nil, fmt.Errorf("variables must be a JSON object: %w", err)
	}

	return variables, nil
}
