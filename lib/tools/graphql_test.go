package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gitlab.com/akervel/gitlab-mcp/lib/models"
)

// fakeExecutor records the queries it receives and replies from a canned
// script, one response per call.
type fakeExecutor struct {
	queries   []string
	variables []map[string]any
	respond   func(call int) (*models.GraphQLResponse, error)
}

func (f *fakeExecutor) Execute(_ context.Context, query string, variables map[string]any) (*models.GraphQLResponse, error) {
	f.queries = append(f.queries, query)
	f.variables = append(f.variables, variables)

	return f.respond(len(f.queries))
}

func TestExecuteGraphQL(t *testing.T) {
	executor := &fakeExecutor{
		respond: func(int) (*models.GraphQLResponse, error) {
			return &models.GraphQLResponse{
				Data: map[string]any{"currentUser": map[string]any{"username": "octocat"}},
			}, nil
		},
	}

	graphqlService := NewGraphQLTools(executor)

	result, err := callTool(t, graphqlService.ExecuteGraphQL(), "execute_graphql", map[string]any{
		"query":     "query { currentUser { username } }",
		"variables": `{"path": "group/project"}`,
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	data, ok := got["data"].(map[string]any)
	if !ok {
		t.Fatalf("data = %v, want an object", got["data"])
	}

	if _, ok := data["currentUser"]; !ok {
		t.Error("data should carry the currentUser selection")
	}

	if len(executor.variables) != 1 || executor.variables[0]["path"] != "group/project" {
		t.Errorf("variables = %v, want the parsed path variable", executor.variables)
	}
}

func TestExecuteGraphQL_invalidVariables(t *testing.T) {
	executor := &fakeExecutor{
		respond: func(int) (*models.GraphQLResponse, error) {
			t.Error("executor should not be called for malformed variables")
			return nil, nil
		},
	}

	graphqlService := NewGraphQLTools(executor)

	result, err := callTool(t, graphqlService.ExecuteGraphQL(), "execute_graphql", map[string]any{
		"query":     "query { currentUser { username } }",
		"variables": "not json",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	if !result.IsError {
		t.Error("expected a validation error result")
	}
}

func TestExecuteGraphQL_transportError(t *testing.T) {
	executor := &fakeExecutor{
		respond: func(int) (*models.GraphQLResponse, error) {
			return nil, errors.New("connection refused")
		},
	}

	graphqlService := NewGraphQLTools(executor)

	result, err := callTool(t, graphqlService.ExecuteGraphQL(), "execute_graphql", map[string]any{
		"query": "query { currentUser { username } }",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	if !result.IsError {
		t.Error("expected an error result for a failed request")
	}
}

func TestRunCommonQuery(t *testing.T) {
	executor := &fakeExecutor{
		respond: func(int) (*models.GraphQLResponse, error) {
			return &models.GraphQLResponse{
				Data: map[string]any{"currentUser": map[string]any{"username": "octocat"}},
			}, nil
		},
	}

	graphqlService := NewGraphQLTools(executor)

	result, err := callTool(t, graphqlService.RunCommonQuery(), "run_common_query", map[string]any{
		"name": "current_user",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(executor.queries) != 1 || !strings.Contains(executor.queries[0], "currentUser") {
		t.Errorf("queries = %v, want the pre-built currentUser query", executor.queries)
	}
}

func TestRunCommonQuery_unknownName(t *testing.T) {
	executor := &fakeExecutor{
		respond: func(int) (*models.GraphQLResponse, error) {
			t.Error("executor should not be called for an unknown query name")
			return nil, nil
		},
	}

	graphqlService := NewGraphQLTools(executor)

	result, err := callTool(t, graphqlService.RunCommonQuery(), "run_common_query", map[string]any{
		"name": "nope",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	if !result.IsError {
		t.Error("expected an error result for an unknown query name")
	}
}

func TestGraphQLPaginate(t *testing.T) {
	executor := &fakeExecutor{
		respond: func(call int) (*models.GraphQLResponse, error) {
			return &models.GraphQLResponse{
				Data: map[string]any{
					"pageInfo": map[string]any{
						"endCursor":   "cursor",
						"hasNextPage": call < 2,
					},
				},
			}, nil
		},
	}

	graphqlService := NewGraphQLTools(executor)

	result, err := callTool(t, graphqlService.GraphQLPaginate(), "graphql_paginate", map[string]any{
		"query": "query { pageInfo { endCursor hasNextPage } }",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["page_count"] != float64(2) {
		t.Errorf("page_count = %v, want 2", got["page_count"])
	}

	if got["complete"] != true {
		t.Errorf("complete = %v, want true", got["complete"])
	}
}
