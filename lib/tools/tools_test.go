package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/mcptest"
	"github.com/mark3labs/mcp-go/server"
)

// callTool runs a single tool through an in-process MCP server and returns
// the raw result.
func callTool(t *testing.T, tool server.ServerTool, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()

	srv, err := mcptest.NewServer(t, tool)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	defer srv.Close()

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	return srv.Client().CallTool(t.Context(), req)
}

func unmarshalResult(res *mcp.CallToolResult, v any) error {
	s, err := resultToString(res)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

func resultToString(res *mcp.CallToolResult) (string, error) {
	var b strings.Builder

	for _, c := range res.Content {
		tc, ok := mcp.AsTextContent(c)
		if !ok {
			return "", fmt.Errorf("content is not text: %T", c)
		}

		b.WriteString(tc.Text)
	}

	return b.String(), nil
}
