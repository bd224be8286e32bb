// Package tools exposes GitLab resources as MCP tools. Each resource gets
// a service with an AddTo method that registers its tools with the server.
//
// Raw API objects never leave this package: every handler narrows the
// client-go response through the lib/models types so callers get compact,
// stable shapes with computed fields instead of full REST payloads.
package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/cache"
	"gitlab.com/akervel/gitlab-mcp/lib/graphql"
)

// ErrArgumentType is an error indicating that the argument provided is of an invalid type.
var ErrArgumentType = errors.New("invalid argument type")

// namespaceCacheTTL is how long namespace-existence lookups stay cached.
const namespaceCacheTTL = 5 * time.Minute

// Options control which tools are registered.
type Options struct {
	// ReadOnly skips registration of every tool that mutates state.
	ReadOnly bool

	DisableWiki     bool
	DisableReleases bool
	DisableGraphQL  bool
}

// Tools is the main entry point, holding one service per GitLab resource.
type Tools struct {
	Projects      ProjectsServiceInterface
	Issues        IssuesServiceInterface
	MergeRequests MergeRequestsServiceInterface
	Pipelines     PipelinesServiceInterface
	Repository    RepositoryServiceInterface
	Labels        LabelsServiceInterface
	Milestones    MilestonesServiceInterface
	Releases      ReleasesServiceInterface
	Wiki          WikiServiceInterface
	Namespaces    NamespacesServiceInterface
	Users         UsersServiceInterface
	Discussions   DiscussionsServiceInterface
	GraphQL       GraphQLServiceInterface

	opts Options
}

// New creates the full tool set backed by the provided clients. The
// GraphQL executor may be nil when the GraphQL tools are disabled.
func New(client *gitlab.Client, gq graphql.Executor, opts Options) *Tools {
	return &Tools{
		Projects:      NewProjectsTools(client),
		Issues:        NewIssuesTools(client),
		MergeRequests: NewMergeRequestsTools(client),
		Pipelines:     NewPipelinesTools(client),
		Repository:    NewRepositoryTools(client),
		Labels:        NewLabelsTools(client),
		Milestones:    NewMilestonesTools(client),
		Releases:      NewReleasesTools(client),
		Wiki:          NewWikiTools(client),
		Namespaces:    NewNamespacesTools(client, cache.New(namespaceCacheTTL)),
		Users:         NewUsersTools(client),
		Discussions:   NewDiscussionsTools(client),
		GraphQL:       NewGraphQLTools(gq),
		opts:          opts,
	}
}

// AddTo registers all enabled tools with the provided MCPServer.
func (s *Tools) AddTo(srv *server.MCPServer) {
	s.Projects.AddTo(srv, s.opts)
	s.Issues.AddTo(srv, s.opts)
	s.MergeRequests.AddTo(srv, s.opts)
	s.Pipelines.AddTo(srv, s.opts)
	s.Repository.AddTo(srv, s.opts)
	s.Labels.AddTo(srv, s.opts)
	s.Milestones.AddTo(srv, s.opts)
	s.Namespaces.AddTo(srv, s.opts)
	s.Users.AddTo(srv, s.opts)
	s.Discussions.AddTo(srv, s.opts)

	if !s.opts.DisableWiki {
		s.Wiki.AddTo(srv, s.opts)
	}

	if !s.opts.DisableReleases {
		s.Releases.AddTo(srv, s.opts)
	}

	if !s.opts.DisableGraphQL {
		s.GraphQL.AddTo(srv, s.opts)
	}
}

// newToolResultJSON encodes the provided value as JSON and returns it as a tool result.
func newToolResultJSON(v any) (*mcp.CallToolResult, error) {
	// A nil slice encodes as "[]" rather than "null".
	if value := reflect.ValueOf(v); value.Kind() == reflect.Slice && value.IsNil() {
		return mcp.NewToolResultText("[]"), nil
	}

	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(v); err != nil {
		return nil, fmt.Errorf("encoding to JSON: %w", err)
	}

	return mcp.NewToolResultText(b.String()), nil
}
