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
)

// UsersServiceInterface defines the interface for user-related GitLab
// operations.
type UsersServiceInterface interface {
	// AddTo registers the user tools with the provided MCPServer.
	AddTo(srv *server.MCPServer, opts Options)

	// GetUser returns a tool for looking up a user by ID or username.
	GetUser() server.ServerTool

	// ListUserEvents returns a tool for listing a user's contribution
	// events.
	ListUserEvents() server.ServerTool
}

// NewUsersTools creates a new users service backed by the provided
// GitLab client.
func NewUsersTools(client *gitlab.Client) *UsersService {
	return &UsersService{client: client}
}

type UsersService struct {
	client *gitlab.Client
}

// AddTo registers the user tools. All user tools are read-only, so the
// read-only option has no effect here.
func (u *UsersService) AddTo(srv *server.MCPServer, _ Options) {
	srv.AddTools(
		u.GetUser(),
		u.ListUserEvents(),
	)
}

type getUserArgs struct {
	UserID mcpargs.ID `mcp_desc:"Numeric user ID or username" mcp_required:"true"`
}

// GetUser returns a ServerTool for looking up a single user by numeric
// ID or username.
func (u *UsersService) GetUser() server.ServerTool {
	return server.ServerTool{
		Handler: u.getUser,
		Tool: mcpargs.NewTool("get_user", getUserArgs{},
			mcp.WithDescription("Get a single user by numeric ID or username"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (u *UsersService) getUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getUserArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	user, err := u.lookupUser(ctx, args.UserID)
	if err != nil {
		return nil, err
	}

	summary, err := models.FromNative[models.UserSummary](user)
	if err != nil {
		return nil, fmt.Errorf("summarizing user: %w", err)
	}

	return newToolResultJSON(summary)
}

// lookupUser resolves an ID to a user record. Usernames go through the
// list endpoint since the REST API has no direct by-username lookup.
func (u *UsersService) lookupUser(ctx context.Context, id mcpargs.ID) (*gitlab.User, error) {
	if id.Integer != 0 {
		user, _, err := u.client.Users.GetUser(id.Integer, gitlab.GetUsersOptions{}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("GetUser(%d): %w", id.Integer, err)
		}

		return user, nil
	}

	username := strings.TrimPrefix(id.String, "@")

	users, _, err := u.client.Users.ListUsers(&gitlab.ListUsersOptions{
		Username: gitlab.Ptr(username),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ListUsers(username=%q): %w", username, err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no user with username %q", username)
	}

	return users[0], nil
}

type listUserEventsArgs struct {
	UserID  mcpargs.ID `mcp_desc:"Numeric user ID or username" mcp_required:"true"`
	Action  string     `mcp_desc:"Only return events of this action type, e.g. pushed, commented, merged"`
	After   string     `mcp_desc:"Only return events created after this date (YYYY-MM-DD)"`
	Before  string     `mcp_desc:"Only return events created before this date (YYYY-MM-DD)"`
	PerPage int        `mcp_desc:"Number of events to return, between 1 and 100. Defaults to 20."`
}

// ListUserEvents returns a ServerTool for listing a user's contribution
// events, most recent first.
func (u *UsersService) ListUserEvents() server.ServerTool {
	return server.ServerTool{
		Handler: u.listUserEvents,
		Tool: mcpargs.NewTool("list_user_events", listUserEventsArgs{},
			mcp.WithDescription("Get the contribution events of a user, most recent first"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (u *UsersService) listUserEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listUserEventsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListContributionEventsOptions{}

	if args.Action != "" {
		opt.Action = gitlab.Ptr(gitlab.EventTypeValue(args.Action))
	}

	if args.After != "" {
		after, err := gitlab.ParseISOTime(args.After)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.After = &after
	}

	if args.Before != "" {
		before, err := gitlab.ParseISOTime(args.Before)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.Before = &before
	}

	setPage := func(opts *gitlab.ListContributionEventsOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	events, err := query.SinglePageWithID(ctx, args.UserID.Value(), args.PerPage, u.client.Users.ListUserContributionEvents, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListUserContributionEvents(%q): %w", args.UserID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.EventSummary](events)
	if err != nil {
		return nil, fmt.Errorf("summarizing events: %w", err)
	}

	return newToolResultJSON(summaries)
}
