package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
	"gitlab.com/akervel/gitlab-mcp/lib/models"
	"gitlab.com/akervel/gitlab-mcp/lib/query"
	"gitlab.com/akervel/gitlab-mcp/lib/validate"
)

// IssuesServiceInterface defines the interface for issue-related GitLab operations.
type IssuesServiceInterface interface {
	// AddTo registers the issue tools with the provided MCPServer,
	// honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// GetIssue returns a tool for fetching a single issue.
	GetIssue() server.ServerTool

	// ListProjectIssues returns a tool for listing a project's issues.
	ListProjectIssues() server.ServerTool

	// CreateIssue returns a tool for creating a new issue.
	CreateIssue() server.ServerTool

	// UpdateIssue returns a tool for updating an existing issue.
	UpdateIssue() server.ServerTool

	// DeleteIssue returns a tool for deleting an issue.
	DeleteIssue() server.ServerTool

	// GetIssueTimeStats returns a tool for fetching time tracking stats.
	GetIssueTimeStats() server.ServerTool

	// AddTimeSpent returns a tool for logging spent time on an issue.
	AddTimeSpent() server.ServerTool

	// ListRelatedMergeRequests returns a tool for listing merge requests
	// that reference an issue.
	ListRelatedMergeRequests() server.ServerTool

	// ListIssueLinks returns a tool for listing issues linked to an issue.
	ListIssueLinks() server.ServerTool

	// CreateIssueLink returns a tool for linking two issues.
	CreateIssueLink() server.ServerTool

	// DeleteIssueLink returns a tool for removing a link between issues.
	DeleteIssueLink() server.ServerTool
}

// NewIssuesTools creates a new issues service backed by the provided
// GitLab client.
func NewIssuesTools(client *gitlab.Client) *IssuesService {
	return &IssuesService{client: client}
}

type IssuesService struct {
	client *gitlab.Client
}

// AddTo registers the issue tools. Mutation tools are skipped in
// read-only mode.
func (i *IssuesService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(
		i.GetIssue(),
		i.ListProjectIssues(),
		i.GetIssueTimeStats(),
		i.ListRelatedMergeRequests(),
		i.ListIssueLinks(),
	)

	if !opts.ReadOnly {
		srv.AddTools(
			i.CreateIssue(),
			i.UpdateIssue(),
			i.DeleteIssue(),
			i.AddTimeSpent(),
			i.CreateIssueLink(),
			i.DeleteIssueLink(),
		)
	}
}

type getIssueArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID  int        `mcp_desc:"The internal ID of the project issue" mcp_required:"true"`
}

// GetIssue returns a ServerTool for fetching a single issue by IID.
func (i *IssuesService) GetIssue() server.ServerTool {
	return server.ServerTool{
		Handler: i.getIssue,
		Tool: mcpargs.NewTool("get_issue", getIssueArgs{},
			mcp.WithDescription("Get a single project issue as a compact summary, including assignees, labels, time tracking, and the number of related merge requests."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (i *IssuesService) getIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getIssueArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	issue, _, err := i.client.Issues.GetIssue(args.ProjectID.Value(), args.IssueIID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetIssue(%q, %d): %w", args.ProjectID.Value(), args.IssueIID, err)
	}

	summary, err := models.FromNative[models.IssueSummary](issue)
	if err != nil {
		return nil, fmt.Errorf("summarizing issue %d: %w", args.IssueIID, err)
	}

	summary.RelatedMRsCount = issue.MergeRequestCount

	return newToolResultJSON(summary)
}

type listProjectIssuesArgs struct {
	ProjectID     mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	State         string     `mcp_desc:"Filter issues by state, with 'all' returning closed and opened issues. Defaults to 'opened'." mcp_enum:"all,opened,closed"`
	Labels        string     `mcp_desc:"Comma-separated list of label names to filter by"`
	Milestone     string     `mcp_desc:"The milestone title to filter by"`
	Author        mcpargs.ID `mcp_desc:"Filter by author ID or username"`
	Assignee      mcpargs.ID `mcp_desc:"Filter by assignee ID or username"`
	Search        string     `mcp_desc:"Search issues against their title and description"`
	CreatedAfter  string     `mcp_desc:"Return issues created on or after the given time (format: RFC3339 or '2006-01-02 15:04:05')"`
	CreatedBefore string     `mcp_desc:"Return issues created on or before the given time (format: RFC3339 or '2006-01-02 15:04:05')"`
	UpdatedAfter  string     `mcp_desc:"Return issues updated on or after the given time (format: RFC3339 or '2006-01-02 15:04:05')"`
	UpdatedBefore string     `mcp_desc:"Return issues updated on or before the given time (format: RFC3339 or '2006-01-02 15:04:05')"`
	OrderBy       string     `mcp_desc:"Sort issues by the selected field" mcp_enum:"created_at,due_date,label_priority,milestone_due,popularity,priority,relative_position,title,updated_at,weight"`
	SortOrder     string     `mcp_desc:"Sort order to use. Default is 'desc'" mcp_enum:"asc,desc"`
	PerPage       int        `mcp_desc:"Number of issues to return, between 1 and 100. Defaults to 20."`
}

// ListProjectIssues returns a ServerTool for listing a project's issues.
// Results are a single page; callers refine filters rather than paging.
func (i *IssuesService) ListProjectIssues() server.ServerTool {
	return server.ServerTool{
		Handler: i.listProjectIssues,
		Tool: mcpargs.NewTool("list_project_issues", listProjectIssuesArgs{},
			mcp.WithDescription("Get a list of a project's issues as compact summaries"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (i *IssuesService) listProjectIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listProjectIssuesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt, err := listProjectIssuesOptions(args)
	if err != nil {
		return nil, fmt.Errorf("invalid filter options: %w", err)
	}

	setPage := func(opts *gitlab.ListProjectIssuesOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	issues, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, i.client.Issues.ListProjectIssues, *opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListProjectIssues(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.IssueSummary](issues)
	if err != nil {
		return nil, fmt.Errorf("summarizing issues: %w", err)
	}

	return newToolResultJSON(summaries)
}

// listProjectIssuesOptions builds GitLab API options from the list arguments.
func listProjectIssuesOptions(args listProjectIssuesArgs) (*gitlab.ListProjectIssuesOptions, error) {
	opt := &gitlab.ListProjectIssuesOptions{}

	state := args.State
	if state == "" {
		state = "opened"
	}

	state, err := validate.State(state)
	if err != nil {
		return nil, err
	}

	if state != "all" {
		opt.State = gitlab.Ptr(state)
	}

	opt.Labels = newLabelOptions(args.Labels)

	if args.Milestone != "" {
		opt.Milestone = gitlab.Ptr(args.Milestone)
	}

	switch {
	case args.Author.Integer != 0:
		opt.AuthorID = gitlab.Ptr(args.Author.Integer)
	case args.Author.String != "":
		opt.AuthorUsername = gitlab.Ptr(args.Author.String)
	}

	switch {
	case args.Assignee.Integer != 0:
		opt.AssigneeID = gitlab.Ptr(args.Assignee.Integer)
	case args.Assignee.String != "":
		opt.AssigneeUsername = gitlab.Ptr(args.Assignee.String)
	}

	if args.Search != "" {
		opt.Search = gitlab.Ptr(args.Search)
	}

	if opt.CreatedAfter, err = parseTime(args.CreatedAfter); err != nil {
		return nil, fmt.Errorf("invalid created_after date: %w", err)
	}

	if opt.CreatedBefore, err = parseTime(args.CreatedBefore); err != nil {
		return nil, fmt.Errorf("invalid created_before date: %w", err)
	}

	if opt.UpdatedAfter, err = parseTime(args.UpdatedAfter); err != nil {
		return nil, fmt.Errorf("invalid updated_after date: %w", err)
	}

	if opt.UpdatedBefore, err = parseTime(args.UpdatedBefore); err != nil {
		return nil, fmt.Errorf("invalid updated_before date: %w", err)
	}

	sortParams, err := query.BuildSort(args.OrderBy, args.SortOrder)
	if err != nil {
		return nil, err
	}

	if orderBy, ok := sortParams["order_by"].(string); ok {
		opt.OrderBy = gitlab.Ptr(orderBy)
		opt.Sort = gitlab.Ptr(sortParams["sort"].(string))
	}

	return opt, nil
}

var errParseTime = errors.New("parsing string as time failed")

// parseTime parses a time string in one of three formats: RFC3339,
// DateTime, or DateOnly. An empty string yields a nil pointer.
func parseTime(timeStr string) (*time.Time, error) {
	if timeStr == "" {
		return nil, nil
	}

	for _, format := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		t, err := time.ParseInLocation(format, timeStr, time.Local) //nolint:gosmopolitan
		if err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("timeStr = %q: %w", timeStr, errParseTime)
}

type createIssueArgs struct {
	ProjectID    mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Title        string     `mcp_desc:"The title of the issue to create" mcp_required:"true"`
	Description  string     `mcp_desc:"The description of the issue in GitLab Flavored Markdown"`
	AssigneeIDs  string     `mcp_desc:"Comma-separated list of user IDs to assign the issue to"`
	MilestoneID  int        `mcp_desc:"The ID of a milestone to assign the issue to"`
	Labels       string     `mcp_desc:"Comma-separated label names to assign to the new issue"`
	Confidential bool       `mcp_desc:"Set to true to make the issue confidential"`
	DueDate      string     `mcp_desc:"Due date in YYYY-MM-DD format"`
}

// CreateIssue returns a ServerTool for creating a new issue.
func (i *IssuesService) CreateIssue() server.ServerTool {
	return server.ServerTool{
		Handler: i.createIssue,
		Tool: mcpargs.NewTool("create_issue", createIssueArgs{},
			mcp.WithDescription("Creates a new GitLab issue"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (i *IssuesService) createIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createIssueArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := validate.StringLength(args.Title, 1, 255, "title"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opt := &gitlab.CreateIssueOptions{
		Title: gitlab.Ptr(args.Title),
	}

	if args.Description != "" {
		opt.Description = gitlab.Ptr(args.Description)
	}

	if args.MilestoneID != 0 {
		opt.MilestoneID = gitlab.Ptr(args.MilestoneID)
	}

	if args.DueDate != "" {
		date, err := validate.Date(args.DueDate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		t, _ := time.Parse(time.DateOnly, date)
		opt.DueDate = gitlab.Ptr(gitlab.ISOTime(t))
	}

	opt.AssigneeIDs = parseUserIDs(args.AssigneeIDs)
	opt.Labels = newLabelOptions(args.Labels)

	if _, ok := request.GetArguments()["confidential"]; ok {
		opt.Confidential = gitlab.Ptr(args.Confidential)
	}

	issue, _, err := i.client.Issues.CreateIssue(args.ProjectID.Value(), opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateIssue(%q): %w", args.ProjectID.Value(), err)
	}

	summary, err := models.FromNative[models.IssueSummary](issue)
	if err != nil {
		return nil, fmt.Errorf("summarizing issue: %w", err)
	}

	return newToolResultJSON(summary)
}

type updateIssueArgs struct {
	ProjectID    mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID     int        `mcp_desc:"The internal ID of the project issue" mcp_required:"true"`
	Title        string     `mcp_desc:"Changes the title of the issue"`
	Description  string     `mcp_desc:"Changes the description of the issue. The description uses GitLab Flavored Markdown"`
	AssigneeIDs  string     `mcp_desc:"Comma-separated list of user IDs to assign the issue to. Pass a single hyphen ('-') to clear all assignees. Omit the parameter to leave assignees unchanged"`
	MilestoneID  int        `mcp_desc:"The ID of a milestone to assign the issue to. Set to 0 to remove the milestone"`
	AddLabels    string     `mcp_desc:"Comma-separated label names to add to the issue"`
	RemoveLabels string     `mcp_desc:"Comma-separated label names to remove from the issue"`
	StateEvent   string     `mcp_desc:"Use 'close' to close the issue or 'reopen' to reopen a closed issue. Omit to keep the issue state unchanged" mcp_enum:"close,reopen"`
}

// UpdateIssue returns a ServerTool for updating an existing issue.
func (i *IssuesService) UpdateIssue() server.ServerTool {
	return server.ServerTool{
		Handler: i.updateIssue,
		Tool: mcpargs.NewTool("update_issue", updateIssueArgs{},
			mcp.WithDescription("Updates an existing GitLab issue: title, description, labels, assignees, milestone, and open/closed state."),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (i *IssuesService) updateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateIssueArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.UpdateIssueOptions{}

	if args.Title != "" {
		opt.Title = gitlab.Ptr(args.Title)
	}

	if args.Description != "" {
		opt.Description = gitlab.Ptr(args.Description)
	}

	if args.StateEvent != "" {
		opt.StateEvent = gitlab.Ptr(args.StateEvent)
	}

	if args.MilestoneID != 0 {
		opt.MilestoneID = gitlab.Ptr(args.MilestoneID)
	}

	opt.AssigneeIDs = parseUserIDs(args.AssigneeIDs)
	opt.AddLabels = newLabelOptions(args.AddLabels)
	opt.RemoveLabels = newLabelOptions(args.RemoveLabels)

	issue, _, err := i.client.Issues.UpdateIssue(args.ProjectID.Value(), args.IssueIID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("UpdateIssue(%q, %d): %w", args.ProjectID.Value(), args.IssueIID, err)
	}

	summary, err := models.FromNative[models.IssueSummary](issue)
	if err != nil {
		return nil, fmt.Errorf("summarizing issue %d: %w", args.IssueIID, err)
	}

	return newToolResultJSON(summary)
}

type issueTimeStatsArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID  int        `mcp_desc:"The internal ID of the project issue" mcp_required:"true"`
}

// GetIssueTimeStats returns a ServerTool for fetching an issue's time
// tracking stats.
func (i *IssuesService) GetIssueTimeStats() server.ServerTool {
	return server.ServerTool{
		Handler: i.getIssueTimeStats,
		Tool: mcpargs.NewTool("get_issue_time_stats", issueTimeStatsArgs{},
			mcp.WithDescription("Get time tracking statistics for an issue, with human-readable estimate and spent durations."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (i *IssuesService) getIssueTimeStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args issueTimeStatsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	stats, _, err := i.client.Issues.GetTimeSpent(args.ProjectID.Value(), args.IssueIID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetTimeSpent(%q, %d): %w", args.ProjectID.Value(), args.IssueIID, err)
	}

	out, err := models.FromNative[models.TimeStats](stats)
	if err != nil {
		return nil, fmt.Errorf("summarizing time stats: %w", err)
	}

	return newToolResultJSON(out)
}

type relatedMergeRequestsArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID  int        `mcp_desc:"The internal ID of the project issue" mcp_required:"true"`
}

// ListRelatedMergeRequests returns a ServerTool for listing merge
// requests that reference an issue.
func (i *IssuesService) ListRelatedMergeRequests() server.ServerTool {
	return server.ServerTool{
		Handler: i.listRelatedMergeRequests,
		Tool: mcpargs.NewTool("list_related_merge_requests", relatedMergeRequestsArgs{},
			mcp.WithDescription("Get all merge requests that are related to the specified issue"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (i *IssuesService) listRelatedMergeRequests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args relatedMergeRequestsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListMergeRequestsRelatedToIssueOptions{
		Page:    1,
		PerPage: query.MaxPerPage,
	}

	mrs, _, err := i.client.Issues.ListMergeRequestsRelatedToIssue(args.ProjectID.Value(), args.IssueIID, &opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ListMergeRequestsRelatedToIssue(%q, %d): %w", args.ProjectID.Value(), args.IssueIID, err)
	}

	summaries, err := models.FromNativeList[models.RelatedMergeRequest](mrs)
	if err != nil {
		return nil, fmt.Errorf("summarizing merge requests: %w", err)
	}

	return newToolResultJSON(summaries)
}

type deleteIssueArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID  int        `mcp_desc:"The internal ID of the project issue" mcp_required:"true"`
}

// DeleteIssue returns a ServerTool for deleting an issue.
func (i *IssuesService) DeleteIssue() server.ServerTool {
	return server.ServerTool{
		Handler: i.deleteIssue,
		Tool: mcpargs.NewTool("delete_issue", deleteIssueArgs{},
			mcp.WithDescription("Deletes a project issue. Only for users with admin or project owner rights."),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (i *IssuesService) deleteIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteIssueArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := i.client.Issues.DeleteIssue(args.ProjectID.Value(), args.IssueIID, gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("DeleteIssue(%q, %d): %w", args.ProjectID.Value(), args.IssueIID, err)
	}

	return newToolResultJSON(models.IssueDeleteResult{Deleted: true, IssueIID: args.IssueIID})
}

type addTimeSpentArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID  int        `mcp_desc:"The internal ID of the project issue" mcp_required:"true"`
	Duration  string     `mcp_desc:"Time spent in GitLab duration format, e.g. 1h30m or 3d" mcp_required:"true"`
}

// AddTimeSpent returns a ServerTool for logging time spent on an issue.
func (i *IssuesService) AddTimeSpent() server.ServerTool {
	return server.ServerTool{
		Handler: i.addTimeSpent,
		Tool: mcpargs.NewTool("add_issue_time_spent", addTimeSpentArgs{},
			mcp.WithDescription("Adds spent time to an issue's time tracking"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
		),
	}
}

func (i *IssuesService) addTimeSpent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addTimeSpentArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if args.Duration == "" {
		return mcp.NewToolResultError("duration cannot be empty"), nil
	}

	opt := &gitlab.AddSpentTimeOptions{
		Duration: gitlab.Ptr(args.Duration),
	}

	stats, _, err := i.client.Issues.AddSpentTime(args.ProjectID.Value(), args.IssueIID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("AddSpentTime(%q, %d): %w", args.ProjectID.Value(), args.IssueIID, err)
	}

	return newToolResultJSON(models.IssueTimeAddResult{
		Status:         "success",
		Duration:       args.Duration,
		IssueIID:       args.IssueIID,
		TotalTimeSpent: stats.TotalTimeSpent,
	})
}

type listIssueLinksArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID  int        `mcp_desc:"The internal ID of the project issue" mcp_required:"true"`
}

// ListIssueLinks returns a ServerTool for listing the issues linked to an
// issue.
func (i *IssuesService) ListIssueLinks() server.ServerTool {
	return server.ServerTool{
		Handler: i.listIssueLinks,
		Tool: mcpargs.NewTool("list_issue_links", listIssueLinksArgs{},
			mcp.WithDescription("Get the issues related to the specified issue"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (i *IssuesService) listIssueLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listIssueLinksArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	relations, _, err := i.client.IssueLinks.ListIssueRelations(args.ProjectID.Value(), args.IssueIID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ListIssueRelations(%q, %d): %w", args.ProjectID.Value(), args.IssueIID, err)
	}

	summaries, err := models.FromNativeList[models.IssueSummary](relations)
	if err != nil {
		return nil, fmt.Errorf("summarizing related issues: %w", err)
	}

	return newToolResultJSON(summaries)
}

type createIssueLinkArgs struct {
	ProjectID       mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID        int        `mcp_desc:"The internal ID of the source issue" mcp_required:"true"`
	TargetProjectID mcpargs.ID `mcp_desc:"ID of the project the target issue belongs to" mcp_required:"true"`
	TargetIssueIID  int        `mcp_desc:"The internal ID of the target issue" mcp_required:"true"`
	LinkType        string     `mcp_desc:"The type of the link. Defaults to relates_to." mcp_enum:"relates_to,blocks,is_blocked_by"`
}

// CreateIssueLink returns a ServerTool for linking two issues.
func (i *IssuesService) CreateIssueLink() server.ServerTool {
	return server.ServerTool{
		Handler: i.createIssueLink,
		Tool: mcpargs.NewTool("create_issue_link", createIssueLinkArgs{},
			mcp.WithDescription("Creates a relation between two issues"),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (i *IssuesService) createIssueLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createIssueLinkArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.CreateIssueLinkOptions{
		TargetProjectID: gitlab.Ptr(fmt.Sprintf("%v", args.TargetProjectID.Value())),
		TargetIssueIID:  gitlab.Ptr(strconv.Itoa(args.TargetIssueIID)),
	}

	if args.LinkType != "" {
		linkType, err := validate.Format(args.LinkType, []string{"relates_to", "blocks", "is_blocked_by"}, "link_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opt.LinkType = gitlab.Ptr(linkType)
	}

	link, _, err := i.client.IssueLinks.CreateIssueLink(args.ProjectID.Value(), args.IssueIID, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateIssueLink(%q, %d): %w", args.ProjectID.Value(), args.IssueIID, err)
	}

	result, err := models.FromNative[models.IssueLink](link)
	if err != nil {
		return nil, fmt.Errorf("summarizing issue link: %w", err)
	}

	return newToolResultJSON(result)
}

type deleteIssueLinkArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	IssueIID  int        `mcp_desc:"The internal ID of the source issue" mcp_required:"true"`
	LinkID    int        `mcp_desc:"The ID of the issue link to remove" mcp_required:"true"`
}

// DeleteIssueLink returns a ServerTool for removing a relation between
// issues.
func (i *IssuesService) DeleteIssueLink() server.ServerTool {
	return server.ServerTool{
		Handler: i.deleteIssueLink,
		Tool: mcpargs.NewTool("delete_issue_link", deleteIssueLinkArgs{},
			mcp.WithDescription("Removes a relation between two issues"),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (i *IssuesService) deleteIssueLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteIssueLinkArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, _, err := i.client.IssueLinks.DeleteIssueLink(args.ProjectID.Value(), args.IssueIID, args.LinkID, gitlab.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("DeleteIssueLink(%q, %d, %d): %w", args.ProjectID.Value(), args.IssueIID, args.LinkID, err)
	}

	return newToolResultJSON(models.IssueLinkDeleteResult{
		Deleted:  true,
		LinkID:   args.LinkID,
		IssueIID: args.IssueIID,
	})
}

// parseUserIDs parses a comma-separated string of user IDs.
// Returns nil for "no change to assignees" and an empty slice for "clear assignees field".
func parseUserIDs(s string) *[]int {
	if s == "" {
		return nil
	}

	if s == "-" {
		clearAll := []int{}
		return &clearAll
	}

	var userIDs []int

	for _, idStr := range strings.Split(s, ",") {
		idStr = strings.TrimSpace(idStr)

		id, err := strconv.Atoi(idStr)
		if err != nil {
			logrus.WithField("user_id", idStr).Warn("skipping invalid user ID")
			continue
		}

		userIDs = append(userIDs, id)
	}

	if len(userIDs) == 0 {
		return nil
	}

	return &userIDs
}

// newLabelOptions converts a comma-separated string of label names into an array of LabelOptions.
// Returns nil if the labels string is empty.
func newLabelOptions(labels string) *gitlab.LabelOptions {
	if labels == "" {
		return nil
	}

	var labelOpts gitlab.LabelOptions

	for _, label := range strings.Split(labels, ",") {
		label = strings.TrimSpace(label)

		if label != "" {
			labelOpts = append(labelOpts, label)
		}
	}

	if len(labelOpts) == 0 {
		return nil
	}

	return &labelOpts
}
