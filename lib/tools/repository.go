package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"gitlab.com/akervel/gitlab-mcp/lib/mcpargs"
	"gitlab.com/akervel/gitlab-mcp/lib/models"
	"gitlab.com/akervel/gitlab-mcp/lib/query"
)

// RepositoryServiceInterface defines the interface for repository-related
// GitLab operations: files, commits, branches, and comparisons.
type RepositoryServiceInterface interface {
	// AddTo registers the repository tools with the provided MCPServer,
	// honoring the read-only option.
	AddTo(srv *server.MCPServer, opts Options)

	// ListFiles returns a tool for listing repository tree entries.
	ListFiles() server.ServerTool

	// GetFileContents returns a tool for fetching a file's decoded contents.
	GetFileContents() server.ServerTool

	// ListCommits returns a tool for listing commits on a ref.
	ListCommits() server.ServerTool

	// GetCommit returns a tool for fetching a commit with its changes.
	GetCommit() server.ServerTool

	// ListBranches returns a tool for listing branches.
	ListBranches() server.ServerTool

	// CompareBranches returns a tool for comparing two refs.
	CompareBranches() server.ServerTool

	// CreateOrUpdateFile returns a tool for writing a repository file.
	CreateOrUpdateFile() server.ServerTool
}

// NewRepositoryTools creates a new repository service backed by the
// provided GitLab client.
func NewRepositoryTools(client *gitlab.Client) *RepositoryService {
	return &RepositoryService{client: client}
}

type RepositoryService struct {
	client *gitlab.Client
}

// AddTo registers the repository tools. The file-write tool is skipped in
// read-only mode.
func (r *RepositoryService) AddTo(srv *server.MCPServer, opts Options) {
	srv.AddTools(
		r.ListFiles(),
		r.GetFileContents(),
		r.ListCommits(),
		r.GetCommit(),
		r.ListBranches(),
		r.CompareBranches(),
	)

	if !opts.ReadOnly {
		srv.AddTools(r.CreateOrUpdateFile())
	}
}

type listFilesArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Path      string     `mcp_desc:"Path inside the repository to list. Defaults to the repository root"`
	Ref       string     `mcp_desc:"Branch, tag, or commit SHA. Defaults to the default branch"`
	Recursive bool       `mcp_desc:"If true, lists the tree recursively"`
	PerPage   int        `mcp_desc:"Number of entries to return, between 1 and 100. Defaults to 20."`
}

// ListFiles returns a ServerTool for listing repository tree entries.
func (r *RepositoryService) ListFiles() server.ServerTool {
	return server.ServerTool{
		Handler: r.listFiles,
		Tool: mcpargs.NewTool("list_files", listFilesArgs{},
			mcp.WithDescription("List files and directories in a repository path"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (r *RepositoryService) listFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listFilesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListTreeOptions{}

	if args.Path != "" {
		opt.Path = gitlab.Ptr(args.Path)
	}

	if args.Ref != "" {
		opt.Ref = gitlab.Ptr(args.Ref)
	}

	if args.Recursive {
		opt.Recursive = gitlab.Ptr(true)
	}

	setPage := func(opts *gitlab.ListTreeOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	tree, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, r.client.Repositories.ListTree, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListTree(%q): %w", args.ProjectID.Value(), err)
	}

	files, err := models.FromNativeList[models.FileSummary](tree)
	if err != nil {
		return nil, fmt.Errorf("summarizing tree: %w", err)
	}

	return newToolResultJSON(files)
}

type getFileContentsArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	FilePath  string     `mcp_desc:"Path of the file inside the repository" mcp_required:"true"`
	Ref       string     `mcp_desc:"Branch, tag, or commit SHA. Defaults to the default branch"`
}

// GetFileContents returns a ServerTool for fetching a file's contents,
// decoded from the API's base64 transport encoding.
func (r *RepositoryService) GetFileContents() server.ServerTool {
	return server.ServerTool{
		Handler: r.getFileContents,
		Tool: mcpargs.NewTool("get_file_contents", getFileContentsArgs{},
			mcp.WithDescription("Get the contents of a file in the repository"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (r *RepositoryService) getFileContents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getFileContentsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := &gitlab.GetFileOptions{}
	if args.Ref != "" {
		opt.Ref = gitlab.Ptr(args.Ref)
	}

	file, _, err := r.client.RepositoryFiles.GetFile(args.ProjectID.Value(), args.FilePath, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetFile(%q, %q): %w", args.ProjectID.Value(), args.FilePath, err)
	}

	content := file.Content
	if file.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(file.Content)
		if err != nil {
			return nil, fmt.Errorf("decoding %q: %w", args.FilePath, err)
		}

		content = string(decoded)
	}

	out := models.FileContents{
		FilePath:  file.FilePath,
		Size:      file.Size,
		Encoding:  "text",
		Ref:       file.Ref,
		Content:   content,
		CommitSHA: file.CommitID,
	}

	return newToolResultJSON(out)
}

type listCommitsArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Ref       string     `mcp_desc:"Branch, tag, or commit SHA to list commits from. Defaults to the default branch"`
	Path      string     `mcp_desc:"Only commits touching this file path"`
	Since     string     `mcp_desc:"Only commits after this time (format: RFC3339 or '2006-01-02 15:04:05')"`
	Until     string     `mcp_desc:"Only commits before this time (format: RFC3339 or '2006-01-02 15:04:05')"`
	PerPage   int        `mcp_desc:"Number of commits to return, between 1 and 100. Defaults to 20."`
}

// ListCommits returns a ServerTool for listing commits on a ref.
func (r *RepositoryService) ListCommits() server.ServerTool {
	return server.ServerTool{
		Handler: r.listCommits,
		Tool: mcpargs.NewTool("list_commits", listCommitsArgs{},
			mcp.WithDescription("Get a list of commits as compact summaries with short SHAs"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (r *RepositoryService) listCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listCommitsArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListCommitsOptions{}

	if args.Ref != "" {
		opt.RefName = gitlab.Ptr(args.Ref)
	}

	if args.Path != "" {
		opt.Path = gitlab.Ptr(args.Path)
	}

	var err error
	if opt.Since, err = parseTime(args.Since); err != nil {
		return nil, fmt.Errorf("invalid since date: %w", err)
	}

	if opt.Until, err = parseTime(args.Until); err != nil {
		return nil, fmt.Errorf("invalid until date: %w", err)
	}

	setPage := func(opts *gitlab.ListCommitsOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	commits, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, r.client.Commits.ListCommits, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListCommits(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.CommitSummary](commits)
	if err != nil {
		return nil, fmt.Errorf("summarizing commits: %w", err)
	}

	return newToolResultJSON(summaries)
}

type getCommitArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	SHA       string     `mcp_desc:"The commit SHA or a ref name" mcp_required:"true"`
}

// GetCommit returns a ServerTool for fetching a commit together with its
// file-level changes.
func (r *RepositoryService) GetCommit() server.ServerTool {
	return server.ServerTool{
		Handler: r.getCommit,
		Tool: mcpargs.NewTool("get_commit", getCommitArgs{},
			mcp.WithDescription("Get a single commit with its stats and the list of changed files"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (r *RepositoryService) getCommit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getCommitArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	commit, _, err := r.client.Commits.GetCommit(args.ProjectID.Value(), args.SHA, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetCommit(%q, %q): %w", args.ProjectID.Value(), args.SHA, err)
	}

	diffs, _, err := r.client.Commits.GetCommitDiff(args.ProjectID.Value(), args.SHA, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("GetCommitDiff(%q, %q): %w", args.ProjectID.Value(), args.SHA, err)
	}

	summary, err := models.FromNative[models.CommitSummary](commit)
	if err != nil {
		return nil, fmt.Errorf("summarizing commit %q: %w", args.SHA, err)
	}

	changes, err := models.FromNativeList[models.FileChange](diffs)
	if err != nil {
		return nil, fmt.Errorf("summarizing changes: %w", err)
	}

	return newToolResultJSON(models.CommitDetails{Commit: summary, Changes: changes})
}

type listBranchesArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	Search    string     `mcp_desc:"Filter branches by a search term"`
	PerPage   int        `mcp_desc:"Number of branches to return, between 1 and 100. Defaults to 20."`
}

// ListBranches returns a ServerTool for listing branches.
func (r *RepositoryService) ListBranches() server.ServerTool {
	return server.ServerTool{
		Handler: r.listBranches,
		Tool: mcpargs.NewTool("list_branches", listBranchesArgs{},
			mcp.WithDescription("Get a list of repository branches with their latest commit"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (r *RepositoryService) listBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listBranchesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	opt := gitlab.ListBranchesOptions{}
	if args.Search != "" {
		opt.Search = gitlab.Ptr(args.Search)
	}

	setPage := func(opts *gitlab.ListBranchesOptions, lo gitlab.ListOptions) {
		opts.ListOptions = lo
	}

	branches, err := query.SinglePageWithID(ctx, args.ProjectID.Value(), args.PerPage, r.client.Branches.ListBranches, opt, setPage)
	if err != nil {
		return nil, fmt.Errorf("ListBranches(%q): %w", args.ProjectID.Value(), err)
	}

	summaries, err := models.FromNativeList[models.BranchSummary](branches)
	if err != nil {
		return nil, fmt.Errorf("summarizing branches: %w", err)
	}

	return newToolResultJSON(summaries)
}

type compareBranchesArgs struct {
	ProjectID mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	From      string     `mcp_desc:"The base branch, tag, or commit SHA" mcp_required:"true"`
	To        string     `mcp_desc:"The head branch, tag, or commit SHA" mcp_required:"true"`
}

// CompareBranches returns a ServerTool for comparing two refs.
func (r *RepositoryService) CompareBranches() server.ServerTool {
	return server.ServerTool{
		Handler: r.compareBranches,
		Tool: mcpargs.NewTool("compare_branches", compareBranchesArgs{},
			mcp.WithDescription("Compare two branches, tags, or commits and return the commits and file changes between them"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func (r *RepositoryService) compareBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args compareBranchesArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if args.From == args.To {
		return newToolResultJSON(models.BranchComparison{
			From:    args.From,
			To:      args.To,
			SameRef: true,
		})
	}

	opt := &gitlab.CompareOptions{
		From: gitlab.Ptr(args.From),
		To:   gitlab.Ptr(args.To),
	}

	compare, _, err := r.client.Repositories.Compare(args.ProjectID.Value(), opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("Compare(%q, %q..%q): %w", args.ProjectID.Value(), args.From, args.To, err)
	}

	commits, err := models.FromNativeList[models.ComparisonCommit](compare.Commits)
	if err != nil {
		return nil, fmt.Errorf("summarizing commits: %w", err)
	}

	diffs, err := models.FromNativeList[models.FileChange](compare.Diffs)
	if err != nil {
		return nil, fmt.Errorf("summarizing diffs: %w", err)
	}

	return newToolResultJSON(models.BranchComparison{
		From:         args.From,
		To:           args.To,
		CommitsCount: len(commits),
		FilesChanged: len(diffs),
		Commits:      commits,
		Diffs:        diffs,
	})
}

type createOrUpdateFileArgs struct {
	ProjectID     mcpargs.ID `mcp_desc:"ID of the project either in owner/project format or the numeric project ID" mcp_required:"true"`
	FilePath      string     `mcp_desc:"Path of the file inside the repository" mcp_required:"true"`
	Branch        string     `mcp_desc:"The branch to commit to" mcp_required:"true"`
	Content       string     `mcp_desc:"The full new content of the file" mcp_required:"true"`
	CommitMessage string     `mcp_desc:"The commit message" mcp_required:"true"`
}

// CreateOrUpdateFile returns a ServerTool for writing a repository file.
// The file is created when it does not exist on the branch, updated
// otherwise.
func (r *RepositoryService) CreateOrUpdateFile() server.ServerTool {
	return server.ServerTool{
		Handler: r.createOrUpdateFile,
		Tool: mcpargs.NewTool("create_or_update_file", createOrUpdateFileArgs{},
			mcp.WithDescription("Create a new file or update an existing one with a single commit"),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
		),
	}
}

func (r *RepositoryService) createOrUpdateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createOrUpdateFileArgs
	if err := mcpargs.Unmarshal(request.GetArguments(), &args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	exists, err := r.fileExists(ctx, args.ProjectID.Value(), args.FilePath, args.Branch)
	if err != nil {
		return nil, err
	}

	if exists {
		opt := &gitlab.UpdateFileOptions{
			Branch:        gitlab.Ptr(args.Branch),
			Content:       gitlab.Ptr(args.Content),
			CommitMessage: gitlab.Ptr(args.CommitMessage),
		}

		info, _, err := r.client.RepositoryFiles.UpdateFile(args.ProjectID.Value(), args.FilePath, opt, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("UpdateFile(%q, %q): %w", args.ProjectID.Value(), args.FilePath, err)
		}

		return newToolResultJSON(models.FileOperationResult{
			FilePath: info.FilePath,
			Branch:   info.Branch,
			Action:   "updated",
		})
	}

	opt := &gitlab.CreateFileOptions{
		Branch:        gitlab.Ptr(args.Branch),
		Content:       gitlab.Ptr(args.Content),
		CommitMessage: gitlab.Ptr(args.CommitMessage),
	}

	info, _, err := r.client.RepositoryFiles.CreateFile(args.ProjectID.Value(), args.FilePath, opt, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("CreateFile(%q, %q): %w", args.ProjectID.Value(), args.FilePath, err)
	}

	return newToolResultJSON(models.FileOperationResult{
		FilePath: info.FilePath,
		Branch:   info.Branch,
		Action:   "created",
	})
}

func (r *RepositoryService) fileExists(ctx context.Context, pid any, filePath, ref string) (bool, error) {
	opt := &gitlab.GetFileMetaDataOptions{Ref: gitlab.Ptr(ref)}

	_, resp, err := r.client.RepositoryFiles.GetFileMetaData(pid, filePath, opt, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}

		return false, fmt.Errorf("GetFileMetaData(%q, %q): %w", pid, filePath, err)
	}

	return true, nil
}
