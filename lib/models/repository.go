package models

import "encoding/json"

// FileSummary is a repository tree entry.
type FileSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type" glconv:"dirtype"` // "file" or "directory"
	Path string `json:"path"`
}

// FileContents is a file fetched from the repository, already decoded from
// the API's base64 transport encoding.
type FileContents struct {
	FilePath string `json:"file_path" gl:"file_path,required"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
	Ref      string `json:"ref"`
	Content  string `json:"content"`

	CommitSHA string `json:"-" gl:"commit_id"`
}

func (f FileContents) MarshalJSON() ([]byte, error) {
	type alias FileContents

	return json.Marshal(struct {
		alias
		CommitSHA string `json:"commit_sha"`
	}{alias(f), shortSHA(f.CommitSHA)})
}

// CommitStats is the line-change tally of a commit.
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Total     int `json:"total"`
}

// CommitSummary is the slim commit representation.
type CommitSummary struct {
	SHA     string `json:"sha" gl:"id,required" glconv:"shortsha"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Author  string `json:"author" gl:"author_name"`
	URL     string `json:"url" gl:"web_url"`

	Stats *CommitStats `json:"stats"`

	CreatedAt    string   `json:"-" gl:"created_at"`
	AuthoredDate string   `json:"-" gl:"authored_date"`
	ParentIDs    []string `json:"-" gl:"parent_ids"`
}

func (c CommitSummary) MarshalJSON() ([]byte, error) {
	created := c.CreatedAt
	if created == "" {
		created = c.AuthoredDate
	}

	var parent *string
	if len(c.ParentIDs) > 0 {
		s := shortSHA(c.ParentIDs[0])
		parent = &s
	}

	type alias CommitSummary

	return json.Marshal(struct {
		alias
		Created   string  `json:"created"`
		ParentSHA *string `json:"parent_sha"`
	}{alias(c), RelativeTime(created), parent})
}

// CommitRef is the compact commit embedded in a branch.
type CommitRef struct {
	SHA   string `json:"sha" gl:"id" glconv:"shortsha"`
	Title string `json:"title"`

	CreatedAt string `json:"-" gl:"created_at"`
}

func (c CommitRef) MarshalJSON() ([]byte, error) {
	type alias CommitRef

	return json.Marshal(struct {
		alias
		Created string `json:"created"`
	}{alias(c), RelativeTime(c.CreatedAt)})
}

// BranchSummary is the slim branch representation.
type BranchSummary struct {
	Name      string     `json:"name" gl:"name,required"`
	Default   bool       `json:"default"`
	Protected bool       `json:"protected"`
	Merged    bool       `json:"merged"`
	URL       string     `json:"url" gl:"web_url"`
	Commit    *CommitRef `json:"commit"`
}

// CommitDetails is the expanded form returned by single-commit lookups:
// the summary plus its file-level changes.
type CommitDetails struct {
	Commit  CommitSummary `json:"commit"`
	Changes []FileChange  `json:"changes"`
}

func (c CommitDetails) MarshalJSON() ([]byte, error) {
	if c.Changes == nil {
		c.Changes = []FileChange{}
	}

	type alias CommitDetails

	return json.Marshal(alias(c))
}

// ComparisonCommit is a commit inside a branch comparison.
type ComparisonCommit struct {
	SHA    string `json:"sha" gl:"id,required" glconv:"shortsha"`
	Title  string `json:"title"`
	Author string `json:"author" gl:"author_name"`

	CreatedAt string `json:"-" gl:"created_at"`
}

func (c ComparisonCommit) MarshalJSON() ([]byte, error) {
	type alias ComparisonCommit

	return json.Marshal(struct {
		alias
		Created string `json:"created"`
	}{alias(c), RelativeTime(c.CreatedAt)})
}

// BranchComparison is the result of comparing two refs.
type BranchComparison struct {
	From         string             `json:"from"`
	To           string             `json:"to"`
	CommitsCount int                `json:"commits_count"`
	FilesChanged int                `json:"files_changed"`
	Commits      []ComparisonCommit `json:"commits"`
	Diffs        []FileChange       `json:"diffs"`
	SameRef      bool               `json:"same_ref,omitempty"`
}

func (b BranchComparison) MarshalJSON() ([]byte, error) {
	if b.Commits == nil {
		b.Commits = []ComparisonCommit{}
	}

	if b.Diffs == nil {
		b.Diffs = []FileChange{}
	}

	type alias BranchComparison

	return json.Marshal(alias(b))
}

// FileOperationResult reports a create-or-update of a repository file.
type FileOperationResult struct {
	FilePath string `json:"file_path"`
	Branch   string `json:"branch"`
	Action   string `json:"action"` // "created" or "updated"
	CommitID string `json:"-"`
}

func (f FileOperationResult) MarshalJSON() ([]byte, error) {
	type alias FileOperationResult

	return json.Marshal(struct {
		alias
		CommitSHA string `json:"commit_sha"`
	}{alias(f), shortSHA(f.CommitID)})
}

// FileDeleteResult reports the removal of a repository file.
type FileDeleteResult struct {
	Deleted  bool   `json:"deleted"`
	FilePath string `json:"file_path"`
	Branch   string `json:"branch"`
}

// BranchCreateResult reports the creation of a branch.
type BranchCreateResult struct {
	Created bool   `json:"created"`
	Branch  string `json:"branch"`
	Ref     string `json:"ref"`
}

// BranchDeleteResult reports the removal of a branch.
type BranchDeleteResult struct {
	Deleted bool   `json:"deleted"`
	Branch  string `json:"branch"`
}
