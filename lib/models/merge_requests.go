package models

import (
	"encoding/json"
	"fmt"
)

// PipelineRef is the slim head-pipeline reference embedded in a merge
// request summary. Only the status participates in blocker detection.
type PipelineRef struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// MergeRequestSummary is the slim merge request representation, focused on
// what an agent needs for a merge decision.
type MergeRequestSummary struct {
	IID          int      `json:"iid" gl:"iid,required"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	State        string   `json:"state"`
	Author       string   `json:"author" glconv:"username"`
	SourceBranch string   `json:"source_branch"`
	TargetBranch string   `json:"target_branch"`
	URL          string   `json:"url" gl:"web_url"`
	Reviewers    []string `json:"reviewers" glconv:"usernames"`

	// Inputs for the computed fields below. ApprovalsRequired and
	// ApprovalsLeft are filled from the separate approvals endpoint when the
	// caller has them.
	CreatedAt           string       `json:"-" gl:"created_at"`
	UpdatedAt           string       `json:"-" gl:"updated_at"`
	ApprovalsRequired   int          `json:"-"`
	ApprovalsLeft       int          `json:"-"`
	HeadPipeline        *PipelineRef `json:"-"`
	MergeStatus         string       `json:"-"`
	DetailedMergeStatus string       `json:"-"`
}

// Blockers lists the reasons the merge request cannot be merged right now,
// in display order: pipeline state, conflicts, detailed merge status,
// outstanding approvals. Each reason is additive.
func (m MergeRequestSummary) Blockers() []string {
	blockers := []string{}

	if m.HeadPipeline != nil {
		switch m.HeadPipeline.Status {
		case "failed", "running", "pending":
			blockers = append(blockers, "Pipeline "+m.HeadPipeline.Status)
		}
	}

	// merge_status only appears in map-shaped payloads; the REST SDK
	// reports conflicts through detailed_merge_status.
	if m.MergeStatus == "cannot_be_merged" || m.DetailedMergeStatus == "conflict" {
		blockers = append(blockers, "Has conflicts")
	}

	switch m.DetailedMergeStatus {
	case "draft":
		blockers = append(blockers, "MR is draft")
	case "discussions_not_resolved":
		blockers = append(blockers, "Unresolved discussions")
	case "blocked_status":
		blockers = append(blockers, "Blocked by rule")
	}

	if m.ApprovalsLeft > 0 {
		blockers = append(blockers, fmt.Sprintf("%d approvals needed", m.ApprovalsLeft))
	}

	return blockers
}

// ReadyToMerge reports whether the merge request can be merged now.
func (m MergeRequestSummary) ReadyToMerge() bool {
	return m.State == "opened" && len(m.Blockers()) == 0
}

// Summary is a one-line digest: "{state} MR by {author} - {readiness} -
// {pipeline status}".
func (m MergeRequestSummary) Summary() string {
	pipelineStatus := "unknown"
	if m.HeadPipeline != nil && m.HeadPipeline.Status != "" {
		pipelineStatus = m.HeadPipeline.Status
	}

	readiness := "not ready"
	if m.ReadyToMerge() {
		readiness = "ready"
	}

	return fmt.Sprintf("%s MR by %s - %s - %s", m.State, m.Author, readiness, pipelineStatus)
}

func (m MergeRequestSummary) MarshalJSON() ([]byte, error) {
	if m.Reviewers == nil {
		m.Reviewers = []string{}
	}

	type alias MergeRequestSummary

	return json.Marshal(struct {
		alias
		Created           string   `json:"created"`
		Updated           string   `json:"updated"`
		ApprovalsRequired int      `json:"approvals_required"`
		ApprovalsLeft     int      `json:"approvals_left"`
		Blockers          []string `json:"blockers"`
		ReadyToMerge      bool     `json:"ready_to_merge"`
		Summary           string   `json:"summary"`
	}{
		alias:             alias(m),
		Created:           RelativeTime(m.CreatedAt),
		Updated:           RelativeTime(m.UpdatedAt),
		ApprovalsRequired: m.ApprovalsRequired,
		ApprovalsLeft:     m.ApprovalsLeft,
		Blockers:          m.Blockers(),
		ReadyToMerge:      m.ReadyToMerge(),
		Summary:           m.Summary(),
	})
}

// MergeRequestDiff is a single file change in a merge request.
type MergeRequestDiff struct {
	Path    string  `json:"path" gl:"new_path"`
	OldPath *string `json:"old_path"`
	Diff    string  `json:"diff"`

	NewFile     bool `json:"-"`
	DeletedFile bool `json:"-"`
	RenamedFile bool `json:"-"`
}

// Status classifies the change from the three upstream flags. At most one
// flag should be set; the priority order new > deleted > renamed is the
// tie-break if the API ever sets several.
func (d MergeRequestDiff) Status() string {
	return changeStatus(d.NewFile, d.DeletedFile, d.RenamedFile)
}

func changeStatus(newFile, deleted, renamed bool) string {
	switch {
	case newFile:
		return "added"
	case deleted:
		return "deleted"
	case renamed:
		return "renamed"
	default:
		return "modified"
	}
}

func (d MergeRequestDiff) MarshalJSON() ([]byte, error) {
	type alias MergeRequestDiff

	return json.Marshal(struct {
		alias
		Status string `json:"status"`
	}{alias(d), d.Status()})
}

// MergeRequestApproval is the approval configuration of a merge request.
type MergeRequestApproval struct {
	ApprovalsRequired int      `json:"approvals_required"`
	ApprovalsLeft     int      `json:"approvals_left"`
	ApprovedBy        []string `json:"approved_by" glconv:"approvedby"`
}

// Approved reports whether the merge request has sufficient approvals.
func (a MergeRequestApproval) Approved() bool {
	return a.ApprovalsLeft == 0
}

func (a MergeRequestApproval) MarshalJSON() ([]byte, error) {
	if a.ApprovedBy == nil {
		a.ApprovedBy = []string{}
	}

	type alias MergeRequestApproval

	return json.Marshal(struct {
		alias
		Approved bool `json:"approved"`
	}{alias(a), a.Approved()})
}

// ApprovalResult reports the outcome of approving or unapproving an MR.
type ApprovalResult struct {
	Approved        bool `json:"approved"`
	MergeRequestIID int  `json:"merge_request_iid"`
}

// ApprovalUser identifies a user who approved a merge request.
type ApprovalUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// ApprovalRule is a single approval rule still applying to an MR.
type ApprovalRule struct {
	RuleType             string   `json:"rule_type"`
	EligibleApprovers    []string `json:"eligible_approvers" glconv:"usernames"`
	ApprovalsRequired    int      `json:"approvals_required"`
	ContainsHiddenGroups bool     `json:"contains_hidden_groups"`
}

// ApprovalState is the detailed approval state of a merge request.
type ApprovalState struct {
	Approved      bool           `json:"approved"`
	ApprovedBy    []ApprovalUser `json:"approved_by" glconv:"users"`
	ApprovalsLeft int            `json:"approvals_left"`
	Rules         []ApprovalRule `json:"approval_rules_left" gl:"rules"`
}

func (s ApprovalState) MarshalJSON() ([]byte, error) {
	if s.ApprovedBy == nil {
		s.ApprovedBy = []ApprovalUser{}
	}

	if s.Rules == nil {
		s.Rules = []ApprovalRule{}
	}

	type alias ApprovalState

	return json.Marshal(alias(s))
}

// MergeRequestNote is a comment on a merge request.
type MergeRequestNote struct {
	ID        int    `json:"id" gl:"id,required"`
	AuthorID  int    `json:"author_id" gl:"author" glconv:"userid"`
	Author    string `json:"author" gl:"author" glconv:"usernameloose"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Body      string `json:"body"`
	System    bool   `json:"system"`
}

// MergeRequestVersion is one iteration (diff version) of a merge request.
type MergeRequestVersion struct {
	ID             int    `json:"id" gl:"id,required"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	HeadCommitSHA  string `json:"head_commit_sha"`
	BaseCommitSHA  string `json:"base_commit_sha"`
	StartCommitSHA string `json:"start_commit_sha"`
}

// FileChange is a single file change with diff stats.
type FileChange struct {
	Path      string  `json:"path" gl:"new_path"`
	OldPath   *string `json:"old_path"`
	Additions int     `json:"additions"`
	Deletions int     `json:"deletions"`

	NewFile     bool `json:"-"`
	DeletedFile bool `json:"-"`
	RenamedFile bool `json:"-"`
}

func (c FileChange) MarshalJSON() ([]byte, error) {
	type alias FileChange

	return json.Marshal(struct {
		alias
		Status string `json:"status"`
	}{alias(c), changeStatus(c.NewFile, c.DeletedFile, c.RenamedFile)})
}

// ChangesSummary aggregates all changes in a merge request.
type ChangesSummary struct {
	FilesChanged int          `json:"files_changed"`
	Additions    int          `json:"additions"`
	Deletions    int          `json:"deletions"`
	Files        []FileChange `json:"files"`
}
