package models

import "encoding/json"

// TimeStats is the time tracking summary of an issue. The human fields are
// recomputed from the raw second counts on every serialization.
type TimeStats struct {
	TimeEstimate   int `json:"time_estimate"`
	TotalTimeSpent int `json:"total_time_spent"`
}

func (t TimeStats) MarshalJSON() ([]byte, error) {
	type alias TimeStats

	return json.Marshal(struct {
		alias
		HumanTimeEstimate   string `json:"human_time_estimate"`
		HumanTotalTimeSpent string `json:"human_total_time_spent"`
	}{alias(t), FormatDuration(t.TimeEstimate), FormatDuration(t.TotalTimeSpent)})
}

// IssueSummary is the slim issue representation.
type IssueSummary struct {
	IID          int        `json:"iid" gl:"iid,required"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	State        string     `json:"state"`
	Author       string     `json:"author" glconv:"username"`
	Assignees    []string   `json:"assignees" glconv:"usernames"`
	Labels       []string   `json:"labels"`
	URL          string     `json:"url" gl:"web_url"`
	Confidential bool       `json:"confidential"`
	Weight       *int       `json:"weight"`
	DueDate      *string    `json:"due_date"`
	Milestone    *string    `json:"milestone" glconv:"title"`
	TimeStats    *TimeStats `json:"time_stats"`

	CreatedAt string `json:"-" gl:"created_at"`
	UpdatedAt string `json:"-" gl:"updated_at"`

	// Filled by detail calls only.
	RelatedMRsCount int `json:"-"`
}

func (i IssueSummary) MarshalJSON() ([]byte, error) {
	if i.Assignees == nil {
		i.Assignees = []string{}
	}

	if i.Labels == nil {
		i.Labels = []string{}
	}

	type alias IssueSummary

	return json.Marshal(struct {
		alias
		Created         string `json:"created"`
		Updated         string `json:"updated"`
		RelatedMRsCount int    `json:"related_mrs_count"`
	}{alias(i), RelativeTime(i.CreatedAt), RelativeTime(i.UpdatedAt), i.RelatedMRsCount})
}

// IssueNote is a comment on an issue.
type IssueNote struct {
	ID       int    `json:"id" gl:"id,required"`
	Body     string `json:"body"`
	Author   string `json:"author" glconv:"usernameloose"`
	IsSystem bool   `json:"is_system" gl:"system"`

	CreatedAt string `json:"-" gl:"created_at"`
}

func (n IssueNote) MarshalJSON() ([]byte, error) {
	type alias IssueNote

	return json.Marshal(struct {
		alias
		Created string `json:"created"`
	}{alias(n), RelativeTime(n.CreatedAt)})
}

// IssueLink is a typed link between two issues.
type IssueLink struct {
	SourceIssue int    `json:"source_issue" glconv:"iid"`
	TargetIssue int    `json:"target_issue" glconv:"iid"`
	LinkType    string `json:"link_type"` // relates_to, blocks, is_blocked_by
}

// IssueDeleteResult reports the outcome of deleting an issue.
type IssueDeleteResult struct {
	Deleted  bool `json:"deleted"`
	IssueIID int  `json:"issue_iid"`
}

// IssueLinkDeleteResult reports the outcome of removing an issue link.
type IssueLinkDeleteResult struct {
	Deleted  bool `json:"deleted"`
	LinkID   int  `json:"link_id"`
	IssueIID int  `json:"issue_iid"`
}

// IssueTimeAddResult reports the outcome of logging time on an issue.
type IssueTimeAddResult struct {
	Status         string `json:"status"`
	Duration       string `json:"duration"`
	IssueIID       int    `json:"issue_iid"`
	TotalTimeSpent int    `json:"total_time_spent"`
}

// RelatedMergeRequest is the compact form of an MR that references an
// issue.
type RelatedMergeRequest struct {
	IID          int    `json:"iid" gl:"iid,required"`
	Title        string `json:"title"`
	State        string `json:"state"`
	Author       string `json:"author" glconv:"username"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	URL          string `json:"url" gl:"web_url"`

	CreatedAt string `json:"-" gl:"created_at"`
}

func (m RelatedMergeRequest) MarshalJSON() ([]byte, error) {
	type alias RelatedMergeRequest

	return json.Marshal(struct {
		alias
		Created string `json:"created"`
	}{alias(m), RelativeTime(m.CreatedAt)})
}
