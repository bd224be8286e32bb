package tools

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	glabtest "gitlab.com/gitlab-org/api/client-go/testing"
)

func TestGetIssue(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockIssues.EXPECT().
		GetIssue(gomock.Eq("test/project"), gomock.Eq(42), gomock.Any()).
		Return(&gitlab.Issue{
			IID:               42,
			Title:             "Login times out",
			State:             "opened",
			Author:            &gitlab.IssueAuthor{ID: 7, Username: "octocat"},
			Labels:            gitlab.Labels{"bug"},
			WebURL:            "https://gitlab.example.com/test/project/-/issues/42",
			MergeRequestCount: 2,
		}, &gitlab.Response{
			Response: &http.Response{StatusCode: http.StatusOK},
		}, nil)

	issuesService := NewIssuesTools(gitlabClient.Client)

	result, err := callTool(t, issuesService.GetIssue(), "get_issue", map[string]any{
		"project_id": "test/project",
		"issue_iid":  42,
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["iid"] != float64(42) {
		t.Errorf("iid = %v, want 42", got["iid"])
	}

	if got["author"] != "octocat" {
		t.Errorf("author = %v, want the author's username", got["author"])
	}

	if got["related_mrs_count"] != float64(2) {
		t.Errorf("related_mrs_count = %v, want 2", got["related_mrs_count"])
	}
}

func TestGetIssue_apiError(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockIssues.EXPECT().
		GetIssue(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &gitlab.Response{
			Response: &http.Response{StatusCode: http.StatusNotFound},
		}, errors.New("404 Not Found"))

	issuesService := NewIssuesTools(gitlabClient.Client)

	_, err := callTool(t, issuesService.GetIssue(), "get_issue", map[string]any{
		"project_id": "test/project",
		"issue_iid":  999,
	})
	if err == nil {
		t.Fatal("CallTool() = nil, want error for a failed API call")
	}
}

func TestCreateIssue(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockIssues.EXPECT().
		CreateIssue(gomock.Eq("test/project"), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts *gitlab.CreateIssueOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.Issue, *gitlab.Response, error) {
			if opts.Title == nil || *opts.Title != "New issue" {
				t.Errorf("opts.Title = %v, want 'New issue'", opts.Title)
			}

			if opts.Confidential != nil {
				t.Errorf("opts.Confidential = %v, want unset when the argument is omitted", *opts.Confidential)
			}

			if len(*opts.AssigneeIDs) != 2 {
				t.Errorf("opts.AssigneeIDs = %v, want two IDs", *opts.AssigneeIDs)
			}

			return &gitlab.Issue{
				IID:    7,
				Title:  *opts.Title,
				State:  "opened",
				Author: &gitlab.IssueAuthor{ID: 1, Username: "creator"},
			}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusCreated}}, nil
		})

	issuesService := NewIssuesTools(gitlabClient.Client)

	result, err := callTool(t, issuesService.CreateIssue(), "create_issue", map[string]any{
		"project_id":   "test/project",
		"title":        "New issue",
		"assignee_ids": "3, 4",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["iid"] != float64(7) {
		t.Errorf("iid = %v, want 7", got["iid"])
	}
}

func TestCreateIssue_titleTooLong(t *testing.T) {
	// No mock expectations: validation fails before any API call.
	gitlabClient := glabtest.NewTestClient(t)
	issuesService := NewIssuesTools(gitlabClient.Client)

	result, err := callTool(t, issuesService.CreateIssue(), "create_issue", map[string]any{
		"project_id": "test/project",
		"title":      strings.Repeat("x", 256),
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	if !result.IsError {
		t.Error("IsError = false, want a validation error result")
	}
}

func TestDeleteIssue(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockIssues.EXPECT().
		DeleteIssue(gomock.Eq("test/project"), gomock.Eq(42), gomock.Any()).
		Return(&gitlab.Response{
			Response: &http.Response{StatusCode: http.StatusNoContent},
		}, nil)

	issuesService := NewIssuesTools(gitlabClient.Client)

	result, err := callTool(t, issuesService.DeleteIssue(), "delete_issue", map[string]any{
		"project_id": "test/project",
		"issue_iid":  42,
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["deleted"] != true || got["issue_iid"] != float64(42) {
		t.Errorf("result = %v, want deleted issue 42", got)
	}
}

func TestAddIssueTimeSpent(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockIssues.EXPECT().
		AddSpentTime(gomock.Eq("test/project"), gomock.Eq(42), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ int, opts *gitlab.AddSpentTimeOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.TimeStats, *gitlab.Response, error) {
			if opts.Duration == nil || *opts.Duration != "1h30m" {
				t.Errorf("opts.Duration = %v, want '1h30m'", opts.Duration)
			}

			return &gitlab.TimeStats{TotalTimeSpent: 5400}, &gitlab.Response{
				Response: &http.Response{StatusCode: http.StatusCreated},
			}, nil
		})

	issuesService := NewIssuesTools(gitlabClient.Client)

	result, err := callTool(t, issuesService.AddTimeSpent(), "add_issue_time_spent", map[string]any{
		"project_id": "test/project",
		"issue_iid":  42,
		"duration":   "1h30m",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["status"] != "success" || got["total_time_spent"] != float64(5400) {
		t.Errorf("result = %v, want success with total 5400", got)
	}
}

func TestCreateIssueLink_invalidType(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)
	issuesService := NewIssuesTools(gitlabClient.Client)

	result, err := callTool(t, issuesService.CreateIssueLink(), "create_issue_link", map[string]any{
		"project_id":        "test/project",
		"issue_iid":         1,
		"target_project_id": "test/other",
		"target_issue_iid":  2,
		"link_type":         "duplicates",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	if !result.IsError {
		t.Error("IsError = false, want a validation error for an unknown link type")
	}
}
