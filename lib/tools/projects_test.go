package tools

import (
	"io"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	glabtest "gitlab.com/gitlab-org/api/client-go/testing"
)

func TestListProjects(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockProjects.EXPECT().
		ListProjects(gomock.Any(), gomock.Any()).
		DoAndReturn(func(opts *gitlab.ListProjectsOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.Project, *gitlab.Response, error) {
			if opts.Search == nil || *opts.Search != "widget" {
				t.Errorf("Search = %v, want widget", opts.Search)
			}

			if opts.Visibility == nil || *opts.Visibility != gitlab.PublicVisibility {
				t.Errorf("Visibility = %v, want public", opts.Visibility)
			}

			if opts.PerPage != 5 {
				t.Errorf("PerPage = %d, want 5", opts.PerPage)
			}

			return []*gitlab.Project{
				{
					ID:                1,
					Name:              "widget",
					PathWithNamespace: "acme/widget",
					Visibility:        gitlab.PublicVisibility,
					StarCount:         12,
				},
			}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil
		})

	projectsService := NewProjectsTools(gitlabClient.Client)

	result, err := callTool(t, projectsService.ListProjects(), "list_projects", map[string]any{
		"search":     "widget",
		"visibility": "PUBLIC",
		"per_page":   5,
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got []map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d projects, want 1", len(got))
	}

	if got[0]["path_with_namespace"] != "acme/widget" {
		t.Errorf("path_with_namespace = %v, want acme/widget", got[0]["path_with_namespace"])
	}

	if got[0]["is_public"] != true {
		t.Errorf("is_public = %v, want true", got[0]["is_public"])
	}

	if topics, ok := got[0]["topics"].([]any); !ok || topics == nil {
		t.Errorf("topics = %v, want an empty array, not null", got[0]["topics"])
	}
}

func TestListProjects_invalidVisibility(t *testing.T) {
	// No mock expectations: a bad visibility must never reach the API.
	gitlabClient := glabtest.NewTestClient(t)

	projectsService := NewProjectsTools(gitlabClient.Client)

	result, err := callTool(t, projectsService.ListProjects(), "list_projects", map[string]any{
		"visibility": "secret",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	if !result.IsError {
		t.Error("expected a validation error result")
	}
}

func TestGetProject(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockProjects.EXPECT().
		GetProject(gomock.Eq("acme/widget"), gomock.Any(), gomock.Any()).
		Return(&gitlab.Project{
			ID:                1,
			Name:              "widget",
			PathWithNamespace: "acme/widget",
			DefaultBranch:     "main",
			OpenIssuesCount:   3,
		}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil)

	projectsService := NewProjectsTools(gitlabClient.Client)

	result, err := callTool(t, projectsService.GetProject(), "get_project", map[string]any{
		"project_id": "acme/widget",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["default_branch"] != "main" {
		t.Errorf("default_branch = %v, want main", got["default_branch"])
	}

	if got["open_issues_count"] != float64(3) {
		t.Errorf("open_issues_count = %v, want 3", got["open_issues_count"])
	}
}

func TestListProjectMembers(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockProjectMembers.EXPECT().
		ListAllProjectMembers(gomock.Eq("acme/widget"), gomock.Any(), gomock.Any()).
		Return([]*gitlab.ProjectMember{
			{ID: 7, Username: "octocat", AccessLevel: gitlab.DeveloperPermissions, State: "active"},
		}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil)

	projectsService := NewProjectsTools(gitlabClient.Client)

	result, err := callTool(t, projectsService.ListProjectMembers(), "list_project_members", map[string]any{
		"project_id": "acme/widget",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got []map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d members, want 1", len(got))
	}

	if got[0]["access_level"] != "developer" {
		t.Errorf("access_level = %v, want developer", got[0]["access_level"])
	}
}

func TestUploadFile(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockProjectMarkdownUploads.EXPECT().
		UploadProjectMarkdown(gomock.Eq("acme/widget"), gomock.Any(), gomock.Eq("notes.txt"), gomock.Any()).
		DoAndReturn(func(_ any, content io.Reader, _ string, _ ...gitlab.RequestOptionFunc) (*gitlab.ProjectMarkdownUploadedFile, *gitlab.Response, error) {
			body, err := io.ReadAll(content)
			if err != nil {
				t.Fatalf("reading upload body: %v", err)
			}

			if string(body) != "hello" {
				t.Errorf("body = %q, want hello", body)
			}

			return &gitlab.ProjectMarkdownUploadedFile{
				URL:      "/uploads/abc/notes.txt",
				Markdown: "[notes.txt](/uploads/abc/notes.txt)",
				Alt:      "notes.txt",
			}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusCreated}}, nil
		})

	projectsService := NewProjectsTools(gitlabClient.Client)

	result, err := callTool(t, projectsService.UploadFile(), "upload_file", map[string]any{
		"project_id": "acme/widget",
		"file_name":  "notes.txt",
		"content":    "hello",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["markdown"] != "[notes.txt](/uploads/abc/notes.txt)" {
		t.Errorf("markdown = %v, want the upload snippet", got["markdown"])
	}
}
