package tools

import (
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	glabtest "gitlab.com/gitlab-org/api/client-go/testing"
)

func TestListLabels(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockLabels.EXPECT().
		ListLabels(gomock.Eq("test/project"), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts *gitlab.ListLabelsOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.Label, *gitlab.Response, error) {
			if opts.Page != 1 || opts.PerPage != 20 {
				t.Errorf("ListOptions = %d/%d, want page 1 with 20 per page", opts.Page, opts.PerPage)
			}

			return []*gitlab.Label{
				{ID: 1, Name: "bug", Color: "#FF0000"},
				{ID: 2, Name: "backlog", Color: "#808080", Priority: 5},
			}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil
		})

	labelsService := NewLabelsTools(gitlabClient.Client)

	result, err := callTool(t, labelsService.ListLabels(), "list_labels", map[string]any{
		"project_id": "test/project",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got []map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d labels, want 2", len(got))
	}

	if got[0]["name"] != "bug" {
		t.Errorf("name = %v, want bug", got[0]["name"])
	}

	if got[1]["priority"] != float64(5) {
		t.Errorf("priority = %v, want 5", got[1]["priority"])
	}
}

func TestCreateLabel(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockLabels.EXPECT().
		CreateLabel(gomock.Eq("test/project"), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts *gitlab.CreateLabelOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.Label, *gitlab.Response, error) {
			if opts.Color == nil || *opts.Color != "#FF0000" {
				t.Errorf("Color = %v, want the normalized #FF0000", opts.Color)
			}

			if opts.Priority != nil {
				t.Errorf("Priority = %v, want unset", *opts.Priority)
			}

			return &gitlab.Label{
				ID:    3,
				Name:  *opts.Name,
				Color: *opts.Color,
			}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusCreated}}, nil
		})

	labelsService := NewLabelsTools(gitlabClient.Client)

	result, err := callTool(t, labelsService.CreateLabel(), "create_label", map[string]any{
		"project_id": "test/project",
		"name":       "bug",
		"color":      "ff0000",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["name"] != "bug" {
		t.Errorf("name = %v, want bug", got["name"])
	}

	if got["color"] != "#FF0000" {
		t.Errorf("color = %v, want #FF0000", got["color"])
	}
}

func TestCreateLabel_invalidColor(t *testing.T) {
	// No mock expectations: an invalid color must never reach the API.
	gitlabClient := glabtest.NewTestClient(t)

	labelsService := NewLabelsTools(gitlabClient.Client)

	result, err := callTool(t, labelsService.CreateLabel(), "create_label", map[string]any{
		"project_id": "test/project",
		"name":       "bug",
		"color":      "#zzz",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	if !result.IsError {
		t.Error("expected a validation error result")
	}
}

func TestDeleteLabel(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockLabels.EXPECT().
		DeleteLabel(gomock.Eq("test/project"), gomock.Eq("obsolete"), gomock.Any(), gomock.Any()).
		Return(&gitlab.Response{Response: &http.Response{StatusCode: http.StatusNoContent}}, nil)

	labelsService := NewLabelsTools(gitlabClient.Client)

	result, err := callTool(t, labelsService.DeleteLabel(), "delete_label", map[string]any{
		"project_id": "test/project",
		"name":       "obsolete",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["deleted"] != true {
		t.Errorf("deleted = %v, want true", got["deleted"])
	}

	if got["label"] != "obsolete" {
		t.Errorf("label = %v, want obsolete", got["label"])
	}
}
