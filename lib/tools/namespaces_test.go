package tools

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	glabtest "gitlab.com/gitlab-org/api/client-go/testing"

	"gitlab.com/akervel/gitlab-mcp/lib/cache"
)

func TestGetNamespace(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockNamespaces.EXPECT().
		GetNamespace(gomock.Eq("test-group"), gomock.Any()).
		Return(&gitlab.Namespace{
			ID:       11,
			Name:     "Test Group",
			Path:     "test-group",
			FullPath: "test-group",
			Kind:     "group",
		}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil)

	namespacesService := NewNamespacesTools(gitlabClient.Client, cache.New(time.Minute))

	result, err := callTool(t, namespacesService.GetNamespace(), "get_namespace", map[string]any{
		"namespace_id": "test-group",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["full_path"] != "test-group" {
		t.Errorf("full_path = %v, want test-group", got["full_path"])
	}

	if got["kind"] != "group" {
		t.Errorf("kind = %v, want group", got["kind"])
	}
}

func TestVerifyNamespace_cached(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	// Exactly one API call: the second tool call must be served from the
	// cache.
	gitlabClient.MockNamespaces.EXPECT().
		GetNamespace(gomock.Eq("octocat"), gomock.Any()).
		Times(1).
		Return(&gitlab.Namespace{
			ID:       7,
			Name:     "octocat",
			Path:     "octocat",
			FullPath: "octocat",
			Kind:     "user",
		}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil)

	namespacesService := NewNamespacesTools(gitlabClient.Client, cache.New(time.Minute))

	for i := 0; i < 2; i++ {
		result, err := callTool(t, namespacesService.VerifyNamespace(), "verify_namespace", map[string]any{
			"path": "octocat",
		})
		if err != nil {
			t.Fatalf("CallTool() call %d = %v", i+1, err)
		}

		var got map[string]any
		if err := unmarshalResult(result, &got); err != nil {
			t.Fatalf("decode error: %v", err)
		}

		if got["exists"] != true {
			t.Errorf("call %d: exists = %v, want true", i+1, got["exists"])
		}

		namespace, ok := got["namespace"].(map[string]any)
		if !ok {
			t.Fatalf("call %d: namespace = %v, want an object", i+1, got["namespace"])
		}

		if namespace["kind"] != "user" {
			t.Errorf("call %d: kind = %v, want user", i+1, namespace["kind"])
		}
	}
}

func TestVerifyNamespace_notFound(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockNamespaces.EXPECT().
		GetNamespace(gomock.Eq("no/such/group"), gomock.Any()).
		Return(nil, &gitlab.Response{
			Response: &http.Response{StatusCode: http.StatusNotFound},
		}, errors.New("404 Namespace Not Found"))

	namespacesService := NewNamespacesTools(gitlabClient.Client, cache.New(time.Minute))

	result, err := callTool(t, namespacesService.VerifyNamespace(), "verify_namespace", map[string]any{
		"path": "no/such/group",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["exists"] != false {
		t.Errorf("exists = %v, want false", got["exists"])
	}

	if got["path"] != "no/such/group" {
		t.Errorf("path = %v, want the queried path", got["path"])
	}

	if _, ok := got["namespace"]; ok {
		t.Error("namespace should be omitted for a missing path")
	}
}

func TestListNamespaces(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockNamespaces.EXPECT().
		ListNamespaces(gomock.Any(), gomock.Any()).
		DoAndReturn(func(opts *gitlab.ListNamespacesOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.Namespace, *gitlab.Response, error) {
			if opts.Search == nil || *opts.Search != "infra" {
				t.Errorf("Search = %v, want infra", opts.Search)
			}

			return []*gitlab.Namespace{
				{ID: 1, Path: "infra", FullPath: "company/infra", Kind: "group"},
			}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil
		})

	namespacesService := NewNamespacesTools(gitlabClient.Client, cache.New(time.Minute))

	result, err := callTool(t, namespacesService.ListNamespaces(), "list_namespaces", map[string]any{
		"search": "infra",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got []map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(got) != 1 || got[0]["full_path"] != "company/infra" {
		t.Errorf("namespaces = %v, want the single company/infra group", got)
	}
}
