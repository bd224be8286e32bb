package tools

import (
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	glabtest "gitlab.com/gitlab-org/api/client-go/testing"
)

func TestGetMergeRequest(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockMergeRequests.EXPECT().
		GetMergeRequest(gomock.Eq("test/project"), gomock.Eq(123), gomock.Any(), gomock.Any()).
		Return(&gitlab.MergeRequest{
			BasicMergeRequest: gitlab.BasicMergeRequest{
				IID:                 123,
				Title:               "Add pagination",
				State:               "opened",
				Author:              &gitlab.BasicUser{ID: 1, Username: "octocat"},
				SourceBranch:        "feature/pagination",
				TargetBranch:        "main",
				DetailedMergeStatus: "conflict",
			},
			HeadPipeline: &gitlab.Pipeline{ID: 9, Status: "failed"},
		}, &gitlab.Response{
			Response: &http.Response{StatusCode: http.StatusOK},
		}, nil)

	mergeRequestsService := NewMergeRequestsTools(gitlabClient.Client)

	result, err := callTool(t, mergeRequestsService.GetMergeRequest(), "get_merge_request", map[string]any{
		"project_id":        "test/project",
		"merge_request_iid": 123,
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["ready_to_merge"] != false {
		t.Errorf("ready_to_merge = %v, want false", got["ready_to_merge"])
	}

	blockers, ok := got["blockers"].([]any)
	if !ok || len(blockers) != 2 {
		t.Fatalf("blockers = %v, want pipeline and conflict entries", got["blockers"])
	}

	if blockers[0] != "Pipeline failed" || blockers[1] != "Has conflicts" {
		t.Errorf("blockers = %v, want [Pipeline failed, Has conflicts]", blockers)
	}
}

func TestListDraftNotes(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockDraftNotes.EXPECT().
		ListDraftNotes(gomock.Eq("test/project"), gomock.Eq(123), gomock.Any(), gomock.Any()).
		Return([]*gitlab.DraftNote{
			{ID: 1, AuthorID: 7, MergeRequestID: 123, Note: "needs a test"},
			{ID: 2, AuthorID: 7, MergeRequestID: 123, Note: "typo here", ResolveDiscussion: true},
		}, &gitlab.Response{
			Response: &http.Response{StatusCode: http.StatusOK},
		}, nil)

	mergeRequestsService := NewMergeRequestsTools(gitlabClient.Client)

	result, err := callTool(t, mergeRequestsService.ListDraftNotes(), "list_draft_notes", map[string]any{
		"project_id":        "test/project",
		"merge_request_iid": 123,
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got []map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	if got[1]["resolve_discussion"] != true {
		t.Errorf("resolve_discussion = %v, want true", got[1]["resolve_discussion"])
	}
}

func TestPublishAllDraftNotes(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockDraftNotes.EXPECT().
		PublishAllDraftNotes(gomock.Eq("test/project"), gomock.Eq(123), gomock.Any()).
		Return(&gitlab.Response{
			Response: &http.Response{StatusCode: http.StatusNoContent},
		}, nil)

	mergeRequestsService := NewMergeRequestsTools(gitlabClient.Client)

	result, err := callTool(t, mergeRequestsService.PublishAllDraftNotes(), "publish_all_draft_notes", map[string]any{
		"project_id":        "test/project",
		"merge_request_iid": 123,
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["published"] != true || got["all"] != true {
		t.Errorf("result = %v, want published all", got)
	}
}

func TestCreateDraftNote(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockDraftNotes.EXPECT().
		CreateDraftNote(gomock.Eq("test/project"), gomock.Eq(123), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ int, opts *gitlab.CreateDraftNoteOptions, _ ...gitlab.RequestOptionFunc) (*gitlab.DraftNote, *gitlab.Response, error) {
			if opts.Note == nil || *opts.Note != "pending comment" {
				t.Errorf("opts.Note = %v, want 'pending comment'", opts.Note)
			}

			if opts.ResolveDiscussion != nil {
				t.Errorf("opts.ResolveDiscussion = %v, want unset when omitted", *opts.ResolveDiscussion)
			}

			return &gitlab.DraftNote{ID: 5, Note: *opts.Note, MergeRequestID: 123}, &gitlab.Response{
				Response: &http.Response{StatusCode: http.StatusCreated},
			}, nil
		})

	mergeRequestsService := NewMergeRequestsTools(gitlabClient.Client)

	result, err := callTool(t, mergeRequestsService.CreateDraftNote(), "create_draft_note", map[string]any{
		"project_id":        "test/project",
		"merge_request_iid": 123,
		"note":              "pending comment",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["id"] != float64(5) {
		t.Errorf("id = %v, want 5", got["id"])
	}
}
