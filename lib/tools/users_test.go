package tools

import (
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	glabtest "gitlab.com/gitlab-org/api/client-go/testing"
)

func TestGetUser_byID(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockUsers.EXPECT().
		GetUser(gomock.Eq(7), gomock.Any(), gomock.Any()).
		Return(&gitlab.User{
			ID:       7,
			Username: "octocat",
			Name:     "Octo Cat",
			State:    "active",
		}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil)

	usersService := NewUsersTools(gitlabClient.Client)

	result, err := callTool(t, usersService.GetUser(), "get_user", map[string]any{
		"user_id": "7",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["username"] != "octocat" {
		t.Errorf("username = %v, want octocat", got["username"])
	}

	if got["state"] != "active" {
		t.Errorf("state = %v, want active", got["state"])
	}
}

func TestGetUser_byUsername(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockUsers.EXPECT().
		ListUsers(gomock.Any(), gomock.Any()).
		DoAndReturn(func(opts *gitlab.ListUsersOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.User, *gitlab.Response, error) {
			// The leading @ must be stripped before the lookup.
			if opts.Username == nil || *opts.Username != "octocat" {
				t.Errorf("Username = %v, want octocat", opts.Username)
			}

			return []*gitlab.User{
				{ID: 7, Username: "octocat", Name: "Octo Cat"},
			}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil
		})

	usersService := NewUsersTools(gitlabClient.Client)

	result, err := callTool(t, usersService.GetUser(), "get_user", map[string]any{
		"user_id": "@octocat",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got["id"] != float64(7) {
		t.Errorf("id = %v, want 7", got["id"])
	}
}

func TestGetUser_unknownUsername(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockUsers.EXPECT().
		ListUsers(gomock.Any(), gomock.Any()).
		Return([]*gitlab.User{}, &gitlab.Response{
			Response: &http.Response{StatusCode: http.StatusOK},
		}, nil)

	usersService := NewUsersTools(gitlabClient.Client)

	_, err := callTool(t, usersService.GetUser(), "get_user", map[string]any{
		"user_id": "ghost",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown username")
	}
}

func TestListUserEvents(t *testing.T) {
	gitlabClient := glabtest.NewTestClient(t)

	gitlabClient.MockUsers.EXPECT().
		ListUserContributionEvents(gomock.Eq(7), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, opts *gitlab.ListContributionEventsOptions, _ ...gitlab.RequestOptionFunc) ([]*gitlab.ContributionEvent, *gitlab.Response, error) {
			if opts.Action == nil || *opts.Action != gitlab.EventTypeValue("pushed") {
				t.Errorf("Action = %v, want pushed", opts.Action)
			}

			return []*gitlab.ContributionEvent{
				{ID: 100, ActionName: "pushed", TargetType: "Commit"},
			}, &gitlab.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil
		})

	usersService := NewUsersTools(gitlabClient.Client)

	result, err := callTool(t, usersService.ListUserEvents(), "list_user_events", map[string]any{
		"user_id": "7",
		"action":  "pushed",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	var got []map[string]any
	if err := unmarshalResult(result, &got); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(got) != 1 || got[0]["action"] != "pushed" {
		t.Errorf("events = %v, want the single pushed event", got)
	}
}

func TestListUserEvents_invalidDate(t *testing.T) {
	// No mock expectations: a malformed date must never reach the API.
	gitlabClient := glabtest.NewTestClient(t)

	usersService := NewUsersTools(gitlabClient.Client)

	result, err := callTool(t, usersService.ListUserEvents(), "list_user_events", map[string]any{
		"user_id": "7",
		"after":   "last tuesday",
	})
	if err != nil {
		t.Fatalf("CallTool() = %v", err)
	}

	if !result.IsError {
		t.Error("expected a validation error result")
	}
}
