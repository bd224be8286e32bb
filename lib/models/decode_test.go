package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// nativeIssue mimics the shape of a client-go object: json tags carry the
// wire names and optional attributes are pointers.
type nativeIssue struct {
	ID         int         `json:"id"`
	Title      string      `json:"title"`
	State      string      `json:"state"`
	Author     *nativeUser `json:"author"`
	CreatedAt  *time.Time  `json:"created_at"`
	WebURL     string      `json:"web_url"`
	AssigneeID int         `json:"assignee_id"`
}

type nativeUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

type issueModel struct {
	ID        int    `json:"id" gl:"id,required"`
	Title     string `json:"title"`
	State     string `json:"state" gldefault:"opened"`
	Author    string `json:"author" glconv:"username"`
	CreatedAt string `json:"-" gl:"created_at"`
	URL       string `json:"url" gl:"web_url"`
	Assignee  *int   `json:"assignee_id,omitempty" gl:"assignee_id"`
}

func TestFromNative(t *testing.T) {
	created := time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC)

	native := &nativeIssue{
		ID:        17,
		Title:     "Fix login timeout",
		Author:    &nativeUser{ID: 3, Username: "mwielgoske"},
		CreatedAt: &created,
		WebURL:    "https://gitlab.example.com/g/p/-/issues/17",
	}

	got, err := FromNative[issueModel](native)
	if err != nil {
		t.Fatalf("FromNative() = %v", err)
	}

	want := issueModel{
		ID:        17,
		Title:     "Fix login timeout",
		State:     "opened",
		Author:    "mwielgoske",
		CreatedAt: "2024-03-10T08:30:00Z",
		URL:       "https://gitlab.example.com/g/p/-/issues/17",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromNative() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromNative_rejectsMap(t *testing.T) {
	_, err := FromNative[issueModel](map[string]any{"id": 1})
	if !errors.Is(err, ErrPlainMap) {
		t.Errorf("FromNative(map) = %v, want ErrPlainMap", err)
	}
}

func TestFromNative_missingRequired(t *testing.T) {
	_, err := FromNative[issueModel](&nativeIssue{Title: "no id"})
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("FromNative() = %v, want ErrMissingField", err)
	}
}

func TestFromNativeList(t *testing.T) {
	issues := []*nativeIssue{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second"},
	}

	got, err := FromNativeList[issueModel](issues)
	if err != nil {
		t.Fatalf("FromNativeList() = %v", err)
	}

	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("FromNativeList() = %+v, want IDs 1 and 2", got)
	}
}

func TestFromNativeList_nil(t *testing.T) {
	got, err := FromNativeList[issueModel](nil)
	if err != nil {
		t.Fatalf("FromNativeList(nil) = %v", err)
	}

	if got == nil || len(got) != 0 {
		t.Errorf("FromNativeList(nil) = %v, want empty non-nil slice", got)
	}
}

func TestFromMap(t *testing.T) {
	m := map[string]any{
		"id":      float64(42),
		"title":   "Map-shaped payload",
		"state":   "closed",
		"author":  map[string]any{"id": float64(9), "username": "ghost"},
		"web_url": "https://gitlab.example.com/g/p/-/issues/42",
	}

	got, err := FromMap[issueModel](m)
	if err != nil {
		t.Fatalf("FromMap() = %v", err)
	}

	want := issueModel{
		ID:     42,
		Title:  "Map-shaped payload",
		State:  "closed",
		Author: "ghost",
		URL:    "https://gitlab.example.com/g/p/-/issues/42",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMap_emptyStringIsAbsent(t *testing.T) {
	got, err := FromMap[issueModel](map[string]any{
		"id":    float64(1),
		"state": "",
	})
	if err != nil {
		t.Fatalf("FromMap() = %v", err)
	}

	// An empty string does not defeat the declared default.
	if got.State != "opened" {
		t.Errorf("State = %q, want default %q", got.State, "opened")
	}
}

func TestFromMapList_rejectsNonMap(t *testing.T) {
	_, err := FromMapList[issueModel]([]any{"not a map"})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("FromMapList() = %v, want ErrDecode", err)
	}
}

func TestFromNative_optionalZeroStaysNil(t *testing.T) {
	got, err := FromNative[issueModel](&nativeIssue{ID: 5})
	if err != nil {
		t.Fatalf("FromNative() = %v", err)
	}

	if got.Assignee != nil {
		t.Errorf("Assignee = %v, want nil for absent attribute", *got.Assignee)
	}
}

func TestFromNative_embeddedStruct(t *testing.T) {
	// client-go keeps most merge request attributes on an embedded
	// BasicMergeRequest; they must resolve as fields of the outer struct.
	mr := &gitlab.MergeRequest{
		BasicMergeRequest: gitlab.BasicMergeRequest{
			IID:    42,
			Title:  "Embedded fields",
			State:  "opened",
			WebURL: "https://gitlab.example.com/test/project/-/merge_requests/42",
		},
		HeadPipeline: &gitlab.Pipeline{ID: 9, Status: "failed"},
	}

	got, err := FromNative[MergeRequestSummary](mr)
	if err != nil {
		t.Fatalf("FromNative() = %v", err)
	}

	if got.IID != 42 {
		t.Errorf("IID = %d, want 42", got.IID)
	}

	if got.Title != "Embedded fields" {
		t.Errorf("Title = %q, want the embedded title", got.Title)
	}

	if got.HeadPipeline == nil || got.HeadPipeline.Status != "failed" {
		t.Errorf("HeadPipeline = %v, want the outer struct's pipeline", got.HeadPipeline)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ID", "id"},
		{"WebURL", "web_url"},
		{"CreatedAt", "created_at"},
		{"MergeRequestIID", "merge_request_iid"},
		{"SHA", "sha"},
	}

	for _, tc := range cases {
		if got := toSnakeCase(tc.in); got != tc.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
