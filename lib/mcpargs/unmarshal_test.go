package mcpargs

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name            string
		arguments       map[string]any
		want            any
		wantErr         bool
		wantErrContains string
	}{
		{
			name: "single string field",
			arguments: map[string]any{
				"branch": "main",
			},
			want: struct {
				Branch string `mcp_desc:"Branch name" mcp_required:"true"`
			}{
				Branch: "main",
			},
		},
		{
			name: "typical list arguments",
			arguments: map[string]any{
				"search":     "timeout",
				"per_page":   50,
				"membership": true,
				"threshold":  0.75,
				"ignored":    "this key isn't in the struct",
			},
			want: struct {
				Search     string  `mcp_desc:"Search term"`
				PerPage    int     `mcp_desc:"Page size"`
				Membership bool    `mcp_desc:"Member projects only"`
				Threshold  float64 `mcp_desc:"Score threshold"`
			}{
				Search:     "timeout",
				PerPage:    50,
				Membership: true,
				Threshold:  0.75,
			},
		},
		{
			name: "snake case field mapping",
			arguments: map[string]any{
				"source_branch": "feature/retry",
				"target_branch": "main",
			},
			want: struct {
				SourceBranch string `mcp_desc:"Source branch"`
				TargetBranch string `mcp_desc:"Target branch"`
			}{
				SourceBranch: "feature/retry",
				TargetBranch: "main",
			},
		},
		{
			name: "acronyms in field names",
			arguments: map[string]any{
				"issue_iid": 42,
				"sha":       "aabbccdd",
			},
			want: struct {
				IssueIID int    `mcp_desc:"Issue IID"`
				SHA      string `mcp_desc:"Commit SHA"`
			}{
				IssueIID: 42,
				SHA:      "aabbccdd",
			},
		},
		{
			name: "numeric conversions",
			arguments: map[string]any{
				"title":    "42",         // Strings are never converted to numbers.
				"per_page": 20.0,         // JSON numbers arrive as float64.
				"offset":   float64(100), // Float to uint
				"backoff":  2,            // Int to float
			},
			want: struct {
				Title   string  `mcp_desc:"Title"`
				PerPage int     `mcp_desc:"Page size"`
				Offset  uint    `mcp_desc:"Result offset"`
				Backoff float64 `mcp_desc:"Retry backoff"`
			}{
				Title:   "42",
				PerPage: 20,
				Offset:  100,
				Backoff: 2.0,
			},
		},
		{
			name: "optional argument left out",
			arguments: map[string]any{
				"title": "Login times out",
				// description is missing
			},
			want: struct {
				Title       string `mcp_desc:"Issue title"`
				Description string `mcp_desc:"Issue description"`
			}{
				Title:       "Login times out",
				Description: "", // Zero value because it's not in arguments
			},
		},
		{
			name: "optional bool tri-state",
			arguments: map[string]any{
				"title":  "WIP",
				"squash": true,
				// draft is missing and must stay unset
			},
			want: struct {
				Title  string       `mcp_desc:"Title"`
				Squash OptionalBool `mcp_desc:"Squash on merge"`
				Draft  OptionalBool `mcp_desc:"Mark as draft"`
			}{
				Title:  "WIP",
				Squash: OptionalBool{value: true, isSet: true},
			},
		},
		{
			name: "unexported fields result in error",
			arguments: map[string]any{
				"title":  "Login times out",
				"client": "should cause error",
			},
			want: struct {
				Title  string `mcp_desc:"Title"`
				client string // unexported field
			}{},
			wantErr:         true,
			wantErrContains: "unexported field",
		},
		{
			name: "nested struct - should error",
			arguments: map[string]any{
				"title": "Login times out",
				"milestone": map[string]any{
					"iid":   4,
					"title": "v1.1",
				},
			},
			want: struct {
				Title     string `mcp_desc:"Title"`
				Milestone struct {
					IID   int    `mcp_desc:"Milestone IID"`
					Title string `mcp_desc:"Milestone title"`
				} `mcp_desc:"Milestone"`
			}{},
			wantErr:         true,
			wantErrContains: "unsupported type",
		},
		{
			name: "struct with channel field - should error",
			arguments: map[string]any{
				"title":   "Login times out",
				"updates": nil,
			},
			want: struct {
				Title   string      `mcp_desc:"Title"`
				Updates chan string `mcp_desc:"Update channel"`
			}{},
			wantErr:         true,
			wantErrContains: "unsupported type",
		},
		{
			name: "struct with func field - should error",
			arguments: map[string]any{
				"title":    "Login times out",
				"callback": nil,
			},
			want: struct {
				Title    string `mcp_desc:"Title"`
				Callback func() `mcp_desc:"Callback function"`
			}{},
			wantErr:         true,
			wantErrContains: "unsupported type",
		},
		{
			name: "struct with map field - should error",
			arguments: map[string]any{
				"title":     "Login times out",
				"variables": map[string]string{"CI_DEBUG": "true"},
			},
			want: struct {
				Title     string            `mcp_desc:"Title"`
				Variables map[string]string `mcp_desc:"Pipeline variables"`
			}{},
			wantErr:         true,
			wantErrContains: "unsupported type",
		},
		{
			name: "struct with slice field - should error",
			arguments: map[string]any{
				"title":  "Login times out",
				"labels": []string{"bug", "p1"},
			},
			want: struct {
				Title  string   `mcp_desc:"Title"`
				Labels []string `mcp_desc:"Labels"`
			}{},
			wantErr:         true,
			wantErrContains: "unsupported type",
		},
		{
			name: "error - non-struct pointer",
			arguments: map[string]any{
				"value": 42,
			},
			want:            42, // Not a struct
			wantErr:         true,
			wantErrContains: "must be a pointer to a struct",
		},
		{
			name: "project ID using path",
			arguments: map[string]any{
				"project_id": "group/project",
			},
			want: struct {
				ProjectID ID `mcp_desc:"The project ID" mcp_required:"true"`
			}{
				ProjectID: ID{
					String: "group/project",
				},
			},
		},
		{
			name: "project ID using integer",
			arguments: map[string]any{
				"project_id": "1234",
			},
			want: struct {
				ProjectID ID `mcp_desc:"The project ID" mcp_required:"true"`
			}{
				ProjectID: ID{
					Integer: 1234,
				},
			},
		},
		{
			name: "required field is missing - should error",
			arguments: map[string]any{
				"project_id": "1234",
				// missing: merge_request_iid
			},
			want: struct {
				ProjectID       ID  `mcp_desc:"The project ID" mcp_required:"true"`
				MergeRequestIID int `mcp_desc:"The merge request IID" mcp_required:"true"`
			}{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a new zero value of the concrete type
			wantType := reflect.TypeOf(tt.want)
			got := reflect.New(wantType).Elem()

			// Pass a pointer to got to the Unmarshal function
			err := Unmarshal(tt.arguments, got.Addr().Interface())

			// Check if we expect an error
			if tt.wantErr {
				if err == nil {
					t.Errorf("Unmarshal() expected error but got nil")
					return
				}

				if tt.wantErrContains != "" && !strings.Contains(err.Error(), tt.wantErrContains) {
					t.Errorf("Unmarshal() error = %v, wantErrContains %q", err, tt.wantErrContains)
				}

				return
			}

			// Otherwise we don't expect an error
			if err != nil {
				t.Errorf("Unmarshal() error = %v", err)
				return
			}

			if diff := cmp.Diff(tt.want, got.Interface(), cmpopts.EquateEmpty(), cmp.AllowUnexported(OptionalBool{})); diff != "" {
				t.Errorf("Unmarshal() mismatch (-want/+got):\n%s", diff)
			}
		})
	}
}

// Additional test for errors.
func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name            string
		arguments       map[string]any
		target          any
		wantErrContains string
	}{
		{
			name: "nil pointer",
			arguments: map[string]any{
				"branch": "main",
			},
			target:          nil,
			wantErrContains: "must be a non-nil pointer",
		},
		{
			name: "non-pointer target",
			arguments: map[string]any{
				"branch": "main",
			},
			target:          struct{}{},
			wantErrContains: "must be a non-nil pointer",
		},
		{
			name: "pointer to non-struct",
			arguments: map[string]any{
				"value": 42,
			},
			target:          new(int),
			wantErrContains: "must be a pointer to a struct",
		},
		{
			name: "type conversion error - string to int",
			arguments: map[string]any{
				"per_page": "twenty",
			},
			target: &struct {
				PerPage int `mcp_desc:"Page size"`
			}{},
			wantErrContains: "cannot convert",
		},
		{
			name: "negative value to unsigned int",
			arguments: map[string]any{
				"offset": -10,
			},
			target: &struct {
				Offset uint `mcp_desc:"Result offset"`
			}{},
			wantErrContains: "negative value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Unmarshal(tt.arguments, tt.target)

			// We expect an error in all these cases
			if err == nil {
				t.Errorf("Unmarshal() expected error but got nil")
				return
			}

			// Check if error message contains expected string
			if !strings.Contains(err.Error(), tt.wantErrContains) {
				t.Errorf("Unmarshal() error = %v, wantErrContains %q", err, tt.wantErrContains)
			}
		})
	}
}
