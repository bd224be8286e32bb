package models

import "encoding/json"

// NoteSummary is a single note inside a discussion thread.
type NoteSummary struct {
	ID         int    `json:"id" gl:"id,required"`
	Body       string `json:"body"`
	Author     string `json:"author" glconv:"usernameloose"`
	IsSystem   bool   `json:"is_system" gl:"system"`
	Resolvable bool   `json:"resolvable"`
	Resolved   bool   `json:"resolved"`

	CreatedAt string `json:"-" gl:"created_at"`
}

func (n NoteSummary) MarshalJSON() ([]byte, error) {
	type alias NoteSummary

	return json.Marshal(struct {
		alias
		Created string `json:"created"`
	}{alias(n), RelativeTime(n.CreatedAt)})
}

// DiscussionSummary is a discussion thread with its notes.
type DiscussionSummary struct {
	ID             string        `json:"id" gl:"id,required"`
	IndividualNote bool          `json:"individual_note"`
	Notes          []NoteSummary `json:"notes"`
}

func (d DiscussionSummary) MarshalJSON() ([]byte, error) {
	if d.Notes == nil {
		d.Notes = []NoteSummary{}
	}

	type alias DiscussionSummary

	return json.Marshal(alias(d))
}

// NoteResolveResult reports resolving or unresolving a discussion note.
type NoteResolveResult struct {
	DiscussionID string `json:"discussion_id"`
	Resolved     bool   `json:"resolved"`
}
