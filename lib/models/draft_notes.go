package models

// DraftNoteSummary is a pending review note on a merge request.
type DraftNoteSummary struct {
	ID                int    `json:"id" gl:"id,required"`
	AuthorID          int    `json:"author_id"`
	MergeRequestIID   int    `json:"merge_request_iid" gl:"merge_request_id"`
	Note              string `json:"note"`
	ResolveDiscussion bool   `json:"resolve_discussion"`
}

// DraftNotePublishResult reports publishing one or all draft notes.
type DraftNotePublishResult struct {
	Published bool `json:"published"`
	DraftID   *int `json:"draft_id,omitempty"`
	All       bool `json:"all,omitempty"`
}
