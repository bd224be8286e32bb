package models

import "encoding/json"

// MilestoneSummary is the slim milestone representation.
type MilestoneSummary struct {
	ID        int     `json:"id" gl:"id,required"`
	IID       int     `json:"iid"`
	Title     string  `json:"title"`
	Desc      string  `json:"description" gl:"description"`
	State     string  `json:"state"`
	DueDate   *string `json:"due_date"`
	StartDate *string `json:"start_date"`
	URL       string  `json:"url" gl:"web_url"`

	UpdatedAt string `json:"-" gl:"updated_at"`
}

func (m MilestoneSummary) MarshalJSON() ([]byte, error) {
	type alias MilestoneSummary

	return json.Marshal(struct {
		alias
		Updated string `json:"updated"`
	}{alias(m), RelativeTime(m.UpdatedAt)})
}

// MilestoneDeleteResult reports the removal of a milestone.
type MilestoneDeleteResult struct {
	Deleted     bool `json:"deleted"`
	MilestoneID int  `json:"milestone_id"`
}
