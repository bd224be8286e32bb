package models

// LabelSummary is the slim label representation.
type LabelSummary struct {
	ID          int    `json:"id" gl:"id,required"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Priority    *int   `json:"priority"`
	IsProject   bool   `json:"is_project_label"`
}

// LabelDeleteResult reports the removal of a label.
type LabelDeleteResult struct {
	Deleted bool   `json:"deleted"`
	Label   string `json:"label"`
}
