package models

// WikiPageSummary is a wiki page without its content, as returned by
// listings.
type WikiPageSummary struct {
	Slug   string `json:"slug" gl:"slug,required"`
	Title  string `json:"title"`
	Format string `json:"format"`
}

// WikiPage is a full wiki page including content.
type WikiPage struct {
	Slug    string `json:"slug" gl:"slug,required"`
	Title   string `json:"title"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// WikiPageDeleteResult reports the removal of a wiki page.
type WikiPageDeleteResult struct {
	Deleted bool   `json:"deleted"`
	Slug    string `json:"slug"`
}
