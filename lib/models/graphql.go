package models

// GraphQLError is a single error entry from a GraphQL response. Errors are
// data here: a response carrying errors is still a response.
type GraphQLError struct {
	Message string         `json:"message"`
	Path    []any          `json:"path,omitempty"`
	Ext     map[string]any `json:"extensions,omitempty" gl:"extensions"`
}

// GraphQLResponse is the decoded body of a GraphQL request. Raw holds the
// body as it came off the wire, for callers that pass pages through
// untouched.
type GraphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`

	Raw map[string]any `json:"-"`
}

// HasErrors reports whether the response carries error entries.
func (r GraphQLResponse) HasErrors() bool {
	return len(r.Errors) > 0
}

// PageInfo is the cursor state extracted from one page of a paginated
// GraphQL query.
type PageInfo struct {
	EndCursor   string `json:"end_cursor"`
	HasNextPage bool   `json:"has_next_page"`
}

// PaginationResult is the aggregate outcome of a paginated GraphQL run.
// Complete is true only when the server reported no further pages; hitting
// the page cap leaves it false. On an error-terminated run the error
// fields carry whatever pages were accumulated before the failure; the
// failing page's body is never included.
type PaginationResult struct {
	AllPages  []map[string]any `json:"all_pages"`
	PageCount int              `json:"page_count"`
	Complete  bool             `json:"complete"`

	Errors         []GraphQLError   `json:"errors,omitempty"`
	PagesFetched   *int             `json:"pages_fetched,omitempty"`
	PartialResults []map[string]any `json:"partial_results,omitempty"`
}
