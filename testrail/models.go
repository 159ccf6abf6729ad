package testrail

// Section is one grouping node of a suite, as returned by the list endpoint.
// The listing is flat: every record carries its depth and parent reference.
type Section struct {
	ID       int64  `json:"id"`
	SuiteID  int64  `json:"suite_id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
	Depth    int    `json:"depth"`
}

// Case ...
type Case struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	SectionID int64  `json:"section_id"`
	SuiteID   int64  `json:"suite_id"`
}

// Run ...
type Run struct {
	ID      int64  `json:"id"`
	SuiteID int64  `json:"suite_id"`
	Name    string `json:"name"`
}

// Result ...
type Result struct {
	ID int64 `json:"id"`
}

// AddSectionParams is the add_section request body. Absent optional fields are
// omitted from the payload, TestRail rejects literal nulls.
type AddSectionParams struct {
	SuiteID     int64  `json:"suite_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

// AddCaseParams ...
type AddCaseParams struct {
	Title             string `json:"title"`
	TemplateID        *int64 `json:"template_id,omitempty"`
	CustomDescription string `json:"custom_description,omitempty"`
}

// AddRunParams ...
type AddRunParams struct {
	SuiteID int64  `json:"suite_id"`
	Name    string `json:"name"`
}

// AddResultParams ...
type AddResultParams struct {
	StatusID int    `json:"status_id"`
	Elapsed  string `json:"elapsed,omitempty"`
	Comment  string `json:"comment,omitempty"`
}
