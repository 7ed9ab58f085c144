package domain

import "time"

// FacetDisplay is one facet value of a row, denormalized for rendering.
type FacetDisplay struct {
	FacetID string `json:"facet_id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	Token   string `json:"token"`
}

// FilterOption is one selectable token of a filter facet with its row count.
type FilterOption struct {
	Token string `json:"token"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FilterFacet describes one filterable dimension over a row set.
type FilterFacet struct {
	FacetID string         `json:"facet_id"`
	Code    string         `json:"code"`
	Name    string         `json:"name"`
	Options []FilterOption `json:"options"`
}

// QueueSubmission is an eligible submission as presented in a judge's queue.
type QueueSubmission struct {
	SubmissionID       string              `json:"submission_id"`
	Title              string              `json:"title"`
	Status             SubmissionStatus    `json:"status"`
	TrackID            string              `json:"track_id"`
	TrackName          string              `json:"track_name"`
	SupervisorPersonID *uint               `json:"supervisor_person_id"`
	CreatedAt          time.Time           `json:"created_at"`
	TokensByFacetID    map[string][]string `json:"facet_tokens_by_facet_id"`
	Facets             []FacetDisplay      `json:"facets"`
}

// FacetTokens implements the facet filter contract.
func (s QueueSubmission) FacetTokens() map[string][]string { return s.TokensByFacetID }

// QueueResult is the full queue payload for one judge and event instance.
// FilteredSubmissions applies the judge's default profile selection; the
// filters only narrow what is displayed, never what is fetched.
type QueueResult struct {
	Submissions                    []QueueSubmission   `json:"submissions"`
	FilteredSubmissions            []QueueSubmission   `json:"filtered_submissions"`
	FilterFacets                   []FilterFacet       `json:"filter_facets"`
	DefaultSelectedTokensByFacetID map[string][]string `json:"default_selected_tokens_by_facet_id"`
}
