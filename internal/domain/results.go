package domain

import "time"

// TrackResultRow is one submission's aggregated scores in a results table.
// TotalScore is nil when no submitted sheets exist ("unscored" is distinct
// from "scored zero"), and unscored rows always carry a nil rank.
type TrackResultRow struct {
	SubmissionID    string              `json:"submission_id"`
	Title           string              `json:"title"`
	Status          SubmissionStatus    `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	ScoreCount      int                 `json:"score_count"`
	TotalScore      *float64            `json:"total_score"`
	CategoryScores  map[string]float64  `json:"category_scores"`
	CategoryScore   *float64            `json:"category_score,omitempty"`
	Rank            *int                `json:"rank"`
	TokensByFacetID map[string][]string `json:"facet_tokens_by_facet_id"`
	Facets          []FacetDisplay      `json:"facets"`
}

// FacetTokens implements the facet filter contract.
func (r TrackResultRow) FacetTokens() map[string][]string { return r.TokensByFacetID }

// TrackResultsReport aggregates all submitted score sheets of a track into
// overall and per-category rankings, with facet filter metadata for
// post-hoc narrowing of the tables.
type TrackResultsReport struct {
	Submissions                []TrackResultRow            `json:"submissions"`
	OverallRankings            []TrackResultRow            `json:"overall_rankings"`
	CategoryRankingsByCategory map[string][]TrackResultRow `json:"category_rankings_by_category"`
	Categories                 []string                    `json:"categories"`
	FilterFacets               []FilterFacet               `json:"filter_facets"`
}
