package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniexpo/symposium-api/internal/domain"
)

type facetedRow struct {
	id     string
	tokens map[string][]string
}

func (r facetedRow) FacetTokens() map[string][]string { return r.tokens }

func rowIDs(rows []facetedRow) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.id
	}
	return ids
}

func TestApplyFilters(t *testing.T) {
	rows := []facetedRow{
		{id: "a", tokens: map[string][]string{"college": {"opt-a"}}},
		{id: "b", tokens: map[string][]string{"college": {"opt-b"}}},
		{id: "c", tokens: map[string][]string{"college": {"opt-a"}}},
	}

	filtered := ApplyFilters(rows, map[string][]string{"college": {"opt-a"}})
	assert.Equal(t, []string{"a", "c"}, rowIDs(filtered))

	// An empty selection imposes no constraint.
	all := ApplyFilters(rows, map[string][]string{"college": {}})
	assert.Len(t, all, 3)

	none := ApplyFilters(rows, nil)
	assert.Len(t, none, 3)
}

func TestApplyFilters_AndAcrossFacetsOrWithin(t *testing.T) {
	rows := []facetedRow{
		{id: "a", tokens: map[string][]string{"college": {"opt-a"}, "level": {"text:senior"}}},
		{id: "b", tokens: map[string][]string{"college": {"opt-a"}, "level": {"text:junior"}}},
		{id: "c", tokens: map[string][]string{"college": {"opt-b"}, "level": {"text:senior"}}},
	}

	filtered := ApplyFilters(rows, map[string][]string{
		"college": {"opt-a"},
		"level":   {"text:senior"},
	})
	assert.Equal(t, []string{"a"}, rowIDs(filtered))

	broadened := ApplyFilters(rows, map[string][]string{
		"college": {"opt-a", "opt-b"},
		"level":   {"text:senior"},
	})
	assert.Equal(t, []string{"a", "c"}, rowIDs(broadened))
}

func TestApplyFilters_RowWithoutTokenIsExcluded(t *testing.T) {
	rows := []facetedRow{
		{id: "tagged", tokens: map[string][]string{"college": {"opt-a"}}},
		{id: "untagged", tokens: map[string][]string{}},
	}

	filtered := ApplyFilters(rows, map[string][]string{"college": {"opt-a"}})

	assert.Equal(t, []string{"tagged"}, rowIDs(filtered))
}

func strPtr(s string) *string {
	return &s
}

func hierarchyFixture() []FacetWithOptions {
	college := FacetWithOptions{
		Facet: domain.Facet{ID: "facet-college", Code: "COLLEGE", Name: "College", ValueKind: domain.FacetKindOptionList},
		Options: []domain.FacetOption{
			{ID: "col-eng", FacetID: "facet-college", Label: "Engineering"},
			{ID: "col-art", FacetID: "facet-college", Label: "Arts"},
		},
	}
	program := FacetWithOptions{
		Facet: domain.Facet{ID: "facet-program", Code: "PROGRAM", Name: "Program", ValueKind: domain.FacetKindOptionList},
		Options: []domain.FacetOption{
			{ID: "prog-cs", FacetID: "facet-program", Label: "Computer Science", ParentOptionID: strPtr("col-eng")},
			{ID: "prog-th", FacetID: "facet-program", Label: "Theatre", ParentOptionID: strPtr("col-art")},
		},
	}

	return []FacetWithOptions{college, program}
}

func TestResolveParentFacetID(t *testing.T) {
	facets := hierarchyFixture()

	assert.Equal(t, "facet-college", ResolveParentFacetID(facets[1], facets))
	assert.Empty(t, ResolveParentFacetID(facets[0], facets))

	// An explicit dependency wins over the naming convention.
	explicit := facets[1]
	explicit.Code = "MAJOR"
	explicit.DependsOnFacetID = strPtr("facet-college")
	assert.Equal(t, "facet-college", ResolveParentFacetID(explicit, facets))

	// PROGRAM without parented options has no inferred parent.
	flat := facets[1]
	flat.Options = []domain.FacetOption{{ID: "prog-x", FacetID: "facet-program", Label: "General"}}
	assert.Empty(t, ResolveParentFacetID(flat, facets))
}

func TestApplyFacetSelection_ClearsInconsistentChild(t *testing.T) {
	facets := hierarchyFixture()

	state := map[string]domain.FacetValue{}
	state = ApplyFacetSelection(state, "facet-college", domain.OptionRefValue("col-eng"), facets)
	state = ApplyFacetSelection(state, "facet-program", domain.OptionRefValue("prog-cs"), facets)

	require.Equal(t, "prog-cs", state["facet-program"].OptionID())

	// Switching the parent clears the now-inconsistent child selection.
	state = ApplyFacetSelection(state, "facet-college", domain.OptionRefValue("col-art"), facets)

	assert.Equal(t, "col-art", state["facet-college"].OptionID())
	assert.True(t, state["facet-program"].IsZero())
}

func TestApplyFacetSelection_KeepsConsistentChild(t *testing.T) {
	facets := hierarchyFixture()

	state := map[string]domain.FacetValue{
		"facet-program": domain.OptionRefValue("prog-th"),
	}

	next := ApplyFacetSelection(state, "facet-college", domain.OptionRefValue("col-art"), facets)

	assert.Equal(t, "prog-th", next["facet-program"].OptionID())
	// The previous snapshot is never mutated.
	assert.Equal(t, "prog-th", state["facet-program"].OptionID())
	_, hadCollege := state["facet-college"]
	assert.False(t, hadCollege)
}

func TestFacetValueTokens(t *testing.T) {
	tests := []struct {
		name  string
		value domain.FacetValue
		want  string
		ok    bool
	}{
		{name: "option ref", value: domain.OptionRefValue("opt-1"), want: "opt-1", ok: true},
		{name: "text", value: domain.TextValue("senior"), want: "text:senior", ok: true},
		{name: "number", value: domain.NumberValue(4), want: "number:4", ok: true},
		{name: "date", value: domain.DateValue("2026-04-10"), want: "date:2026-04-10", ok: true},
		{name: "zero value", value: domain.FacetValue{}, ok: false},
		{name: "empty text", value: domain.TextValue(""), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := tt.value.Token()

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestBuildFilterFacets_CountsAndSorts(t *testing.T) {
	facetByID := map[string]domain.Facet{
		"facet-college": {ID: "facet-college", Code: "COLLEGE", Name: "College"},
	}
	display := map[string][]domain.FacetDisplay{
		"sub-1": {{FacetID: "facet-college", Code: "COLLEGE", Name: "College", Label: "Engineering", Token: "col-eng"}},
		"sub-2": {{FacetID: "facet-college", Code: "COLLEGE", Name: "College", Label: "Arts", Token: "col-art"}},
		"sub-3": {{FacetID: "facet-college", Code: "COLLEGE", Name: "College", Label: "Engineering", Token: "col-eng"}},
	}

	facets := buildFilterFacets(display, []string{"sub-1", "sub-2", "sub-3"}, facetByID, nil)

	require.Len(t, facets, 1)
	require.Len(t, facets[0].Options, 2)
	// Label-ascending order.
	assert.Equal(t, "Arts", facets[0].Options[0].Label)
	assert.Equal(t, 1, facets[0].Options[0].Count)
	assert.Equal(t, "Engineering", facets[0].Options[1].Label)
	assert.Equal(t, 2, facets[0].Options[1].Count)
}

func TestBuildFilterFacets_JudgeDefaultsAppearAtZeroCount(t *testing.T) {
	facetByID := map[string]domain.Facet{
		"facet-college": {ID: "facet-college", Code: "COLLEGE", Name: "College"},
	}
	display := map[string][]domain.FacetDisplay{
		"sub-1": {{FacetID: "facet-college", Label: "Engineering", Token: "col-eng"}},
	}
	judgeDefaults := map[string][]domain.FilterOption{
		"facet-college": {{Token: "col-art", Label: "Arts"}},
	}

	facets := buildFilterFacets(display, []string{"sub-1"}, facetByID, judgeDefaults)

	require.Len(t, facets, 1)
	require.Len(t, facets[0].Options, 2)
	assert.Equal(t, 0, facets[0].Options[0].Count)
	assert.Equal(t, "Arts", facets[0].Options[0].Label)
}
