package service

import (
	"sort"
	"strings"

	"github.com/uniexpo/symposium-api/internal/domain"
)

// Generic faceted-matching engine. Entities expose their facet values as
// tokens (option id or typed-prefixed scalar); filters intersect on tokens,
// never on display labels.

// Faceted is anything that can be narrowed by facet filters.
type Faceted interface {
	FacetTokens() map[string][]string
}

// FacetWithOptions bundles a facet with its option rows for hierarchy
// resolution and selection handling.
type FacetWithOptions struct {
	domain.Facet
	Options []domain.FacetOption
}

// ApplyFilters keeps the rows that match every active facet filter: within
// one facet any selected token may match (OR), across facets all must
// (AND). A facet with an empty selection imposes no constraint. A row with
// no token for an actively filtered facet cannot match and is excluded.
func ApplyFilters[T Faceted](rows []T, selectedTokensByFacetID map[string][]string) []T {
	filtered := make([]T, 0, len(rows))

	for _, row := range rows {
		tokensByFacetID := row.FacetTokens()

		matches := true
		for facetID, selectedTokens := range selectedTokensByFacetID {
			if len(selectedTokens) == 0 {
				continue
			}

			rowTokens := tokensByFacetID[facetID]
			if !hasAnyToken(rowTokens, selectedTokens) {
				matches = false
				break
			}
		}

		if matches {
			filtered = append(filtered, row)
		}
	}

	return filtered
}

func hasAnyToken(rowTokens, selectedTokens []string) bool {
	for _, selected := range selectedTokens {
		for _, token := range rowTokens {
			if token == selected {
				return true
			}
		}
	}

	return false
}

// ResolveParentFacetID returns the facet a given facet depends on: the
// explicitly configured dependency when present, otherwise the PROGRAM →
// COLLEGE convention for option sets that carry parent links.
func ResolveParentFacetID(facet FacetWithOptions, facets []FacetWithOptions) string {
	if facet.DependsOnFacetID != nil && *facet.DependsOnFacetID != "" {
		return *facet.DependsOnFacetID
	}

	if !strings.EqualFold(facet.Code, "PROGRAM") {
		return ""
	}

	hasParentedOptions := false
	for _, option := range facet.Options {
		if option.ParentOptionID != nil && *option.ParentOptionID != "" {
			hasParentedOptions = true
			break
		}
	}
	if !hasParentedOptions {
		return ""
	}

	for _, candidate := range facets {
		if strings.EqualFold(candidate.Code, "COLLEGE") {
			return candidate.ID
		}
	}

	return ""
}

// ApplyFacetSelection is a pure reducer over a facet selection state: it
// returns a new state with the given facet set to value, then clears any
// child selection whose option no longer matches the newly selected parent
// option. The previous state is never mutated.
func ApplyFacetSelection(previous map[string]domain.FacetValue, facetID string, value domain.FacetValue, facets []FacetWithOptions) map[string]domain.FacetValue {
	next := make(map[string]domain.FacetValue, len(previous)+1)
	for id, v := range previous {
		next[id] = v
	}
	next[facetID] = value

	if value.Kind() != domain.FacetKindOptionList {
		return next
	}

	selectedParentOptionID := value.OptionID()

	for _, facet := range facets {
		if ResolveParentFacetID(facet, facets) != facetID {
			continue
		}

		childValue, ok := next[facet.ID]
		if !ok || childValue.Kind() != domain.FacetKindOptionList || childValue.OptionID() == "" {
			continue
		}

		if !childOptionMatchesParent(facet.Options, childValue.OptionID(), selectedParentOptionID) {
			next[facet.ID] = domain.FacetValue{}
		}
	}

	return next
}

func childOptionMatchesParent(options []domain.FacetOption, childOptionID, parentOptionID string) bool {
	for _, option := range options {
		if option.ID != childOptionID {
			continue
		}

		if option.ParentOptionID == nil || *option.ParentOptionID == "" {
			return true
		}

		return *option.ParentOptionID == parentOptionID
	}

	return false
}

// submissionFacetMaps carries the per-submission facet projections the
// queue and results paths both need.
type submissionFacetMaps struct {
	tokensBySubmissionID  map[string]map[string][]string
	displayBySubmissionID map[string][]domain.FacetDisplay
}

func buildSubmissionFacetMaps(values []domain.SubmissionFacetValue, facetByID map[string]domain.Facet, optionByID map[string]domain.FacetOption) submissionFacetMaps {
	maps := submissionFacetMaps{
		tokensBySubmissionID:  make(map[string]map[string][]string),
		displayBySubmissionID: make(map[string][]domain.FacetDisplay),
	}

	for _, row := range values {
		token, ok := row.Value.Token()
		if !ok {
			continue
		}

		tokens := maps.tokensBySubmissionID[row.SubmissionID]
		if tokens == nil {
			tokens = make(map[string][]string)
			maps.tokensBySubmissionID[row.SubmissionID] = tokens
		}
		if !containsToken(tokens[row.FacetID], token) {
			tokens[row.FacetID] = append(tokens[row.FacetID], token)
		}

		display := maps.displayBySubmissionID[row.SubmissionID]
		if facetDisplayed(display, row.FacetID, token) {
			continue
		}

		meta := facetByID[row.FacetID]
		maps.displayBySubmissionID[row.SubmissionID] = append(display, domain.FacetDisplay{
			FacetID: row.FacetID,
			Code:    meta.Code,
			Name:    meta.Name,
			Label:   row.Value.Label(optionByID),
			Token:   token,
		})
	}

	return maps
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}

	return false
}

func facetDisplayed(display []domain.FacetDisplay, facetID, token string) bool {
	for _, d := range display {
		if d.FacetID == facetID && d.Token == token {
			return true
		}
	}

	return false
}

// buildSelectedFilters maps a judge's profile facet values into labelled
// filter options keyed by facet, skipping duplicates.
func buildSelectedFilters(judgeValues []domain.JudgeFacetValue, optionByID map[string]domain.FacetOption) map[string][]domain.FilterOption {
	selected := make(map[string][]domain.FilterOption)

	for _, row := range judgeValues {
		token, ok := row.Value.Token()
		if !ok {
			continue
		}

		current := selected[row.FacetID]
		duplicate := false
		for _, item := range current {
			if item.Token == token {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		selected[row.FacetID] = append(current, domain.FilterOption{
			Token: token,
			Label: row.Value.Label(optionByID),
		})
	}

	return selected
}

func defaultSelectedTokens(selected map[string][]domain.FilterOption) map[string][]string {
	tokens := make(map[string][]string, len(selected))
	for facetID, items := range selected {
		facetTokens := make([]string, len(items))
		for i, item := range items {
			facetTokens[i] = item.Token
		}
		tokens[facetID] = facetTokens
	}

	return tokens
}

// buildFilterFacets produces the filter descriptors for a row set: every
// observed token with its row count, plus the judge's default selections
// at count zero when no row carries them. Options sort by label, facets by
// name falling back to code.
func buildFilterFacets(displayBySubmissionID map[string][]domain.FacetDisplay, submissionIDs []string, facetByID map[string]domain.Facet, judgeDefaults map[string][]domain.FilterOption) []domain.FilterFacet {
	optionsByFacetID := make(map[string]map[string]*domain.FilterOption)

	record := func(facetID, token, label string, count int) {
		options := optionsByFacetID[facetID]
		if options == nil {
			options = make(map[string]*domain.FilterOption)
			optionsByFacetID[facetID] = options
		}

		if existing, ok := options[token]; ok {
			existing.Count += count
			return
		}

		options[token] = &domain.FilterOption{Token: token, Label: label, Count: count}
	}

	for _, submissionID := range submissionIDs {
		for _, display := range displayBySubmissionID[submissionID] {
			record(display.FacetID, display.Token, display.Label, 1)
		}
	}

	for facetID, defaults := range judgeDefaults {
		for _, item := range defaults {
			record(facetID, item.Token, item.Label, 0)
		}
	}

	facets := make([]domain.FilterFacet, 0, len(optionsByFacetID))
	for facetID, optionMap := range optionsByFacetID {
		meta := facetByID[facetID]

		options := make([]domain.FilterOption, 0, len(optionMap))
		for _, option := range optionMap {
			options = append(options, *option)
		}
		sort.Slice(options, func(i, j int) bool {
			return options[i].Label < options[j].Label
		})

		facets = append(facets, domain.FilterFacet{
			FacetID: facetID,
			Code:    meta.Code,
			Name:    meta.Name,
			Options: options,
		})
	}

	sort.Slice(facets, func(i, j int) bool {
		return facetSortKey(facets[i]) < facetSortKey(facets[j])
	})

	return facets
}

func facetSortKey(facet domain.FilterFacet) string {
	if facet.Name != "" {
		return facet.Name
	}

	return facet.Code
}
