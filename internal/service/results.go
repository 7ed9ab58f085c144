package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/uniexpo/symposium-api/internal/domain"
)

// Category assigned to score items whose criterion carries no category.
const uncategorizedCategory = "uncategorized"

type ResultsSubmissionRepository interface {
	GetByTrackID(ctx context.Context, trackID string) ([]domain.Submission, error)
}

type ResultsScoreRepository interface {
	GetSubmittedSheetsBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]domain.ScoreSheet, error)
	GetItemsBySheetIDs(ctx context.Context, sheetIDs []string) ([]domain.ScoreItem, error)
}

type ResultsRubricRepository interface {
	GetCriteriaByIDs(ctx context.Context, ids []string) ([]domain.Criterion, error)
}

type ResultsFacetRepository interface {
	GetSubmissionValues(ctx context.Context, submissionIDs []string) ([]domain.SubmissionFacetValue, error)
	GetFacetsByIDs(ctx context.Context, ids []string) ([]domain.Facet, error)
	GetOptionsByIDs(ctx context.Context, ids []string) ([]domain.FacetOption, error)
}

// ResultsService aggregates submitted score sheets into ranked track
// results. Filtering a report never changes a score, only which rows are
// displayed, so averages are computed once over all submitted sheets.
type ResultsService struct {
	submissions ResultsSubmissionRepository
	scores      ResultsScoreRepository
	rubrics     ResultsRubricRepository
	facets      ResultsFacetRepository
}

func NewResultsService(submissions ResultsSubmissionRepository, scores ResultsScoreRepository, rubrics ResultsRubricRepository, facets ResultsFacetRepository) *ResultsService {
	return &ResultsService{
		submissions: submissions,
		scores:      scores,
		rubrics:     rubrics,
		facets:      facets,
	}
}

// GetTrackResultsReport builds the overall and per-category rankings for
// every submission in the track.
func (s *ResultsService) GetTrackResultsReport(ctx context.Context, trackID string) (domain.TrackResultsReport, error) {
	submissions, err := s.submissions.GetByTrackID(ctx, trackID)
	if err != nil {
		return domain.TrackResultsReport{}, fmt.Errorf("s.submissions.GetByTrackID -> %w", err)
	}
	if len(submissions) == 0 {
		return emptyResultsReport(), nil
	}

	submissionIDs := make([]string, len(submissions))
	for i, submission := range submissions {
		submissionIDs[i] = submission.ID
	}

	sheets, err := s.scores.GetSubmittedSheetsBySubmissionIDs(ctx, submissionIDs)
	if err != nil {
		return domain.TrackResultsReport{}, fmt.Errorf("s.scores.GetSubmittedSheetsBySubmissionIDs -> %w", err)
	}

	sheetIDs := make([]string, len(sheets))
	for i, sheet := range sheets {
		sheetIDs[i] = sheet.ID
	}

	items, err := s.scores.GetItemsBySheetIDs(ctx, sheetIDs)
	if err != nil {
		return domain.TrackResultsReport{}, fmt.Errorf("s.scores.GetItemsBySheetIDs -> %w", err)
	}

	categoryByCriterionID, err := s.loadCriterionCategories(ctx, items)
	if err != nil {
		return domain.TrackResultsReport{}, err
	}

	totals := buildSheetTotals(items, categoryByCriterionID)

	facetMaps, facetByID, err := s.loadSubmissionFacets(ctx, submissionIDs)
	if err != nil {
		return domain.TrackResultsReport{}, err
	}

	rows := buildResultRows(submissions, sheets, totals, facetMaps)
	categories, categoryRankings := buildCategoryRankings(rows)

	return domain.TrackResultsReport{
		Submissions:                rows,
		OverallRankings:            rankRows(sortByTotalScore(rows), overallScore),
		CategoryRankingsByCategory: categoryRankings,
		Categories:                 categories,
		FilterFacets:               buildFilterFacets(facetMaps.displayBySubmissionID, submissionIDs, facetByID, nil),
	}, nil
}

// FilterTrackResults narrows a set of result rows with the shared facet
// filter engine.
func (s *ResultsService) FilterTrackResults(rows []domain.TrackResultRow, selectedTokensByFacetID map[string][]string) []domain.TrackResultRow {
	return ApplyFilters(rows, selectedTokensByFacetID)
}

func (s *ResultsService) loadCriterionCategories(ctx context.Context, items []domain.ScoreItem) (map[string]string, error) {
	idSet := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.CriterionID != "" {
			idSet[item.CriterionID] = struct{}{}
		}
	}

	criteria, err := s.rubrics.GetCriteriaByIDs(ctx, setToSlice(idSet))
	if err != nil {
		return nil, fmt.Errorf("s.rubrics.GetCriteriaByIDs -> %w", err)
	}

	categoryByCriterionID := make(map[string]string, len(criteria))
	for _, criterion := range criteria {
		category := criterion.Category
		if category == "" {
			category = uncategorizedCategory
		}
		categoryByCriterionID[criterion.ID] = category
	}

	return categoryByCriterionID, nil
}

func (s *ResultsService) loadSubmissionFacets(ctx context.Context, submissionIDs []string) (submissionFacetMaps, map[string]domain.Facet, error) {
	values, err := s.facets.GetSubmissionValues(ctx, submissionIDs)
	if err != nil {
		return submissionFacetMaps{}, nil, fmt.Errorf("s.facets.GetSubmissionValues -> %w", err)
	}

	facetIDSet := make(map[string]struct{})
	optionIDSet := make(map[string]struct{})
	for _, row := range values {
		if row.FacetID != "" {
			facetIDSet[row.FacetID] = struct{}{}
		}
		if row.Value.Kind() == domain.FacetKindOptionList && row.Value.OptionID() != "" {
			optionIDSet[row.Value.OptionID()] = struct{}{}
		}
	}

	facets, err := s.facets.GetFacetsByIDs(ctx, setToSlice(facetIDSet))
	if err != nil {
		return submissionFacetMaps{}, nil, fmt.Errorf("s.facets.GetFacetsByIDs -> %w", err)
	}

	options, err := s.facets.GetOptionsByIDs(ctx, setToSlice(optionIDSet))
	if err != nil {
		return submissionFacetMaps{}, nil, fmt.Errorf("s.facets.GetOptionsByIDs -> %w", err)
	}

	facetByID := make(map[string]domain.Facet, len(facets))
	for _, facet := range facets {
		facetByID[facet.ID] = facet
	}

	optionByID := make(map[string]domain.FacetOption, len(options))
	for _, option := range options {
		optionByID[option.ID] = option
	}

	return buildSubmissionFacetMaps(values, facetByID, optionByID), facetByID, nil
}

// sheetTotals carries per-sheet sums of score items, overall and split by
// the criterion's category.
type sheetTotals struct {
	totalBySheetID          map[string]float64
	categoryTotalsBySheetID map[string]map[string]float64
}

func buildSheetTotals(items []domain.ScoreItem, categoryByCriterionID map[string]string) sheetTotals {
	totals := sheetTotals{
		totalBySheetID:          make(map[string]float64),
		categoryTotalsBySheetID: make(map[string]map[string]float64),
	}

	for _, item := range items {
		totals.totalBySheetID[item.ScoreSheetID] += item.ScoreValue

		category := categoryByCriterionID[item.CriterionID]
		if category == "" {
			category = uncategorizedCategory
		}

		categoryTotals := totals.categoryTotalsBySheetID[item.ScoreSheetID]
		if categoryTotals == nil {
			categoryTotals = make(map[string]float64)
			totals.categoryTotalsBySheetID[item.ScoreSheetID] = categoryTotals
		}
		categoryTotals[category] += item.ScoreValue
	}

	return totals
}

// buildResultRows averages each submission's sheet totals into one row.
// Unscored submissions keep a nil total, never zero.
func buildResultRows(submissions []domain.Submission, sheets []domain.ScoreSheet, totals sheetTotals, facetMaps submissionFacetMaps) []domain.TrackResultRow {
	type aggregate struct {
		judgeIDs            map[uint]struct{}
		sheetTotals         []float64
		categorySheetTotals map[string][]float64
	}

	aggregateBySubmissionID := make(map[string]*aggregate, len(submissions))
	for _, submission := range submissions {
		aggregateBySubmissionID[submission.ID] = &aggregate{
			judgeIDs:            make(map[uint]struct{}),
			categorySheetTotals: make(map[string][]float64),
		}
	}

	for _, sheet := range sheets {
		agg, ok := aggregateBySubmissionID[sheet.SubmissionID]
		if !ok {
			continue
		}

		if sheet.JudgePersonID != 0 {
			agg.judgeIDs[sheet.JudgePersonID] = struct{}{}
		}

		if total, scored := totals.totalBySheetID[sheet.ID]; scored {
			agg.sheetTotals = append(agg.sheetTotals, total)
		}

		for category, value := range totals.categoryTotalsBySheetID[sheet.ID] {
			agg.categorySheetTotals[category] = append(agg.categorySheetTotals[category], value)
		}
	}

	rows := make([]domain.TrackResultRow, len(submissions))
	for i, submission := range submissions {
		agg := aggregateBySubmissionID[submission.ID]

		categoryScores := make(map[string]float64, len(agg.categorySheetTotals))
		for category, values := range agg.categorySheetTotals {
			if avg := average(values); avg != nil {
				categoryScores[category] = *avg
			}
		}

		rows[i] = domain.TrackResultRow{
			SubmissionID:    submission.ID,
			Title:           submission.Title,
			Status:          submission.Status,
			CreatedAt:       submission.CreatedAt,
			ScoreCount:      len(agg.judgeIDs),
			TotalScore:      average(agg.sheetTotals),
			CategoryScores:  categoryScores,
			TokensByFacetID: facetMaps.tokensBySubmissionID[submission.ID],
			Facets:          facetMaps.displayBySubmissionID[submission.ID],
		}
	}

	return rows
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}

	var sum float64
	for _, value := range values {
		sum += value
	}
	avg := sum / float64(len(values))

	return &avg
}

func overallScore(row domain.TrackResultRow) *float64 {
	return row.TotalScore
}

func categoryScoreOf(row domain.TrackResultRow) *float64 {
	return row.CategoryScore
}

// sortByTotalScore orders rows by descending total score with unscored
// rows last. The input slice is not mutated.
func sortByTotalScore(rows []domain.TrackResultRow) []domain.TrackResultRow {
	return sortByScoreDesc(rows, overallScore)
}

func sortByScoreDesc(rows []domain.TrackResultRow, scoreOf func(domain.TrackResultRow) *float64) []domain.TrackResultRow {
	sorted := make([]domain.TrackResultRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := scoreOf(sorted[i]), scoreOf(sorted[j])
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})

	return sorted
}

// rankRows assigns standard competition ranks over score-descending rows:
// ties share a rank and the next distinct score resumes at its index plus
// one, so totals [90, 90, 80] rank [1, 1, 3]. Unscored rows stay unranked.
func rankRows(sorted []domain.TrackResultRow, scoreOf func(domain.TrackResultRow) *float64) []domain.TrackResultRow {
	ranked := make([]domain.TrackResultRow, len(sorted))

	rank := 1
	var previousScore *float64

	for i, row := range sorted {
		score := scoreOf(row)
		if score == nil {
			row.Rank = nil
			ranked[i] = row
			continue
		}

		if previousScore != nil && *score != *previousScore {
			rank = i + 1
		}
		previousScore = score

		assigned := rank
		row.Rank = &assigned
		ranked[i] = row
	}

	return ranked
}

// buildCategoryRankings produces one independently ranked table per
// category observed across the rows, categories sorted alphabetically.
func buildCategoryRankings(rows []domain.TrackResultRow) ([]string, map[string][]domain.TrackResultRow) {
	categorySet := make(map[string]struct{})
	for _, row := range rows {
		for category := range row.CategoryScores {
			categorySet[category] = struct{}{}
		}
	}

	categories := setToSlice(categorySet)

	rankingsByCategory := make(map[string][]domain.TrackResultRow, len(categories))
	for _, category := range categories {
		withCategoryScore := make([]domain.TrackResultRow, len(rows))
		for i, row := range rows {
			if score, ok := row.CategoryScores[category]; ok {
				value := score
				row.CategoryScore = &value
			} else {
				row.CategoryScore = nil
			}
			withCategoryScore[i] = row
		}

		rankingsByCategory[category] = rankRows(sortByScoreDesc(withCategoryScore, categoryScoreOf), categoryScoreOf)
	}

	return categories, rankingsByCategory
}

func emptyResultsReport() domain.TrackResultsReport {
	return domain.TrackResultsReport{
		Submissions:                []domain.TrackResultRow{},
		OverallRankings:            []domain.TrackResultRow{},
		CategoryRankingsByCategory: map[string][]domain.TrackResultRow{},
		Categories:                 []string{},
		FilterFacets:               []domain.FilterFacet{},
	}
}
