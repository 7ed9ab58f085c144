package service

import (
	"math"
	"sort"
	"strconv"

	"github.com/uniexpo/symposium-api/internal/domain"
)

// Pure scoring math shared by the live score preview, score submission, and
// results aggregation. All three paths call the same formulas so a judge's
// preview total always matches what the results engine recomputes from
// persisted score items.

const (
	defaultTruePoints  = 1.0
	defaultFalsePoints = 0.0
)

func toNumber(value any, fallback float64) float64 {
	var parsed float64

	switch v := value.(type) {
	case float64:
		parsed = v
	case float32:
		parsed = float64(v)
	case int:
		parsed = float64(v)
	case int64:
		parsed = float64(v)
	case uint:
		parsed = float64(v)
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fallback
		}
		parsed = n
	default:
		return fallback
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return fallback
	}

	return parsed
}

func toBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// ComputeCriterionScore resolves the weighted points for one raw judge
// answer. Dropdown answers carry the selected option's points value
// directly; numeric answers are clamped to the criterion's configured range
// when that range is well-formed.
func ComputeCriterionScore(criterion domain.Criterion, rawAnswer any) float64 {
	weight := criterion.Weight

	switch criterion.AnswerType {
	case domain.AnswerTypeTrueFalse:
		truePoints := defaultTruePoints
		falsePoints := defaultFalsePoints
		if criterion.AnswerConfig != nil {
			if criterion.AnswerConfig.TruePoints != nil {
				truePoints = *criterion.AnswerConfig.TruePoints
			}
			if criterion.AnswerConfig.FalsePoints != nil {
				falsePoints = *criterion.AnswerConfig.FalsePoints
			}
		}

		if toBool(rawAnswer) {
			return truePoints * weight
		}
		return falsePoints * weight

	case domain.AnswerTypeDropdown:
		return toNumber(rawAnswer, 0) * weight

	default:
		value := toNumber(rawAnswer, 0)
		if criterion.ScoreMin <= criterion.ScoreMax {
			value = math.Max(criterion.ScoreMin, math.Min(criterion.ScoreMax, value))
		}
		return value * weight
	}
}

// CriterionMaxPoints is the highest score a single criterion can yield.
func CriterionMaxPoints(criterion domain.Criterion) float64 {
	weight := criterion.Weight

	switch criterion.AnswerType {
	case domain.AnswerTypeTrueFalse:
		truePoints := defaultTruePoints
		if criterion.AnswerConfig != nil && criterion.AnswerConfig.TruePoints != nil {
			truePoints = *criterion.AnswerConfig.TruePoints
		}
		return truePoints * weight

	case domain.AnswerTypeDropdown:
		maxPoints := 0.0
		if criterion.AnswerConfig != nil {
			for _, option := range criterion.AnswerConfig.Options {
				if option.Points > maxPoints {
					maxPoints = option.Points
				}
			}
		}
		return maxPoints * weight

	default:
		return criterion.ScoreMax * weight
	}
}

// ComputeRubricMaxPoints sums every criterion's max. The result is
// persisted on the rubric at save time and recomputed on every criteria
// change; it is never trusted as an editable field.
func ComputeRubricMaxPoints(criteria []domain.Criterion) float64 {
	total := 0.0
	for _, criterion := range criteria {
		total += CriterionMaxPoints(criterion)
	}

	return total
}

// ValidateResponses checks that every criterion has a non-empty response
// and returns the ids of unanswered criteria, sorted for stable messages.
func ValidateResponses(criteria []domain.Criterion, responses map[string]domain.ScoreResponse) (bool, []string) {
	var missing []string

	for _, criterion := range criteria {
		response, ok := responses[criterion.ID]
		if !ok || response.Value == nil || response.Value == "" {
			missing = append(missing, criterion.ID)
		}
	}

	sort.Strings(missing)

	return len(missing) == 0, missing
}

// ComputeTotal sums the per-criterion scores of a response set. Criteria
// without a response contribute nothing.
func ComputeTotal(criteria []domain.Criterion, responses map[string]domain.ScoreResponse) float64 {
	total := 0.0
	for _, criterion := range criteria {
		response, ok := responses[criterion.ID]
		if !ok {
			continue
		}
		total += ComputeCriterionScore(criterion, response.Value)
	}

	return total
}
