package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uniexpo/symposium-api/internal/domain"
)

func TestComputeCriterionScore_TrueFalse(t *testing.T) {
	criterion := domain.Criterion{AnswerType: domain.AnswerTypeTrueFalse, Weight: 2}

	assert.Equal(t, 2.0, ComputeCriterionScore(criterion, true))
	assert.Equal(t, 0.0, ComputeCriterionScore(criterion, false))
	assert.Equal(t, 0.0, ComputeCriterionScore(criterion, nil))

	criterion.AnswerConfig = &domain.AnswerConfig{
		TruePoints:  floatPtr(3),
		FalsePoints: floatPtr(1),
	}
	assert.Equal(t, 6.0, ComputeCriterionScore(criterion, true))
	assert.Equal(t, 2.0, ComputeCriterionScore(criterion, false))
}

func TestComputeCriterionScore_Dropdown(t *testing.T) {
	criterion := domain.Criterion{
		AnswerType: domain.AnswerTypeDropdown,
		Weight:     1,
		AnswerConfig: &domain.AnswerConfig{
			Options: []domain.DropdownOption{
				{Label: "A", Points: 0},
				{Label: "B", Points: 5},
			},
		},
	}

	// The raw answer is the selected option's points value.
	assert.Equal(t, 5.0, ComputeCriterionScore(criterion, 5.0))
	assert.Equal(t, 0.0, ComputeCriterionScore(criterion, 0.0))
	assert.Equal(t, 5.0, CriterionMaxPoints(criterion))

	criterion.AnswerConfig.Options = nil
	assert.Equal(t, 0.0, CriterionMaxPoints(criterion))
}

func TestComputeCriterionScore_NumericScale(t *testing.T) {
	criterion := domain.Criterion{
		AnswerType: domain.AnswerTypeNumericScale,
		Weight:     2,
		ScoreMin:   0,
		ScoreMax:   5,
	}

	assert.Equal(t, 6.0, ComputeCriterionScore(criterion, 3.0))
	assert.Equal(t, 10.0, CriterionMaxPoints(criterion))

	// Out-of-range answers are clamped to the configured bounds.
	assert.Equal(t, 10.0, ComputeCriterionScore(criterion, 99.0))
	assert.Equal(t, 0.0, ComputeCriterionScore(criterion, -3.0))

	// Non-finite and malformed input scores zero.
	assert.Equal(t, 0.0, ComputeCriterionScore(criterion, math.Inf(1)))
	assert.Equal(t, 0.0, ComputeCriterionScore(criterion, math.NaN()))
	assert.Equal(t, 0.0, ComputeCriterionScore(criterion, "not a number"))

	// Numeric strings coerce.
	assert.Equal(t, 8.0, ComputeCriterionScore(criterion, "4"))
}

func TestComputeRubricMaxPoints_MatchesPerCriterionSums(t *testing.T) {
	criteria := []domain.Criterion{
		{AnswerType: domain.AnswerTypeTrueFalse, Weight: 2},
		{AnswerType: domain.AnswerTypeNumericScale, Weight: 2, ScoreMax: 5},
		{
			AnswerType: domain.AnswerTypeDropdown,
			Weight:     1,
			AnswerConfig: &domain.AnswerConfig{
				Options: []domain.DropdownOption{{Label: "B", Points: 5}},
			},
		},
	}

	var sum float64
	for _, criterion := range criteria {
		sum += CriterionMaxPoints(criterion)
	}

	assert.Equal(t, sum, ComputeRubricMaxPoints(criteria))
	assert.Equal(t, 17.0, ComputeRubricMaxPoints(criteria))
}

func TestValidateResponses(t *testing.T) {
	criteria := []domain.Criterion{
		{ID: "crit-a"},
		{ID: "crit-b"},
		{ID: "crit-c"},
	}

	ok, missing := ValidateResponses(criteria, map[string]domain.ScoreResponse{
		"crit-a": {Value: 1.0},
		"crit-b": {Value: false},
		"crit-c": {Value: "text"},
	})
	assert.True(t, ok)
	assert.Empty(t, missing)

	ok, missing = ValidateResponses(criteria, map[string]domain.ScoreResponse{
		"crit-a": {Value: nil},
		"crit-c": {Value: ""},
	})
	assert.False(t, ok)
	assert.Equal(t, []string{"crit-a", "crit-b", "crit-c"}, missing)

	// A false answer and a zero answer are both real responses.
	ok, _ = ValidateResponses(criteria, map[string]domain.ScoreResponse{
		"crit-a": {Value: 0.0},
		"crit-b": {Value: false},
		"crit-c": {Value: 0},
	})
	assert.True(t, ok)
}

func TestComputeTotal_MatchesItemizedSum(t *testing.T) {
	criteria := []domain.Criterion{
		{ID: "crit-tf", AnswerType: domain.AnswerTypeTrueFalse, Weight: 2},
		{ID: "crit-num", AnswerType: domain.AnswerTypeNumericScale, Weight: 2, ScoreMax: 5},
		{
			ID:         "crit-dd",
			AnswerType: domain.AnswerTypeDropdown,
			Weight:     1,
			AnswerConfig: &domain.AnswerConfig{
				Options: []domain.DropdownOption{{Label: "B", Points: 5}},
			},
		},
	}
	responses := map[string]domain.ScoreResponse{
		"crit-tf":  {Value: true},
		"crit-num": {Value: 3.0},
		"crit-dd":  {Value: 5.0},
	}

	var itemized float64
	for _, criterion := range criteria {
		itemized += ComputeCriterionScore(criterion, responses[criterion.ID].Value)
	}

	assert.Equal(t, itemized, ComputeTotal(criteria, responses))
	assert.Equal(t, 13.0, ComputeTotal(criteria, responses))
}
