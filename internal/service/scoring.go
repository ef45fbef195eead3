package service

import (
	"design_sense_backend/internal/model"
	"design_sense_backend/internal/util"
	"fmt"
	"math"
)

type ScoringInput struct {
	Questions []model.DesignQuestion
	// Catalog holds ground truth keyed by image id.
	Catalog map[string]model.ImageItem
	// Responses maps image id to the selected score.
	Responses map[string]int
	// Choices maps supplemental question number to the chosen option id.
	Choices   map[int]string
	Selection model.SupplementalQuestion
	Boost     model.SupplementalQuestion
}

type ScoringResult struct {
	Questions           []model.QuestionResult
	Scenario            model.ScenarioSummary
	Role                model.RolePreference
	BaseCloseness       float64
	MAE                 float64
	BoostMultiplier     float64
	OverallCloseness    float64
	OverallClosenessPct float64
	Band                model.SubmissionBand
}

// Closeness maps an absolute error on the 0..2 scale onto [0, 1].
func Closeness(errorValue float64) float64 {
	return 1 - errorValue/2
}

// RoundPct renders a fraction as a percentage with one decimal place.
func RoundPct(fraction float64) float64 {
	return math.Round(fraction*1000) / 10
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func meanOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := mean(values)
	return &m
}

// Score is pure: it reads only its input and may run concurrently.
func Score(in ScoringInput) (*ScoringResult, error) {
	var allCloseness, allErrors []float64
	questionResults := make([]model.QuestionResult, 0, len(in.Questions))

	for _, question := range in.Questions {
		images := make([]model.ImageResult, 0, len(question.Images))
		var qCloseness, qErrors []float64

		for _, image := range question.Images {
			result := model.ImageResult{ImageID: image.ImageID}
			selected, answered := in.Responses[image.ImageID]
			actual, known := in.Catalog[image.ImageID]
			if answered {
				s := selected
				result.SelectedScore = &s
			}
			if known {
				a := actual.ActualScore
				result.ActualScore = &a
			}

			if !answered || !known {
				result.Excluded = true
				images = append(images, result)
				continue
			}

			errValue := math.Abs(float64(selected - actual.ActualScore))
			closeness := Closeness(errValue)
			result.Error = &errValue
			result.Closeness = &closeness
			images = append(images, result)

			qCloseness = append(qCloseness, closeness)
			qErrors = append(qErrors, errValue)
		}

		allCloseness = append(allCloseness, qCloseness...)
		allErrors = append(allErrors, qErrors...)
		questionResults = append(questionResults, model.QuestionResult{
			QuestionNumber: question.QuestionNumber,
			QuestionType:   question.QuestionType,
			Closeness:      meanOrNil(qCloseness),
			MAE:            meanOrNil(qErrors),
			Images:         images,
		})
	}

	scenario, err := scoreScenario(in.Selection, in.Choices[model.ScenarioQuestionNumber])
	if err != nil {
		return nil, err
	}
	allCloseness = append(allCloseness, scenario.Closeness)
	allErrors = append(allErrors, scenario.Error)

	base := mean(allCloseness)
	mae := mean(allErrors)

	role, err := resolveBoost(in.Boost, in.Choices[model.BoostQuestionNumber])
	if err != nil {
		return nil, err
	}

	multiplier := 1 + role.Boost
	overall := math.Min(base*multiplier, 1.0)

	return &ScoringResult{
		Questions:           questionResults,
		Scenario:            scenario,
		Role:                role,
		BaseCloseness:       base,
		MAE:                 mae,
		BoostMultiplier:     multiplier,
		OverallCloseness:    overall,
		OverallClosenessPct: RoundPct(overall),
		Band:                model.BandFromScore(overall),
	}, nil
}

func scoreScenario(def model.SupplementalQuestion, optionID string) (model.ScenarioSummary, error) {
	var q *model.SelectionQuestion
	switch v := def.(type) {
	case *model.SelectionQuestion:
		q = v
	case *model.BoostQuestion:
		return model.ScenarioSummary{}, fmt.Errorf("%w: question %d is a boost question, expected selection", util.ErrMissingConfiguration, model.ScenarioQuestionNumber)
	}
	if q == nil {
		return model.ScenarioSummary{}, fmt.Errorf("%w: selection question %d not found", util.ErrMissingConfiguration, model.ScenarioQuestionNumber)
	}

	selected, ok := q.Option(optionID)
	if !ok {
		return model.ScenarioSummary{}, fmt.Errorf("%w: option %q for question %d", util.ErrInvalidChoice, optionID, model.ScenarioQuestionNumber)
	}
	correct, ok := q.Option(q.CorrectOptionID)
	if !ok {
		return model.ScenarioSummary{}, fmt.Errorf("%w: correct option %q for question %d", util.ErrInvalidChoice, q.CorrectOptionID, model.ScenarioQuestionNumber)
	}

	errValue := math.Abs(float64(selected.Value - correct.Value))
	return model.ScenarioSummary{
		QuestionNumber: model.ScenarioQuestionNumber,
		SelectedOption: optionID,
		SelectedLabel:  selected.Label,
		SelectedValue:  selected.Value,
		CorrectValue:   correct.Value,
		Error:          errValue,
		Closeness:      Closeness(errValue),
	}, nil
}

func resolveBoost(def model.SupplementalQuestion, optionID string) (model.RolePreference, error) {
	var q *model.BoostQuestion
	switch v := def.(type) {
	case *model.BoostQuestion:
		q = v
	case *model.SelectionQuestion:
		return model.RolePreference{}, fmt.Errorf("%w: question %d is a selection question, expected boost", util.ErrMissingConfiguration, model.BoostQuestionNumber)
	}
	if q == nil {
		return model.RolePreference{}, fmt.Errorf("%w: boost question %d not found", util.ErrMissingConfiguration, model.BoostQuestionNumber)
	}

	option, ok := q.Option(optionID)
	if !ok {
		return model.RolePreference{}, fmt.Errorf("%w: option %q for question %d", util.ErrInvalidChoice, optionID, model.BoostQuestionNumber)
	}
	// 负数加成视为 0，保证加成只升不降
	boost := math.Max(option.Boost, 0)

	return model.RolePreference{
		QuestionNumber: model.BoostQuestionNumber,
		SelectedOption: optionID,
		SelectedLabel:  option.Label,
		Boost:          boost,
	}, nil
}
