package model

import (
	"encoding/json"
	"time"
)

type SubmissionBand string

const (
	BandExcellent SubmissionBand = "Excellent"
	BandGood      SubmissionBand = "Good"
	BandNeedsWork SubmissionBand = "Needs Work"
)

func BandFromScore(score float64) SubmissionBand {
	if score >= 0.85 {
		return BandExcellent
	}
	if score >= 0.70 {
		return BandGood
	}
	return BandNeedsWork
}

// ImageResult leaves Error and Closeness nil when the image is excluded.
type ImageResult struct {
	ImageID       string   `json:"imageId"`
	SelectedScore *int     `json:"selectedScore"`
	ActualScore   *int     `json:"actualScore"`
	Error         *float64 `json:"error"`
	Closeness     *float64 `json:"closeness"`
	Excluded      bool     `json:"excluded"`
}

type QuestionResult struct {
	QuestionNumber int           `json:"questionNumber"`
	QuestionType   QuestionType  `json:"questionType"`
	Closeness      *float64      `json:"closeness"`
	MAE            *float64      `json:"mae"`
	Images         []ImageResult `json:"images"`
}

type ScenarioSummary struct {
	QuestionNumber int     `json:"questionNumber"`
	SelectedOption string  `json:"selectedOption"`
	SelectedLabel  string  `json:"selectedLabel"`
	SelectedValue  int     `json:"selectedValue"`
	CorrectValue   int     `json:"correctValue"`
	Error          float64 `json:"error"`
	Closeness      float64 `json:"closeness"`
}

type RolePreference struct {
	QuestionNumber int     `json:"questionNumber"`
	SelectedOption string  `json:"selectedOption"`
	SelectedLabel  string  `json:"selectedLabel"`
	Boost          float64 `json:"boost"`
}

// DesignAttempt is written once per (session, applicant) and never updated.
// swagger:model DesignAttempt
type DesignAttempt struct {
	UUIDBase
	SessionID           string          `gorm:"size:64;not null;uniqueIndex:idx_attempt_session_email" json:"sessionId"`
	ApplicantEmail      string          `gorm:"size:255;not null;uniqueIndex:idx_attempt_session_email;uniqueIndex:idx_attempt_email_number" json:"applicantEmail"`
	ApplicantName       string          `gorm:"size:255;not null" json:"applicantName"`
	AttemptNumber       int             `gorm:"not null;uniqueIndex:idx_attempt_email_number" json:"attemptNumber"`
	SubmittedAt         time.Time       `gorm:"index;not null" json:"submittedAt"`
	OverallCloseness    float64         `json:"overallCloseness"`
	OverallClosenessPct float64         `json:"overallClosenessPct"`
	BaseCloseness       float64         `json:"baseCloseness"`
	MAE                 float64         `gorm:"column:mae" json:"mae"`
	Band                SubmissionBand  `gorm:"size:20;not null" json:"band"`
	ImageQuestions      json.RawMessage `gorm:"type:json" json:"imageQuestions"`
	ScenarioQuestion    json.RawMessage `gorm:"type:json" json:"scenarioQuestion"`
	RolePreference      json.RawMessage `gorm:"type:json" json:"rolePreference"`
	BoostMultiplier     float64         `json:"boostMultiplier"`
	Metadata            json.RawMessage `gorm:"type:json" json:"metadata,omitempty"`
}

func (DesignAttempt) TableName() string {
	return "design_test_attempts"
}

func (a *DesignAttempt) QuestionResults() ([]QuestionResult, error) {
	var out []QuestionResult
	if len(a.ImageQuestions) == 0 {
		return out, nil
	}
	err := json.Unmarshal(a.ImageQuestions, &out)
	return out, err
}
