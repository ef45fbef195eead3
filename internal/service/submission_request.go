package service

import (
	"design_sense_backend/internal/model"
	"encoding/json"
)

type ApplicantInput struct {
	Name         string  `json:"name" binding:"required,min=2"`
	Email        string  `json:"email" binding:"required,email"`
	Age          *int    `json:"age,omitempty" binding:"omitempty,min=13,max=120"`
	Role         *string `json:"role,omitempty" binding:"omitempty,max=120"`
	PortfolioURL *string `json:"portfolioUrl,omitempty" binding:"omitempty,max=240"`
}

type ResponseItem struct {
	ImageID       string `json:"imageId" binding:"required,min=1"`
	SelectedScore *int   `json:"selectedScore" binding:"required,min=0,max=2"`
}

type ChoiceResponse struct {
	QuestionNumber int    `json:"questionNumber" binding:"required,min=1"`
	OptionID       string `json:"optionId" binding:"required,min=1"`
}

// SubmissionMetadata is free-form client telemetry. Unknown keys are kept in
// Extra and written back out unchanged.
type SubmissionMetadata struct {
	StartedAt   *string        `json:"startedAt,omitempty"`
	SubmittedAt *string        `json:"submittedAt,omitempty"`
	DurationMs  *int           `json:"durationMs,omitempty" binding:"omitempty,min=0"`
	UserAgent   *string        `json:"userAgent,omitempty" binding:"omitempty,max=400"`
	Extra       map[string]any `json:"-"`
}

type metadataFields SubmissionMetadata

var knownMetadataKeys = []string{"startedAt", "submittedAt", "durationMs", "userAgent"}

func (m *SubmissionMetadata) UnmarshalJSON(data []byte) error {
	var fields metadataFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownMetadataKeys {
		delete(all, k)
	}
	*m = SubmissionMetadata(fields)
	if len(all) > 0 {
		m.Extra = all
	}
	return nil
}

func (m SubmissionMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+len(knownMetadataKeys))
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.StartedAt != nil {
		out["startedAt"] = *m.StartedAt
	}
	if m.SubmittedAt != nil {
		out["submittedAt"] = *m.SubmittedAt
	}
	if m.DurationMs != nil {
		out["durationMs"] = *m.DurationMs
	}
	if m.UserAgent != nil {
		out["userAgent"] = *m.UserAgent
	}
	return json.Marshal(out)
}

type TestSubmissionRequest struct {
	SessionID string              `json:"sessionId" binding:"required,min=6"`
	Applicant ApplicantInput      `json:"applicant"`
	Responses []ResponseItem      `json:"responses" binding:"required,min=1,dive"`
	Choices   []ChoiceResponse    `json:"choices" binding:"omitempty,dive"`
	Metadata  *SubmissionMetadata `json:"metadata,omitempty"`
}

type ApplicantSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SubmissionResult struct {
	Applicant           ApplicantSummary     `json:"applicant"`
	AttemptNumber       int                  `json:"attemptNumber"`
	SessionID           string               `json:"sessionId"`
	OverallCloseness    float64              `json:"overallCloseness"`
	OverallClosenessPct float64              `json:"overallClosenessPct"`
	Band                model.SubmissionBand `json:"band"`
}
