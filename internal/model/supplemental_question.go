package model

import (
	"encoding/json"
	"fmt"
)

type SupplementalKind string

const (
	KindSelection SupplementalKind = "selection"
	KindBoost     SupplementalKind = "boost"
)

type SelectionOption struct {
	OptionID string `json:"optionId"`
	Label    string `json:"label"`
	Value    int    `json:"value"`
}

type BoostOption struct {
	OptionID string  `json:"optionId"`
	Label    string  `json:"label"`
	Boost    float64 `json:"boost"`
}

// SupplementalQuestion is either a *SelectionQuestion or a *BoostQuestion.
// The unexported marker keeps the set closed to this package.
type SupplementalQuestion interface {
	Number() int
	Kind() SupplementalKind
	supplemental()
}

// SelectionQuestion is scored like an image: closeness of the chosen option's
// value against the value of CorrectOptionID.
type SelectionQuestion struct {
	QuestionNumber  int
	Prompt          string
	CorrectOptionID string
	Options         []SelectionOption
}

func (q *SelectionQuestion) Number() int            { return q.QuestionNumber }
func (q *SelectionQuestion) Kind() SupplementalKind { return KindSelection }
func (*SelectionQuestion) supplemental()            {}

func (q *SelectionQuestion) Option(id string) (SelectionOption, bool) {
	for _, o := range q.Options {
		if o.OptionID == id {
			return o, true
		}
	}
	return SelectionOption{}, false
}

// BoostQuestion scales the final score and has no correct answer.
type BoostQuestion struct {
	QuestionNumber int
	Prompt         string
	Options        []BoostOption
}

func (q *BoostQuestion) Number() int            { return q.QuestionNumber }
func (q *BoostQuestion) Kind() SupplementalKind { return KindBoost }
func (*BoostQuestion) supplemental()            {}

func (q *BoostQuestion) Option(id string) (BoostOption, bool) {
	for _, o := range q.Options {
		if o.OptionID == id {
			return o, true
		}
	}
	return BoostOption{}, false
}

// SupplementalQuestionRecord is the stored form of both variants.
// swagger:model SupplementalQuestionRecord
type SupplementalQuestionRecord struct {
	ID              uint             `gorm:"primaryKey;autoIncrement" json:"-"`
	QuestionNumber  int              `gorm:"uniqueIndex;not null" json:"questionNumber"`
	Kind            SupplementalKind `gorm:"size:20;not null" json:"kind"`
	Prompt          string           `gorm:"type:text;not null" json:"prompt"`
	CorrectOptionID string           `gorm:"size:64" json:"correctOptionId,omitempty"`
	Options         json.RawMessage  `gorm:"type:json" json:"options"`
}

func (SupplementalQuestionRecord) TableName() string {
	return "design_test_supplemental_questions"
}

// Decode returns ok=false for rows of an unknown kind.
func (r *SupplementalQuestionRecord) Decode() (SupplementalQuestion, bool, error) {
	switch r.Kind {
	case KindSelection:
		var options []SelectionOption
		if err := json.Unmarshal(r.Options, &options); err != nil {
			return nil, false, fmt.Errorf("decode selection options for question %d: %w", r.QuestionNumber, err)
		}
		return &SelectionQuestion{
			QuestionNumber:  r.QuestionNumber,
			Prompt:          r.Prompt,
			CorrectOptionID: r.CorrectOptionID,
			Options:         options,
		}, true, nil
	case KindBoost:
		var options []BoostOption
		if err := json.Unmarshal(r.Options, &options); err != nil {
			return nil, false, fmt.Errorf("decode boost options for question %d: %w", r.QuestionNumber, err)
		}
		return &BoostQuestion{
			QuestionNumber: r.QuestionNumber,
			Prompt:         r.Prompt,
			Options:        options,
		}, true, nil
	default:
		return nil, false, nil
	}
}

func NewSupplementalRecord(q SupplementalQuestion) (*SupplementalQuestionRecord, error) {
	rec := &SupplementalQuestionRecord{QuestionNumber: q.Number(), Kind: q.Kind()}
	var options any
	switch v := q.(type) {
	case *SelectionQuestion:
		rec.Prompt = v.Prompt
		rec.CorrectOptionID = v.CorrectOptionID
		options = v.Options
	case *BoostQuestion:
		rec.Prompt = v.Prompt
		options = v.Options
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	rec.Options = raw
	return rec, nil
}
