package service

import (
	"design_sense_backend/internal/model"
	"sort"
)

type PublicImage struct {
	ImageID      string             `json:"imageId"`
	Src          string             `json:"src"`
	ImageType    model.QuestionType `json:"imageType"`
	DisplayLabel *string            `json:"displayLabel"`
}

type PublicQuestion struct {
	QuestionNumber int                `json:"questionNumber"`
	QuestionType   model.QuestionType `json:"questionType"`
	Images         []PublicImage      `json:"images"`
}

// PublicSupplementalQuestion is a *PublicSelectionQuestion or a *PublicBoostQuestion.
type PublicSupplementalQuestion interface {
	SupplementalNumber() int
}

type PublicSelectionOption struct {
	OptionID string `json:"optionId"`
	Label    string `json:"label"`
}

type PublicSelectionQuestion struct {
	QuestionNumber int                     `json:"questionNumber"`
	Kind           model.SupplementalKind  `json:"kind"`
	Prompt         string                  `json:"prompt"`
	Options        []PublicSelectionOption `json:"options"`
}

func (q *PublicSelectionQuestion) SupplementalNumber() int { return q.QuestionNumber }

// Boost values are shown to candidates on purpose.
type PublicBoostQuestion struct {
	QuestionNumber int                    `json:"questionNumber"`
	Kind           model.SupplementalKind `json:"kind"`
	Prompt         string                 `json:"prompt"`
	Options        []model.BoostOption    `json:"options"`
}

func (q *PublicBoostQuestion) SupplementalNumber() int { return q.QuestionNumber }

// ToPublicQuestion strips ground truth and internal fields, keeping image order.
func ToPublicQuestion(q model.DesignQuestion) PublicQuestion {
	images := make([]PublicImage, len(q.Images))
	for i, img := range q.Images {
		images[i] = PublicImage{
			ImageID:      img.ImageID,
			Src:          img.Src,
			ImageType:    img.ImageType,
			DisplayLabel: img.DisplayLabel,
		}
	}
	return PublicQuestion{
		QuestionNumber: q.QuestionNumber,
		QuestionType:   q.QuestionType,
		Images:         images,
	}
}

func ToPublicSelection(q *model.SelectionQuestion) *PublicSelectionQuestion {
	options := make([]PublicSelectionOption, len(q.Options))
	for i, o := range q.Options {
		options[i] = PublicSelectionOption{OptionID: o.OptionID, Label: o.Label}
	}
	return &PublicSelectionQuestion{
		QuestionNumber: q.QuestionNumber,
		Kind:           model.KindSelection,
		Prompt:         q.Prompt,
		Options:        options,
	}
}

func ToPublicBoost(q *model.BoostQuestion) *PublicBoostQuestion {
	options := make([]model.BoostOption, len(q.Options))
	copy(options, q.Options)
	return &PublicBoostQuestion{
		QuestionNumber: q.QuestionNumber,
		Kind:           model.KindBoost,
		Prompt:         q.Prompt,
		Options:        options,
	}
}

func ToPublicSupplemental(q model.SupplementalQuestion) PublicSupplementalQuestion {
	switch v := q.(type) {
	case *model.SelectionQuestion:
		return ToPublicSelection(v)
	case *model.BoostQuestion:
		return ToPublicBoost(v)
	default:
		return nil
	}
}

// PublicQuestions sorts by question number; the slice passed in is not modified.
func PublicQuestions(questions []model.DesignQuestion) []PublicQuestion {
	out := make([]PublicQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, ToPublicQuestion(q))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuestionNumber < out[j].QuestionNumber
	})
	return out
}

// PublicSupplementals keeps the last definition per question number and
// returns both kinds interleaved by ascending question number.
func PublicSupplementals(questions []model.SupplementalQuestion) []PublicSupplementalQuestion {
	byNumber := supplementalByNumber(questions)
	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	out := make([]PublicSupplementalQuestion, 0, len(numbers))
	for _, n := range numbers {
		if pub := ToPublicSupplemental(byNumber[n]); pub != nil {
			out = append(out, pub)
		}
	}
	return out
}

func supplementalByNumber(questions []model.SupplementalQuestion) map[int]model.SupplementalQuestion {
	m := make(map[int]model.SupplementalQuestion, len(questions))
	for _, q := range questions {
		if q != nil {
			m[q.Number()] = q
		}
	}
	return m
}
