package service

import (
	"context"
	"design_sense_backend/internal/model"
	"design_sense_backend/internal/util"
	"sort"
	"sync"
)

// memoryStore mirrors the unique indexes of the gorm repository.
type memoryStore struct {
	mu           sync.Mutex
	questions    []model.DesignQuestion
	supplemental []model.SupplementalQuestion
	attempts     []model.DesignAttempt
	applicants   map[string]model.Applicant

	questionLoads int
	// beforeInsert runs inside InsertAttempt before the uniqueness check.
	beforeInsert func(s *memoryStore)
	// upsertAffected overrides the affected row count when non-nil.
	upsertAffected *int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		questions:    fixtureQuestions(),
		supplemental: fixtureSupplemental(),
		applicants:   make(map[string]model.Applicant),
	}
}

func (s *memoryStore) FindQuestionsOrderedByNumber(context.Context) ([]model.DesignQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionLoads++
	out := make([]model.DesignQuestion, len(s.questions))
	copy(out, s.questions)
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionNumber < out[j].QuestionNumber })
	return out, nil
}

func (s *memoryStore) FindImagesByIDs(_ context.Context, ids []string) ([]model.ImageItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []model.ImageItem
	for _, q := range s.questions {
		for _, img := range q.Images {
			if wanted[img.ImageID] {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

func (s *memoryStore) FindSupplementalQuestions(context.Context) ([]model.SupplementalQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SupplementalQuestion, len(s.supplemental))
	copy(out, s.supplemental)
	return out, nil
}

func (s *memoryStore) FindAttempt(_ context.Context, sessionID, email string) (*model.DesignAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findAttemptLocked(sessionID, email), nil
}

func (s *memoryStore) findAttemptLocked(sessionID, email string) *model.DesignAttempt {
	for _, a := range s.attempts {
		if a.SessionID == sessionID && a.ApplicantEmail == email {
			found := a
			return &found
		}
	}
	return nil
}

func (s *memoryStore) InsertAttempt(_ context.Context, attempt *model.DesignAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beforeInsert != nil {
		hook := s.beforeInsert
		s.beforeInsert = nil
		hook(s)
	}
	for _, a := range s.attempts {
		sameSession := a.SessionID == attempt.SessionID && a.ApplicantEmail == attempt.ApplicantEmail
		sameNumber := a.ApplicantEmail == attempt.ApplicantEmail && a.AttemptNumber == attempt.AttemptNumber
		if sameSession || sameNumber {
			return util.ErrAttemptExists
		}
	}
	if attempt.ID == "" {
		attempt.ID = model.GenerateUUID()
	}
	s.attempts = append(s.attempts, *attempt)
	return nil
}

func (s *memoryStore) MaxAttemptNumber(_ context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	highest := 0
	for _, a := range s.attempts {
		if a.ApplicantEmail == email && a.AttemptNumber > highest {
			highest = a.AttemptNumber
		}
	}
	return highest, nil
}

func (s *memoryStore) FindApplicant(_ context.Context, email string) (*model.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applicants[email]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *memoryStore) UpsertApplicant(_ context.Context, applicant *model.Applicant) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertAffected != nil {
		return *s.upsertAffected, nil
	}
	if existing, ok := s.applicants[applicant.Email]; ok {
		existing.Name = applicant.Name
		existing.AttemptCount = applicant.AttemptCount
		existing.UpdatedAt = applicant.UpdatedAt
		s.applicants[applicant.Email] = existing
		return 1, nil
	}
	s.applicants[applicant.Email] = *applicant
	return 1, nil
}

func (s *memoryStore) ListAttemptsByApplicant(_ context.Context, email string) ([]model.DesignAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.DesignAttempt
	for _, a := range s.attempts {
		if a.ApplicantEmail == email {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptNumber < out[j].AttemptNumber })
	return out, nil
}

func (s *memoryStore) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

func fixtureQuestions() []model.DesignQuestion {
	label := "Living room"
	return []model.DesignQuestion{
		{
			QuestionNumber: 1,
			QuestionType:   model.Homestyle,
			Images: []model.ImageItem{
				{ImageID: "1_2_a", QuestionNumber: 1, Position: 1, Src: "/images/1_2_a.jpg", ActualScore: 2, ImageType: model.Homestyle, DisplayLabel: &label},
				{ImageID: "1_1_b", QuestionNumber: 1, Position: 2, Src: "/images/1_1_b.jpg", ActualScore: 1, ImageType: model.Homestyle},
			},
		},
		{
			QuestionNumber: 2,
			QuestionType:   model.Product,
			Images: []model.ImageItem{
				{ImageID: "2_0_a", QuestionNumber: 2, Position: 1, Src: "/images/2_0_a.jpg", ActualScore: 0, ImageType: model.Product},
				{ImageID: "2_2_b", QuestionNumber: 2, Position: 2, Src: "/images/2_2_b.jpg", ActualScore: 2, ImageType: model.Product},
			},
		},
	}
}

func fixtureSelection() *model.SelectionQuestion {
	return &model.SelectionQuestion{
		QuestionNumber:  model.ScenarioQuestionNumber,
		Prompt:          "Which item would you add to the catalogue?",
		CorrectOptionID: "B",
		Options: []model.SelectionOption{
			{OptionID: "A", Label: "A white matte plastic vase", Value: 0},
			{OptionID: "B", Label: "A black glossy bioplastic vase", Value: 2},
			{OptionID: "C", Label: "A minimal figurine", Value: 0},
			{OptionID: "D", Label: "A burgundy Japandi sofa", Value: 1},
		},
	}
}

func fixtureBoost() *model.BoostQuestion {
	return &model.BoostQuestion{
		QuestionNumber: model.BoostQuestionNumber,
		Prompt:         "Which role excites you the most?",
		Options: []model.BoostOption{
			{OptionID: "A", Label: "Product selection", Boost: 0.08},
			{OptionID: "B", Label: "Content", Boost: 0.10},
			{OptionID: "C", Label: "Ads and sales", Boost: 0.20},
			{OptionID: "D", Label: "Bookkeeping", Boost: 0.10},
		},
	}
}

func fixtureSupplemental() []model.SupplementalQuestion {
	return []model.SupplementalQuestion{fixtureBoost(), fixtureSelection()}
}

func fixtureCatalog() map[string]model.ImageItem {
	catalog := make(map[string]model.ImageItem)
	for _, q := range fixtureQuestions() {
		for _, img := range q.Images {
			catalog[img.ImageID] = img
		}
	}
	return catalog
}

func intPtr(v int) *int { return &v }
