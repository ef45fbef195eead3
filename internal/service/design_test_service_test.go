package service

import (
	"context"
	"design_sense_backend/internal/model"
	"design_sense_backend/internal/util"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newTestService(store *memoryStore) *DesignTestService {
	svc := NewDesignTestService(store, nil, nil)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func submission(sessionID, email string) TestSubmissionRequest {
	return TestSubmissionRequest{
		SessionID: sessionID,
		Applicant: ApplicantInput{Name: "Ada Lovelace", Email: email},
		Responses: []ResponseItem{
			{ImageID: "1_2_a", SelectedScore: intPtr(2)},
			{ImageID: "1_1_b", SelectedScore: intPtr(1)},
			{ImageID: "2_0_a", SelectedScore: intPtr(1)},
			{ImageID: "2_2_b", SelectedScore: intPtr(2)},
		},
		Choices: []ChoiceResponse{
			{QuestionNumber: 9, OptionID: "B"},
			{QuestionNumber: 10, OptionID: "A"},
		},
	}
}

func TestSubmitRecordsFirstAttempt(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	result, replayed, err := svc.Submit(context.Background(), submission("session-001", "  Ada@Example.COM "))
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, 1, result.AttemptNumber)
	assert.Equal(t, "ada@example.com", result.Applicant.Email)
	assert.Equal(t, "Ada Lovelace", result.Applicant.Name)
	assert.Equal(t, "session-001", result.SessionID)
	// closeness pool {1, 1, 0.5, 1, 1} = 0.9, boost 0.08
	assert.InDelta(t, 0.972, result.OverallCloseness, 1e-9)
	assert.Equal(t, 97.2, result.OverallClosenessPct)
	assert.Equal(t, model.BandExcellent, result.Band)

	require.Equal(t, 1, store.attemptCount())
	stored := store.attempts[0]
	assert.Equal(t, "ada@example.com", stored.ApplicantEmail)
	assert.Equal(t, fixedNow, stored.SubmittedAt)
	assert.InDelta(t, 0.9, stored.BaseCloseness, 1e-9)
	assert.InDelta(t, 1.08, stored.BoostMultiplier, 1e-9)
	breakdown, err := stored.QuestionResults()
	require.NoError(t, err)
	assert.Len(t, breakdown, 2)

	applicant := store.applicants["ada@example.com"]
	assert.Equal(t, 1, applicant.AttemptCount)
	assert.Equal(t, fixedNow, applicant.CreatedAt)
}

func TestSubmitReplaysSameSession(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	first, replayed, err := svc.Submit(ctx, submission("session-001", "ada@example.com"))
	require.NoError(t, err)
	require.False(t, replayed)

	// different answers and email casing must not change the stored result
	again := submission("session-001", "ADA@example.com")
	again.Responses[0].SelectedScore = intPtr(0)
	again.Choices[1].OptionID = "C"
	second, replayed, err := svc.Submit(ctx, again)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, store.attemptCount())
	assert.Equal(t, 1, store.applicants["ada@example.com"].AttemptCount)
}

func TestSubmitIncrementsAttemptNumber(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		result, replayed, err := svc.Submit(ctx, submission(fmt.Sprintf("session-%03d", i), "ada@example.com"))
		require.NoError(t, err)
		assert.False(t, replayed)
		assert.Equal(t, i, result.AttemptNumber)
	}
	assert.Equal(t, 3, store.applicants["ada@example.com"].AttemptCount)

	attempts, err := svc.ListApplicantAttempts(ctx, " ADA@example.com")
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	for i, a := range attempts {
		assert.Equal(t, i+1, a.AttemptNumber)
	}
}

func TestSubmitRejectsWithoutWrites(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *TestSubmissionRequest)
		wantErr error
	}{
		{
			name:    "missing question 10",
			mutate:  func(req *TestSubmissionRequest) { req.Choices = req.Choices[:1] },
			wantErr: util.ErrMissingRequiredChoice,
		},
		{
			name:    "missing question 9",
			mutate:  func(req *TestSubmissionRequest) { req.Choices = req.Choices[1:] },
			wantErr: util.ErrMissingRequiredChoice,
		},
		{
			name:    "unknown option",
			mutate:  func(req *TestSubmissionRequest) { req.Choices[0].OptionID = "Z" },
			wantErr: util.ErrInvalidChoice,
		},
		{
			name:    "session id short once trimmed",
			mutate:  func(req *TestSubmissionRequest) { req.SessionID = "  abc  " },
			wantErr: util.ErrValidation,
		},
		{
			name:    "blank email",
			mutate:  func(req *TestSubmissionRequest) { req.Applicant.Email = "   " },
			wantErr: util.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			svc := newTestService(store)
			req := submission("session-001", "ada@example.com")
			tt.mutate(&req)

			_, _, err := svc.Submit(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, util.IsClientError(err))
			assert.Zero(t, store.attemptCount())
			assert.Empty(t, store.applicants)
		})
	}
}

func TestSubmitMissingConfiguration(t *testing.T) {
	store := newMemoryStore()
	store.supplemental = []model.SupplementalQuestion{fixtureBoost()}
	svc := newTestService(store)

	_, _, err := svc.Submit(context.Background(), submission("session-001", "ada@example.com"))
	assert.ErrorIs(t, err, util.ErrMissingConfiguration)
	assert.False(t, util.IsClientError(err))
	assert.Zero(t, store.attemptCount())
}

func TestSubmitReplaysWhenInsertLosesRace(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	winner := model.DesignAttempt{
		SessionID:        "session-001",
		ApplicantEmail:   "ada@example.com",
		ApplicantName:    "Ada Lovelace",
		AttemptNumber:    1,
		SubmittedAt:      fixedNow,
		OverallCloseness: 0.5,
		Band:             model.BandNeedsWork,
	}
	store.beforeInsert = func(s *memoryStore) {
		s.attempts = append(s.attempts, winner)
	}

	result, replayed, err := svc.Submit(context.Background(), submission("session-001", "ada@example.com"))
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, 0.5, result.OverallCloseness)
	assert.Equal(t, model.BandNeedsWork, result.Band)
	assert.Equal(t, 1, store.attemptCount())
}

func TestSubmitAttemptNumberCollision(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	store.beforeInsert = func(s *memoryStore) {
		s.attempts = append(s.attempts, model.DesignAttempt{
			SessionID:      "session-other",
			ApplicantEmail: "ada@example.com",
			AttemptNumber:  1,
		})
	}

	_, _, err := svc.Submit(context.Background(), submission("session-001", "ada@example.com"))
	assert.ErrorIs(t, err, util.ErrPersistenceConflict)
	assert.Equal(t, 1, store.attemptCount())
}

func TestSubmitApplicantUpsertAffectsNothing(t *testing.T) {
	store := newMemoryStore()
	zero := int64(0)
	store.upsertAffected = &zero
	svc := newTestService(store)

	_, _, err := svc.Submit(context.Background(), submission("session-001", "ada@example.com"))
	assert.ErrorIs(t, err, util.ErrPersistenceConflict)
	// attempt is kept; the stale count is the accepted inconsistency
	assert.Equal(t, 1, store.attemptCount())
	assert.Empty(t, store.applicants)
}

func TestSubmitRecoversFromStaleAttemptCount(t *testing.T) {
	store := newMemoryStore()
	zero := int64(0)
	store.upsertAffected = &zero
	svc := newTestService(store)
	ctx := context.Background()

	_, _, err := svc.Submit(ctx, submission("session-001", "ada@example.com"))
	require.ErrorIs(t, err, util.ErrPersistenceConflict)
	store.upsertAffected = nil

	for i, session := range []string{"session-002", "session-003", "session-004"} {
		result, replayed, err := svc.Submit(ctx, submission(session, "ada@example.com"))
		require.NoError(t, err, session)
		assert.False(t, replayed)
		assert.Equal(t, i+2, result.AttemptNumber, session)
	}
	assert.Equal(t, 4, store.attemptCount())
	assert.Equal(t, 4, store.applicants["ada@example.com"].AttemptCount)
}

func TestSubmitConcurrentDistinctSessions(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	const n = 8

	numbers := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, _, err := svc.Submit(context.Background(), submission(fmt.Sprintf("session-%03d", i), "ada@example.com"))
			if assert.NoError(t, err) {
				numbers <- result.AttemptNumber
			}
		}(i)
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int]bool)
	for num := range numbers {
		assert.False(t, seen[num], "attempt number %d assigned twice", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "attempt number %d missing", i)
	}
	assert.Equal(t, n, store.applicants["ada@example.com"].AttemptCount)
}

func TestSubmitConcurrentSameSession(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	const n = 6

	var created, replays int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, replayed, err := svc.Submit(context.Background(), submission("session-001", "ada@example.com"))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if replayed {
				replays++
			} else {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, replays)
	assert.Equal(t, 1, store.attemptCount())
}

type mapCache struct {
	mu    sync.Mutex
	items map[string][]PublicQuestion
}

func (c *mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return false, nil
	}
	*(dst.(*[]PublicQuestion)) = v
	return true, nil
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value.([]PublicQuestion)
	return nil
}

func TestListPublicQuestionsUsesCache(t *testing.T) {
	store := newMemoryStore()
	svc := NewDesignTestService(store, &mapCache{items: make(map[string][]PublicQuestion)}, nil)
	ctx := context.Background()

	first, err := svc.ListPublicQuestions(ctx)
	require.NoError(t, err)
	second, err := svc.ListPublicQuestions(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, store.questionLoads)
}

func TestListPublicSupplemental(t *testing.T) {
	svc := newTestService(newMemoryStore())

	public, err := svc.ListPublicSupplemental(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, model.ScenarioQuestionNumber, public[0].SupplementalNumber())
	assert.Equal(t, model.BoostQuestionNumber, public[1].SupplementalNumber())
}

func TestListApplicantAttemptsRequiresEmail(t *testing.T) {
	svc := newTestService(newMemoryStore())
	_, err := svc.ListApplicantAttempts(context.Background(), " ")
	assert.ErrorIs(t, err, util.ErrValidation)
}
