package service

import (
	"context"
	"design_sense_backend/internal/model"
	"design_sense_backend/internal/util"
	"design_sense_backend/pkg/logger"
	"design_sense_backend/pkg/monitoring"
	"design_sense_backend/pkg/tracing"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	publicQuestionsCacheKey = "questions"
	// 与请求中 sessionId 的 min=6 校验一致，作用于去空白后的值
	minSessionIDLength = 6
)

type DesignTestService struct {
	Store  DesignTestStore
	Ledger *AttemptLedger
	Cache  CatalogCache
	Locker Locker
	Now    func() time.Time
}

func NewDesignTestService(store DesignTestStore, cache CatalogCache, locker Locker) *DesignTestService {
	if cache == nil {
		cache = NoopCatalogCache()
	}
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &DesignTestService{
		Store:  store,
		Ledger: NewAttemptLedger(store),
		Cache:  cache,
		Locker: locker,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *DesignTestService) ListPublicQuestions(ctx context.Context) ([]PublicQuestion, error) {
	var cached []PublicQuestion
	if ok, err := s.Cache.Get(ctx, publicQuestionsCacheKey, &cached); err != nil {
		logger.Log.Warn("catalog cache read failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	questions, err := s.Store.FindQuestionsOrderedByNumber(ctx)
	if err != nil {
		return nil, err
	}
	public := PublicQuestions(questions)

	if err := s.Cache.Set(ctx, publicQuestionsCacheKey, public); err != nil {
		logger.Log.Warn("catalog cache write failed", zap.Error(err))
	}
	return public, nil
}

func (s *DesignTestService) ListPublicSupplemental(ctx context.Context) ([]PublicSupplementalQuestion, error) {
	questions, err := s.Store.FindSupplementalQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return PublicSupplementals(questions), nil
}

// Submit scores req and records it as the applicant's next attempt. A
// resubmission of the same (session, email) returns the stored result with
// replayed=true and records nothing.
func (s *DesignTestService) Submit(ctx context.Context, req TestSubmissionRequest) (result *SubmissionResult, replayed bool, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "design_test.submit")
	defer span.End()
	defer func() {
		monitoring.SubmissionCounter.WithLabelValues(submissionOutcome(replayed, err)).Inc()
		if err != nil {
			span.RecordError(err)
		}
	}()

	sessionID := strings.TrimSpace(req.SessionID)
	email := model.NormalizeEmail(req.Applicant.Email)
	if sessionID == "" || email == "" {
		return nil, false, fmt.Errorf("%w: sessionId and applicant email are required", util.ErrValidation)
	}
	if len(sessionID) < minSessionIDLength {
		return nil, false, fmt.Errorf("%w: sessionId must be at least %d characters", util.ErrValidation, minSessionIDLength)
	}
	span.SetAttributes(attribute.String("session.id", sessionID))

	// 查重只是优化，最终由 (session_id, applicant_email) 唯一索引保证
	existing, err := s.Ledger.FindExisting(ctx, sessionID, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return resultFromAttempt(existing), true, nil
	}

	choices := make(map[int]string, len(req.Choices))
	for _, c := range req.Choices {
		choices[c.QuestionNumber] = c.OptionID
	}
	_, hasScenario := choices[model.ScenarioQuestionNumber]
	_, hasBoost := choices[model.BoostQuestionNumber]
	if !hasScenario || !hasBoost {
		return nil, false, util.ErrMissingRequiredChoice
	}

	scored, err := s.score(ctx, req.Responses, choices)
	if err != nil {
		return nil, false, err
	}

	attempt, err := s.buildAttempt(sessionID, email, req, scored)
	if err != nil {
		return nil, false, err
	}

	return s.persist(ctx, attempt)
}

func (s *DesignTestService) score(ctx context.Context, responses []ResponseItem, choices map[int]string) (*ScoringResult, error) {
	ctx, span := tracing.Tracer().Start(ctx, "design_test.score")
	defer span.End()

	supplemental, err := s.Store.FindSupplementalQuestions(ctx)
	if err != nil {
		return nil, err
	}
	bySupplementalNumber := supplementalByNumber(supplemental)

	questions, err := s.Store.FindQuestionsOrderedByNumber(ctx)
	if err != nil {
		return nil, err
	}

	responseMap := make(map[string]int, len(responses))
	ids := make([]string, 0, len(responses))
	for _, r := range responses {
		if r.SelectedScore == nil {
			continue
		}
		if _, seen := responseMap[r.ImageID]; !seen {
			ids = append(ids, r.ImageID)
		}
		responseMap[r.ImageID] = *r.SelectedScore
	}

	images, err := s.Store.FindImagesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]model.ImageItem, len(images))
	for _, img := range images {
		catalog[img.ImageID] = img
	}

	start := time.Now()
	result, err := Score(ScoringInput{
		Questions: questions,
		Catalog:   catalog,
		Responses: responseMap,
		Choices:   choices,
		Selection: bySupplementalNumber[model.ScenarioQuestionNumber],
		Boost:     bySupplementalNumber[model.BoostQuestionNumber],
	})
	monitoring.ObserveScoring(start)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DesignTestService) buildAttempt(sessionID, email string, req TestSubmissionRequest, scored *ScoringResult) (*model.DesignAttempt, error) {
	questionsJSON, err := json.Marshal(scored.Questions)
	if err != nil {
		return nil, err
	}
	scenarioJSON, err := json.Marshal(scored.Scenario)
	if err != nil {
		return nil, err
	}
	roleJSON, err := json.Marshal(scored.Role)
	if err != nil {
		return nil, err
	}
	var metadataJSON json.RawMessage
	if req.Metadata != nil {
		if metadataJSON, err = json.Marshal(req.Metadata); err != nil {
			return nil, err
		}
	}

	return &model.DesignAttempt{
		SessionID:           sessionID,
		ApplicantEmail:      email,
		ApplicantName:       req.Applicant.Name,
		OverallCloseness:    scored.OverallCloseness,
		OverallClosenessPct: scored.OverallClosenessPct,
		BaseCloseness:       scored.BaseCloseness,
		MAE:                 scored.MAE,
		Band:                scored.Band,
		ImageQuestions:      questionsJSON,
		ScenarioQuestion:    scenarioJSON,
		RolePreference:      roleJSON,
		BoostMultiplier:     scored.BoostMultiplier,
		Metadata:            metadataJSON,
	}, nil
}

// persist assigns the attempt number and writes attempt then applicant while
// holding the per-applicant lock.
func (s *DesignTestService) persist(ctx context.Context, attempt *model.DesignAttempt) (*SubmissionResult, bool, error) {
	ctx, span := tracing.Tracer().Start(ctx, "design_test.persist")
	defer span.End()

	unlock, err := s.Locker.Lock(ctx, attempt.ApplicantEmail)
	if err != nil {
		return nil, false, fmt.Errorf("acquire applicant lock: %w", err)
	}
	defer unlock()

	// 等锁期间同一会话可能已经落库
	existing, err := s.Ledger.FindExisting(ctx, attempt.SessionID, attempt.ApplicantEmail)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return resultFromAttempt(existing), true, nil
	}

	_, attemptNumber, err := s.Ledger.ResolveAttemptNumber(ctx, attempt.ApplicantEmail)
	if err != nil {
		return nil, false, err
	}
	now := s.Now()
	attempt.AttemptNumber = attemptNumber
	attempt.SubmittedAt = now

	if err := s.Ledger.RecordAttempt(ctx, attempt); err != nil {
		if !errors.Is(err, util.ErrAttemptExists) {
			return nil, false, err
		}
		stored, findErr := s.Ledger.FindExisting(ctx, attempt.SessionID, attempt.ApplicantEmail)
		if findErr != nil {
			return nil, false, findErr
		}
		if stored != nil {
			return resultFromAttempt(stored), true, nil
		}
		// 另一个会话抢占了同一序号
		return nil, false, fmt.Errorf("%w: attempt number %d for %s already taken", util.ErrPersistenceConflict, attemptNumber, attempt.ApplicantEmail)
	}

	if err := s.Ledger.UpsertApplicant(ctx, attempt.ApplicantEmail, attempt.ApplicantName, attemptNumber, now); err != nil {
		// 已知的不一致窗口：attempt 已写入，申请人计数未更新；不做重试
		logger.Log.Error("attempt recorded but applicant profile not updated",
			zap.String("sessionId", attempt.SessionID),
			zap.String("email", attempt.ApplicantEmail),
			zap.Int("attemptNumber", attemptNumber),
			zap.Error(err),
		)
		return nil, false, err
	}

	monitoring.BandCounter.WithLabelValues(string(attempt.Band)).Inc()
	logger.Log.Info("design test attempt recorded",
		zap.String("sessionId", attempt.SessionID),
		zap.String("email", attempt.ApplicantEmail),
		zap.Int("attemptNumber", attemptNumber),
		zap.Float64("overallCloseness", attempt.OverallCloseness),
		zap.String("band", string(attempt.Band)),
	)

	return resultFromAttempt(attempt), false, nil
}

// ListApplicantAttempts returns every attempt of the applicant, oldest first.
func (s *DesignTestService) ListApplicantAttempts(ctx context.Context, email string) ([]model.DesignAttempt, error) {
	normalized := model.NormalizeEmail(email)
	if normalized == "" {
		return nil, fmt.Errorf("%w: email is required", util.ErrValidation)
	}
	return s.Store.ListAttemptsByApplicant(ctx, normalized)
}

func resultFromAttempt(a *model.DesignAttempt) *SubmissionResult {
	return &SubmissionResult{
		Applicant: ApplicantSummary{
			Name:  a.ApplicantName,
			Email: a.ApplicantEmail,
		},
		AttemptNumber:       a.AttemptNumber,
		SessionID:           a.SessionID,
		OverallCloseness:    a.OverallCloseness,
		OverallClosenessPct: a.OverallClosenessPct,
		Band:                a.Band,
	}
}

func submissionOutcome(replayed bool, err error) string {
	switch {
	case err != nil && util.IsClientError(err):
		return monitoring.OutcomeRejected
	case err != nil:
		return monitoring.OutcomeFailed
	case replayed:
		return monitoring.OutcomeReplayed
	default:
		return monitoring.OutcomeCreated
	}
}
