package service

import (
	"context"
	"design_sense_backend/internal/model"
	"design_sense_backend/internal/util"
	"fmt"
	"time"
)

// AttemptLedger owns attempt ordinals and applicant profiles.
type AttemptLedger struct {
	Store DesignTestStore
}

func NewAttemptLedger(store DesignTestStore) *AttemptLedger {
	return &AttemptLedger{Store: store}
}

// FindExisting returns the stored attempt for the pair, if any.
func (l *AttemptLedger) FindExisting(ctx context.Context, sessionID, email string) (*model.DesignAttempt, error) {
	return l.Store.FindAttempt(ctx, sessionID, model.NormalizeEmail(email))
}

// ResolveAttemptNumber returns the applicant's profile (nil for a first
// submission) and the ordinal the upcoming attempt should get. The stored
// attempts win over a stale attempt_count left by a failed profile update.
func (l *AttemptLedger) ResolveAttemptNumber(ctx context.Context, email string) (*model.Applicant, int, error) {
	normalized := model.NormalizeEmail(email)
	existing, err := l.Store.FindApplicant(ctx, normalized)
	if err != nil {
		return nil, 0, err
	}
	highest, err := l.Store.MaxAttemptNumber(ctx, normalized)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil && existing.AttemptCount > highest {
		highest = existing.AttemptCount
	}
	return existing, highest + 1, nil
}

// RecordAttempt appends attempt. A duplicate surfaces as util.ErrAttemptExists.
func (l *AttemptLedger) RecordAttempt(ctx context.Context, attempt *model.DesignAttempt) error {
	attempt.ApplicantEmail = model.NormalizeEmail(attempt.ApplicantEmail)
	return l.Store.InsertAttempt(ctx, attempt)
}

func (l *AttemptLedger) UpsertApplicant(ctx context.Context, email, name string, attemptNumber int, now time.Time) error {
	applicant := &model.Applicant{
		Email:        model.NormalizeEmail(email),
		Name:         name,
		AttemptCount: attemptNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	affected, err := l.Store.UpsertApplicant(ctx, applicant)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: applicant %s was neither updated nor created", util.ErrPersistenceConflict, applicant.Email)
	}
	return nil
}
