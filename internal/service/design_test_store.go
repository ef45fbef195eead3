package service

import (
	"context"
	"design_sense_backend/internal/model"
)

// DesignTestStore is the persistence the scoring pipeline depends on.
// Find* methods return (nil, nil) when nothing matches.
type DesignTestStore interface {
	FindQuestionsOrderedByNumber(ctx context.Context) ([]model.DesignQuestion, error)
	FindImagesByIDs(ctx context.Context, ids []string) ([]model.ImageItem, error)
	FindSupplementalQuestions(ctx context.Context) ([]model.SupplementalQuestion, error)
	FindAttempt(ctx context.Context, sessionID, normalizedEmail string) (*model.DesignAttempt, error)
	// InsertAttempt must fail with util.ErrAttemptExists on a unique index violation.
	InsertAttempt(ctx context.Context, attempt *model.DesignAttempt) error
	// MaxAttemptNumber returns the highest stored ordinal for the email, 0 when none.
	MaxAttemptNumber(ctx context.Context, normalizedEmail string) (int, error)
	FindApplicant(ctx context.Context, normalizedEmail string) (*model.Applicant, error)
	// UpsertApplicant returns the number of rows matched or created.
	UpsertApplicant(ctx context.Context, applicant *model.Applicant) (int64, error)
	ListAttemptsByApplicant(ctx context.Context, normalizedEmail string) ([]model.DesignAttempt, error)
}
