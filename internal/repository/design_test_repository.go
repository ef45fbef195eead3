package repository

import (
	"context"
	"design_sense_backend/internal/model"
	"design_sense_backend/internal/util"
	"design_sense_backend/pkg/logger"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MySQL ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

type DesignTestRepository struct {
	DB *gorm.DB
}

func NewDesignTestRepository(db *gorm.DB) *DesignTestRepository {
	return &DesignTestRepository{DB: db}
}

func (r *DesignTestRepository) FindQuestionsOrderedByNumber(ctx context.Context) ([]model.DesignQuestion, error) {
	var questions []model.DesignQuestion
	err := r.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Order("question_number asc").
		Find(&questions).Error
	return questions, err
}

func (r *DesignTestRepository) FindImagesByIDs(ctx context.Context, ids []string) ([]model.ImageItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []model.ImageItem
	err := r.DB.WithContext(ctx).Where("image_id IN ?", ids).Find(&images).Error
	return images, err
}

// FindSupplementalQuestions skips rows whose kind is not known.
func (r *DesignTestRepository) FindSupplementalQuestions(ctx context.Context) ([]model.SupplementalQuestion, error) {
	var records []model.SupplementalQuestionRecord
	if err := r.DB.WithContext(ctx).Order("question_number asc").Find(&records).Error; err != nil {
		return nil, err
	}

	questions := make([]model.SupplementalQuestion, 0, len(records))
	for i := range records {
		q, ok, err := records[i].Decode()
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Log.Warn("跳过未知类型的附加题",
				zap.Int("questionNumber", records[i].QuestionNumber),
				zap.String("kind", string(records[i].Kind)))
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *DesignTestRepository) FindAttempt(ctx context.Context, sessionID, email string) (*model.DesignAttempt, error) {
	var attempt model.DesignAttempt
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND applicant_email = ?", sessionID, email).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *DesignTestRepository) InsertAttempt(ctx context.Context, attempt *model.DesignAttempt) error {
	err := r.DB.WithContext(ctx).Create(attempt).Error
	if isDuplicateKey(err) {
		return fmt.Errorf("%w: session %s", util.ErrAttemptExists, attempt.SessionID)
	}
	return err
}

func (r *DesignTestRepository) MaxAttemptNumber(ctx context.Context, email string) (int, error) {
	var highest int
	err := r.DB.WithContext(ctx).
		Model(&model.DesignAttempt{}).
		Where("applicant_email = ?", email).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&highest).Error
	return highest, err
}

func (r *DesignTestRepository) FindApplicant(ctx context.Context, email string) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&applicant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

// UpsertApplicant inserts the profile or updates name, attempt_count and
// updated_at on the existing row. created_at is only written on insert.
func (r *DesignTestRepository) UpsertApplicant(ctx context.Context, applicant *model.Applicant) (int64, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "attempt_count", "updated_at"}),
		}).
		Create(applicant)
	return result.RowsAffected, result.Error
}

func (r *DesignTestRepository) ListAttemptsByApplicant(ctx context.Context, email string) ([]model.DesignAttempt, error) {
	var attempts []model.DesignAttempt
	err := r.DB.WithContext(ctx).
		Where("applicant_email = ?", email).
		Order("attempt_number asc").
		Find(&attempts).Error
	return attempts, err
}

// isDuplicateKey 兼容 MySQL 与 SQLite 的唯一索引冲突错误
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
