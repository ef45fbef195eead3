package model

import "time"

// Applicant is keyed by lower-cased email. AttemptCount counts every
// non-duplicate submission across sessions.
// swagger:model Applicant
type Applicant struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	AttemptCount int       `gorm:"default:0;not null" json:"attemptCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Applicant) TableName() string {
	return "design_test_applicants"
}
