package model

type QuestionType string

const (
	Homestyle QuestionType = "homestyle"
	Product   QuestionType = "product"
)

// Reserved positions of the supplemental questions.
const (
	ScenarioQuestionNumber = 9
	BoostQuestionNumber    = 10
)

const (
	MinScore = 0
	MaxScore = 2
)

// ImageItem is the ground truth for one image. Rows are immutable once seeded.
// swagger:model ImageItem
type ImageItem struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	ImageID        string       `gorm:"size:191;uniqueIndex;not null" json:"imageId"`
	QuestionNumber int          `gorm:"index;not null" json:"questionNumber"`
	Position       int          `gorm:"default:0" json:"position"`
	Src            string       `gorm:"size:512;not null" json:"src"`
	ActualScore    int          `gorm:"not null" json:"actualScore"`
	ImageType      QuestionType `gorm:"size:20;not null" json:"imageType"`
	DisplayLabel   *string      `gorm:"size:255" json:"displayLabel,omitempty"`
	Filename       *string      `gorm:"size:255" json:"filename,omitempty"`
}

func (ImageItem) TableName() string {
	return "design_test_images"
}

// swagger:model DesignQuestion
type DesignQuestion struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	QuestionNumber int          `gorm:"uniqueIndex;not null" json:"questionNumber"`
	QuestionType   QuestionType `gorm:"size:20;not null" json:"questionType"`
	Images         []ImageItem  `gorm:"foreignKey:QuestionNumber;references:QuestionNumber" json:"images"`
}

func (DesignQuestion) TableName() string {
	return "design_test_questions"
}
