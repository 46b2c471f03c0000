package model

// swagger:model Assessment
type Assessment struct {
	BaseModel
	CourseID    uint       `gorm:"index" json:"courseId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	PassMark    float64    `gorm:"default:70" json:"passMark"` // 0-100
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	Questions   []Question `gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// swagger:model Question
type Question struct {
	BaseModel
	AssessmentID uint     `gorm:"uniqueIndex:idx_questions_assessment_order" json:"assessmentId"`
	Text         string   `gorm:"type:text;not null" json:"text"`
	QuestionType string   `gorm:"size:50;default:'multiple_choice'" json:"questionType"`
	Points       int      `gorm:"default:1" json:"points"`
	Order        int      `gorm:"default:0;uniqueIndex:idx_questions_assessment_order" json:"order"`
	Choices      []Choice `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Choice
type Choice struct {
	BaseModel
	QuestionID uint   `gorm:"index" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (Choice) TableName() string {
	return "choices"
}
