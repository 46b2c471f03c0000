package model

import "time"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptGraded     AttemptStatus = "graded"
)

// swagger:model Attempt
type Attempt struct {
	BaseModel
	UserID        uint          `gorm:"uniqueIndex:idx_attempts_user_assessment_number" json:"userId"`
	AssessmentID  uint          `gorm:"uniqueIndex:idx_attempts_user_assessment_number" json:"assessmentId"`
	Assessment    *Assessment   `gorm:"foreignKey:AssessmentID" json:"assessment,omitempty"`
	AttemptNumber int           `gorm:"not null;uniqueIndex:idx_attempts_user_assessment_number" json:"attemptNumber"`
	Score         float64       `gorm:"default:0" json:"score"` // 0-100
	PointsEarned  int           `gorm:"default:0" json:"pointsEarned"`
	TotalPoints   int           `gorm:"default:0" json:"totalPoints"`
	Passed        bool          `gorm:"default:false" json:"passed"`
	Status        AttemptStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	StartedAt     time.Time     `json:"startedAt"`
	SubmittedAt   *time.Time    `json:"submittedAt,omitempty"`
	Answers       []Answer      `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// Answer 提交即判分，留作当时的判分快照
// swagger:model Answer
type Answer struct {
	BaseModel
	AttemptID  uint   `gorm:"uniqueIndex:idx_answers_attempt_question" json:"attemptId"`
	QuestionID uint   `gorm:"uniqueIndex:idx_answers_attempt_question" json:"questionId"`
	ChoiceID   *uint  `json:"choiceId,omitempty"`
	AnswerText string `gorm:"size:500" json:"answerText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Answer) TableName() string {
	return "answers"
}
