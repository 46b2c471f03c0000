package repository

import (
	"streamcrew_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.`order` asc")
		}).
		Preload("Questions.Choices").
		First(&a, id).Error
	return &a, err
}

func (r *AssessmentRepository) ListByCourse(courseID uint, publishedOnly bool) ([]model.Assessment, error) {
	var as []model.Assessment
	query := r.DB.Where("course_id = ?", courseID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.Order("created_at asc").Find(&as).Error
	return as, err
}

func (r *AssessmentRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Choices").First(&q, id).Error
	return &q, err
}

func (r *AssessmentRepository) FindChoiceByID(id uint) (*model.Choice, error) {
	var c model.Choice
	err := r.DB.First(&c, id).Error
	return &c, err
}

// SumPoints 测验总分值
func (r *AssessmentRepository) SumPoints(assessmentID uint) (int64, error) {
	var total *int64
	err := r.DB.Model(&model.Question{}).Where("assessment_id = ?", assessmentID).
		Select("SUM(points)").Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

// MaxAttemptNumber 该用户在该测验下已有的最大尝试序号
func (r *AssessmentRepository) MaxAttemptNumber(userID, assessmentID uint) (int, error) {
	var max *int
	err := r.DB.Model(&model.Attempt{}).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Select("MAX(attempt_number)").Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *AssessmentRepository) CreateAttempt(a *model.Attempt) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindAttemptByID(id uint) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.Preload("Answers").First(&a, id).Error
	return &a, err
}

func (r *AssessmentRepository) SaveAttempt(a *model.Attempt) error {
	return r.DB.Save(a).Error
}

func (r *AssessmentRepository) ListAttempts(userID, assessmentID uint) ([]model.Attempt, error) {
	var as []model.Attempt
	query := r.DB.Where("assessment_id = ?", assessmentID)
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Order("attempt_number asc").Find(&as).Error
	return as, err
}

func (r *AssessmentRepository) FindAnswer(attemptID, questionID uint) (*model.Answer, error) {
	var ans model.Answer
	err := r.DB.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&ans).Error
	return &ans, err
}

func (r *AssessmentRepository) SaveAnswer(ans *model.Answer) error {
	return r.DB.Save(ans).Error
}

func (r *AssessmentRepository) ListAnswers(attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}
