package service

import (
	"errors"
	"strings"
	"time"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"

	"gorm.io/gorm"
)

type AssessmentService struct {
	Repo           *repository.AssessmentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Audit          *AuditService
	DB             *gorm.DB
}

func NewAssessmentService(
	repo *repository.AssessmentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	audit *AuditService,
	db *gorm.DB,
) *AssessmentService {
	return &AssessmentService{Repo: repo, EnrollmentRepo: enrollmentRepo, Audit: audit, DB: db}
}

type SubmitAnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	ChoiceID   *uint  `json:"choiceId"`
	AnswerText string `json:"answerText"`
}

func (s *AssessmentService) Get(id uint) (*model.Assessment, error) {
	return s.Repo.FindByID(id)
}

func (s *AssessmentService) ListByCourse(courseID uint, publishedOnly bool) ([]model.Assessment, error) {
	return s.Repo.ListByCourse(courseID, publishedOnly)
}

// StartAttempt 在 (用户, 测验) 范围内分配下一个尝试序号
func (s *AssessmentService) StartAttempt(userID, assessmentID uint, ip string) (*model.Attempt, error) {
	assessment, err := s.Repo.FindByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if !assessment.IsPublished {
		return nil, util.ErrAssessmentNotPublished
	}

	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, assessment.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	var attempt *model.Attempt
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var max *int
		if err := tx.Model(&model.Attempt{}).
			Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
			Select("MAX(attempt_number)").Scan(&max).Error; err != nil {
			return err
		}
		next := 1
		if max != nil {
			next = *max + 1
		}

		attempt = &model.Attempt{
			UserID:        userID,
			AssessmentID:  assessmentID,
			AttemptNumber: next,
			Status:        model.AttemptInProgress,
			StartedAt:     time.Now(),
		}
		return tx.Create(attempt).Error
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Log(userID, model.AuditCreate, "attempts", attempt.ID, nil, ip)
	return attempt, nil
}

// SubmitAnswer 提交即判分，之后改题目内容不影响已判结果。
// 同一题重复提交覆盖旧答案并重新判分
func (s *AssessmentService) SubmitAnswer(userID, attemptID uint, req SubmitAnswerRequest) (*model.Answer, error) {
	attempt, err := s.Repo.FindAttemptByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptAlreadyClosed
	}

	question, err := s.Repo.FindQuestionByID(req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.FieldErrors{"questionId": "question does not exist"}
		}
		return nil, err
	}
	if question.AssessmentID != attempt.AssessmentID {
		return nil, util.FieldErrors{"questionId": "question does not belong to this assessment"}
	}

	var chosen *model.Choice
	if req.ChoiceID != nil {
		for i := range question.Choices {
			if question.Choices[i].ID == *req.ChoiceID {
				chosen = &question.Choices[i]
				break
			}
		}
		if chosen == nil {
			return nil, util.FieldErrors{"choiceId": "choice does not belong to this question"}
		}
	}

	answer, err := s.Repo.FindAnswer(attemptID, req.QuestionID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		answer = &model.Answer{AttemptID: attemptID, QuestionID: req.QuestionID}
	}

	answer.ChoiceID = req.ChoiceID
	answer.AnswerText = req.AnswerText
	answer.IsCorrect = grade(question, chosen, req.AnswerText)

	if err := s.Repo.SaveAnswer(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// SubmitAttempt 结算：得分 = 答对分值 / 总分值 * 100，空测验得 0 分
func (s *AssessmentService) SubmitAttempt(userID, attemptID uint, ip string) (*model.Attempt, error) {
	attempt, err := s.Repo.FindAttemptByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptAlreadyClosed
	}

	assessment, err := s.Repo.FindByID(attempt.AssessmentID)
	if err != nil {
		return nil, err
	}

	pointsByQuestion := make(map[uint]int, len(assessment.Questions))
	total := 0
	for _, q := range assessment.Questions {
		pointsByQuestion[q.ID] = q.Points
		total += q.Points
	}

	earned := 0
	for _, ans := range attempt.Answers {
		if ans.IsCorrect {
			earned += pointsByQuestion[ans.QuestionID]
		}
	}

	score := 0.0
	if total > 0 {
		score = float64(earned) / float64(total) * 100
	}

	now := time.Now()
	attempt.Score = score
	attempt.PointsEarned = earned
	attempt.TotalPoints = total
	attempt.Passed = score >= assessment.PassMark
	attempt.Status = model.AttemptSubmitted
	attempt.SubmittedAt = &now

	if err := s.Repo.SaveAttempt(attempt); err != nil {
		return nil, err
	}

	s.Audit.Log(userID, model.AuditUpdate, "attempts", attempt.ID, map[string]interface{}{
		"score":  score,
		"passed": attempt.Passed,
	}, ip)
	return attempt, nil
}

func (s *AssessmentService) GetAttempt(userID uint, attemptID uint, staff bool) (*model.Attempt, error) {
	attempt, err := s.Repo.FindAttemptByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID && !staff {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}

func (s *AssessmentService) ListAttempts(userID, assessmentID uint) ([]model.Attempt, error) {
	return s.Repo.ListAttempts(userID, assessmentID)
}

// grade 选项答案看 is_correct 标记；文本答案与正确选项做
// 去首尾空白、忽略大小写的比较
func grade(question *model.Question, chosen *model.Choice, answerText string) bool {
	if chosen != nil {
		return chosen.IsCorrect
	}

	normalized := normalizeAnswer(answerText)
	if normalized == "" {
		return false
	}
	for _, c := range question.Choices {
		if c.IsCorrect && normalizeAnswer(c.Text) == normalized {
			return true
		}
	}
	return false
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
