package service

import (
	"testing"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedAssessment 两道题：单选 2 分（正确选项 "B"），简答 1 分（正确答案 "Paris"）
func seedAssessment(t *testing.T, db *gorm.DB, courseID uint, published bool) *model.Assessment {
	t.Helper()

	assessment := &model.Assessment{
		CourseID:    courseID,
		Title:       "Stream Safety Quiz",
		PassMark:    70,
		IsPublished: published,
	}
	require.NoError(t, db.Create(assessment).Error)

	q1 := &model.Question{
		AssessmentID: assessment.ID,
		Text:         "Which input do you mute first?",
		QuestionType: "multiple_choice",
		Points:       2,
		Order:        10,
	}
	require.NoError(t, db.Create(q1).Error)
	require.NoError(t, db.Create(&model.Choice{QuestionID: q1.ID, Text: "A"}).Error)
	require.NoError(t, db.Create(&model.Choice{QuestionID: q1.ID, Text: "B", IsCorrect: true}).Error)

	q2 := &model.Question{
		AssessmentID: assessment.ID,
		Text:         "Name the backup encoder location",
		QuestionType: "short_answer",
		Points:       1,
		Order:        20,
	}
	require.NoError(t, db.Create(q2).Error)
	require.NoError(t, db.Create(&model.Choice{QuestionID: q2.ID, Text: "Paris", IsCorrect: true}).Error)

	require.NoError(t, db.Preload("Questions.Choices").First(assessment, assessment.ID).Error)
	return assessment
}

func correctChoice(t *testing.T, db *gorm.DB, questionID uint) *model.Choice {
	t.Helper()
	var choice model.Choice
	require.NoError(t, db.Where("question_id = ? AND is_correct = ?", questionID, true).First(&choice).Error)
	return &choice
}

func wrongChoice(t *testing.T, db *gorm.DB, questionID uint) *model.Choice {
	t.Helper()
	var choice model.Choice
	require.NoError(t, db.Where("question_id = ? AND is_correct = ?", questionID, false).First(&choice).Error)
	return &choice
}

func TestAssessmentService_StartAttempt_Numbering(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	assessment := seedAssessment(t, db, course.ID, true)

	first, err := svc.StartAttempt(user.ID, assessment.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, model.AttemptInProgress, first.Status)

	second, err := svc.StartAttempt(user.ID, assessment.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)

	// 其他用户从 1 重新计数
	other := seedUser(t, db, "bob", model.Crew)
	seedEnrollment(t, db, other.ID, course.ID)
	theirs, err := svc.StartAttempt(other.ID, assessment.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, theirs.AttemptNumber)
}

func TestAssessmentService_StartAttempt_Preconditions(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)

	unpublished := seedAssessment(t, db, course.ID, false)
	seedEnrollment(t, db, user.ID, course.ID)
	_, err := svc.StartAttempt(user.ID, unpublished.ID, "")
	assert.ErrorIs(t, err, util.ErrAssessmentNotPublished)

	other := seedUser(t, db, "bob", model.Crew)
	published := seedAssessment(t, db, course.ID, true)
	_, err = svc.StartAttempt(other.ID, published.ID, "")
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestAssessmentService_SubmitAnswer_Grading(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	assessment := seedAssessment(t, db, course.ID, true)
	mc := assessment.Questions[0]
	text := assessment.Questions[1]

	attempt, err := svc.StartAttempt(user.ID, assessment.ID, "")
	require.NoError(t, err)

	// 选对
	right := correctChoice(t, db, mc.ID)
	ans, err := svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: mc.ID, ChoiceID: &right.ID})
	require.NoError(t, err)
	assert.True(t, ans.IsCorrect)

	// 文本答案忽略大小写和首尾空白
	ans, err = svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: text.ID, AnswerText: "  pArIs "})
	require.NoError(t, err)
	assert.True(t, ans.IsCorrect)

	ans, err = svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: text.ID, AnswerText: "London"})
	require.NoError(t, err)
	assert.False(t, ans.IsCorrect)

	// 空答案判错
	ans, err = svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: text.ID, AnswerText: "   "})
	require.NoError(t, err)
	assert.False(t, ans.IsCorrect)

	// 同一题重复提交覆盖而不是追加
	var answerCount int64
	db.Model(&model.Answer{}).Where("attempt_id = ?", attempt.ID).Count(&answerCount)
	assert.EqualValues(t, 2, answerCount)
}

func TestAssessmentService_SubmitAnswer_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	assessment := seedAssessment(t, db, course.ID, true)
	otherAssessment := seedAssessment(t, db, course.ID, true)

	attempt, err := svc.StartAttempt(user.ID, assessment.ID, "")
	require.NoError(t, err)

	// 别的测验的题目
	foreignQuestion := otherAssessment.Questions[0]
	_, err = svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: foreignQuestion.ID})
	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "questionId")

	// 别的题目的选项
	mc := assessment.Questions[0]
	foreignChoice := correctChoice(t, db, foreignQuestion.ID)
	_, err = svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: mc.ID, ChoiceID: &foreignChoice.ID})
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "choiceId")

	// 别人的答题记录
	other := seedUser(t, db, "bob", model.Crew)
	_, err = svc.SubmitAnswer(other.ID, attempt.ID, SubmitAnswerRequest{QuestionID: mc.ID})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAssessmentService_SubmitAttempt_Scoring(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	assessment := seedAssessment(t, db, course.ID, true)
	mc := assessment.Questions[0]
	text := assessment.Questions[1]

	attempt, err := svc.StartAttempt(user.ID, assessment.ID, "")
	require.NoError(t, err)

	// 答对 2 分的单选，答错 1 分的简答 → 2/3 ≈ 66.7，未过 70 线
	right := correctChoice(t, db, mc.ID)
	_, err = svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: mc.ID, ChoiceID: &right.ID})
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: text.ID, AnswerText: "London"})
	require.NoError(t, err)

	submitted, err := svc.SubmitAttempt(user.ID, attempt.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, submitted.PointsEarned)
	assert.Equal(t, 3, submitted.TotalPoints)
	assert.InDelta(t, 66.67, submitted.Score, 0.01)
	assert.False(t, submitted.Passed)
	assert.Equal(t, model.AttemptSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)

	// 第二次尝试全对 → 100 分，通过
	retry, err := svc.StartAttempt(user.ID, assessment.ID, "")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(user.ID, retry.ID, SubmitAnswerRequest{QuestionID: mc.ID, ChoiceID: &right.ID})
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(user.ID, retry.ID, SubmitAnswerRequest{QuestionID: text.ID, AnswerText: "Paris"})
	require.NoError(t, err)

	retried, err := svc.SubmitAttempt(user.ID, retry.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 100, retried.Score)
	assert.True(t, retried.Passed)
}

func TestAssessmentService_SubmitAttempt_Closed(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	assessment := seedAssessment(t, db, course.ID, true)

	attempt, err := svc.StartAttempt(user.ID, assessment.ID, "")
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(user.ID, attempt.ID, "")
	require.NoError(t, err)

	// 已交卷后禁止再答题或重复交卷
	_, err = svc.SubmitAttempt(user.ID, attempt.ID, "")
	assert.ErrorIs(t, err, util.ErrAttemptAlreadyClosed)

	mc := assessment.Questions[0]
	_, err = svc.SubmitAnswer(user.ID, attempt.ID, SubmitAnswerRequest{QuestionID: mc.ID})
	assert.ErrorIs(t, err, util.ErrAttemptAlreadyClosed)
}

func TestAssessmentService_SubmitAttempt_EmptyAssessment(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)

	empty := &model.Assessment{CourseID: course.ID, Title: "Empty", PassMark: 70, IsPublished: true}
	require.NoError(t, db.Create(empty).Error)

	attempt, err := svc.StartAttempt(user.ID, empty.ID, "")
	require.NoError(t, err)

	submitted, err := svc.SubmitAttempt(user.ID, attempt.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 0, submitted.Score)
	assert.False(t, submitted.Passed)
}

func TestAssessmentService_GetAttempt_Permissions(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	assessment := seedAssessment(t, db, course.ID, true)

	attempt, err := svc.StartAttempt(user.ID, assessment.ID, "")
	require.NoError(t, err)

	other := seedUser(t, db, "bob", model.Crew)
	_, err = svc.GetAttempt(other.ID, attempt.ID, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 工作人员可以查看任何人的记录
	got, err := svc.GetAttempt(other.ID, attempt.ID, true)
	require.NoError(t, err)
	assert.Equal(t, attempt.ID, got.ID)
}
