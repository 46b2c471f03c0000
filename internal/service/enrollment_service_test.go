package service

import (
	"testing"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentService_Enroll(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 2)

	enrollment, err := svc.Enroll(user.ID, course.ID, "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, enrollment.UserID)
	assert.EqualValues(t, 0, enrollment.Progress)

	// 重复报名返回同一条记录
	again, err := svc.Enroll(user.ID, course.ID, "")
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, again.ID)

	var count int64
	db.Model(&model.Enrollment{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnrollmentService_Enroll_RequiresPublished(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CourseDraft, 1)

	_, err := svc.Enroll(user.ID, course.ID, "")

	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "course")
}

func TestEnrollmentService_CompleteLesson_Progress(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 3)
	seedEnrollment(t, db, user.ID, course.ID)

	// 1/3 完成 → 33
	lp, err := svc.CompleteLesson(user.ID, course.Lessons[0].ID, "")
	require.NoError(t, err)
	assert.True(t, lp.IsCompleted)
	require.NotNil(t, lp.CompletedAt)
	assert.EqualValues(t, 100, lp.ProgressValue)

	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.EqualValues(t, 33, enrollment.Progress)
	assert.Nil(t, enrollment.CompletedAt)

	// 2/3 → 67
	_, err = svc.CompleteLesson(user.ID, course.Lessons[1].ID, "")
	require.NoError(t, err)
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.EqualValues(t, 67, enrollment.Progress)

	// 3/3 → 100，完成时间只写一次
	_, err = svc.CompleteLesson(user.ID, course.Lessons[2].ID, "")
	require.NoError(t, err)
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.EqualValues(t, 100, enrollment.Progress)
	require.NotNil(t, enrollment.CompletedAt)
	firstCompletion := *enrollment.CompletedAt

	_, err = svc.CompleteLesson(user.ID, course.Lessons[2].ID, "")
	require.NoError(t, err)
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, firstCompletion.Unix(), enrollment.CompletedAt.Unix())
}

func TestEnrollmentService_CompleteLesson_OneWay(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)

	first, err := svc.CompleteLesson(user.ID, course.Lessons[0].ID, "")
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)
	stamp := *first.CompletedAt

	second, err := svc.CompleteLesson(user.ID, course.Lessons[0].ID, "")
	require.NoError(t, err)
	assert.True(t, second.IsCompleted)
	assert.Equal(t, stamp.Unix(), second.CompletedAt.Unix())
}

func TestEnrollmentService_CompleteLesson_NotEnrolled(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)

	_, err := svc.CompleteLesson(user.ID, course.Lessons[0].ID, "")
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestEnrollmentService_VideoProgress_Monotonic(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	lessonID := course.Lessons[0].ID

	// 乱序上报，最远位置只增不减
	for _, at := range []float64{10, 40, 25, 80} {
		_, err := svc.UpdateVideoProgress(user.ID, lessonID, at, "")
		require.NoError(t, err)
	}

	var lp model.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, lessonID).First(&lp).Error)
	assert.EqualValues(t, 80, lp.MaxTimeReached)
	assert.False(t, lp.IsCompleted)
	// 80s / 600s
	assert.InDelta(t, 13.33, lp.ProgressValue, 0.01)
}

func TestEnrollmentService_VideoProgress_AutoComplete(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	lessonID := course.Lessons[0].ID

	// 420s / 600s = 70% 达到阈值
	lp, err := svc.UpdateVideoProgress(user.ID, lessonID, 420, "")
	require.NoError(t, err)
	assert.True(t, lp.IsCompleted)
	require.NotNil(t, lp.CompletedAt)

	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.EqualValues(t, 100, enrollment.Progress)

	// 之后回看较早位置不会取消完成
	lp, err = svc.UpdateVideoProgress(user.ID, lessonID, 100, "")
	require.NoError(t, err)
	assert.True(t, lp.IsCompleted)
	assert.EqualValues(t, 420, lp.MaxTimeReached)
}

func TestEnrollmentService_VideoProgress_ClampAndValidate(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)
	seedEnrollment(t, db, user.ID, course.ID)
	lessonID := course.Lessons[0].ID

	_, err := svc.UpdateVideoProgress(user.ID, lessonID, -5, "")
	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "currentTime")

	// 超出课时时长按 100% 截断
	lp, err := svc.UpdateVideoProgress(user.ID, lessonID, 900, "")
	require.NoError(t, err)
	assert.EqualValues(t, 100, lp.ProgressValue)
	assert.EqualValues(t, 900, lp.MaxTimeReached)
}

func TestEnrollmentService_LessonProgressForCourse_RequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := seedUser(t, db, "alice", model.Crew)
	course := seedCourse(t, db, model.CoursePublished, 1)

	_, err := svc.LessonProgressForCourse(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}
