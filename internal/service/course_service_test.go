package service

import (
	"fmt"
	"strings"
	"testing"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseService_CreateFull(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	instructor := seedUser(t, db, "carol", model.Instructor)

	passMark := 80.0
	created, err := svc.CreateFull(instructor.ID, CreateCourseRequest{
		Title:  "Streaming 101",
		Level:  "beginner",
		Status: "published",
		Skills: []string{"encoding", "framing"},
		Lessons: []LessonRequest{
			{Title: "Intro", DurationMinutes: 10},
			{Title: "Setup", DurationMinutes: 20},
		},
		Assessments: []AssessmentRequest{
			{
				Title:       "Final Quiz",
				PassMark:    &passMark,
				IsPublished: true,
				Questions: []QuestionRequest{
					{
						Text:   "Pick one",
						Points: 2,
						Choices: []ChoiceRequest{
							{Text: "A"},
							{Text: "B", IsCorrect: true},
						},
					},
				},
			},
		},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, model.CoursePublished, created.Status)
	require.NotNil(t, created.InstructorID)
	assert.Equal(t, instructor.ID, *created.InstructorID)
	assert.Equal(t, []string{"encoding", "framing"}, []string(created.Skills))

	require.Len(t, created.Lessons, 2)
	assert.Equal(t, 10, created.Lessons[0].Order)
	assert.Equal(t, 20, created.Lessons[1].Order)

	require.Len(t, created.Assessments, 1)
	assert.EqualValues(t, 80, created.Assessments[0].PassMark)
	require.Len(t, created.Assessments[0].Questions, 1)
	assert.Len(t, created.Assessments[0].Questions[0].Choices, 2)
}

func TestCourseService_CreateFull_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	_, err := svc.CreateFull(1, CreateCourseRequest{Title: "X", Level: "expert"}, "")
	var fields util.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "level")

	// 列表字段超出上限
	tooMany := make([]string, util.MaxListFieldEntries+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("skill-%d", i)
	}
	_, err = svc.CreateFull(1, CreateCourseRequest{Title: "X", Skills: tooMany}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "skills")

	// 非法及格线回滚整个课程
	badMark := 120.0
	_, err = svc.CreateFull(1, CreateCourseRequest{
		Title:       "X",
		Assessments: []AssessmentRequest{{Title: "Quiz", PassMark: &badMark}},
	}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "passMark")

	var count int64
	db.Model(&model.Course{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCourseService_CreateFull_LessonFieldValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	var fields util.FieldErrors

	// 非正数排序
	_, err := svc.CreateFull(1, CreateCourseRequest{
		Title:   "X",
		Lessons: []LessonRequest{{Title: "Intro", Order: intPtr(-5)}},
	}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "lessons[0].order")

	// 超长描述
	_, err = svc.CreateFull(1, CreateCourseRequest{
		Title:   "X",
		Lessons: []LessonRequest{{Title: "Intro", Description: strings.Repeat("x", 2500)}},
	}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "lessons[0].description")

	_, err = svc.CreateFull(1, CreateCourseRequest{
		Title: "X",
		Assessments: []AssessmentRequest{
			{Title: "Quiz", Questions: []QuestionRequest{{Text: "Pick one", Order: intPtr(0)}}},
		},
	}, "")
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "questions[0].order")

	var count int64
	db.Model(&model.Course{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCourseService_UpdateFull_ReplacesLessons(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	created, err := svc.CreateFull(1, CreateCourseRequest{
		Title: "Streaming 101",
		Lessons: []LessonRequest{
			{Title: "Intro"},
			{Title: "Setup"},
		},
	}, "")
	require.NoError(t, err)

	newLessons := []LessonRequest{{Title: "Everything", DurationMinutes: 45}}
	updated, err := svc.UpdateFull(1, created.ID, UpdateCourseRequest{Lessons: &newLessons}, "")
	require.NoError(t, err)

	require.Len(t, updated.Lessons, 1)
	assert.Equal(t, "Everything", updated.Lessons[0].Title)

	// 标题等未携带的字段不受影响
	assert.Equal(t, "Streaming 101", updated.Title)
}

func TestCourseService_UpdateFull_PartialEnums(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	created, err := svc.CreateFull(1, CreateCourseRequest{Title: "Streaming 101", Level: "advanced"}, "")
	require.NoError(t, err)

	// 只改 status，level 保持 advanced
	updated, err := svc.UpdateFull(1, created.ID, UpdateCourseRequest{Status: strPtr("published")}, "")
	require.NoError(t, err)
	assert.Equal(t, model.CoursePublished, updated.Status)
	assert.Equal(t, model.LevelAdvanced, updated.Level)
}

func TestCourseService_Get_Detail(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course := seedCourse(t, db, model.CoursePublished, 2)
	user := seedUser(t, db, "alice", model.Crew)
	seedEnrollment(t, db, user.ID, course.ID)
	require.NoError(t, db.Create(&model.Review{UserID: user.ID, CourseID: course.ID, Rating: 4, Comment: "solid"}).Error)

	detail, err := svc.Get(course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, detail.LessonCount)
	assert.EqualValues(t, 1, detail.EnrollmentCount)
	assert.EqualValues(t, 4, detail.AverageRating)
}

func TestCourseService_List_FiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	seedCourse(t, db, model.CoursePublished, 0)
	draft := &model.Course{Title: "WIP", Status: model.CourseDraft}
	require.NoError(t, db.Create(draft).Error)

	published, total, err := svc.List(1, 20, string(model.CoursePublished), "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, published, 1)
	assert.Equal(t, model.CoursePublished, published[0].Status)
}
