package service

import (
	"fmt"
	"strings"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseService struct {
	Repo  *repository.CourseRepository
	Audit *AuditService
	DB    *gorm.DB
}

func NewCourseService(repo *repository.CourseRepository, audit *AuditService, db *gorm.DB) *CourseService {
	return &CourseService{Repo: repo, Audit: audit, DB: db}
}

type LessonRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	ContentURL      string `json:"contentUrl"`
	DurationMinutes int    `json:"durationMinutes"`
	Order           *int   `json:"order"`
}

type ChoiceRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	Text         string          `json:"text" binding:"required"`
	QuestionType string          `json:"questionType"`
	Points       int             `json:"points"`
	Order        *int            `json:"order"`
	Choices      []ChoiceRequest `json:"choices"`
}

type AssessmentRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	PassMark    *float64          `json:"passMark"`
	IsPublished bool              `json:"isPublished"`
	Questions   []QuestionRequest `json:"questions"`
}

type CreateCourseRequest struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description"`
	Level         string              `json:"level"`
	Status        string              `json:"status"`
	CourseType    string              `json:"courseType"`
	ContentType   string              `json:"contentType"`
	DurationWeeks int                 `json:"durationWeeks"`
	Thumbnail     string              `json:"thumbnail"`
	Skills        []string            `json:"skills"`
	Requirements  []string            `json:"requirements"`
	Outcomes      []string            `json:"outcomes"`
	Lessons       []LessonRequest     `json:"lessons"`
	Assessments   []AssessmentRequest `json:"assessments"`
}

type UpdateCourseRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Level         *string              `json:"level"`
	Status        *string              `json:"status"`
	CourseType    *string              `json:"courseType"`
	ContentType   *string              `json:"contentType"`
	DurationWeeks *int                 `json:"durationWeeks"`
	Thumbnail     *string              `json:"thumbnail"`
	Skills        *[]string            `json:"skills"`
	Requirements  *[]string            `json:"requirements"`
	Outcomes      *[]string            `json:"outcomes"`
	Lessons       *[]LessonRequest     `json:"lessons"`
	Assessments   *[]AssessmentRequest `json:"assessments"`
}

// CourseDetail 列表/详情接口返回的聚合视图
type CourseDetail struct {
	model.Course
	LessonCount     int64   `json:"lessonCount"`
	EnrollmentCount int64   `json:"enrollmentCount"`
	AverageRating   float64 `json:"averageRating"`
}

// CreateFull 单事务创建课程及课时、测验、题目、选项
func (s *CourseService) CreateFull(actorID uint, req CreateCourseRequest, ip string) (*model.Course, error) {
	if err := validateListFields(req.Skills, req.Requirements, req.Outcomes); err != nil {
		return nil, err
	}
	level, status, courseType, err := parseCourseEnums(req.Level, req.Status, req.CourseType)
	if err != nil {
		return nil, err
	}

	var created model.Course
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		created = model.Course{
			Title:         strings.TrimSpace(req.Title),
			Description:   req.Description,
			Level:         level,
			Status:        status,
			CourseType:    courseType,
			ContentType:   req.ContentType,
			DurationWeeks: req.DurationWeeks,
			Thumbnail:     req.Thumbnail,
			Skills:        datatypes.NewJSONSlice(req.Skills),
			Requirements:  datatypes.NewJSONSlice(req.Requirements),
			Outcomes:      datatypes.NewJSONSlice(req.Outcomes),
		}
		if actorID > 0 {
			created.InstructorID = &actorID
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if err := createLessons(tx, created.ID, req.Lessons); err != nil {
			return err
		}
		return createAssessments(tx, created.ID, req.Assessments)
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Log(actorID, model.AuditCreate, "courses", created.ID, req, ip)
	return s.Repo.FindByID(created.ID)
}

// UpdateFull 部分更新；lessons / assessments 键存在时整体替换
func (s *CourseService) UpdateFull(actorID, id uint, req UpdateCourseRequest, ip string) (*model.Course, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.First(&course, id).Error; err != nil {
			return err
		}

		if req.Title != nil {
			course.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			course.Description = *req.Description
		}
		if req.Level != nil || req.Status != nil || req.CourseType != nil {
			levelRaw, statusRaw, typeRaw := string(course.Level), string(course.Status), string(course.CourseType)
			if req.Level != nil {
				levelRaw = *req.Level
			}
			if req.Status != nil {
				statusRaw = *req.Status
			}
			if req.CourseType != nil {
				typeRaw = *req.CourseType
			}
			level, status, courseType, err := parseCourseEnums(levelRaw, statusRaw, typeRaw)
			if err != nil {
				return err
			}
			course.Level, course.Status, course.CourseType = level, status, courseType
		}
		if req.ContentType != nil {
			course.ContentType = *req.ContentType
		}
		if req.DurationWeeks != nil {
			course.DurationWeeks = *req.DurationWeeks
		}
		if req.Thumbnail != nil {
			course.Thumbnail = *req.Thumbnail
		}

		skills, requirements, outcomes := []string(course.Skills), []string(course.Requirements), []string(course.Outcomes)
		if req.Skills != nil {
			skills = *req.Skills
		}
		if req.Requirements != nil {
			requirements = *req.Requirements
		}
		if req.Outcomes != nil {
			outcomes = *req.Outcomes
		}
		if err := validateListFields(skills, requirements, outcomes); err != nil {
			return err
		}
		course.Skills = datatypes.NewJSONSlice(skills)
		course.Requirements = datatypes.NewJSONSlice(requirements)
		course.Outcomes = datatypes.NewJSONSlice(outcomes)

		if err := tx.Save(&course).Error; err != nil {
			return err
		}

		if req.Lessons != nil {
			if err := tx.Unscoped().Where("course_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
			if err := createLessons(tx, id, *req.Lessons); err != nil {
				return err
			}
		}

		if req.Assessments != nil {
			if err := deleteAssessments(tx, id); err != nil {
				return err
			}
			if err := createAssessments(tx, id, *req.Assessments); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Log(actorID, model.AuditUpdate, "courses", id, req, ip)
	return s.Repo.FindByID(id)
}

func (s *CourseService) Get(id uint) (*CourseDetail, error) {
	course, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(course)
}

func (s *CourseService) List(page, limit int, status, level, keyword string) ([]CourseDetail, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	courses, total, err := s.Repo.List(page, limit, status, level, keyword)
	if err != nil {
		return nil, 0, err
	}

	details := make([]CourseDetail, 0, len(courses))
	for i := range courses {
		d, err := s.buildDetail(&courses[i])
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *d)
	}
	return details, total, nil
}

func (s *CourseService) Delete(actorID, id uint, ip string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Audit.Log(actorID, model.AuditDelete, "courses", id, nil, ip)
	return nil
}

func (s *CourseService) buildDetail(course *model.Course) (*CourseDetail, error) {
	lessons, err := s.Repo.CountLessons(course.ID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.Repo.CountEnrollments(course.ID)
	if err != nil {
		return nil, err
	}
	rating, err := s.Repo.AverageRating(course.ID)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{
		Course:          *course,
		LessonCount:     lessons,
		EnrollmentCount: enrollments,
		AverageRating:   rating,
	}, nil
}

func validateListFields(skills, requirements, outcomes []string) error {
	fields := map[string][]string{
		"skills":       skills,
		"requirements": requirements,
		"outcomes":     outcomes,
	}
	errs := util.FieldErrors{}
	for name, values := range fields {
		if len(values) > util.MaxListFieldEntries {
			errs[name] = fmt.Sprintf("at most %d entries allowed, got %d", util.MaxListFieldEntries, len(values))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func parseCourseEnums(level, status, courseType string) (model.CourseLevel, model.CourseStatus, model.CourseType, error) {
	errs := util.FieldErrors{}

	l := model.LevelBeginner
	if level != "" {
		switch model.CourseLevel(level) {
		case model.LevelBeginner, model.LevelIntermediate, model.LevelAdvanced:
			l = model.CourseLevel(level)
		default:
			errs["level"] = fmt.Sprintf("invalid level %q", level)
		}
	}

	st := model.CourseDraft
	if status != "" {
		switch model.CourseStatus(status) {
		case model.CourseDraft, model.CoursePublished, model.CourseArchived:
			st = model.CourseStatus(status)
		default:
			errs["status"] = fmt.Sprintf("invalid status %q", status)
		}
	}

	ct := model.CourseVideo
	if courseType != "" {
		switch model.CourseType(courseType) {
		case model.CourseVideo, model.CoursePDF, model.CourseAudio, model.CourseMixed:
			ct = model.CourseType(courseType)
		default:
			errs["courseType"] = fmt.Sprintf("invalid course type %q", courseType)
		}
	}

	if len(errs) > 0 {
		return "", "", "", errs
	}
	return l, st, ct, nil
}

func createLessons(tx *gorm.DB, courseID uint, lessons []LessonRequest) error {
	for i, lr := range lessons {
		if lr.Order != nil && *lr.Order <= 0 {
			return util.FieldErrors{fmt.Sprintf("lessons[%d].order", i): "order must be a positive integer"}
		}
		if len(lr.Description) > util.MaxDescriptionLength {
			return util.FieldErrors{fmt.Sprintf("lessons[%d].description", i): fmt.Sprintf("description must be at most %d characters", util.MaxDescriptionLength)}
		}

		order := (i + 1) * 10
		if lr.Order != nil {
			order = *lr.Order
		}
		lesson := model.Lesson{
			CourseID:        courseID,
			Title:           strings.TrimSpace(lr.Title),
			Description:     lr.Description,
			ContentURL:      lr.ContentURL,
			DurationMinutes: lr.DurationMinutes,
			Order:           order,
		}
		if err := tx.Create(&lesson).Error; err != nil {
			return err
		}
	}
	return nil
}

func createAssessments(tx *gorm.DB, courseID uint, assessments []AssessmentRequest) error {
	for _, ar := range assessments {
		passMark := 70.0
		if ar.PassMark != nil {
			passMark = *ar.PassMark
		}
		if passMark < 0 || passMark > 100 {
			return util.FieldErrors{"passMark": fmt.Sprintf("pass mark must be between 0 and 100, got %v", passMark)}
		}

		assessment := model.Assessment{
			CourseID:    courseID,
			Title:       strings.TrimSpace(ar.Title),
			Description: ar.Description,
			PassMark:    passMark,
			IsPublished: ar.IsPublished,
		}
		if err := tx.Create(&assessment).Error; err != nil {
			return err
		}

		for i, qr := range ar.Questions {
			if qr.Order != nil && *qr.Order <= 0 {
				return util.FieldErrors{fmt.Sprintf("questions[%d].order", i): "order must be a positive integer"}
			}

			points := qr.Points
			if points < 1 {
				points = 1
			}
			order := (i + 1) * 10
			if qr.Order != nil {
				order = *qr.Order
			}
			questionType := qr.QuestionType
			if questionType == "" {
				questionType = "multiple_choice"
			}

			question := model.Question{
				AssessmentID: assessment.ID,
				Text:         qr.Text,
				QuestionType: questionType,
				Points:       points,
				Order:        order,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}

			for _, cr := range qr.Choices {
				choice := model.Choice{
					QuestionID: question.ID,
					Text:       cr.Text,
					IsCorrect:  cr.IsCorrect,
				}
				if err := tx.Create(&choice).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func deleteAssessments(tx *gorm.DB, courseID uint) error {
	var assessmentIDs []uint
	if err := tx.Model(&model.Assessment{}).Where("course_id = ?", courseID).Pluck("id", &assessmentIDs).Error; err != nil {
		return err
	}
	if len(assessmentIDs) == 0 {
		return nil
	}

	var questionIDs []uint
	if err := tx.Model(&model.Question{}).Where("assessment_id IN ?", assessmentIDs).Pluck("id", &questionIDs).Error; err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := tx.Unscoped().Where("question_id IN ?", questionIDs).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Unscoped().Where("assessment_id IN ?", assessmentIDs).Delete(&model.Question{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("course_id = ?", courseID).Delete(&model.Assessment{}).Error
}
