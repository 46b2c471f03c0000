package service

import (
	"errors"
	"math"
	"time"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	Repo       *repository.EnrollmentRepository
	CourseRepo *repository.CourseRepository
	Audit      *AuditService
	DB         *gorm.DB
}

func NewEnrollmentService(
	repo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	audit *AuditService,
	db *gorm.DB,
) *EnrollmentService {
	return &EnrollmentService{Repo: repo, CourseRepo: courseRepo, Audit: audit, DB: db}
}

// Enroll 重复报名返回已有记录
func (s *EnrollmentService) Enroll(userID, courseID uint, ip string) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CoursePublished {
		return nil, util.FieldErrors{"course": "course is not published"}
	}

	existing, err := s.Repo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:    userID,
		CourseID:  courseID,
		StartedAt: time.Now(),
	}
	if err := s.Repo.Create(enrollment); err != nil {
		// 并发报名撞唯一键，按已有记录处理
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.Repo.FindByUserAndCourse(userID, courseID)
		}
		return nil, err
	}

	s.Audit.Log(userID, model.AuditCreate, "enrollments", enrollment.ID, nil, ip)
	return enrollment, nil
}

func (s *EnrollmentService) ListForUser(userID uint) ([]model.Enrollment, error) {
	return s.Repo.ListByUser(userID)
}

// CompleteLesson 标记课时完成并重算课程进度。课程完成时间只写一次
func (s *EnrollmentService) CompleteLesson(userID, lessonID uint, ip string) (*model.LessonProgress, error) {
	var progress *model.LessonProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			return err
		}

		var enrollment model.Enrollment
		if err := tx.Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrNotEnrolled
			}
			return err
		}

		lp, err := getOrCreateLessonProgress(tx, userID, lessonID)
		if err != nil {
			return err
		}

		if !lp.IsCompleted {
			now := time.Now()
			lp.IsCompleted = true
			lp.CompletedAt = &now
			lp.ProgressValue = 100
			if err := tx.Save(lp).Error; err != nil {
				return err
			}
		}
		progress = lp

		return recomputeEnrollment(tx, &enrollment, userID, lesson.CourseID)
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Log(userID, model.AuditUpdate, "lesson_progresses", progress.ID, map[string]interface{}{"completed": true}, ip)
	return progress, nil
}

// UpdateVideoProgress 上报播放位置。最大触达时间只增不减，
// 观看比例达到阈值后课时自动完成且不再回退
func (s *EnrollmentService) UpdateVideoProgress(userID, lessonID uint, currentTime float64, ip string) (*model.LessonProgress, error) {
	if currentTime < 0 {
		return nil, util.FieldErrors{"currentTime": "must not be negative"}
	}

	var progress *model.LessonProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			return err
		}

		var enrollment model.Enrollment
		if err := tx.Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrNotEnrolled
			}
			return err
		}

		lp, err := getOrCreateLessonProgress(tx, userID, lessonID)
		if err != nil {
			return err
		}

		if currentTime > lp.MaxTimeReached {
			lp.MaxTimeReached = currentTime
		}

		duration := float64(lesson.DurationMinutes) * 60
		pct := 0.0
		if duration > 0 {
			pct = lp.MaxTimeReached / duration * 100
			if pct > 100 {
				pct = 100
			}
		}
		if pct > lp.ProgressValue {
			lp.ProgressValue = pct
		}

		completedNow := false
		if pct >= util.AutoCompleteThreshold && !lp.IsCompleted {
			now := time.Now()
			lp.IsCompleted = true
			lp.CompletedAt = &now
			completedNow = true
		}

		if err := tx.Save(lp).Error; err != nil {
			return err
		}
		progress = lp

		if completedNow {
			return recomputeEnrollment(tx, &enrollment, userID, lesson.CourseID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *EnrollmentService) LessonProgressForCourse(userID, courseID uint) ([]model.LessonProgress, error) {
	if _, err := s.Repo.FindByUserAndCourse(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	return s.Repo.ListLessonProgress(userID, courseID)
}

func getOrCreateLessonProgress(tx *gorm.DB, userID, lessonID uint) (*model.LessonProgress, error) {
	var lp model.LessonProgress
	err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&lp).Error
	if err == nil {
		return &lp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	lp = model.LessonProgress{UserID: userID, LessonID: lessonID}
	if err := tx.Create(&lp).Error; err != nil {
		return nil, err
	}
	return &lp, nil
}

// recomputeEnrollment 进度 = round(已完成课时 / 总课时 * 100)
func recomputeEnrollment(tx *gorm.DB, enrollment *model.Enrollment, userID, courseID uint) error {
	var total, completed int64
	if err := tx.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id AND lessons.deleted_at IS NULL").
		Where("lesson_progresses.user_id = ? AND lessons.course_id = ? AND lesson_progresses.is_completed = ?", userID, courseID, true).
		Count(&completed).Error; err != nil {
		return err
	}

	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(completed) / float64(total) * 100)
	}
	enrollment.Progress = pct
	if pct >= 100 && enrollment.CompletedAt == nil {
		now := time.Now()
		enrollment.CompletedAt = &now
	}
	return tx.Save(enrollment).Error
}
