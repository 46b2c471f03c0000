package service

import (
	"testing"
	"time"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/pkg/database"
	"streamcrew_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 内存 sqlite，建好全部表，测试结束自动关闭
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newAuditService(db *gorm.DB) *AuditService {
	return NewAuditService(repository.NewAuditRepository(db))
}

func newChecklistService(db *gorm.DB) *ChecklistService {
	return NewChecklistService(
		repository.NewChecklistRepository(db),
		repository.NewChecklistTypeRepository(db),
		repository.NewRoleRepository(db),
		newAuditService(db),
		db,
		nil,
	)
}

func newAssignmentService(db *gorm.DB) *AssignmentService {
	return NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewChecklistRepository(db),
		repository.NewUserRepository(db),
		newAuditService(db),
		db,
	)
}

func newCourseService(db *gorm.DB) *CourseService {
	return NewCourseService(repository.NewCourseRepository(db), newAuditService(db), db)
}

func newEnrollmentService(db *gorm.DB) *EnrollmentService {
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		newAuditService(db),
		db,
	)
}

func newAssessmentService(db *gorm.DB) *AssessmentService {
	return NewAssessmentService(
		repository.NewAssessmentRepository(db),
		repository.NewEnrollmentRepository(db),
		newAuditService(db),
		db,
	)
}

func seedUser(t *testing.T, db *gorm.DB, name string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedRole(t *testing.T, db *gorm.DB, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("failed to seed role: %v", err)
	}
	return role
}

// seedCourse 发布态课程，每节课时长 10 分钟
func seedCourse(t *testing.T, db *gorm.DB, status model.CourseStatus, lessons int) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:  "Broadcast Basics",
		Status: status,
		Level:  model.LevelBeginner,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}
	for i := 0; i < lessons; i++ {
		lesson := &model.Lesson{
			CourseID:        course.ID,
			Title:           "Lesson",
			Order:           (i + 1) * 10,
			DurationMinutes: 10,
		}
		if err := db.Create(lesson).Error; err != nil {
			t.Fatalf("failed to seed lesson: %v", err)
		}
		course.Lessons = append(course.Lessons, *lesson)
	}
	return course
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{UserID: userID, CourseID: courseID, StartedAt: time.Now()}
	if err := db.Create(enrollment).Error; err != nil {
		t.Fatalf("failed to seed enrollment: %v", err)
	}
	return enrollment
}
