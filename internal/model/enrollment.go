package model

import "time"

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_enrollments_user_course" json:"userId"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CourseID    uint       `gorm:"uniqueIndex:idx_enrollments_user_course" json:"courseId"`
	Course      *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Progress    float64    `gorm:"default:0" json:"progress"` // 0-100
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	UserID         uint       `gorm:"uniqueIndex:idx_lesson_progress_user_lesson" json:"userId"`
	LessonID       uint       `gorm:"uniqueIndex:idx_lesson_progress_user_lesson" json:"lessonId"`
	IsCompleted    bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	ProgressValue  float64    `gorm:"default:0" json:"progressValue"` // 观看百分比 0-100
	MaxTimeReached float64    `gorm:"default:0" json:"maxTimeReached"` // 秒，只增不减
}

func (LessonProgress) TableName() string {
	return "lesson_progresses"
}
