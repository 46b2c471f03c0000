package model

import "gorm.io/datatypes"

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

type CourseType string

const (
	CourseVideo CourseType = "video"
	CoursePDF   CourseType = "pdf"
	CourseAudio CourseType = "audio"
	CourseMixed CourseType = "mixed"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title         string                       `gorm:"size:255;not null" json:"title"`
	Description   string                       `gorm:"type:text" json:"description"`
	Level         CourseLevel                  `gorm:"size:20;default:'beginner'" json:"level"`
	Status        CourseStatus                 `gorm:"size:20;default:'draft'" json:"status"`
	CourseType    CourseType                   `gorm:"size:20;default:'video'" json:"courseType"`
	ContentType   string                       `gorm:"size:50" json:"contentType"`
	DurationWeeks int                          `gorm:"default:0" json:"durationWeeks"`
	InstructorID  *uint                        `gorm:"index" json:"instructorId,omitempty"`
	Instructor    *User                        `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Thumbnail     string                       `gorm:"size:255" json:"thumbnail"`
	Skills        datatypes.JSONSlice[string]  `json:"skills"`
	Requirements  datatypes.JSONSlice[string]  `json:"requirements"`
	Outcomes      datatypes.JSONSlice[string]  `json:"outcomes"`
	Lessons       []Lesson                     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	Assessments   []Assessment                 `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"assessments,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID        uint   `gorm:"uniqueIndex:idx_lessons_course_order" json:"courseId"`
	Title           string `gorm:"size:255;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	ContentURL      string `gorm:"size:500" json:"contentUrl"`
	DurationMinutes int    `gorm:"default:0" json:"durationMinutes"`
	Order           int    `gorm:"default:0;uniqueIndex:idx_lessons_course_order" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
