package model

// swagger:model Review
type Review struct {
	BaseModel
	UserID   uint   `gorm:"uniqueIndex:idx_reviews_user_course" json:"userId"`
	User     *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CourseID uint   `gorm:"uniqueIndex:idx_reviews_user_course" json:"courseId"`
	Rating   int    `gorm:"not null" json:"rating"` // 1-5
	Comment  string `gorm:"type:text" json:"comment"`
}

func (Review) TableName() string {
	return "reviews"
}
