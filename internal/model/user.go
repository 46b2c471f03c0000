package model

import (
	"time"
)

type UserRole string

const (
	Crew       UserRole = "crew"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

type UserType string

const (
	CompanyUser UserType = "company_user"
	Individual  UserType = "individual"
	Visitor     UserType = "visitor"
)

// swagger:model User
type User struct {
	BaseModel
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:100;unique;not null" json:"email"`
	Password     string     `gorm:"size:100;not null" json:"-"`
	Role         UserRole   `gorm:"size:20;default:'crew'" json:"role"`
	UserType     UserType   `gorm:"size:20;default:'individual'" json:"userType"`
	Organization string     `gorm:"size:255" json:"organization"`
	Phone        string     `gorm:"size:30" json:"phone"`
	Avatar       string     `gorm:"size:255" json:"avatar"`
	Timezone     string     `gorm:"size:50;default:'UTC'" json:"timezone"`
	Disabled     bool       `gorm:"default:false" json:"disabled"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	LastSeen     *time.Time `json:"lastSeen,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsStaff 工作人员（讲师或管理员）可以管理他人的数据
func (u UserRole) IsStaff() bool {
	return u == Instructor || u == Admin
}
