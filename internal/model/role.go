package model

import (
	"strings"

	"gorm.io/gorm"
)

// Role 直播团队内的岗位（如 CAMERA、AUDIO、DIRECTOR），与账号角色无关
// swagger:model Role
type Role struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (Role) TableName() string {
	return "roles"
}

// 岗位名称统一大写存储
func (r *Role) BeforeSave(tx *gorm.DB) error {
	r.Name = strings.ToUpper(strings.TrimSpace(r.Name))
	return nil
}
