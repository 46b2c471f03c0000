package model

import "encoding/json"

const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
	AuditView   = "VIEW"
)

// swagger:model AuditLog
type AuditLog struct {
	BaseModel
	UserID    *uint           `gorm:"index" json:"userId,omitempty"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action    string          `gorm:"size:10;not null;index" json:"action"`
	Table     string          `gorm:"column:table_name;size:100;index" json:"tableName"`
	RecordID  uint            `gorm:"default:0" json:"recordId"`
	Changes   json.RawMessage `gorm:"type:json" json:"changes,omitempty"`
	IPAddress string          `gorm:"size:45" json:"ipAddress"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
