package model

import "time"

// CrewMemberChecklist 将检查单分配给某个成员在某场直播中执行
// swagger:model CrewMemberChecklist
type CrewMemberChecklist struct {
	BaseModel
	UserID       uint       `gorm:"uniqueIndex:idx_assignments_user_checklist_stream" json:"userId"`
	User         *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ChecklistID  uint       `gorm:"uniqueIndex:idx_assignments_user_checklist_stream" json:"checklistId"`
	Checklist    *Checklist `gorm:"foreignKey:ChecklistID" json:"checklist,omitempty"`
	Stream       string     `gorm:"size:100;not null;uniqueIndex:idx_assignments_user_checklist_stream" json:"stream"`
	AssignedByID *uint      `json:"assignedById,omitempty"`
}

func (CrewMemberChecklist) TableName() string {
	return "crew_member_checklists"
}

// ListItemProgress 某次分配下单个检查项的勾选状态
// swagger:model ListItemProgress
type ListItemProgress struct {
	BaseModel
	AssignmentID uint       `gorm:"uniqueIndex:idx_item_progress_assignment_item" json:"assignmentId"`
	ItemID       uint       `gorm:"uniqueIndex:idx_item_progress_assignment_item" json:"itemId"`
	Item         *ListItem  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func (ListItemProgress) TableName() string {
	return "list_item_progresses"
}

type ProgressStatus string

const (
	StatusPending    ProgressStatus = "pending"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
	StatusBlocked    ProgressStatus = "blocked"
)

// ChecklistProgress 细粒度的条目状态流转记录（与勾选进度互补）
// swagger:model ChecklistProgress
type ChecklistProgress struct {
	BaseModel
	ChecklistID uint           `gorm:"uniqueIndex:idx_checklist_progress_scope" json:"checklistId"`
	ItemID      uint           `gorm:"uniqueIndex:idx_checklist_progress_scope" json:"itemId"`
	UserID      uint           `gorm:"uniqueIndex:idx_checklist_progress_scope" json:"userId"`
	Status      ProgressStatus `gorm:"size:20;default:'pending'" json:"status"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func (ChecklistProgress) TableName() string {
	return "checklist_progresses"
}
