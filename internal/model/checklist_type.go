package model

// swagger:model ChecklistType
type ChecklistType struct {
	BaseModel
	Name        string `gorm:"size:255;unique;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (ChecklistType) TableName() string {
	return "checklist_types"
}
