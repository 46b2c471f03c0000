package model

type ChecklistPhase string

const (
	PhasePreStream  ChecklistPhase = "pre-stream"
	PhaseOnStream   ChecklistPhase = "on-stream"
	PhasePostStream ChecklistPhase = "post-stream"
)

// swagger:model Checklist
type Checklist struct {
	BaseModel
	Name            string         `gorm:"size:255;not null;uniqueIndex:idx_checklists_name_type" json:"name"`
	ChecklistTypeID *uint          `gorm:"uniqueIndex:idx_checklists_name_type" json:"checklistTypeId"`
	ChecklistType   *ChecklistType `gorm:"foreignKey:ChecklistTypeID" json:"checklistType,omitempty"`
	Description     string         `gorm:"type:text" json:"description"`
	Notes           string         `gorm:"type:text" json:"notes"`
	Phase           ChecklistPhase `gorm:"size:20;default:'pre-stream'" json:"phase"`
	Roles           []Role         `gorm:"many2many:checklist_roles" json:"roles,omitempty"`
	Sections        []Section      `gorm:"foreignKey:ChecklistID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
}

func (Checklist) TableName() string {
	return "checklists"
}

// swagger:model Section
type Section struct {
	BaseModel
	ChecklistID uint       `gorm:"index;uniqueIndex:idx_sections_checklist_name" json:"checklistId"`
	Name        string     `gorm:"size:255;not null;uniqueIndex:idx_sections_checklist_name" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Order       int        `gorm:"default:0" json:"order"`
	Items       []ListItem `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}

// swagger:model ListItem
type ListItem struct {
	BaseModel
	SectionID   uint   `gorm:"index;uniqueIndex:idx_items_section_name" json:"sectionId"`
	Name        string `gorm:"size:255;not null;uniqueIndex:idx_items_section_name" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (ListItem) TableName() string {
	return "list_items"
}
