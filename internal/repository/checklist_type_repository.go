package repository

import (
	"streamcrew_backend/internal/model"

	"gorm.io/gorm"
)

type ChecklistTypeRepository struct {
	DB *gorm.DB
}

func NewChecklistTypeRepository(db *gorm.DB) *ChecklistTypeRepository {
	return &ChecklistTypeRepository{DB: db}
}

func (r *ChecklistTypeRepository) Create(t *model.ChecklistType) error {
	return r.DB.Create(t).Error
}

func (r *ChecklistTypeRepository) FindByID(id uint) (*model.ChecklistType, error) {
	var t model.ChecklistType
	err := r.DB.First(&t, id).Error
	return &t, err
}

func (r *ChecklistTypeRepository) FindByName(name string) (*model.ChecklistType, error) {
	var t model.ChecklistType
	err := r.DB.Where("LOWER(name) = LOWER(?)", name).First(&t).Error
	return &t, err
}

func (r *ChecklistTypeRepository) List() ([]model.ChecklistType, error) {
	var ts []model.ChecklistType
	err := r.DB.Order("name asc").Find(&ts).Error
	return ts, err
}

func (r *ChecklistTypeRepository) Update(t *model.ChecklistType) error {
	return r.DB.Save(t).Error
}

func (r *ChecklistTypeRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ChecklistType{}, id).Error
}

// CountChecklists 该类型下的检查单数量
func (r *ChecklistTypeRepository) CountChecklists(typeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Checklist{}).Where("checklist_type_id = ?", typeID).Count(&count).Error
	return count, err
}

func (r *ChecklistTypeRepository) CountSections(typeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Section{}).
		Joins("JOIN checklists ON checklists.id = sections.checklist_id").
		Where("checklists.checklist_type_id = ? AND checklists.deleted_at IS NULL", typeID).
		Count(&count).Error
	return count, err
}

func (r *ChecklistTypeRepository) CountItems(typeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ListItem{}).
		Joins("JOIN sections ON sections.id = list_items.section_id").
		Joins("JOIN checklists ON checklists.id = sections.checklist_id").
		Where("checklists.checklist_type_id = ? AND checklists.deleted_at IS NULL", typeID).
		Count(&count).Error
	return count, err
}
