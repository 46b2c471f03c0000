package repository

import (
	"streamcrew_backend/internal/model"

	"gorm.io/gorm"
)

type ChecklistRepository struct {
	DB *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{DB: db}
}

func (r *ChecklistRepository) FindByID(id uint) (*model.Checklist, error) {
	var cl model.Checklist
	err := r.DB.
		Preload("ChecklistType").
		Preload("Roles").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.`order` asc, sections.id asc")
		}).
		Preload("Sections.Items").
		First(&cl, id).Error
	return &cl, err
}

func (r *ChecklistRepository) List(page, limit int, phase string, typeID uint) ([]model.Checklist, int64, error) {
	var cls []model.Checklist
	var total int64

	query := r.DB.Model(&model.Checklist{})
	if phase != "" {
		query = query.Where("phase = ?", phase)
	}
	if typeID > 0 {
		query = query.Where("checklist_type_id = ?", typeID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("ChecklistType").Preload("Roles").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&cls).Error
	return cls, total, err
}

func (r *ChecklistRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var sectionIDs []uint
		if err := tx.Model(&model.Section{}).Where("checklist_id = ?", id).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if len(sectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&model.ListItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("checklist_id = ?", id).Delete(&model.Section{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Checklist{}, id).Error
	})
}

// CountSections / CountItems 用于统计和完成度计算
func (r *ChecklistRepository) CountSections(checklistID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Section{}).Where("checklist_id = ?", checklistID).Count(&count).Error
	return count, err
}

func (r *ChecklistRepository) CountItems(checklistID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ListItem{}).
		Joins("JOIN sections ON sections.id = list_items.section_id AND sections.deleted_at IS NULL").
		Where("sections.checklist_id = ?", checklistID).
		Count(&count).Error
	return count, err
}

// ItemBelongsToChecklist 条目是否属于该检查单
func (r *ChecklistRepository) ItemBelongsToChecklist(itemID, checklistID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ListItem{}).
		Joins("JOIN sections ON sections.id = list_items.section_id AND sections.deleted_at IS NULL").
		Where("list_items.id = ? AND sections.checklist_id = ?", itemID, checklistID).
		Count(&count).Error
	return count > 0, err
}
