package repository

import (
	"streamcrew_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.CrewMemberChecklist) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.CrewMemberChecklist, error) {
	var a model.CrewMemberChecklist
	err := r.DB.Preload("Checklist").Preload("User").First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) FindByScope(userID, checklistID uint, stream string) (*model.CrewMemberChecklist, error) {
	var a model.CrewMemberChecklist
	err := r.DB.Where("user_id = ? AND checklist_id = ? AND stream = ?", userID, checklistID, stream).First(&a).Error
	return &a, err
}

func (r *AssignmentRepository) ListByUser(userID uint) ([]model.CrewMemberChecklist, error) {
	var as []model.CrewMemberChecklist
	err := r.DB.Preload("Checklist").Where("user_id = ?", userID).Order("created_at desc").Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) ListByChecklist(checklistID uint) ([]model.CrewMemberChecklist, error) {
	var as []model.CrewMemberChecklist
	err := r.DB.Preload("User").Where("checklist_id = ?", checklistID).Order("created_at desc").Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.ListItemProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CrewMemberChecklist{}, id).Error
	})
}

func (r *AssignmentRepository) FindItemProgress(assignmentID, itemID uint) (*model.ListItemProgress, error) {
	var p model.ListItemProgress
	err := r.DB.Where("assignment_id = ? AND item_id = ?", assignmentID, itemID).First(&p).Error
	return &p, err
}

func (r *AssignmentRepository) SaveItemProgress(p *model.ListItemProgress) error {
	return r.DB.Save(p).Error
}

func (r *AssignmentRepository) ListItemProgress(assignmentID uint) ([]model.ListItemProgress, error) {
	var ps []model.ListItemProgress
	err := r.DB.Preload("Item").Where("assignment_id = ?", assignmentID).Find(&ps).Error
	return ps, err
}

// CountCompletedItems 某次分配下已勾选的条目数
func (r *AssignmentRepository) CountCompletedItems(assignmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ListItemProgress{}).
		Where("assignment_id = ? AND completed = ?", assignmentID, true).
		Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) FindStatus(checklistID, itemID, userID uint) (*model.ChecklistProgress, error) {
	var p model.ChecklistProgress
	err := r.DB.Where("checklist_id = ? AND item_id = ? AND user_id = ?", checklistID, itemID, userID).First(&p).Error
	return &p, err
}

func (r *AssignmentRepository) SaveStatus(p *model.ChecklistProgress) error {
	return r.DB.Save(p).Error
}

func (r *AssignmentRepository) ListStatuses(checklistID, userID uint) ([]model.ChecklistProgress, error) {
	var ps []model.ChecklistProgress
	query := r.DB.Where("checklist_id = ?", checklistID)
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Find(&ps).Error
	return ps, err
}

// CountStatusByValue 按状态分组统计
func (r *AssignmentRepository) CountStatusByValue(checklistID uint) (map[model.ProgressStatus]int64, error) {
	type row struct {
		Status model.ProgressStatus
		Count  int64
	}
	var rows []row
	err := r.DB.Model(&model.ChecklistProgress{}).
		Select("status, COUNT(*) as count").
		Where("checklist_id = ?", checklistID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.ProgressStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
