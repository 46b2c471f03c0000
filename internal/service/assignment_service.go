package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentService struct {
	Repo          *repository.AssignmentRepository
	ChecklistRepo *repository.ChecklistRepository
	UserRepo      *repository.UserRepository
	Audit         *AuditService
	DB            *gorm.DB
}

func NewAssignmentService(
	repo *repository.AssignmentRepository,
	checklistRepo *repository.ChecklistRepository,
	userRepo *repository.UserRepository,
	audit *AuditService,
	db *gorm.DB,
) *AssignmentService {
	return &AssignmentService{
		Repo:          repo,
		ChecklistRepo: checklistRepo,
		UserRepo:      userRepo,
		Audit:         audit,
		DB:            db,
	}
}

type AssignChecklistRequest struct {
	UserID      uint   `json:"userId" binding:"required"`
	ChecklistID uint   `json:"checklistId" binding:"required"`
	Stream      string `json:"stream" binding:"required"`
}

type CompleteItemRequest struct {
	ItemID    uint `json:"itemId" binding:"required"`
	Completed bool `json:"completed"`
}

type UpdateStatusRequest struct {
	ChecklistID uint   `json:"checklistId" binding:"required"`
	ItemID      uint   `json:"itemId" binding:"required"`
	UserID      uint   `json:"userId"`
	Status      string `json:"status" binding:"required"`
}

type BulkStatusRequest struct {
	ChecklistID uint   `json:"checklistId" binding:"required"`
	UserID      uint   `json:"userId" binding:"required"`
	ItemIDs     []uint `json:"itemIds" binding:"required"`
	Status      string `json:"status" binding:"required"`
}

// AssignmentProgress 一次分配的完成度汇总
type AssignmentProgress struct {
	AssignmentID   uint                     `json:"assignmentId"`
	TotalItems     int64                    `json:"totalItems"`
	CompletedItems int64                    `json:"completedItems"`
	Percent        float64                  `json:"percent"`
	Items          []model.ListItemProgress `json:"items"`
}

// 条目状态机的合法流转
var allowedTransitions = map[model.ProgressStatus][]model.ProgressStatus{
	model.StatusPending:    {model.StatusInProgress, model.StatusBlocked},
	model.StatusInProgress: {model.StatusCompleted, model.StatusBlocked},
	model.StatusBlocked:    {model.StatusInProgress},
	model.StatusCompleted:  {},
}

// Assign 重复分配返回已有记录
func (s *AssignmentService) Assign(actorID uint, req AssignChecklistRequest, ip string) (*model.CrewMemberChecklist, error) {
	if _, err := s.ChecklistRepo.FindByID(req.ChecklistID); err != nil {
		return nil, err
	}
	if _, err := s.UserRepo.FindByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.FieldErrors{"userId": "user does not exist"}
		}
		return nil, err
	}

	existing, err := s.Repo.FindByScope(req.UserID, req.ChecklistID, req.Stream)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assignment := &model.CrewMemberChecklist{
		UserID:      req.UserID,
		ChecklistID: req.ChecklistID,
		Stream:      req.Stream,
	}
	if actorID > 0 {
		assignment.AssignedByID = &actorID
	}
	if err := s.Repo.Create(assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.Repo.FindByScope(req.UserID, req.ChecklistID, req.Stream)
		}
		return nil, err
	}

	s.Audit.Log(actorID, model.AuditCreate, "crew_member_checklists", assignment.ID, req, ip)
	return assignment, nil
}

func (s *AssignmentService) Get(id uint) (*model.CrewMemberChecklist, error) {
	return s.Repo.FindByID(id)
}

func (s *AssignmentService) ListForUser(userID uint) ([]model.CrewMemberChecklist, error) {
	return s.Repo.ListByUser(userID)
}

func (s *AssignmentService) ListForChecklist(checklistID uint) ([]model.CrewMemberChecklist, error) {
	return s.Repo.ListByChecklist(checklistID)
}

func (s *AssignmentService) Delete(actorID, id uint, ip string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Audit.Log(actorID, model.AuditDelete, "crew_member_checklists", id, nil, ip)
	return nil
}

// CompleteItem 本人或工作人员勾选/取消勾选条目
func (s *AssignmentService) CompleteItem(actor util.Claims, assignmentID uint, req CompleteItemRequest, ip string) (*model.ListItemProgress, error) {
	assignment, err := s.Repo.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.UserID != actor.UserID && !actor.Role.IsStaff() {
		return nil, util.ErrPermissionDenied
	}

	belongs, err := s.ChecklistRepo.ItemBelongsToChecklist(req.ItemID, assignment.ChecklistID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, util.FieldErrors{"itemId": "item does not belong to the assigned checklist"}
	}

	progress, err := s.Repo.FindItemProgress(assignmentID, req.ItemID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		progress = &model.ListItemProgress{AssignmentID: assignmentID, ItemID: req.ItemID}
	}

	// 勾选可撤销，首次完成时间不回退
	progress.Completed = req.Completed
	if req.Completed && progress.CompletedAt == nil {
		now := time.Now()
		progress.CompletedAt = &now
	}

	if err := s.Repo.SaveItemProgress(progress); err != nil {
		return nil, err
	}

	s.Audit.Log(actor.UserID, model.AuditUpdate, "list_item_progresses", progress.ID, req, ip)
	return progress, nil
}

// Progress 完成度 = 已勾选条目 / 检查单条目总数 * 100，空检查单为 0
func (s *AssignmentService) Progress(actor util.Claims, assignmentID uint) (*AssignmentProgress, error) {
	assignment, err := s.Repo.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.UserID != actor.UserID && !actor.Role.IsStaff() {
		return nil, util.ErrPermissionDenied
	}

	total, err := s.ChecklistRepo.CountItems(assignment.ChecklistID)
	if err != nil {
		return nil, err
	}
	completed, err := s.Repo.CountCompletedItems(assignmentID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.ListItemProgress(assignmentID)
	if err != nil {
		return nil, err
	}

	percent := 0.0
	if total > 0 {
		percent = math.Round(float64(completed)/float64(total)*10000) / 100
	}

	return &AssignmentProgress{
		AssignmentID:   assignmentID,
		TotalItems:     total,
		CompletedItems: completed,
		Percent:        percent,
		Items:          items,
	}, nil
}

// UpdateStatus 条目状态流转，仅本人或工作人员
func (s *AssignmentService) UpdateStatus(actor util.Claims, req UpdateStatusRequest, ip string) (*model.ChecklistProgress, error) {
	targetUserID := req.UserID
	if targetUserID == 0 {
		targetUserID = actor.UserID
	}
	if targetUserID != actor.UserID && !actor.Role.IsStaff() {
		return nil, util.ErrPermissionDenied
	}

	newStatus, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	belongs, err := s.ChecklistRepo.ItemBelongsToChecklist(req.ItemID, req.ChecklistID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, util.FieldErrors{"itemId": "item does not belong to this checklist"}
	}

	progress, err := s.Repo.FindStatus(req.ChecklistID, req.ItemID, targetUserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		progress = &model.ChecklistProgress{
			ChecklistID: req.ChecklistID,
			ItemID:      req.ItemID,
			UserID:      targetUserID,
			Status:      model.StatusPending,
		}
	}

	if err := validateTransition(progress.Status, newStatus); err != nil {
		return nil, err
	}

	progress.Status = newStatus
	if newStatus == model.StatusCompleted {
		now := time.Now()
		progress.CompletedAt = &now
	}

	if err := s.Repo.SaveStatus(progress); err != nil {
		return nil, err
	}

	s.Audit.Log(actor.UserID, model.AuditUpdate, "checklist_progresses", progress.ID, req, ip)
	return progress, nil
}

// BulkUpdateStatus 工作人员批量流转；任何一条不合法则整体回滚
func (s *AssignmentService) BulkUpdateStatus(actor util.Claims, req BulkStatusRequest, ip string) ([]model.ChecklistProgress, error) {
	if !actor.Role.IsStaff() {
		return nil, util.ErrPermissionDenied
	}

	newStatus, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var updated []model.ChecklistProgress
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, itemID := range req.ItemIDs {
			var count int64
			if err := tx.Model(&model.ListItem{}).
				Joins("JOIN sections ON sections.id = list_items.section_id AND sections.deleted_at IS NULL").
				Where("list_items.id = ? AND sections.checklist_id = ?", itemID, req.ChecklistID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return util.FieldErrors{"itemIds": fmt.Sprintf("item %d does not belong to this checklist", itemID)}
			}

			var progress model.ChecklistProgress
			err := tx.Where("checklist_id = ? AND item_id = ? AND user_id = ?", req.ChecklistID, itemID, req.UserID).
				First(&progress).Error
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				progress = model.ChecklistProgress{
					ChecklistID: req.ChecklistID,
					ItemID:      itemID,
					UserID:      req.UserID,
					Status:      model.StatusPending,
				}
			}

			if err := validateTransition(progress.Status, newStatus); err != nil {
				return err
			}

			progress.Status = newStatus
			if newStatus == model.StatusCompleted {
				now := time.Now()
				progress.CompletedAt = &now
			}
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
			updated = append(updated, progress)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Log(actor.UserID, model.AuditUpdate, "checklist_progresses", req.ChecklistID, req, ip)
	return updated, nil
}

func (s *AssignmentService) ListStatuses(actor util.Claims, checklistID, userID uint) ([]model.ChecklistProgress, error) {
	if userID == 0 {
		userID = actor.UserID
	}
	if userID != actor.UserID && !actor.Role.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListStatuses(checklistID, userID)
}

func parseStatus(raw string) (model.ProgressStatus, error) {
	switch model.ProgressStatus(raw) {
	case model.StatusPending, model.StatusInProgress, model.StatusCompleted, model.StatusBlocked:
		return model.ProgressStatus(raw), nil
	}
	return "", util.FieldErrors{"status": fmt.Sprintf("invalid status %q", raw)}
}

func validateTransition(from, to model.ProgressStatus) error {
	if from == to {
		return nil
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return util.FieldErrors{"status": fmt.Sprintf("cannot transition from %s to %s", from, to)}
}
