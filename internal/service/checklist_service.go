package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"
	"streamcrew_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChecklistService struct {
	Repo     *repository.ChecklistRepository
	TypeRepo *repository.ChecklistTypeRepository
	RoleRepo *repository.RoleRepository
	Audit    *AuditService
	DB       *gorm.DB
	Redis    *redis.Client
}

func NewChecklistService(
	repo *repository.ChecklistRepository,
	typeRepo *repository.ChecklistTypeRepository,
	roleRepo *repository.RoleRepository,
	audit *AuditService,
	db *gorm.DB,
	rdb *redis.Client,
) *ChecklistService {
	return &ChecklistService{
		Repo:     repo,
		TypeRepo: typeRepo,
		RoleRepo: roleRepo,
		Audit:    audit,
		DB:       db,
		Redis:    rdb,
	}
}

type ListItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type SectionRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Order       *int              `json:"order"`
	Items       []ListItemRequest `json:"items"`
}

// ChecklistTypeRef 按 id 或按名称引用检查单类型；按名称时不存在则创建
type ChecklistTypeRef struct {
	ID   *uint   `json:"id"`
	Name *string `json:"name"`
}

type CreateChecklistRequest struct {
	Name          string            `json:"name" binding:"required"`
	Description   string            `json:"description"`
	Notes         string            `json:"notes"`
	Phase         string            `json:"phase"`
	ChecklistType *ChecklistTypeRef `json:"checklistType"`
	RoleIDs       []uint            `json:"roles"`
	Sections      []SectionRequest  `json:"sections"`
}

type UpdateChecklistRequest struct {
	Name          *string           `json:"name"`
	Description   *string           `json:"description"`
	Notes         *string           `json:"notes"`
	Phase         *string           `json:"phase"`
	ChecklistType *ChecklistTypeRef `json:"checklistType"`
	RoleIDs       *[]uint           `json:"roles"`
	Sections      *[]SectionRequest `json:"sections"`
}

// ChecklistStats 模板维度的统计
type ChecklistStats struct {
	ChecklistID uint                           `json:"checklistId"`
	Sections    int64                          `json:"sections"`
	Items       int64                          `json:"items"`
	Statuses    map[model.ProgressStatus]int64 `json:"statuses"`
}

// CreateFull 单事务创建检查单及其全部子结构
func (s *ChecklistService) CreateFull(actorID uint, req CreateChecklistRequest, ip string) (*model.Checklist, error) {
	phase, err := parsePhase(req.Phase)
	if err != nil {
		return nil, err
	}
	if len(req.Description) > util.MaxDescriptionLength {
		return nil, util.FieldErrors{"description": fmt.Sprintf("description must be at most %d characters", util.MaxDescriptionLength)}
	}

	var created model.Checklist
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		typeID, err := resolveChecklistType(tx, req.ChecklistType)
		if err != nil {
			return err
		}

		if err := checkNameConflict(tx, req.Name, typeID, 0); err != nil {
			return err
		}

		roles, err := resolveRoles(tx, req.RoleIDs)
		if err != nil {
			return err
		}

		created = model.Checklist{
			Name:            strings.TrimSpace(req.Name),
			ChecklistTypeID: typeID,
			Description:     req.Description,
			Notes:           req.Notes,
			Phase:           phase,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if len(roles) > 0 {
			if err := tx.Model(&created).Association("Roles").Replace(roles); err != nil {
				return err
			}
		}

		return createSections(tx, created.ID, req.Sections)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(created.ID)
	s.Audit.Log(actorID, model.AuditCreate, "checklists", created.ID, req, ip)
	return s.Repo.FindByID(created.ID)
}

// UpdateFull 部分更新：缺席的键不动，sections 键存在时整体替换
func (s *ChecklistService) UpdateFull(actorID, id uint, req UpdateChecklistRequest, ip string) (*model.Checklist, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cl model.Checklist
		if err := tx.First(&cl, id).Error; err != nil {
			return err
		}

		if req.Name != nil {
			cl.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			if len(*req.Description) > util.MaxDescriptionLength {
				return util.FieldErrors{"description": fmt.Sprintf("description must be at most %d characters", util.MaxDescriptionLength)}
			}
			cl.Description = *req.Description
		}
		if req.Notes != nil {
			cl.Notes = *req.Notes
		}
		if req.Phase != nil {
			phase, err := parsePhase(*req.Phase)
			if err != nil {
				return err
			}
			cl.Phase = phase
		}
		if req.ChecklistType != nil {
			typeID, err := resolveChecklistType(tx, req.ChecklistType)
			if err != nil {
				return err
			}
			cl.ChecklistTypeID = typeID
		}

		if err := checkNameConflict(tx, cl.Name, cl.ChecklistTypeID, cl.ID); err != nil {
			return err
		}

		if err := tx.Save(&cl).Error; err != nil {
			return err
		}

		if req.RoleIDs != nil {
			roles, err := resolveRoles(tx, *req.RoleIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&cl).Association("Roles").Replace(roles); err != nil {
				return err
			}
		}

		if req.Sections != nil {
			if err := deleteSections(tx, cl.ID); err != nil {
				return err
			}
			if err := createSections(tx, cl.ID, *req.Sections); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(id)
	s.Audit.Log(actorID, model.AuditUpdate, "checklists", id, req, ip)
	return s.Repo.FindByID(id)
}

func (s *ChecklistService) Get(id uint) (*model.Checklist, error) {
	return s.Repo.FindByID(id)
}

func (s *ChecklistService) List(page, limit int, phase string, typeID uint) ([]model.Checklist, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(page, limit, phase, typeID)
}

func (s *ChecklistService) Delete(actorID, id uint, ip string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateStats(id)
	s.Audit.Log(actorID, model.AuditDelete, "checklists", id, nil, ip)
	return nil
}

// ReorderSections 按给定的 section id 顺序重排
func (s *ChecklistService) ReorderSections(actorID, checklistID uint, sectionIDs []uint, ip string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Section{}).
			Where("checklist_id = ? AND id IN ?", checklistID, sectionIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(sectionIDs) {
			return util.FieldErrors{"sections": "some sections do not belong to this checklist"}
		}

		for i, sectionID := range sectionIDs {
			if err := tx.Model(&model.Section{}).Where("id = ?", sectionID).
				Update("order", (i+1)*10).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Audit.Log(actorID, model.AuditUpdate, "sections", checklistID, map[string]interface{}{"reorder": sectionIDs}, ip)
	return nil
}

// Stats 统计数据走 Redis 短缓存，查库失败前先读缓存
func (s *ChecklistService) Stats(checklistID uint) (*ChecklistStats, error) {
	cacheKey := fmt.Sprintf("checklist:stats:%d", checklistID)
	if s.Redis != nil {
		if raw, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var cached ChecklistStats
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	if _, err := s.Repo.FindByID(checklistID); err != nil {
		return nil, err
	}

	sections, err := s.Repo.CountSections(checklistID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.CountItems(checklistID)
	if err != nil {
		return nil, err
	}

	assignmentRepo := repository.NewAssignmentRepository(s.DB)
	statuses, err := assignmentRepo.CountStatusByValue(checklistID)
	if err != nil {
		return nil, err
	}

	stats := &ChecklistStats{
		ChecklistID: checklistID,
		Sections:    sections,
		Items:       items,
		Statuses:    statuses,
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.Redis.Set(context.Background(), cacheKey, raw, time.Minute).Err(); err != nil {
				logger.Log.Debug("checklist stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *ChecklistService) invalidateStats(checklistID uint) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf("checklist:stats:%d", checklistID)
	if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
		logger.Log.Debug("checklist stats cache invalidation failed", zap.Error(err))
	}
}

func parsePhase(raw string) (model.ChecklistPhase, error) {
	if raw == "" {
		return model.PhasePreStream, nil
	}
	switch model.ChecklistPhase(raw) {
	case model.PhasePreStream, model.PhaseOnStream, model.PhasePostStream:
		return model.ChecklistPhase(raw), nil
	}
	return "", util.FieldErrors{"phase": fmt.Sprintf("invalid phase %q", raw)}
}

func resolveChecklistType(tx *gorm.DB, ref *ChecklistTypeRef) (*uint, error) {
	if ref == nil {
		return nil, nil
	}

	if ref.ID != nil {
		var t model.ChecklistType
		if err := tx.First(&t, *ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.FieldErrors{"checklistType": fmt.Sprintf("checklist type with id %d does not exist", *ref.ID)}
			}
			return nil, err
		}
		return &t.ID, nil
	}

	if ref.Name != nil && strings.TrimSpace(*ref.Name) != "" {
		name := strings.TrimSpace(*ref.Name)
		var t model.ChecklistType
		err := tx.Where("LOWER(name) = LOWER(?)", name).First(&t).Error
		if err == nil {
			return &t.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		t = model.ChecklistType{Name: name}
		if createErr := tx.Create(&t).Error; createErr != nil {
			// 并发创建撞了唯一键，重新按名称取一次
			if fetchErr := tx.Where("LOWER(name) = LOWER(?)", name).First(&t).Error; fetchErr != nil {
				return nil, createErr
			}
		}
		return &t.ID, nil
	}

	return nil, util.FieldErrors{"checklistType": "either id or name is required"}
}

func resolveRoles(tx *gorm.DB, ids []uint) ([]model.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var roles []model.Role
	if err := tx.Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}

	if len(roles) != len(ids) {
		found := make(map[uint]bool, len(roles))
		for _, r := range roles {
			found[r.ID] = true
		}
		var missing []string
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, fmt.Sprintf("%d", id))
			}
		}
		return nil, util.FieldErrors{"roles": fmt.Sprintf("Roles not found: [%s]", strings.Join(missing, ", "))}
	}
	return roles, nil
}

func checkNameConflict(tx *gorm.DB, name string, typeID *uint, excludeID uint) error {
	query := tx.Model(&model.Checklist{}).Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name))
	if typeID != nil {
		query = query.Where("checklist_type_id = ?", *typeID)
	} else {
		query = query.Where("checklist_type_id IS NULL")
	}
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("checklist %q already exists for this type: %w", name, util.ErrConflict)
	}
	return nil
}

func validateSections(sections []SectionRequest) error {
	for i, sr := range sections {
		if sr.Order != nil && *sr.Order <= 0 {
			return util.FieldErrors{fmt.Sprintf("sections[%d].order", i): "order must be a positive integer"}
		}
		if len(sr.Description) > util.MaxDescriptionLength {
			return util.FieldErrors{fmt.Sprintf("sections[%d].description", i): fmt.Sprintf("description must be at most %d characters", util.MaxDescriptionLength)}
		}
		for j, ir := range sr.Items {
			if len(ir.Description) > util.MaxDescriptionLength {
				return util.FieldErrors{fmt.Sprintf("sections[%d].items[%d].description", i, j): fmt.Sprintf("description must be at most %d characters", util.MaxDescriptionLength)}
			}
		}
	}
	return nil
}

func createSections(tx *gorm.DB, checklistID uint, sections []SectionRequest) error {
	if err := validateSections(sections); err != nil {
		return err
	}

	for i, sr := range sections {
		order := (i + 1) * 10
		if sr.Order != nil {
			order = *sr.Order
		}

		section := model.Section{
			ChecklistID: checklistID,
			Name:        strings.TrimSpace(sr.Name),
			Description: sr.Description,
			Order:       order,
		}
		if err := tx.Create(&section).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("section %q already exists in this checklist: %w", sr.Name, util.ErrConflict)
			}
			return err
		}

		for _, ir := range sr.Items {
			item := model.ListItem{
				SectionID:   section.ID,
				Name:        strings.TrimSpace(ir.Name),
				Description: ir.Description,
			}
			if err := tx.Create(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("item %q already exists in section %q: %w", ir.Name, sr.Name, util.ErrConflict)
				}
				return err
			}
		}
	}
	return nil
}

func deleteSections(tx *gorm.DB, checklistID uint) error {
	var sectionIDs []uint
	if err := tx.Model(&model.Section{}).Where("checklist_id = ?", checklistID).Pluck("id", &sectionIDs).Error; err != nil {
		return err
	}
	if len(sectionIDs) == 0 {
		return nil
	}
	// 整体替换需要物理删除，软删除的行会占住 (checklist, name) 唯一键
	if err := tx.Unscoped().Where("section_id IN ?", sectionIDs).Delete(&model.ListItem{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("checklist_id = ?", checklistID).Delete(&model.Section{}).Error
}
