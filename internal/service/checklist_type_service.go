package service

import (
	"errors"
	"fmt"
	"strings"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"

	"gorm.io/gorm"
)

type ChecklistTypeService struct {
	Repo  *repository.ChecklistTypeRepository
	Audit *AuditService
}

func NewChecklistTypeService(repo *repository.ChecklistTypeRepository, audit *AuditService) *ChecklistTypeService {
	return &ChecklistTypeService{Repo: repo, Audit: audit}
}

type ChecklistTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ChecklistTypeStats 类型维度统计
type ChecklistTypeStats struct {
	TypeID     uint  `json:"typeId"`
	Checklists int64 `json:"checklists"`
	Sections   int64 `json:"sections"`
	Items      int64 `json:"items"`
}

func (s *ChecklistTypeService) Create(actorID uint, req ChecklistTypeRequest, ip string) (*model.ChecklistType, error) {
	name := strings.TrimSpace(req.Name)
	if _, err := s.Repo.FindByName(name); err == nil {
		return nil, fmt.Errorf("checklist type %q already exists: %w", name, util.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t := &model.ChecklistType{Name: name, Description: req.Description}
	if err := s.Repo.Create(t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("checklist type %q already exists: %w", name, util.ErrConflict)
		}
		return nil, err
	}

	s.Audit.Log(actorID, model.AuditCreate, "checklist_types", t.ID, req, ip)
	return t, nil
}

func (s *ChecklistTypeService) Get(id uint) (*model.ChecklistType, error) {
	return s.Repo.FindByID(id)
}

func (s *ChecklistTypeService) List() ([]model.ChecklistType, error) {
	return s.Repo.List()
}

func (s *ChecklistTypeService) Update(actorID, id uint, req ChecklistTypeRequest, ip string) (*model.ChecklistType, error) {
	t, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if existing, err := s.Repo.FindByName(name); err == nil && existing.ID != id {
		return nil, fmt.Errorf("checklist type %q already exists: %w", name, util.ErrConflict)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t.Name = name
	t.Description = req.Description
	if err := s.Repo.Update(t); err != nil {
		return nil, err
	}

	s.Audit.Log(actorID, model.AuditUpdate, "checklist_types", t.ID, req, ip)
	return t, nil
}

func (s *ChecklistTypeService) Delete(actorID, id uint, ip string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return err
	}

	count, err := s.Repo.CountChecklists(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("checklist type is still referenced by %d checklists: %w", count, util.ErrConflict)
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Audit.Log(actorID, model.AuditDelete, "checklist_types", id, nil, ip)
	return nil
}

func (s *ChecklistTypeService) Stats(id uint) (*ChecklistTypeStats, error) {
	if _, err := s.Repo.FindByID(id); err != nil {
		return nil, err
	}
	checklists, err := s.Repo.CountChecklists(id)
	if err != nil {
		return nil, err
	}
	sections, err := s.Repo.CountSections(id)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.CountItems(id)
	if err != nil {
		return nil, err
	}
	return &ChecklistTypeStats{TypeID: id, Checklists: checklists, Sections: sections, Items: items}, nil
}
