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

type RoleService struct {
	Repo  *repository.RoleRepository
	Audit *AuditService
}

func NewRoleService(repo *repository.RoleRepository, audit *AuditService) *RoleService {
	return &RoleService{Repo: repo, Audit: audit}
}

type RoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *RoleService) Create(actorID uint, req RoleRequest, ip string) (*model.Role, error) {
	name := strings.ToUpper(strings.TrimSpace(req.Name))
	role := &model.Role{
		Name:        name,
		Description: req.Description,
	}
	if err := s.Repo.Create(role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("role %q already exists: %w", name, util.ErrConflict)
		}
		return nil, err
	}

	s.Audit.Log(actorID, model.AuditCreate, "roles", role.ID, req, ip)
	return role, nil
}

func (s *RoleService) Get(id uint) (*model.Role, error) {
	return s.Repo.FindByID(id)
}

func (s *RoleService) List() ([]model.Role, error) {
	return s.Repo.List()
}

func (s *RoleService) Update(actorID, id uint, req RoleRequest, ip string) (*model.Role, error) {
	role, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	name := strings.ToUpper(strings.TrimSpace(req.Name))
	role.Name = name
	role.Description = req.Description
	if err := s.Repo.Update(role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("role %q already exists: %w", name, util.ErrConflict)
		}
		return nil, err
	}

	s.Audit.Log(actorID, model.AuditUpdate, "roles", role.ID, req, ip)
	return role, nil
}

func (s *RoleService) Delete(actorID, id uint, ip string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Audit.Log(actorID, model.AuditDelete, "roles", id, nil, ip)
	return nil
}
