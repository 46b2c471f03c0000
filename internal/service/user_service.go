package service

import (
	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	Repo  *repository.UserRepository
	Audit *AuditService
}

func NewUserService(repo *repository.UserRepository, audit *AuditService) *UserService {
	return &UserService{Repo: repo, Audit: audit}
}

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	Organization *string `json:"organization"`
	Phone        *string `json:"phone"`
	Timezone     *string `json:"timezone"`
	Avatar       *string `json:"avatar"`
}

type AdminUpdateUserRequest struct {
	Name         *string `json:"name"`
	Role         *string `json:"role"`
	UserType     *string `json:"userType"`
	Organization *string `json:"organization"`
}

func (s *UserService) Get(id uint) (*model.User, error) {
	return s.Repo.FindByID(id)
}

// AdminGet 管理员查看他人资料会留下 VIEW 审计
func (s *UserService) AdminGet(actorID, id uint, ip string) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if actorID != id {
		s.Audit.Log(actorID, model.AuditView, "users", id, nil, ip)
	}
	return user, nil
}

func (s *UserService) List(page, limit int, role, keyword string) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(page, limit, role, keyword)
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest, ip string) (*model.User, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Organization != nil {
		user.Organization = *req.Organization
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Timezone != nil {
		user.Timezone = *req.Timezone
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}

	s.Audit.Log(userID, model.AuditUpdate, "users", user.ID, req, ip)
	return user, nil
}

func (s *UserService) AdminUpdate(actorID, id uint, req AdminUpdateUserRequest, ip string) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		switch model.UserRole(*req.Role) {
		case model.Crew, model.Instructor, model.Admin:
			user.Role = model.UserRole(*req.Role)
		default:
			return nil, util.FieldErrors{"role": "invalid role"}
		}
	}
	if req.UserType != nil {
		switch model.UserType(*req.UserType) {
		case model.CompanyUser, model.Individual, model.Visitor:
			user.UserType = model.UserType(*req.UserType)
		default:
			return nil, util.FieldErrors{"userType": "invalid user type"}
		}
	}
	if req.Organization != nil {
		user.Organization = *req.Organization
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}

	s.Audit.Log(actorID, model.AuditUpdate, "users", user.ID, req, ip)
	return user, nil
}

func (s *UserService) SetDisabled(actorID, id uint, disabled bool, ip string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return err
	}
	if err := s.Repo.SetDisabled(id, disabled); err != nil {
		return err
	}
	s.Audit.Log(actorID, model.AuditUpdate, "users", id, map[string]bool{"disabled": disabled}, ip)
	return nil
}

func (s *UserService) ResetPassword(actorID, id uint, newPassword string, ip string) error {
	if len(newPassword) < 8 {
		return util.FieldErrors{"password": "password must be at least 8 characters"}
	}
	if _, err := s.Repo.FindByID(id); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(id, string(hashed)); err != nil {
		return err
	}

	s.Audit.Log(actorID, model.AuditUpdate, "users", id, map[string]string{"password": "reset"}, ip)
	return nil
}

func (s *UserService) Delete(actorID, id uint, ip string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Audit.Log(actorID, model.AuditDelete, "users", id, nil, ip)
	return nil
}
