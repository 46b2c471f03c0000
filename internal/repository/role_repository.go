package repository

import (
	"strings"

	"streamcrew_backend/internal/model"

	"gorm.io/gorm"
)

type RoleRepository struct {
	DB *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) Create(role *model.Role) error {
	return r.DB.Create(role).Error
}

func (r *RoleRepository) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	err := r.DB.First(&role, id).Error
	return &role, err
}

func (r *RoleRepository) FindByName(name string) (*model.Role, error) {
	var role model.Role
	err := r.DB.Where("name = ?", strings.ToUpper(strings.TrimSpace(name))).First(&role).Error
	return &role, err
}

func (r *RoleRepository) FindByIDs(ids []uint) ([]model.Role, error) {
	var roles []model.Role
	err := r.DB.Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) List() ([]model.Role, error) {
	var roles []model.Role
	err := r.DB.Order("name asc").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) Update(role *model.Role) error {
	return r.DB.Save(role).Error
}

func (r *RoleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Role{}, id).Error
}
