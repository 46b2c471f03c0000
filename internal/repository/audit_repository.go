package repository

import (
	"streamcrew_backend/internal/model"

	"gorm.io/gorm"
)

type AuditRepository struct {
	DB *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

func (r *AuditRepository) Create(log *model.AuditLog) error {
	return r.DB.Create(log).Error
}

func (r *AuditRepository) List(page, limit int, userID uint, action, table string) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	query := r.DB.Model(&model.AuditLog{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if table != "" {
		query = query.Where("table_name = ?", table)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}
