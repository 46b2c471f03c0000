package service

import (
	"encoding/json"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/pkg/logger"

	"go.uber.org/zap"
)

type AuditService struct {
	Repo *repository.AuditRepository
}

func NewAuditService(repo *repository.AuditRepository) *AuditService {
	return &AuditService{Repo: repo}
}

// Log 记录一条操作日志。写入失败只打日志，绝不影响主流程
func (s *AuditService) Log(userID uint, action, table string, recordID uint, changes interface{}, ip string) {
	entry := &model.AuditLog{
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		IPAddress: ip,
	}
	if userID > 0 {
		entry.UserID = &userID
	}
	if changes != nil {
		payload, err := json.Marshal(changes)
		if err != nil {
			logger.Log.Warn("audit: failed to marshal changes", zap.Error(err))
		} else {
			entry.Changes = payload
		}
	}

	if err := s.Repo.Create(entry); err != nil {
		logger.Log.Error("audit: failed to write log entry",
			zap.String("action", action),
			zap.String("table", table),
			zap.Uint("recordId", recordID),
			zap.Error(err))
	}
}

func (s *AuditService) List(page, limit int, userID uint, action, table string) ([]model.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(page, limit, userID, action, table)
}
