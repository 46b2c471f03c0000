package controller

import (
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	AuditService *service.AuditService
}

func NewAuditController(auditService *service.AuditService) *AuditController {
	return &AuditController{AuditService: auditService}
}

// @Summary 审计日志列表
// @Tags 审计
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param userId query int false "操作人过滤"
// @Param action query string false "动作过滤 create/update/delete/view"
// @Param table query string false "表名过滤"
// @Success 200 {object} util.Response
// @Router /api/admin/audit-logs [get]
func (c *AuditController) List(ctx *gin.Context) {
	page := util.MustParseUint(ctx.DefaultQuery("page", "1"))
	limit := util.MustParseUint(ctx.DefaultQuery("limit", "20"))
	var userID uint
	if v := ctx.Query("userId"); v != "" {
		userID = util.MustParseUint(v)
	}

	logs, total, err := c.AuditService.List(int(page), int(limit), userID, ctx.Query("action"), ctx.Query("table"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: logs, Total: total, Page: int(page), Limit: int(limit)})
}
