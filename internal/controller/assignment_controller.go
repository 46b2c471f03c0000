package controller

import (
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// @Summary 分配检查单
// @Description 按成员、检查单和场次创建分配，重复分配返回已有记录
// @Tags 分配
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AssignChecklistRequest true "分配信息"
// @Success 201 {object} util.Response
// @Router /api/assignments [post]
func (c *AssignmentController) Assign(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AssignChecklistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Assign(claims.UserID, req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

// @Summary 分配详情
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分配 ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) Get(ctx *gin.Context) {
	assignment, err := c.AssignmentService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// @Summary 我的检查单分配
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/assignments/mine [get]
func (c *AssignmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	assignments, err := c.AssignmentService.ListForUser(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// @Summary 检查单的全部分配
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "检查单 ID"
// @Success 200 {object} util.Response
// @Router /api/checklists/{id}/assignments [get]
func (c *AssignmentController) ListForChecklist(ctx *gin.Context) {
	assignments, err := c.AssignmentService.ListForChecklist(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// @Summary 取消分配
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分配 ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AssignmentService.Delete(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP()); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 勾选或取消勾选条目
// @Tags 分配
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分配 ID"
// @Param body body service.CompleteItemRequest true "条目完成状态"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id}/items [put]
func (c *AssignmentController) CompleteItem(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CompleteItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.AssignmentService.CompleteItem(*claims, util.MustParseUint(ctx.Param("id")), req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 分配完成进度
// @Description 已勾选条目数与完成百分比
// @Tags 分配
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分配 ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id}/progress [get]
func (c *AssignmentController) Progress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.AssignmentService.Progress(*claims, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 更新条目状态
// @Description 按状态机流转 pending/in_progress/completed/blocked
// @Tags 状态
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UpdateStatusRequest true "状态更新"
// @Success 200 {object} util.Response
// @Router /api/checklist-progress [put]
func (c *AssignmentController) UpdateStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.AssignmentService.UpdateStatus(*claims, req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 批量更新条目状态
// @Description 工作人员操作，任一条目流转非法则整批回滚
// @Tags 状态
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BulkStatusRequest true "批量状态更新"
// @Success 200 {object} util.Response
// @Router /api/checklist-progress/bulk [put]
func (c *AssignmentController) BulkUpdateStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.BulkStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progresses, err := c.AssignmentService.BulkUpdateStatus(*claims, req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progresses)
}

// @Summary 条目状态列表
// @Tags 状态
// @Produce json
// @Security ApiKeyAuth
// @Param checklistId query int true "检查单 ID"
// @Param userId query int false "成员 ID，默认自己"
// @Success 200 {object} util.Response
// @Router /api/checklist-progress [get]
func (c *AssignmentController) ListStatuses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	checklistID := util.MustParseUint(ctx.Query("checklistId"))
	if checklistID == 0 {
		util.BadRequest(ctx, "checklistId is required")
		return
	}
	var userID uint
	if v := ctx.Query("userId"); v != "" {
		userID = util.MustParseUint(v)
	}

	statuses, err := c.AssignmentService.ListStatuses(*claims, checklistID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, statuses)
}
