package controller

import (
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChecklistController struct {
	ChecklistService *service.ChecklistService
}

func NewChecklistController(checklistService *service.ChecklistService) *ChecklistController {
	return &ChecklistController{ChecklistService: checklistService}
}

// @Summary 创建检查单
// @Description 单次请求创建检查单及其分区、条目和关联角色
// @Tags 检查单
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateChecklistRequest true "检查单结构"
// @Success 201 {object} util.Response
// @Router /api/checklists [post]
func (c *ChecklistController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateChecklistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	checklist, err := c.ChecklistService.CreateFull(claims.UserID, req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, checklist)
}

// @Summary 更新检查单
// @Description 部分更新；携带 sections 时整体替换分区结构
// @Tags 检查单
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "检查单 ID"
// @Param body body service.UpdateChecklistRequest true "更新内容"
// @Success 200 {object} util.Response
// @Router /api/checklists/{id} [put]
func (c *ChecklistController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateChecklistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	checklist, err := c.ChecklistService.UpdateFull(claims.UserID, util.MustParseUint(ctx.Param("id")), req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, checklist)
}

// @Summary 检查单详情
// @Tags 检查单
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "检查单 ID"
// @Success 200 {object} util.Response
// @Router /api/checklists/{id} [get]
func (c *ChecklistController) Get(ctx *gin.Context) {
	checklist, err := c.ChecklistService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, checklist)
}

// @Summary 检查单列表
// @Tags 检查单
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param phase query string false "阶段过滤 pre-stream/on-stream/post-stream"
// @Param typeId query int false "类型过滤"
// @Success 200 {object} util.Response
// @Router /api/checklists [get]
func (c *ChecklistController) List(ctx *gin.Context) {
	page := util.MustParseUint(ctx.DefaultQuery("page", "1"))
	limit := util.MustParseUint(ctx.DefaultQuery("limit", "20"))
	var typeID uint
	if v := ctx.Query("typeId"); v != "" {
		typeID = util.MustParseUint(v)
	}

	checklists, total, err := c.ChecklistService.List(int(page), int(limit), ctx.Query("phase"), typeID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: checklists, Total: total, Page: int(page), Limit: int(limit)})
}

// @Summary 删除检查单
// @Tags 检查单
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "检查单 ID"
// @Success 200 {object} util.Response
// @Router /api/checklists/{id} [delete]
func (c *ChecklistController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ChecklistService.Delete(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP()); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type reorderSectionsRequest struct {
	SectionIDs []uint `json:"sectionIds" binding:"required,min=1"`
}

// @Summary 调整分区顺序
// @Description 按给定顺序重排检查单分区
// @Tags 检查单
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "检查单 ID"
// @Param body body reorderSectionsRequest true "分区 ID 顺序"
// @Success 200 {object} util.Response
// @Router /api/checklists/{id}/sections/reorder [put]
func (c *ChecklistController) ReorderSections(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req reorderSectionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ChecklistService.ReorderSections(claims.UserID, util.MustParseUint(ctx.Param("id")), req.SectionIDs, ctx.ClientIP()); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 检查单统计
// @Description 分区数、条目数和分配完成率
// @Tags 检查单
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "检查单 ID"
// @Success 200 {object} util.Response
// @Router /api/checklists/{id}/stats [get]
func (c *ChecklistController) Stats(ctx *gin.Context) {
	stats, err := c.ChecklistService.Stats(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
