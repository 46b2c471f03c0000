package controller

import (
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChecklistTypeController struct {
	TypeService *service.ChecklistTypeService
}

func NewChecklistTypeController(typeService *service.ChecklistTypeService) *ChecklistTypeController {
	return &ChecklistTypeController{TypeService: typeService}
}

// @Summary 创建检查单类型
// @Tags 检查单类型
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ChecklistTypeRequest true "类型信息"
// @Success 201 {object} util.Response
// @Router /api/checklist-types [post]
func (c *ChecklistTypeController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ChecklistTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ct, err := c.TypeService.Create(claims.UserID, req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, ct)
}

// @Summary 检查单类型列表
// @Tags 检查单类型
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/checklist-types [get]
func (c *ChecklistTypeController) List(ctx *gin.Context) {
	types, err := c.TypeService.List()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, types)
}

// @Summary 检查单类型详情
// @Tags 检查单类型
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "类型 ID"
// @Success 200 {object} util.Response
// @Router /api/checklist-types/{id} [get]
func (c *ChecklistTypeController) Get(ctx *gin.Context) {
	ct, err := c.TypeService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, ct)
}

// @Summary 更新检查单类型
// @Tags 检查单类型
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "类型 ID"
// @Param body body service.ChecklistTypeRequest true "类型信息"
// @Success 200 {object} util.Response
// @Router /api/checklist-types/{id} [put]
func (c *ChecklistTypeController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ChecklistTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ct, err := c.TypeService.Update(claims.UserID, util.MustParseUint(ctx.Param("id")), req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, ct)
}

// @Summary 删除检查单类型
// @Description 仍被检查单引用的类型不可删除
// @Tags 检查单类型
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "类型 ID"
// @Success 200 {object} util.Response
// @Router /api/checklist-types/{id} [delete]
func (c *ChecklistTypeController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.TypeService.Delete(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP()); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 检查单类型统计
// @Tags 检查单类型
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "类型 ID"
// @Success 200 {object} util.Response
// @Router /api/checklist-types/{id}/stats [get]
func (c *ChecklistTypeController) Stats(ctx *gin.Context) {
	stats, err := c.TypeService.Stats(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
