package controller

import (
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RoleController struct {
	RoleService *service.RoleService
}

func NewRoleController(roleService *service.RoleService) *RoleController {
	return &RoleController{RoleService: roleService}
}

// @Summary 创建岗位角色
// @Tags 岗位角色
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RoleRequest true "角色信息"
// @Success 201 {object} util.Response
// @Router /api/roles [post]
func (c *RoleController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.RoleService.Create(claims.UserID, req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, role)
}

// @Summary 岗位角色列表
// @Tags 岗位角色
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/roles [get]
func (c *RoleController) List(ctx *gin.Context) {
	roles, err := c.RoleService.List()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, roles)
}

// @Summary 岗位角色详情
// @Tags 岗位角色
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "角色 ID"
// @Success 200 {object} util.Response
// @Router /api/roles/{id} [get]
func (c *RoleController) Get(ctx *gin.Context) {
	role, err := c.RoleService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, role)
}

// @Summary 更新岗位角色
// @Tags 岗位角色
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "角色 ID"
// @Param body body service.RoleRequest true "角色信息"
// @Success 200 {object} util.Response
// @Router /api/roles/{id} [put]
func (c *RoleController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.RoleService.Update(claims.UserID, util.MustParseUint(ctx.Param("id")), req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, role)
}

// @Summary 删除岗位角色
// @Tags 岗位角色
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "角色 ID"
// @Success 200 {object} util.Response
// @Router /api/roles/{id} [delete]
func (c *RoleController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.RoleService.Delete(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP()); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
