package controller

import (
	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// @Summary 创建课程
// @Description 单次请求创建课程及其课时与测验
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateCourseRequest true "课程结构"
// @Success 201 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateFull(claims.UserID, req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary 更新课程
// @Description 部分更新；携带 lessons 或 assessments 时整体替换
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程 ID"
// @Param body body service.UpdateCourseRequest true "更新内容"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateFull(claims.UserID, util.MustParseUint(ctx.Param("id")), req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 课程详情
// @Description 含课时、测验、报名人数和平均评分；未发布课程仅教学人员可见
// @Tags 课程
// @Produce json
// @Param id path int true "课程 ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	detail, err := c.CourseService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if detail.Status != model.CoursePublished && !isStaff(ctx) {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 课程列表
// @Description 匿名访问只返回已发布课程
// @Tags 课程
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param status query string false "状态过滤，仅教学人员可用"
// @Param level query string false "难度过滤"
// @Param keyword query string false "标题关键字"
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	page := util.MustParseUint(ctx.DefaultQuery("page", "1"))
	limit := util.MustParseUint(ctx.DefaultQuery("limit", "20"))

	status := ctx.Query("status")
	if !isStaff(ctx) {
		status = string(model.CoursePublished)
	}

	courses, total, err := c.CourseService.List(int(page), int(limit), status, ctx.Query("level"), ctx.Query("keyword"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: int(page), Limit: int(limit)})
}

// @Summary 删除课程
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程 ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.Delete(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP()); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// isStaff 判断当前请求是否带有教学人员或管理员身份
func isStaff(ctx *gin.Context) bool {
	claims := util.GetUserFromContext(ctx)
	return claims != nil && claims.Role.IsStaff()
}
