package controller

import (
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

// @Summary 测验详情
// @Description 题目按顺序返回，选项不含正确答案标记
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验 ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	assessment, err := c.AssessmentService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, assessment)
}

// @Summary 课程测验列表
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程 ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/assessments [get]
func (c *AssessmentController) ListByCourse(ctx *gin.Context) {
	assessments, err := c.AssessmentService.ListByCourse(util.MustParseUint(ctx.Param("id")), !isStaff(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, assessments)
}

// @Summary 开始答题
// @Description 需已报名课程且测验已发布，自动分配答题次序号
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验 ID"
// @Success 201 {object} util.Response
// @Router /api/assessments/{id}/attempts [post]
func (c *AssessmentController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.AssessmentService.StartAttempt(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// @Summary 提交单题答案
// @Description 重复提交同一题会覆盖并重新判分
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "答题记录 ID"
// @Param body body service.SubmitAnswerRequest true "答案"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id}/answers [put]
func (c *AssessmentController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AssessmentService.SubmitAnswer(claims.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// @Summary 交卷
// @Description 结算得分并判定是否通过
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "答题记录 ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id}/submit [post]
func (c *AssessmentController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.AssessmentService.SubmitAttempt(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// @Summary 答题记录详情
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "答题记录 ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *AssessmentController) GetAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.AssessmentService.GetAttempt(claims.UserID, util.MustParseUint(ctx.Param("id")), claims.Role.IsStaff())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// @Summary 我的答题记录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验 ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/attempts [get]
func (c *AssessmentController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.AssessmentService.ListAttempts(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
