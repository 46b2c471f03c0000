package controller

import (
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// @Summary 报名课程
// @Description 重复报名返回已有记录
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程 ID"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// @Summary 我的报名列表
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/enrollments/mine [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListForUser(claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// @Summary 标记课时完成
// @Description 完成状态不可回退，同时刷新课程进度
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时 ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/complete [post]
func (c *EnrollmentController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.EnrollmentService.CompleteLesson(claims.UserID, util.MustParseUint(ctx.Param("id")), ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

type videoProgressRequest struct {
	CurrentTime float64 `json:"currentTime"`
}

// @Summary 上报视频播放进度
// @Description 记录最远播放位置，超过阈值自动判定课时完成
// @Tags 学习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时 ID"
// @Param body body videoProgressRequest true "当前播放秒数"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/video-progress [put]
func (c *EnrollmentController) UpdateVideoProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req videoProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.EnrollmentService.UpdateVideoProgress(claims.UserID, util.MustParseUint(ctx.Param("id")), req.CurrentTime, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 课程课时进度
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程 ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/lesson-progress [get]
func (c *EnrollmentController) LessonProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progresses, err := c.EnrollmentService.LessonProgressForCourse(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progresses)
}
