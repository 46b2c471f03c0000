package controller

import (
	"streamcrew_backend/internal/service"
	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// @Summary 发表课程评价
// @Description 需已报名课程，每人每课仅一条
// @Tags 评价
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程 ID"
// @Param body body service.ReviewRequest true "评分与评论"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/reviews [post]
func (c *ReviewController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.Create(claims.UserID, util.MustParseUint(ctx.Param("id")), req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, review)
}

// @Summary 课程评价列表
// @Tags 评价
// @Produce json
// @Param id path int true "课程 ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/reviews [get]
func (c *ReviewController) ListByCourse(ctx *gin.Context) {
	page := util.MustParseUint(ctx.DefaultQuery("page", "1"))
	limit := util.MustParseUint(ctx.DefaultQuery("limit", "20"))

	reviews, total, avg, err := c.ReviewService.ListByCourse(util.MustParseUint(ctx.Param("id")), int(page), int(limit))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"reviews":       util.PageResponse{List: reviews, Total: total, Page: int(page), Limit: int(limit)},
		"averageRating": avg,
	})
}

// @Summary 更新评价
// @Description 仅本人或教学人员可操作
// @Tags 评价
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "评价 ID"
// @Param body body service.ReviewRequest true "评分与评论"
// @Success 200 {object} util.Response
// @Router /api/reviews/{id} [put]
func (c *ReviewController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.Update(*claims, util.MustParseUint(ctx.Param("id")), req, ctx.ClientIP())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// @Summary 删除评价
// @Description 仅本人或教学人员可操作
// @Tags 评价
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "评价 ID"
// @Success 200 {object} util.Response
// @Router /api/reviews/{id} [delete]
func (c *ReviewController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ReviewService.Delete(*claims, util.MustParseUint(ctx.Param("id")), ctx.ClientIP()); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
