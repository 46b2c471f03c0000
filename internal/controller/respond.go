package controller

import (
	"errors"
	"net/http"

	"streamcrew_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondServiceError 把业务层错误统一映射到 HTTP 状态码：
// 校验 400，权限 403，未找到 404，唯一性/状态冲突 409，其余 500
func respondServiceError(ctx *gin.Context, err error) {
	var fields util.FieldErrors
	switch {
	case errors.As(err, &fields):
		util.ValidationError(ctx, fields)
	case errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrAssessmentNotPublished):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrConflict),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, util.ErrAttemptAlreadyClosed):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered):
		util.Error(ctx, http.StatusConflict, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
