package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUserNotFound           = errors.New("用户不存在")
	ErrEmailRegistered        = errors.New("该邮箱已被注册")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrNotFound               = errors.New("resource not found")
	ErrConflict               = errors.New("conflict")
	ErrNotEnrolled            = errors.New("not enrolled in this course")
	ErrAssessmentNotPublished = errors.New("assessment not published or not accessible")
	ErrAttemptAlreadyClosed   = errors.New("attempt already submitted")
)

// FieldErrors 结构化校验错误：字段名 -> 错误信息
// 业务层返回它，控制层统一转成 400 响应
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}
