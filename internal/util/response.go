package util

import (
	"kittygram_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 所有 JSON 接口的外层信封。errors 只在字段校验失败时出现
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func NewPage(list interface{}, total int64, page, limit int) PageResponse {
	return PageResponse{List: list, Total: total, Page: page, Limit: limit}
}

func write(c *gin.Context, status int, message string, data interface{}, errs FieldErrors) {
	c.JSON(status, Response{Code: status, Message: message, Data: data, Errors: errs})
}

func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "success", data, nil)
}

func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "created", data, nil)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, message string) {
	write(c, status, message, nil, nil)
}

// ValidationFailed 400，按字段列出错误
func ValidationFailed(c *gin.Context, errs FieldErrors) {
	write(c, http.StatusBadRequest, "validation failed", nil, errs)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden 已登录但不是资源主人
func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

// LogInternalError 记录原始错误，对外只返回通用 500
func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	Error(c, http.StatusInternalServerError, "Internal server error")
}
