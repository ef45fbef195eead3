package util

import (
	"design_sense_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, "success", data)
}

func Created(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, "created", data)
}

// Recorded 新写入的作答返回 201，幂等重放返回 200，data 相同
func Recorded(c *gin.Context, data interface{}, replayed bool) {
	if replayed {
		respond(c, http.StatusOK, "already recorded", data)
		return
	}
	Created(c, data)
}

func Error(c *gin.Context, code int, message string) {
	respond(c, code, message, nil)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// ServiceUnavailable 用于健康检查，components 标出失败的依赖
func ServiceUnavailable(c *gin.Context, components map[string]string) {
	respond(c, http.StatusServiceUnavailable, "dependency unavailable", gin.H{
		"status":     "degraded",
		"components": components,
	})
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("clientIp", c.ClientIP()),
		zap.Error(err),
	)
	InternalServerError(c)
}
