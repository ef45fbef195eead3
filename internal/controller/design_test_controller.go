package controller

import (
	"design_sense_backend/internal/service"
	"design_sense_backend/internal/util"
	"design_sense_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type DesignTestController struct {
	Service *service.DesignTestService
}

func NewDesignTestController(svc *service.DesignTestService) *DesignTestController {
	return &DesignTestController{Service: svc}
}

// @Summary 获取测评题目
// @Description 返回不含标准答案的图片题，按题号升序
// @Tags 设计测评
// @Produce json
// @Success 200 {object} util.Response{data=[]service.PublicQuestion}
// @Router /api/design-test/questions [get]
func (c *DesignTestController) GetQuestions(ctx *gin.Context) {
	questions, err := c.Service.ListPublicQuestions(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 获取附加题
// @Description 第 9 题(情景选择)与第 10 题(岗位偏好)，不含正确选项
// @Tags 设计测评
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/design-test/supplemental [get]
func (c *DesignTestController) GetSupplemental(ctx *gin.Context) {
	questions, err := c.Service.ListPublicSupplemental(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 提交测评
// @Description 同一 sessionId 与邮箱重复提交时返回已保存的结果 (200)
// @Tags 设计测评
// @Accept json
// @Produce json
// @Param body body service.TestSubmissionRequest true "作答内容"
// @Success 201 {object} util.Response{data=service.SubmissionResult}
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/design-test/submit [post]
func (c *DesignTestController) Submit(ctx *gin.Context) {
	var req service.TestSubmissionRequest
	if err := bindStrictJSON(ctx, &req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, replayed, err := c.Service.Submit(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Recorded(ctx, result, replayed)
}

// bindStrictJSON 拒绝未知字段；metadata 通过自定义解码保留额外键
func bindStrictJSON(ctx *gin.Context, obj any) error {
	if ctx.Request.Body == nil {
		return errors.New("request body is required")
	}
	decoder := json.NewDecoder(ctx.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(obj); err != nil {
		return err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON body", util.ErrValidation)
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return describeValidation(verrs)
		}
		return err
	}
	return nil
}

// describeValidation 将校验错误转为 "字段: 规则" 形式
func describeValidation(verrs validator.ValidationErrors) error {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "TestSubmissionRequest.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
	}
	return fmt.Errorf("%w: %s", util.ErrValidation, strings.Join(parts, "; "))
}

func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case util.IsClientError(err):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPersistenceConflict):
		logger.Log.Warn("persistence conflict",
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
		util.Conflict(ctx, "submission conflicted with a concurrent write, please retry")
	default:
		util.LogInternalError(ctx, err)
	}
}
