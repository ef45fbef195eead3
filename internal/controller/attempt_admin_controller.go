package controller

import (
	"design_sense_backend/internal/service"
	"design_sense_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptAdminController struct {
	Service *service.DesignTestService
}

func NewAttemptAdminController(svc *service.DesignTestService) *AttemptAdminController {
	return &AttemptAdminController{Service: svc}
}

// @Summary 查询申请人的全部测评记录
// @Tags 设计测评管理
// @Produce json
// @Security BearerAuth
// @Param email query string true "申请人邮箱"
// @Success 200 {object} util.Response{data=[]model.DesignAttempt}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/admin/design-test/attempts [get]
func (c *AttemptAdminController) ListAttempts(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		util.BadRequest(ctx, "email is required")
		return
	}

	attempts, err := c.Service.ListApplicantAttempts(ctx.Request.Context(), email)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}
