package controller

import (
	"kittygram_backend/internal/model"
	"kittygram_backend/internal/service"
	"kittygram_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 获取成就列表
// @Tags 成就
// @Produce json
// @Success 200 {object} util.Response{data=[]service.AchievementResponse}
// @Router /achievements [get]
func (c *AchievementController) ListAchievements(ctx *gin.Context) {
	achievements, err := c.AchievementService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lo.Map(achievements, func(a model.Achievement, _ int) service.AchievementResponse {
		return service.ToAchievementResponse(a)
	}))
}

// @Summary 获取成就详情
// @Tags 成就
// @Produce json
// @Param id path int true "成就ID"
// @Success 200 {object} util.Response{data=service.AchievementResponse}
// @Failure 404 {object} util.Response "成就不存在"
// @Router /achievements/{id} [get]
func (c *AchievementController) GetAchievement(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		util.NotFound(ctx)
		return
	}

	achievement, err := c.AchievementService.Get(ctx.Request.Context(), id)
	if err != nil {
		handleCatError(ctx, err)
		return
	}

	util.Success(ctx, service.ToAchievementResponse(*achievement))
}

// @Summary 创建成就
// @Description 同名成就已存在时直接返回，状态码 200；新建返回 201
// @Tags 成就
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AchievementRequest true "成就名称"
// @Success 200 {object} util.Response{data=service.AchievementResponse} "已存在"
// @Success 201 {object} util.Response{data=service.AchievementResponse} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /achievements [post]
func (c *AchievementController) CreateAchievement(ctx *gin.Context) {
	var req service.AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement, created, err := c.AchievementService.Create(ctx.Request.Context(), req)
	if err != nil {
		handleCatError(ctx, err)
		return
	}

	resp := service.ToAchievementResponse(*achievement)
	if created {
		util.Created(ctx, resp)
		return
	}
	util.Success(ctx, resp)
}
