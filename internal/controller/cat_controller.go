package controller

import (
	"errors"
	"io"
	"kittygram_backend/internal/service"
	"kittygram_backend/internal/util"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CatController 处理猫相关的API请求
type CatController struct {
	CatService *service.CatService
	Serializer *service.CatSerializer
}

func NewCatController(catService *service.CatService, serializer *service.CatSerializer) *CatController {
	return &CatController{CatService: catService, Serializer: serializer}
}

// requestBaseURL 返回 scheme://host，用于拼接绝对图片地址
func requestBaseURL(ctx *gin.Context) string {
	scheme := "http"
	if ctx.Request.TLS != nil || strings.EqualFold(ctx.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + ctx.Request.Host
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// bindCatPayload 支持 JSON 与表单两种请求体，表单中的图片以文件形式上传
func bindCatPayload(ctx *gin.Context) (*service.CatPayload, util.FieldErrors, error) {
	switch ctx.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := ctx.MultipartForm()
		if err != nil {
			return nil, nil, err
		}
		var image *multipart.FileHeader
		if files := form.File["image"]; len(files) > 0 {
			image = files[0]
		}
		payload, errs := service.NewCatPayloadFromForm(form.Value, image)
		return payload, errs, nil
	case gin.MIMEPOSTForm:
		if err := ctx.Request.ParseForm(); err != nil {
			return nil, nil, err
		}
		payload, errs := service.NewCatPayloadFromForm(ctx.Request.PostForm, nil)
		return payload, errs, nil
	default:
		var payload service.CatPayload
		if err := ctx.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}
		return &payload, nil, nil
	}
}

// handleCatError 将业务错误映射为 HTTP 状态码
func handleCatError(ctx *gin.Context, err error) {
	var fieldErrs util.FieldErrors
	switch {
	case errors.Is(err, util.ErrCatNotFound), errors.Is(err, util.ErrAchievementNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotCatOwner), errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.As(err, &fieldErrs):
		util.ValidationFailed(ctx, fieldErrs)
	default:
		util.LogInternalError(ctx, err)
	}
}

// ListCats godoc
// @Summary 获取猫列表
// @Description 分页获取所有猫，匿名可读
// @Tags 猫
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]service.CatResponse}} "成功"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /cats [get]
func (c *CatController) ListCats(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	cats, total, err := c.CatService.List(ctx.Request.Context(), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.NewPage(c.Serializer.ToResponseList(cats, requestBaseURL(ctx)), total, page, limit))
}

// GetCat godoc
// @Summary 获取猫详情
// @Tags 猫
// @Produce json
// @Param id path int true "猫ID"
// @Success 200 {object} util.Response{data=service.CatResponse} "成功"
// @Failure 404 {object} util.Response "猫不存在"
// @Router /cats/{id} [get]
func (c *CatController) GetCat(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		util.NotFound(ctx)
		return
	}

	cat, err := c.CatService.Get(ctx.Request.Context(), id)
	if err != nil {
		handleCatError(ctx, err)
		return
	}

	util.Success(ctx, c.Serializer.ToResponse(cat, requestBaseURL(ctx)))
}

// CreateCat godoc
// @Summary 创建猫
// @Description 当前用户为主人。颜色以 #RRGGBB 传入并转换为颜色名称，成就按名称复用或新建，图片为 base64 data URI 或表单文件
// @Tags 猫
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body service.CatPayload true "猫信息"
// @Success 201 {object} util.Response{data=service.CatResponse} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /cats [post]
func (c *CatController) CreateCat(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	payload, errs, err := bindCatPayload(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(errs) > 0 {
		util.ValidationFailed(ctx, errs)
		return
	}

	in, errs := payload.Validate(false)
	if len(errs) > 0 {
		util.ValidationFailed(ctx, errs)
		return
	}

	cat, err := c.CatService.Create(ctx.Request.Context(), user.UserID, in)
	if err != nil {
		handleCatError(ctx, err)
		return
	}

	util.Created(ctx, c.Serializer.ToResponse(cat, requestBaseURL(ctx)))
}

// UpdateCat godoc
// @Summary 更新猫
// @Description PUT 为完整更新，PATCH 为部分更新。传入 achievements 时整体替换成就列表，image 传 null 时删除图片。仅主人可修改
// @Tags 猫
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "猫ID"
// @Param request body service.CatPayload true "猫信息"
// @Success 200 {object} util.Response{data=service.CatResponse} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "不是主人"
// @Failure 404 {object} util.Response "猫不存在"
// @Router /cats/{id} [put]
// @Router /cats/{id} [patch]
func (c *CatController) UpdateCat(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		util.NotFound(ctx)
		return
	}

	payload, errs, err := bindCatPayload(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(errs) > 0 {
		util.ValidationFailed(ctx, errs)
		return
	}

	in, errs := payload.Validate(ctx.Request.Method == http.MethodPatch)
	if len(errs) > 0 {
		util.ValidationFailed(ctx, errs)
		return
	}

	cat, err := c.CatService.Update(ctx.Request.Context(), user.UserID, id, in)
	if err != nil {
		handleCatError(ctx, err)
		return
	}

	util.Success(ctx, c.Serializer.ToResponse(cat, requestBaseURL(ctx)))
}

// DeleteCat godoc
// @Summary 删除猫
// @Tags 猫
// @Security BearerAuth
// @Param id path int true "猫ID"
// @Success 204 "删除成功"
// @Failure 403 {object} util.Response "不是主人"
// @Failure 404 {object} util.Response "猫不存在"
// @Router /cats/{id} [delete]
func (c *CatController) DeleteCat(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		util.NotFound(ctx)
		return
	}

	if err := c.CatService.Delete(ctx.Request.Context(), user.UserID, id); err != nil {
		handleCatError(ctx, err)
		return
	}

	util.NoContent(ctx)
}
