package controller

import (
	"net/http"

	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MCQQuestionController struct {
	QuestionService *service.MCQQuestionService
	StorageService  *service.StorageService
}

func NewMCQQuestionController(questionService *service.MCQQuestionService, storageService *service.StorageService) *MCQQuestionController {
	return &MCQQuestionController{
		QuestionService: questionService,
		StorageService:  storageService,
	}
}

// @Summary 录入题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "题目"
// @Success 201 {object} util.Response{data=service.QuestionView}
// @Failure 400 {object} util.Response
// @Router /api/mcq/questions [post]
func (c *MCQQuestionController) CreateQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.CreateQuestion(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, service.NewQuestionView(q, util.ImageURLResolver(ctx)))
}

// @Summary 批量录入题目
// @Description 同一事务内按提交顺序写入，任一题目校验失败则全部不写入
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []service.QuestionRequest true "题目列表"
// @Success 201 {object} util.Response{data=[]service.QuestionView}
// @Failure 400 {object} util.Response
// @Router /api/mcq/questions/bulk [post]
func (c *MCQQuestionController) BulkCreate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var reqs []service.QuestionRequest
	if err := ctx.ShouldBindJSON(&reqs); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuestionService.BulkCreate(ctx.Request.Context(), user.UserID, reqs)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, service.NewQuestionViews(questions, util.ImageURLResolver(ctx)))
}

// @Summary 批量编辑题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []service.QuestionUpdateRequest true "修改内容"
// @Success 200 {object} util.Response{data=[]service.QuestionView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/mcq/questions/bulk [put]
func (c *MCQQuestionController) BulkUpdate(ctx *gin.Context) {
	var reqs []service.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&reqs); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuestionService.BulkUpdate(ctx.Request.Context(), reqs)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewQuestionViews(questions, util.ImageURLResolver(ctx)))
}

// @Summary 上传题目图片
// @Tags 题库管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/mcq/questions/image [post]
func (c *MCQQuestionController) UploadImage(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, util.MaxImageSizeBytes+1<<20)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	path, err := c.StorageService.SaveQuestionImage(ctx.Request.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"imagePath": path,
		"imageUrl":  util.ResolveImageURL(util.RequestBaseURL(ctx), path),
	})
}

// @Summary 题目详情
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.QuestionView}
// @Failure 404 {object} util.Response
// @Router /api/mcq/questions/{id} [get]
func (c *MCQQuestionController) GetQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	q, err := c.QuestionService.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewQuestionView(q, util.ImageURLResolver(ctx)))
}

// @Summary 题库列表
// @Description 按出题顺序返回，包含正确答案
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param class_id query int true "班级ID"
// @Param subject query string true "科目"
// @Param chapter query string true "章节"
// @Success 200 {object} util.Response{data=[]service.QuestionView}
// @Failure 400 {object} util.Response
// @Router /api/mcq/questions [get]
func (c *MCQQuestionController) ListQuestions(ctx *gin.Context) {
	corpus := repository.Corpus{
		ClassID: queryUint(ctx, "class_id"),
		Subject: ctx.Query("subject"),
		Chapter: ctx.Query("chapter"),
	}
	if corpus.ClassID == 0 || corpus.Subject == "" || corpus.Chapter == "" {
		util.BadRequest(ctx, "class_id, subject and chapter are required")
		return
	}

	questions, err := c.QuestionService.ListQuestions(ctx.Request.Context(), corpus)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewQuestionViews(questions, util.ImageURLResolver(ctx)))
}

// @Summary 章节列表
// @Description 班级某科目下的章节及题目数
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param class_id query int true "班级ID"
// @Param subject query string true "科目"
// @Success 200 {object} util.Response{data=[]repository.ChapterCount}
// @Router /api/mcq/chapters [get]
func (c *MCQQuestionController) ListChapters(ctx *gin.Context) {
	classID := queryUint(ctx, "class_id")
	subject := ctx.Query("subject")
	if classID == 0 || subject == "" {
		util.BadRequest(ctx, "class_id and subject are required")
		return
	}

	chapters, err := c.QuestionService.ListChapters(ctx.Request.Context(), classID, subject)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, chapters)
}
