package controller

import (
	"strconv"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MCQController struct {
	MCQService        *service.MCQService
	StatisticsService *service.MCQStatisticsService
}

func NewMCQController(mcqService *service.MCQService, statisticsService *service.MCQStatisticsService) *MCQController {
	return &MCQController{
		MCQService:        mcqService,
		StatisticsService: statisticsService,
	}
}

func queryUint(ctx *gin.Context, key string) uint {
	return util.MustParseUint(ctx.Query(key))
}

// @Summary 开始练习
// @Description 从学生在该章节的进度处取第一批题目，进度不存在时从第一题开始
// @Tags 选择题练习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.StartSessionRequest true "班级/科目/章节"
// @Success 201 {object} util.Response{data=service.BatchResponse}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "该组合下没有题目"
// @Router /api/mcq/sessions/start [post]
func (c *MCQController) StartSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if user.ClassID != 0 && req.ClassID != user.ClassID {
		util.HandleError(ctx, util.ErrPermissionDenied)
		return
	}

	out, err := c.MCQService.StartSession(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, service.NewBatchResponse(out, util.ImageURLResolver(ctx)))
}

// @Summary 提交答案
// @Description selected_answer 为 null 表示跳过；已作答的题目不可重复提交
// @Tags 选择题练习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmitAnswerRequest true "作答"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "已作答或会话已结束"
// @Router /api/mcq/sessions/submit-answer [post]
func (c *MCQController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.MCQService.SubmitAnswer(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 加载下一批题目
// @Tags 选择题练习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SessionIDRequest true "会话ID"
// @Success 200 {object} util.Response{data=service.BatchResponse}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "会话已结束或并发推进"
// @Router /api/mcq/sessions/next-batch [post]
func (c *MCQController) NextBatch(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SessionIDRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	out, err := c.MCQService.NextBatch(ctx.Request.Context(), user.UserID, req.SessionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewBatchResponse(out, util.ImageURLResolver(ctx)))
}

// @Summary 结束练习
// @Description 结算时长与正确/错误/跳过数，返回含全部题目（附正确答案）的会话
// @Tags 选择题练习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SessionIDRequest true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response
// @Router /api/mcq/sessions/end [post]
func (c *MCQController) EndSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SessionIDRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.MCQService.EndSession(ctx.Request.Context(), user.UserID, req.SessionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewSessionView(session, util.ImageURLResolver(ctx), true))
}

// @Summary 会话详情
// @Description 学生只能查看自己的会话；会话结束后或教师查看时附带正确答案
// @Tags 选择题练习
// @Produce json
// @Security BearerAuth
// @Param session_id path int true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/mcq/sessions/{session_id} [get]
func (c *MCQController) GetSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID := util.MustParseUint(ctx.Param("session_id"))
	if sessionID == 0 {
		util.BadRequest(ctx, "invalid session_id")
		return
	}

	canViewAll := !user.IsStudent()
	session, err := c.MCQService.GetSession(ctx.Request.Context(), user.UserID, canViewAll, sessionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	reveal := canViewAll || session.Ended()
	util.Success(ctx, service.NewSessionView(session, util.ImageURLResolver(ctx), reveal))
}

// @Summary 我的练习记录
// @Tags 选择题练习
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/mcq/sessions [get]
func (c *MCQController) ListMySessions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.ParsePage(ctx)
	sessions, total, err := c.MCQService.ListStudentSessions(ctx.Request.Context(), user.UserID, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: sessions, Total: total, Page: page, Limit: limit})
}

// @Summary 教师查看练习记录
// @Tags 选择题练习
// @Produce json
// @Security BearerAuth
// @Param class_id query int false "班级ID"
// @Param subject query string false "科目"
// @Param chapter query string false "章节"
// @Param student_id query int false "学生ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/mcq/teacher/sessions [get]
func (c *MCQController) ListTeacherSessions(ctx *gin.Context) {
	filter := repository.SessionFilter{
		ClassID:   queryUint(ctx, "class_id"),
		Subject:   ctx.Query("subject"),
		Chapter:   ctx.Query("chapter"),
		StudentID: queryUint(ctx, "student_id"),
	}
	page, limit := util.ParsePage(ctx)

	sessions, total, err := c.MCQService.ListSessions(ctx.Request.Context(), filter, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: sessions, Total: total, Page: page, Limit: limit})
}

// @Summary 班级练习统计
// @Description 只统计已结束的会话
// @Tags 选择题练习
// @Produce json
// @Security BearerAuth
// @Param class_id query int true "班级ID"
// @Param subject query string true "科目"
// @Success 200 {object} util.Response{data=service.ClassStatistics}
// @Failure 400 {object} util.Response
// @Router /api/mcq/class-statistics [get]
func (c *MCQController) GetClassStatistics(ctx *gin.Context) {
	classID := queryUint(ctx, "class_id")
	subject := ctx.Query("subject")
	if classID == 0 || subject == "" {
		util.BadRequest(ctx, "class_id and subject are required")
		return
	}

	stats, err := c.StatisticsService.GetClassStatistics(ctx.Request.Context(), classID, subject)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 学生练习进度
// @Description 学生查看自己的进度；教师需传 student_id
// @Tags 选择题练习
// @Produce json
// @Security BearerAuth
// @Param class_id query int false "班级ID"
// @Param subject query string false "科目"
// @Param student_id query int false "学生ID（教师使用）"
// @Success 200 {object} util.Response{data=[]service.ChapterProgress}
// @Router /api/mcq/student-progress [get]
func (c *MCQController) GetStudentProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	studentID := user.UserID
	if user.Role != model.Student {
		raw := ctx.Query("student_id")
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			util.BadRequest(ctx, "student_id is required")
			return
		}
		studentID = uint(id)
	}

	progress, err := c.StatisticsService.GetStudentProgress(ctx.Request.Context(), studentID, queryUint(ctx, "class_id"), ctx.Query("subject"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
