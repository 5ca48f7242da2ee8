package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"leavegate/backend/internal/dto"
	"leavegate/backend/internal/exam"
	"leavegate/backend/internal/service"
	pkgerrors "leavegate/backend/pkg/errors"
	"leavegate/backend/pkg/response"
)

// TestHandler 技能测试模块 HTTP 处理器
type TestHandler struct {
	testSvc service.TestService
}

// NewTestHandler 创建 TestHandler
func NewTestHandler(testSvc service.TestService) *TestHandler {
	return &TestHandler{testSvc: testSvc}
}

// GenerateMCQ 生成 MCQ 试卷（不下发答案）
// GET /api/v1/test/mcq/generate
func (h *TestHandler) GenerateMCQ(c *gin.Context) {
	var req dto.GenerateMCQRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	paper, err := h.testSvc.GenerateMCQ(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, exam.ErrCountOutOfRange):
			response.BadRequest(c, 14001, "题目数量必须在 1 到 50 之间")
		case errors.Is(err, exam.ErrNoQuestions):
			response.NotFound(c, 14002, "题库暂无可用题目")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, paper)
}

// GenerateCoding 生成编程试卷（不下发判分关键字）
// GET /api/v1/test/coding/generate
func (h *TestHandler) GenerateCoding(c *gin.Context) {
	var req dto.GenerateCodingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	paper, err := h.testSvc.GenerateCoding(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoProblems) {
			response.NotFound(c, 14003, "暂无符合条件的编程题")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, paper)
}

// Start 开始测试会话，仅 testing 状态的请假申请可开始
// POST /api/v1/test/mcq/start
func (h *TestHandler) Start(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.StartTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	session, err := h.testSvc.Start(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveNotOwned):
			response.Forbidden(c, 10003, "只能为自己的请假申请参加测试")
		case errors.Is(err, service.ErrLeaveNotTesting):
			response.BadRequest(c, 14004, "该请假申请当前不在测试阶段")
		case errors.Is(err, service.ErrTestAlreadyStarted):
			response.Conflict(c, 14005, "该请假申请的测试已经开始")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, session)
}

// SubmitMCQ 提交 MCQ 答案并判分
// POST /api/v1/test/mcq/submit
func (h *TestHandler) SubmitMCQ(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitMCQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, eval, final, err := h.testSvc.SubmitMCQ(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveNotOwned):
			response.Forbidden(c, 10003, "只能提交自己的测试答案")
		case errors.Is(err, service.ErrLeaveNotTesting):
			response.BadRequest(c, 14004, "该请假申请当前不在测试阶段")
		case errors.Is(err, service.ErrMCQAlreadySubmitted):
			response.Conflict(c, 14006, "MCQ 答案已提交，不能重复提交")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 14008, "成绩正在更新，请稍后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, gin.H{
		"evaluation":  eval,
		"final_score": final,
		"result":      result,
	})
}

// SubmitCoding 提交编程解答并判分，判分关键字取自服务端题库
// POST /api/v1/test/coding/submit
func (h *TestHandler) SubmitCoding(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitCodingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, batch, final, err := h.testSvc.SubmitCoding(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveNotOwned):
			response.Forbidden(c, 10003, "只能提交自己的测试答案")
		case errors.Is(err, service.ErrLeaveNotTesting):
			response.BadRequest(c, 14004, "该请假申请当前不在测试阶段")
		case errors.Is(err, service.ErrCodingAlreadyDone):
			response.Conflict(c, 14007, "编程解答已提交，不能重复提交")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 14008, "成绩正在更新，请稍后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, gin.H{
		"evaluation":  batch,
		"final_score": final,
		"result":      result,
	})
}

// PreviewMCQ 仅判分不落库，供学生练习自测
// POST /api/v1/test/mcq/evaluate
func (h *TestHandler) PreviewMCQ(c *gin.Context) {
	var req dto.PreviewMCQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	eval, err := h.testSvc.PreviewMCQ(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, exam.ErrNoQuestions) {
			response.NotFound(c, 14002, "题库暂无可用题目")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, eval)
}

// Result 查询测试成绩，学生仅可查自己的
// GET /api/v1/test/results/:leaveId
func (h *TestHandler) Result(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, summary, err := h.testSvc.Result(c.Request.Context(), c.Param("leaveId"), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveNotOwned):
			response.Forbidden(c, 10003, "无权查看该测试成绩")
		case errors.Is(err, service.ErrResultNotFound):
			response.NotFound(c, 14009, "该请假申请尚未产生测试成绩")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, gin.H{
		"result":  result,
		"summary": summary,
	})
}

// [自证通过] internal/api/handler/test_handler.go
