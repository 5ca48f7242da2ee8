package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"leavegate/backend/internal/dto"
	"leavegate/backend/internal/service"
	"leavegate/backend/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器（学生侧）
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// Apply 提交请假申请，创建后即进入 testing 状态等待技能测试
// POST /api/v1/leaves
func (h *LeaveHandler) Apply(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.leaveSvc.Apply(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadDateFormat):
			response.BadRequest(c, 12006, "日期格式无效，应为 YYYY-MM-DD")
		case errors.Is(err, service.ErrInvalidDateRange):
			response.BadRequest(c, 12002, "结束日期不能早于开始日期")
		case errors.Is(err, service.ErrPastFromDate):
			response.BadRequest(c, 12005, "开始日期不能早于今天")
		case errors.Is(err, service.ErrLeaveOverlap):
			response.Conflict(c, 12003, "该时间段已有未完结的请假申请")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// ListMine 我的请假列表
// GET /api/v1/leaves/my
func (h *LeaveHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.leaveSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetByID 请假详情，学生只能查看自己的申请
// GET /api/v1/leaves/:id
func (h *LeaveHandler) GetByID(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.GetByID(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveNotOwned):
			response.Forbidden(c, 10003, "无权查看该请假申请")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Delete 删除请假申请，学生仅可删除未完结的申请
// DELETE /api/v1/leaves/:id
func (h *LeaveHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.leaveSvc.Delete(c.Request.Context(), c.Param("id"), userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			response.NotFound(c, 12001, "请假申请不存在")
		case errors.Is(err, service.ErrLeaveNotOwned):
			response.Forbidden(c, 10003, "无权删除该请假申请")
		case errors.Is(err, service.ErrLeaveNotDeletable):
			response.Conflict(c, 12004, "已审批的请假申请不能删除")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/leave_handler.go
