package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"planboard/backend/config"
	"planboard/backend/internal/dto"
	"planboard/backend/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService(t *testing.T) (AuthService, *jwt.Manager) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成口令哈希失败: %v", err)
	}
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key",
			PasswordHash:    string(hash),
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	// Redis 缺席场景：黑名单降级
	svc := NewAuthService(cfg, jwtMgr, nil, zap.NewNop())
	return svc, jwtMgr
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(t)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{Password: "correct-password"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望ExpiresIn=900，实际=%d", result.ExpiresIn)
	}

	access, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil || access.TokenType != "access" {
		t.Errorf("AccessToken 应可解析且类型为 access: %v, %+v", err, access)
	}
	refresh, err := jwtMgr.ParseToken(result.RefreshToken)
	if err != nil || refresh.TokenType != "refresh" {
		t.Errorf("RefreshToken 应可解析且类型为 refresh: %v, %+v", err, refresh)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Refresh 测试 ──

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, _ := setupTestAuthService(t)
	ctx := context.Background()

	login, _ := svc.Login(ctx, &dto.LoginRequest{Password: "correct-password"})

	result, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("Refresh 应签发新的 token 对")
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _ := setupTestAuthService(t)
	ctx := context.Background()

	login, _ := svc.Login(ctx, &dto.LoginRequest{Password: "correct-password"})

	// 用 access token 换新应被拒
	_, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.AccessToken})
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，实际: %v", err)
	}
}

func TestAuthService_Refresh_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "not.a.token"})
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestAuthService_Logout_NilRedisNoPanic(t *testing.T) {
	svc, jwtMgr := setupTestAuthService(t)
	ctx := context.Background()

	login, _ := svc.Login(ctx, &dto.LoginRequest{Password: "correct-password"})
	claims, _ := jwtMgr.ParseToken(login.AccessToken)

	if err := svc.Logout(ctx, claims); err != nil {
		t.Errorf("Redis 缺席时 Logout 仍应成功: %v", err)
	}
	if err := svc.Logout(ctx, nil); err != nil {
		t.Errorf("空 claims 不应报错: %v", err)
	}
}
