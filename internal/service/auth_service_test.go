package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/config"
)

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo, *mockResetRepo) {
	t.Helper()
	users := newMockUserRepo()
	resets := newMockResetRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   5,
			PasswordResetTTLMinutes: 15,
			BcryptCost:              4,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
		Revoked:           auth.NewRevocationList(nil),
	})
	return svc, users, resets
}

func seedUser(t *testing.T, users *mockUserRepo, name, password string) int64 {
	t.Helper()
	userSvc := NewUserService(users, &recordingDispatcher{}, zap.NewNop(), 4)
	id, err := userSvc.CreateUser(context.Background(), name, "", password)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	id := seedUser(t, users, "alice", "correct horse")

	user, token, expiresAt, err := svc.Login(context.Background(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != id {
		t.Fatalf("wrong user: %+v", user)
	}
	if token == "" {
		t.Fatal("no token issued")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("token already expired: %v", expiresAt)
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != id {
		t.Fatalf("claims carry wrong user id: %d", claims.UserID)
	}
	if claims.ID == "" {
		t.Fatal("token id (jti) missing")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedUser(t, users, "alice", "correct horse")

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "alice", "battery staple")
		assertDomainCode(t, err, "UNAUTHORIZED")
	})
	t.Run("unknown user", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "mallory", "whatever")
		assertDomainCode(t, err, "UNAUTHORIZED")
	})
}

func TestLogoutWithoutRedisIsNoop(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedUser(t, users, "alice", "pw")

	if err := svc.Logout(context.Background(), "some-token-id", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Logout: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, users, resets := newAuthFixture(t)
	seedUser(t, users, "alice", "old password")

	token, err := svc.RequestPasswordReset(context.Background(), "alice")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if token.Token == "" {
		t.Fatal("empty reset token")
	}

	if err := svc.ConfirmPasswordReset(context.Background(), token.Token, "new password"); err != nil {
		t.Fatalf("ConfirmPasswordReset: %v", err)
	}

	if _, _, _, err := svc.Login(context.Background(), "alice", "old password"); err == nil {
		t.Fatal("old password must stop working")
	}
	if _, _, _, err := svc.Login(context.Background(), "alice", "new password"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	t.Run("token is single use", func(t *testing.T) {
		err := svc.ConfirmPasswordReset(context.Background(), token.Token, "third password")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown token", func(t *testing.T) {
		err := svc.ConfirmPasswordReset(context.Background(), "nope", "x")
		assertDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := svc.RequestPasswordReset(context.Background(), "alice")
		if err != nil {
			t.Fatalf("RequestPasswordReset: %v", err)
		}
		resets.tokens[expired.Token].ExpiresAt = time.Now().Add(-time.Minute)
		err = svc.ConfirmPasswordReset(context.Background(), expired.Token, "x")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestRequestPasswordResetUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.RequestPasswordReset(context.Background(), "ghost")
	assertDomainCode(t, err, "NOT_FOUND")
}
