package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/domain/user"
)

func testUser() *user.User {
	return &user.User{ID: "u1", TenantID: "t1", Username: "ana", Role: user.RoleCashier}
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	if _, err := NewJWTService("", time.Hour); !errors.Is(err, ErrMissingJWTKey) {
		t.Fatalf("expected ErrMissingJWTKey, got %v", err)
	}
}

func TestGenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService("segredo", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, expiresAt, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expiry should be in the future: %s", expiresAt)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "u1" || claims.TenantID != "t1" || claims.Role != string(user.RoleCashier) {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	a, _ := NewJWTService("chave-a", time.Hour)
	b, _ := NewJWTService("chave-b", time.Hour)

	token, _, err := a.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExpiredTokenCanBeRefreshed(t *testing.T) {
	svc, _ := NewJWTService("segredo", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.now = time.Now
	claims, err := svc.ValidateToken(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
	if claims == nil || claims.UserID != "u1" {
		t.Fatalf("expected claims alongside expiry, got %+v", claims)
	}

	refreshed, expiresAt, err := svc.RefreshToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("refreshed token should expire in the future")
	}
	if _, err := svc.ValidateToken(refreshed); err != nil {
		t.Errorf("refreshed token should be valid: %v", err)
	}
}

func TestRefreshToken_Garbage(t *testing.T) {
	svc, _ := NewJWTService("segredo", time.Hour)
	if _, _, err := svc.RefreshToken("nao-e-um-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
