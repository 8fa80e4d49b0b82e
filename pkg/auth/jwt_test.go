package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/config"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain"
)

func testManager(accessTTL time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-that-is-long-enough!",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
		Issuer:          "caresched-test",
	})
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager(time.Minute)
	want := &domain.Claims{
		UserID: uuid.New(),
		Email:  "doc@example.com",
		Role:   domain.RoleDoctor,
	}

	pair, err := m.GenerateTokenPair(want)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := m.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if got.UserID != want.UserID || got.Email != want.Email || got.Role != want.Role {
		t.Fatalf("claims mismatch: got %+v, want %+v", got, want)
	}

	if _, err := m.ValidateRefreshToken(pair.RefreshToken); err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
}

func TestTokenTypeMismatch(t *testing.T) {
	m := testManager(time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.RefreshToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Fatalf("got %v, want ErrTokenTypeMismatch", err)
	}
	if _, err := m.ValidateRefreshToken(pair.AccessToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Fatalf("got %v, want ErrTokenTypeMismatch", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := testManager(-time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleNurse})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := testManager(time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewJWTManager(config.JWTConfig{
		Secret:          "a-completely-different-secret!!!",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "caresched-test",
	})
	if _, err := other.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}
