package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateAlgoToken(t *testing.T) {
	mgr := NewTokenManager("test-secret-key-123")
	token, err := mgr.GenerateAlgoToken("breachline", "funnel", "m-1")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Subject != "breachline" {
		t.Errorf("expected subject=breachline, got %s", claims.Subject)
	}
	if claims.Strategy != "funnel" || claims.MatchID != "m-1" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestGenerateAlgoTokenNeedsName(t *testing.T) {
	mgr := NewTokenManager("s")
	if _, err := mgr.GenerateAlgoToken("", "funnel", ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	mgr := NewTokenManager("secret-a")
	other := NewTokenManager("secret-b")
	foreign, _ := other.GenerateAlgoToken("breachline", "funnel", "")

	expiredMgr := &TokenManager{secret: []byte("secret-a"), expiry: -time.Minute}
	expired, _ := expiredMgr.GenerateAlgoToken("breachline", "funnel", "")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Strategy: "funnel"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.ValidateToken(tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
