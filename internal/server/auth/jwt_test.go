package auth

import (
	"testing"
	"time"

	"github.com/ksolovey/modacart/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "user-123"
	roles := []string{"Vendor"}

	tok, err := GenerateToken(userID, roles, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, userID)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "Vendor" {
		t.Fatalf("roles mismatch: got %v", claims.Roles)
	}
}

func TestGenerateToken_ExpiryIsIssuedAtPlusTTL(t *testing.T) {
	t.Parallel()

	const ttl = 15 * time.Minute
	tok, err := GenerateToken("u1", nil, []byte("k"), ttl)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, []byte("k"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}

	got := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if got != ttl {
		t.Fatalf("expected exp-iat == %v, got %v", ttl, got)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u1", nil, []byte("secret"), -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("secret"))
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", nil, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err = ParseToken(tok, []byte("wrong-secret")); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("not.a.jwt", []byte("k")); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
