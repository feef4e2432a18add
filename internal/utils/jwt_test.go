package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "76561198012345678", "smoke_criminal", 1440)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v (valid=%v)", err, parsed != nil && parsed.Valid)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type %T", parsed.Claims)
	}
	if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	if claims["steam_id"] != "76561198012345678" {
		t.Fatalf("steam_id = %v", claims["steam_id"])
	}
	if claims["name"] != "smoke_criminal" {
		t.Fatalf("name = %v", claims["name"])
	}
	if want := time.Now().UTC().Add(24 * time.Hour); tok.Exp.Sub(want) > time.Minute || want.Sub(tok.Exp) > time.Minute {
		t.Fatalf("exp = %v, want roughly 24h out", tok.Exp)
	}
}

func TestAccessTokenWrongSecretFails(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "s", "n", 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	}); err == nil {
		t.Fatal("token verified under the wrong secret")
	}
}

func TestRefreshTokenIsUniqueAndHashed(t *testing.T) {
	a, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatal("two refresh tokens came out identical")
	}
	if len(a.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96 hex chars", len(a.Raw))
	}

	h1, h2 := HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw)
	if h1 != h2 {
		t.Fatal("hash is not deterministic")
	}
	if h1 == a.Raw {
		t.Fatal("hash equals the raw token")
	}
	if len(h1) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(h1))
	}
}
