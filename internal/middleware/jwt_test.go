package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/repository"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/utils"
)

type stubUserLookup struct {
	users map[uint64]model.User
}

func (s *stubUserLookup) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

const secret = "test-secret"

func runAuth(t *testing.T, users UserLookup, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/smokes", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var reached echo.Context
	h := JWTAuth(secret, users)(func(c echo.Context) error {
		reached = c
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return rec, reached, err
}

func wantUnauthorized(t *testing.T, err error) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 HTTPError", err)
	}
}

func TestJWTAuthInjectsIdentity(t *testing.T) {
	users := &stubUserLookup{users: map[uint64]model.User{
		7: {ID: 7, SteamID: "76561198000000007", DisplayName: "smoker"},
	}}
	tok, err := utils.NewAccessToken(secret, 7, "76561198000000007", "smoker", 60)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	_, reached, err := runAuth(t, users, "Bearer "+tok.Token)
	if err != nil {
		t.Fatalf("middleware rejected valid token: %v", err)
	}
	if reached == nil {
		t.Fatal("handler never ran")
	}
	if got, _ := reached.Get("user_id").(uint64); got != 7 {
		t.Fatalf("user_id = %v, want 7", reached.Get("user_id"))
	}
	if reached.Get("steam_id") != "76561198000000007" || reached.Get("display_name") != "smoker" {
		t.Fatalf("identity = %v / %v", reached.Get("steam_id"), reached.Get("display_name"))
	}
}

func TestJWTAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	users := &stubUserLookup{users: map[uint64]model.User{}}
	for _, header := range []string{"", "Basic abc", "Bearer", "not-a-token"} {
		_, reached, err := runAuth(t, users, header)
		wantUnauthorized(t, err)
		if reached != nil {
			t.Fatalf("handler ran for header %q", header)
		}
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	users := &stubUserLookup{users: map[uint64]model.User{7: {ID: 7}}}
	tok, err := utils.NewAccessToken("other-secret", 7, "s", "n", 60)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	_, _, herr := runAuth(t, users, "Bearer "+tok.Token)
	wantUnauthorized(t, herr)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	users := &stubUserLookup{users: map[uint64]model.User{7: {ID: 7}}}
	claims := jwt.MapClaims{
		"sub": 7,
		"exp": time.Now().UTC().Add(-time.Hour).Unix(),
		"iat": time.Now().UTC().Add(-2 * time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, _, herr := runAuth(t, users, "Bearer "+raw)
	wantUnauthorized(t, herr)
}

func TestJWTAuthRejectsDeletedUser(t *testing.T) {
	// Token is valid but its subject no longer exists in the store.
	users := &stubUserLookup{users: map[uint64]model.User{}}
	tok, err := utils.NewAccessToken(secret, 99, "s", "n", 60)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	_, reached, herr := runAuth(t, users, "Bearer "+tok.Token)
	wantUnauthorized(t, herr)
	if reached != nil {
		t.Fatal("handler ran for a deleted account")
	}
}
