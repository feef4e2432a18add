package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/repository"
)

func TestGroupMessagesMergesByField(t *testing.T) {
	got := GroupMessages([]string{
		"title must not be empty",
		"x must be a number",
		"title must be at most 120 characters",
		"request body malformed",
	})
	want := []string{
		"title must not be empty, must be at most 120 characters",
		"x must be a number",
		"request body malformed",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupMessages = %v, want %v", got, want)
	}
}

func TestGroupMessagesKeepsFirstSeenOrder(t *testing.T) {
	got := GroupMessages([]string{
		"b must be set",
		"a must be set",
		"b cannot exceed 10",
	})
	want := []string{
		"b must be set, cannot exceed 10",
		"a must be set",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupMessages = %v, want %v", got, want)
	}
}

func handle(t *testing.T, err error) (int, Envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/maps/3/smokes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Handler()(err, c)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (body %s)", err, rec.Body.String())
	}
	return rec.Code, env
}

func TestHandlerMapsClosedErrorSet(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    interface{}
	}{
		{"not found", NotFoundf("smoke"), http.StatusNotFound, "smoke not found"},
		{"forbidden", Forbiddenf("not the owner"), http.StatusForbidden, "not the owner"},
		{"conflict", Conflictf("smoke already reported"), http.StatusConflict, "smoke already reported"},
		{"bare sentinel", repository.ErrNotFound, http.StatusNotFound, repository.ErrNotFound.Error()},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized"), http.StatusUnauthorized, "unauthorized"},
		{"unknown", errors.New("driver exploded"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := handle(t, tc.err)
			if status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", status, tc.wantStatus)
			}
			if env.StatusCode != tc.wantStatus {
				t.Fatalf("envelope statusCode = %d, want %d", env.StatusCode, tc.wantStatus)
			}
			if env.Message != tc.wantMsg {
				t.Fatalf("message = %v, want %v", env.Message, tc.wantMsg)
			}
			if env.Error != http.StatusText(tc.wantStatus) {
				t.Fatalf("error = %q, want %q", env.Error, http.StatusText(tc.wantStatus))
			}
			if env.Path != "/v1/maps/3/smokes" {
				t.Fatalf("path = %q", env.Path)
			}
			if _, err := time.Parse(time.RFC3339, env.Timestamp); err != nil {
				t.Fatalf("timestamp %q not RFC3339: %v", env.Timestamp, err)
			}
		})
	}
}

func TestHandlerSingleValidationMessageIsAString(t *testing.T) {
	status, env := handle(t, Validation("value must be +1 or -1"))
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if msg, ok := env.Message.(string); !ok || msg != "value must be +1 or -1" {
		t.Fatalf("message = %v (%T), want plain string", env.Message, env.Message)
	}
}

func TestHandlerMultiValidationMessageIsAnArray(t *testing.T) {
	status, env := handle(t, Validation(
		"title must not be empty",
		"map_id must be a positive integer",
	))
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	msgs, ok := env.Message.([]interface{})
	if !ok {
		t.Fatalf("message = %v (%T), want array", env.Message, env.Message)
	}
	if len(msgs) != 2 {
		t.Fatalf("message entries = %d, want 2", len(msgs))
	}
}

func TestHandlerDoesNotLeakInternalDetail(t *testing.T) {
	_, env := handle(t, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	if msg, _ := env.Message.(string); msg != "internal server error" {
		t.Fatalf("message = %v, internal cause leaked", env.Message)
	}
}
