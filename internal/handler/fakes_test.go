package handler

// In-memory fakes for the store interfaces. Each fake counts its calls so
// tests can assert that boundary validation rejects bad input before any
// store access happens.

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/httperr"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/repository"
)

type fakeMapStore struct {
	maps  map[uint64]model.Map
	calls int
}

func newFakeMapStore(ids ...uint64) *fakeMapStore {
	f := &fakeMapStore{maps: map[uint64]model.Map{}}
	for _, id := range ids {
		f.maps[id] = model.Map{ID: id, Name: "de_mirage"}
	}
	return f
}

func (f *fakeMapStore) List(context.Context) ([]model.Map, error) {
	f.calls++
	out := make([]model.Map, 0, len(f.maps))
	for _, m := range f.maps {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMapStore) GetByID(_ context.Context, id uint64) (model.Map, error) {
	f.calls++
	m, ok := f.maps[id]
	if !ok {
		return model.Map{}, repository.ErrNotFound
	}
	return m, nil
}

func (f *fakeMapStore) Exists(_ context.Context, id uint64) (bool, error) {
	f.calls++
	_, ok := f.maps[id]
	return ok, nil
}

type fakeSmokeStore struct {
	smokes  map[uint64]*model.SmokeWithScore
	ratings map[uint64]map[uint64]int8 // smokeID -> userID -> value
	nextID  uint64
	calls   int
}

func newFakeSmokeStore() *fakeSmokeStore {
	return &fakeSmokeStore{
		smokes:  map[uint64]*model.SmokeWithScore{},
		ratings: map[uint64]map[uint64]int8{},
	}
}

func (f *fakeSmokeStore) add(ownerID, mapID uint64, title string) *model.SmokeWithScore {
	f.nextID++
	s := &model.SmokeWithScore{
		Smoke: model.Smoke{
			ID: f.nextID, Title: title, VideoURL: "https://clips.example/" + title,
			TimestampSec: 12, UserID: ownerID, MapID: mapID,
			CreatedAt: time.Now().UTC(),
		},
		Author:  model.Author{ID: ownerID, DisplayName: "owner", AvatarURL: "https://a.example/full.jpg"},
		MapName: "de_mirage",
	}
	f.smokes[s.ID] = s
	return s
}

func (f *fakeSmokeStore) score(id uint64) int64 {
	var sum int64
	for _, v := range f.ratings[id] {
		sum += int64(v)
	}
	return sum
}

func (f *fakeSmokeStore) ListByMap(_ context.Context, mapID uint64) ([]model.SmokeWithScore, error) {
	f.calls++
	out := []model.SmokeWithScore{}
	for _, s := range f.smokes {
		if s.MapID != mapID || s.DeletedAt != nil {
			continue
		}
		cp := *s
		cp.Score = f.score(s.ID)
		out = append(out, cp)
	}
	model.SortByScore(out)
	return out, nil
}

func (f *fakeSmokeStore) GetByID(_ context.Context, id uint64) (model.SmokeWithScore, error) {
	f.calls++
	s, ok := f.smokes[id]
	if !ok || s.DeletedAt != nil {
		return model.SmokeWithScore{}, repository.ErrNotFound
	}
	cp := *s
	cp.Score = f.score(id)
	return cp, nil
}

func (f *fakeSmokeStore) Create(_ context.Context, ownerID, mapID uint64, title, videoURL string, timestampSec uint32, x, y float64) (model.SmokeWithScore, error) {
	f.calls++
	f.nextID++
	s := &model.SmokeWithScore{
		Smoke: model.Smoke{
			ID: f.nextID, Title: title, VideoURL: videoURL, TimestampSec: timestampSec,
			X: x, Y: y, UserID: ownerID, MapID: mapID, CreatedAt: time.Now().UTC(),
		},
		Author:  model.Author{ID: ownerID, DisplayName: "owner"},
		MapName: "de_mirage",
	}
	f.smokes[s.ID] = s
	return *s, nil
}

func (f *fakeSmokeStore) SoftDelete(_ context.Context, id, ownerID uint64) error {
	f.calls++
	s, ok := f.smokes[id]
	if !ok || s.DeletedAt != nil {
		return repository.ErrNotFound
	}
	if s.UserID != ownerID {
		return repository.ErrForbidden
	}
	now := time.Now().UTC()
	s.DeletedAt = &now
	return nil
}

type fakeRatingStore struct {
	smokes *fakeSmokeStore
	calls  int
}

func (f *fakeRatingStore) Upsert(_ context.Context, userID, smokeID uint64, value int8) error {
	f.calls++
	s, ok := f.smokes.smokes[smokeID]
	if !ok || s.DeletedAt != nil {
		return repository.ErrNotFound
	}
	if f.smokes.ratings[smokeID] == nil {
		f.smokes.ratings[smokeID] = map[uint64]int8{}
	}
	f.smokes.ratings[smokeID][userID] = value
	return nil
}

func (f *fakeRatingStore) Remove(_ context.Context, userID, smokeID uint64) error {
	f.calls++
	s, ok := f.smokes.smokes[smokeID]
	if !ok || s.DeletedAt != nil {
		return repository.ErrNotFound
	}
	delete(f.smokes.ratings[smokeID], userID)
	return nil
}

type fakeReportStore struct {
	smokes  *fakeSmokeStore
	reports map[uint64]map[uint64]model.Report // userID -> smokeID -> report
	nextID  uint64
	calls   int
}

func newFakeReportStore(smokes *fakeSmokeStore) *fakeReportStore {
	return &fakeReportStore{smokes: smokes, reports: map[uint64]map[uint64]model.Report{}}
}

func (f *fakeReportStore) Create(_ context.Context, userID, smokeID uint64, reason string) (model.Report, error) {
	f.calls++
	s, ok := f.smokes.smokes[smokeID]
	if !ok || s.DeletedAt != nil {
		return model.Report{}, repository.ErrNotFound
	}
	if _, dup := f.reports[userID][smokeID]; dup {
		return model.Report{}, repository.ErrDuplicate
	}
	f.nextID++
	rep := model.Report{
		ID: f.nextID, Reason: reason, Status: model.ReportStatusPending,
		UserID: userID, SmokeID: smokeID, CreatedAt: time.Now().UTC(),
	}
	if f.reports[userID] == nil {
		f.reports[userID] = map[uint64]model.Report{}
	}
	f.reports[userID][smokeID] = rep
	return rep, nil
}

func (f *fakeReportStore) StatusFor(_ context.Context, userID uint64, smokeIDs []uint64) (map[uint64]bool, error) {
	f.calls++
	out := map[uint64]bool{}
	for _, id := range smokeIDs {
		if _, ok := f.reports[userID][id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

// do runs a handler through the same error handler the server installs and
// returns the recorder, so tests assert on the final wire response.
func do(t *testing.T, h echo.HandlerFunc, method, target, body string, setup func(c echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = httperr.Handler()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

// asUser marks the context as authenticated, mirroring what the JWT
// middleware stores.
func asUser(id uint64) func(c echo.Context) {
	return func(c echo.Context) {
		c.Set("user_id", id)
		c.Set("steam_id", "76561198000000001")
		c.Set("display_name", "tester")
	}
}

// withParam sets a single path parameter.
func withParam(name, value string, more ...func(c echo.Context)) func(c echo.Context) {
	return func(c echo.Context) {
		c.SetParamNames(name)
		c.SetParamValues(value)
		for _, fn := range more {
			fn(c)
		}
	}
}
