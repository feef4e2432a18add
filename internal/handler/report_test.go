package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/queue"
)

// newReportHandler builds the handler with publishing stubbed out and
// returns the captured events.
func newReportHandler(reports ReportStore, smokes SmokeStore) (*ReportHandler, *[]queue.ReportCreatedEvent) {
	h := NewReportHandler(reports, smokes)
	events := &[]queue.ReportCreatedEvent{}
	h.publish = func(_ context.Context, ev queue.ReportCreatedEvent) error {
		*events = append(*events, ev)
		return nil
	}
	return h, events
}

func TestCreateReportStartsPendingAndPublishes(t *testing.T) {
	smokes := newFakeSmokeStore()
	smokes.add(7, 1, "window")
	reports := newFakeReportStore(smokes)
	h, events := newReportHandler(reports, smokes)

	rec := do(t, h.Create, http.MethodPost, "/v1/smokes/1/report",
		`{"reason":"Bad content example"}`, withParam("id", "1", asUser(9)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var got model.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status != model.ReportStatusPending {
		t.Fatalf("status = %q, want PENDING", got.Status)
	}
	if got.UserID != 9 || got.SmokeID != 1 {
		t.Fatalf("report = %+v", got)
	}
	if len(*events) != 1 || (*events)[0].SmokeTitle != "window" {
		t.Fatalf("published events = %+v, want one for smoke 'window'", *events)
	}
}

func TestCreateReportDuplicateIs409AndKeepsOriginal(t *testing.T) {
	smokes := newFakeSmokeStore()
	smokes.add(7, 1, "window")
	reports := newFakeReportStore(smokes)
	h, _ := newReportHandler(reports, smokes)

	first := do(t, h.Create, http.MethodPost, "/v1/smokes/1/report",
		`{"reason":"Bad content example"}`, withParam("id", "1", asUser(9)))
	if first.Code != http.StatusCreated {
		t.Fatalf("first: status = %d, want 201", first.Code)
	}

	second := do(t, h.Create, http.MethodPost, "/v1/smokes/1/report",
		`{"reason":"Still bad, reporting again"}`, withParam("id", "1", asUser(9)))
	if second.Code != http.StatusConflict {
		t.Fatalf("second: status = %d, want 409", second.Code)
	}
	if got := reports.reports[9][1].Reason; got != "Bad content example" {
		t.Fatalf("original report altered: %q", got)
	}

	// A different user may still report the same smoke.
	other := do(t, h.Create, http.MethodPost, "/v1/smokes/1/report",
		`{"reason":"Independent report here"}`, withParam("id", "1", asUser(10)))
	if other.Code != http.StatusCreated {
		t.Fatalf("other user: status = %d, want 201", other.Code)
	}
}

func TestCreateReportReasonBoundsCheckedBeforeStore(t *testing.T) {
	smokes := newFakeSmokeStore()
	smokes.add(7, 1, "window")
	reports := newFakeReportStore(smokes)
	h, _ := newReportHandler(reports, smokes)

	// Too short after trimming.
	rec := do(t, h.Create, http.MethodPost, "/v1/smokes/1/report",
		`{"reason":"   short    "}`, withParam("id", "1", asUser(9)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short reason: status = %d, want 400", rec.Code)
	}

	// Too long.
	long := strings.Repeat("x", 501)
	rec = do(t, h.Create, http.MethodPost, "/v1/smokes/1/report",
		`{"reason":"`+long+`"}`, withParam("id", "1", asUser(9)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("long reason: status = %d, want 400", rec.Code)
	}

	if reports.calls != 0 || smokes.calls != 0 {
		t.Fatalf("store touched for invalid reasons (reports=%d smokes=%d)", reports.calls, smokes.calls)
	}
}

func TestCreateReportSoftDeletedSmokeIs404(t *testing.T) {
	smokes := newFakeSmokeStore()
	s := smokes.add(7, 1, "gone")
	reports := newFakeReportStore(smokes)
	h, events := newReportHandler(reports, smokes)

	if err := smokes.SoftDelete(context.Background(), s.ID, 7); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Deleted content cannot accumulate new reports even though its row
	// survives the soft delete.
	rec := do(t, h.Create, http.MethodPost, "/v1/smokes/1/report",
		`{"reason":"Bad content example"}`, withParam("id", "1", asUser(9)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if len(reports.reports[9]) != 0 {
		t.Fatal("report filed against a deleted smoke")
	}
	if len(*events) != 0 {
		t.Fatalf("event published for failed report: %+v", *events)
	}
}

func TestCreateReportUnknownSmokeIs404(t *testing.T) {
	smokes := newFakeSmokeStore()
	reports := newFakeReportStore(smokes)
	h, events := newReportHandler(reports, smokes)

	rec := do(t, h.Create, http.MethodPost, "/v1/smokes/999999/report",
		`{"reason":"Bad content example"}`, withParam("id", "999999", asUser(9)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if len(*events) != 0 {
		t.Fatalf("event published for failed report: %+v", *events)
	}
}

func TestReportStatusFlagsPerSmoke(t *testing.T) {
	smokes := newFakeSmokeStore()
	smokes.add(7, 1, "a")
	smokes.add(7, 1, "b")
	reports := newFakeReportStore(smokes)
	h, _ := newReportHandler(reports, smokes)

	rec := do(t, h.Create, http.MethodPost, "/v1/smokes/1/report",
		`{"reason":"Bad content example"}`, withParam("id", "1", asUser(9)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup report: status = %d", rec.Code)
	}

	rec = do(t, h.Status, http.MethodGet, "/v1/smokes/reports/status?ids=1,2", "", asUser(9))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []struct {
		SmokeID  uint64 `json:"smoke_id"`
		Reported bool   `json:"reported"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || !got[0].Reported || got[1].Reported {
		t.Fatalf("flags = %+v, want [1:true 2:false]", got)
	}
}

func TestReportStatusRejectsMalformedIDs(t *testing.T) {
	smokes := newFakeSmokeStore()
	h, _ := newReportHandler(newFakeReportStore(smokes), smokes)

	for _, q := range []string{"", "abc", "1,abc", "0"} {
		rec := do(t, h.Status, http.MethodGet, "/v1/smokes/reports/status?ids="+q, "", asUser(9))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("ids=%q: status = %d, want 400", q, rec.Code)
		}
	}
}
