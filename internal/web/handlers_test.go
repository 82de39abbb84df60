package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/metmat-canvas-bot/internal/closures"
	"github.com/metmat-canvas-bot/internal/workdays"
)

func testHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Handler(logger, closures.NewService(closures.NewStore(db)), workdays.DefaultMarkingWindowDays)
}

func TestHandleWeek(t *testing.T) {
	handler := testHandler(t)

	// 2023-08-21 is the Monday of week 1, 2023/24.
	request := httptest.NewRequest(http.MethodGet, "/weeks/2023-08-21", nil)
	recorder := httptest.NewRecorder()
	handler(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", recorder.Code, recorder.Body)
	}
	var response weekResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	want := weekResponse{
		Date:           "2023-08-21",
		AcademicYear:   2023,
		UniversityWeek: 1,
		Term:           0,
		TermWeek:       0,
		DayOfWeek:      0,
	}
	if response != want {
		t.Errorf("response = %+v, want %+v", response, want)
	}
}

func TestHandleWeekInvalidDate(t *testing.T) {
	handler := testHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/weeks/21-08-2023", nil)
	recorder := httptest.NewRecorder()
	handler(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestHandleDeadline(t *testing.T) {
	handler := testHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/deadlines/2022-12-16", nil)
	recorder := httptest.NewRecorder()
	handler(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", recorder.Code, recorder.Body)
	}
	var response deadlineResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	// No closures stored: 15 working days from Friday 2022-12-16 is
	// Friday 2023-01-06.
	if response.MarkingDeadline != "2023-01-06" {
		t.Errorf("MarkingDeadline = %q, want 2023-01-06", response.MarkingDeadline)
	}
}

func TestHandleDeadlineInvalidWindow(t *testing.T) {
	handler := testHandler(t)

	for _, target := range []string{
		"/deadlines/2022-12-16?window=x",
		"/deadlines/2022-12-16?window=0",
		"/deadlines/2022-12-16?window=-3",
	} {
		request := httptest.NewRequest(http.MethodGet, target, nil)
		recorder := httptest.NewRecorder()
		handler(recorder, request)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, recorder.Code)
		}
	}
}

func TestHandleTermCalendar(t *testing.T) {
	handler := testHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/calendars/2023/terms.ics", nil)
	recorder := httptest.NewRecorder()
	handler(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Type"); got != "text/calendar" {
		t.Errorf("Content-Type = %q", got)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Error("missing VCALENDAR envelope")
	}
	for _, summary := range []string{
		"Term 1 (weeks 5-16)",
		"Term 2 (weeks 21-31)",
		"Term 3 (weeks 36-43)",
	} {
		if !strings.Contains(body, summary) {
			t.Errorf("missing event %q", summary)
		}
	}
}

func TestHandleHealthz(t *testing.T) {
	handler := testHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	handler(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
}
