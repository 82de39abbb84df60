// Package web exposes the academic calendar over HTTP: week lookups,
// marking-deadline queries and an ICS feed of term dates.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/metmat-canvas-bot/internal/closures"
	"github.com/metmat-canvas-bot/internal/uniweek"
	"github.com/metmat-canvas-bot/internal/workdays"
)

func Handler(
	logger *slog.Logger,
	closuresService *closures.Service,
	markingWindowDays int,
) http.HandlerFunc {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz())
	mux.HandleFunc("GET /weeks/{date}", handleWeek(logger))
	mux.HandleFunc("GET /deadlines/{date}", handleDeadline(logger, closuresService, markingWindowDays))
	mux.HandleFunc("GET /calendars/{year}/terms.ics", handleTermCalendar(logger, closuresService))

	return WithAccessLogs(logger)(mux.ServeHTTP)
}

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

type weekResponse struct {
	Date           string `json:"date"`
	AcademicYear   int    `json:"academic_year"`
	UniversityWeek int    `json:"university_week"`
	Term           int    `json:"term"`
	TermWeek       int    `json:"term_week"`
	DayOfWeek      int    `json:"day_of_week"`
}

func handleWeek(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := time.Parse(time.DateOnly, r.PathValue("date"))
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		info := uniweek.TermWeek(date)
		writeJSON(logger, w, weekResponse{
			Date:           date.Format(time.DateOnly),
			AcademicYear:   uniweek.AcademicYear(date),
			UniversityWeek: info.UniversityWeek,
			Term:           info.Term,
			TermWeek:       info.TermWeek,
			DayOfWeek:      uniweek.Weekday(date),
		})
	}
}

type deadlineResponse struct {
	Deadline           string `json:"deadline"`
	ElapsedWorkingDays int    `json:"elapsed_working_days"`
	MarkingDeadline    string `json:"marking_deadline"`
	TodayIsWorkingDay  bool   `json:"today_is_working_day"`
}

func handleDeadline(
	logger *slog.Logger,
	closuresService *closures.Service,
	markingWindowDays int,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deadline, err := time.Parse(time.DateOnly, r.PathValue("date"))
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		window := markingWindowDays
		if raw := r.URL.Query().Get("window"); raw != "" {
			window, err = strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "invalid window", http.StatusBadRequest)
				return
			}
		}

		closed, err := closuresService.ClosedDates(r.Context())
		if err != nil {
			logger.Error("closed dates", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		status, err := workdays.DeadlineStatus(deadline, time.Now().UTC(), closed, window)
		if errors.Is(err, workdays.ErrScanBudgetExceeded) {
			logger.Error("deadline status", "error", err)
			http.Error(w, "closed-date configuration admits no working days", http.StatusInternalServerError)
			return
		} else if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(logger, w, deadlineResponse{
			Deadline:           deadline.Format(time.DateOnly),
			ElapsedWorkingDays: status.ElapsedWorkingDays,
			MarkingDeadline:    status.MarkingDeadline.Format(time.DateOnly),
			TodayIsWorkingDay:  status.TodayIsWorkingDay,
		})
	}
}

func handleTermCalendar(logger *slog.Logger, closuresService *closures.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(r.PathValue("year"))
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/calendar")
		if err := WriteTermsICal(r.Context(), w, closuresService, year); err != nil {
			logger.Error("write terms calendar", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "error", err)
	}
}
