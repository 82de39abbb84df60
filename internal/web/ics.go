package web

import (
	"context"
	"fmt"
	"io"

	ics "github.com/arran4/golang-ical"
	"github.com/metmat-canvas-bot/internal/closures"
	"github.com/metmat-canvas-bot/internal/uniweek"
)

// WriteTermsICal writes an ICS feed for one academic year: an all-day
// event spanning each teaching term plus one event per stored closure.
func WriteTermsICal(ctx context.Context, w io.Writer, closuresService *closures.Service, academicYear int) error {
	calendar := ics.NewCalendar()
	calendar.SetName(fmt.Sprintf("University calendar %d/%d", academicYear, academicYear+1))

	for term := 1; term <= 3; term++ {
		startWeek, endWeek, _ := uniweek.TermBounds(term)
		start := uniweek.DateFromUniversityWeek(academicYear, startWeek, 0)
		// Terms end on the Friday of their last week; all-day ends are
		// exclusive.
		end := uniweek.DateFromUniversityWeek(academicYear, endWeek, 4).AddDate(0, 0, 1)

		event := calendar.AddEvent(fmt.Sprintf("term-%d-%d@metmat-canvas-bot", academicYear, term))
		event.SetSummary(fmt.Sprintf("Term %d (weeks %d-%d)", term, startWeek, endWeek))
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(end)
	}

	yearStart := uniweek.WeekOne(academicYear)
	yearEnd := uniweek.WeekOne(academicYear + 1)
	closed, err := closuresService.ListBetween(ctx, yearStart, yearEnd)
	if err != nil {
		return fmt.Errorf("list closures: %w", err)
	}
	for _, closure := range closed {
		event := calendar.AddEvent(fmt.Sprintf("closure-%s@metmat-canvas-bot", closure.Date.Format("2006-01-02")))
		event.SetSummary(fmt.Sprintf("Closed: %s", closure.Reason))
		event.SetAllDayStartAt(closure.Date)
		event.SetAllDayEndAt(closure.Date.AddDate(0, 0, 1))
	}

	return calendar.SerializeTo(w)
}
