package closures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/metmat-canvas-bot/internal/workdays"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{
		store: store,
	}
}

// ClosedDates materializes every stored closure into the set consumed by
// the working day engine.
func (s *Service) ClosedDates(ctx context.Context) (workdays.ClosedDates, error) {
	all, err := s.store.ListClosures(ctx)
	if err != nil {
		return nil, fmt.Errorf("list closures: %w", err)
	}
	closed := make(workdays.ClosedDates, len(all))
	for _, closure := range all {
		closed.Add(closure.Date)
	}
	return closed, nil
}

// ListBetween returns stored closures with from <= date < to, in store
// order.
func (s *Service) ListBetween(ctx context.Context, from, to time.Time) ([]*Closure, error) {
	all, err := s.store.ListClosures(ctx)
	if err != nil {
		return nil, fmt.Errorf("list closures: %w", err)
	}
	var out []*Closure
	for _, closure := range all {
		if closure.Date.Before(from) || !closure.Date.Before(to) {
			continue
		}
		out = append(out, closure)
	}
	return out, nil
}

// SeedYear inserts the bank holidays of a calendar year, skipping any date
// already stored so manual closures are never overwritten.
func (s *Service) SeedYear(ctx context.Context, year int) error {
	for date, name := range BankHolidays(year) {
		if _, err := s.store.FindByDate(ctx, date); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("find closure: %w", err)
		}
		if err := s.store.Insert(ctx, &Closure{Date: date, Reason: name}); err != nil {
			return fmt.Errorf("insert closure: %w", err)
		}
		slog.InfoContext(ctx, "seeded closure", "date", date.Format(time.DateOnly), "reason", name)
	}
	return nil
}

// LoadFile imports closures from a JSON file holding a list of
// [year, month, day] triples, the format closure lists are published in.
func (s *Service) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read closures file: %w", err)
	}
	var triples [][3]int
	if err := json.Unmarshal(data, &triples); err != nil {
		return fmt.Errorf("parse closures file: %w", err)
	}
	closed, err := workdays.FromTriples(triples)
	if err != nil {
		return err
	}
	for _, date := range closed.Dates() {
		if err := s.store.Insert(ctx, &Closure{Date: date, Reason: "Institution closed"}); err != nil {
			return fmt.Errorf("insert closure: %w", err)
		}
	}
	return nil
}
