package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// History is the two-level attendance drill-down for one course: a monthly
// summary, and on selection the daily detail of exactly one month at a
// time. Nothing is cached between visits; Open always fetches fresh.
type History struct {
	repo     Repository
	courseID uuid.UUID

	months []MonthlyAggregate

	selYear  int
	selMonth time.Month
	selected bool
	days     []DailyRecord

	// gen invalidates in-flight fetches: a response from a superseded or
	// closed generation is dropped, never applied.
	gen    int
	closed bool
}

func NewHistory(repo Repository, courseID uuid.UUID) *History {
	return &History{repo: repo, courseID: courseID}
}

// Open loads the monthly summary, collapsing any prior drill-down state.
func (h *History) Open(ctx context.Context) error {
	h.closed = false
	h.months = nil
	h.collapse()
	gen := h.next()

	months, err := h.repo.MonthlySummary(ctx, h.courseID)
	if !h.current(gen) {
		return nil
	}
	if err != nil {
		return err
	}
	h.months = months
	return nil
}

// Select drills into one month. Prior daily detail is cleared before the
// fetch, never shown stale; selecting another month replaces the detail
// wholesale.
func (h *History) Select(ctx context.Context, year int, month time.Month) error {
	h.collapse()
	gen := h.next()

	days, err := h.repo.DailyDetail(ctx, h.courseID, year, month)
	if !h.current(gen) {
		return nil
	}
	if err != nil {
		return err
	}
	h.days = days
	h.selYear, h.selMonth, h.selected = year, month, true
	return nil
}

// Close discards both levels; a response still in flight will not be applied.
func (h *History) Close() {
	h.closed = true
	h.gen++
	h.months = nil
	h.collapse()
}

// Months is the loaded summary; months with zero records are included and
// render their percentage as "N/A".
func (h *History) Months() []MonthlyAggregate {
	return h.months
}

// Days is the daily detail of the currently selected month, if any.
func (h *History) Days() []DailyRecord {
	return h.days
}

// Selected reports which month is expanded.
func (h *History) Selected() (year int, month time.Month, ok bool) {
	return h.selYear, h.selMonth, h.selected
}

func (h *History) collapse() {
	h.days = nil
	h.selected = false
}

func (h *History) next() int {
	h.gen++
	return h.gen
}

func (h *History) current(gen int) bool {
	return !h.closed && gen == h.gen
}
