package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/roster"
)

// Status is one student's attendance for one course date.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// DateLayout is the context key format of an attendance batch.
const DateLayout = "2006-01-02"

// MonthlyAggregate is one month of a student's attendance in a course,
// derived server-side; the client treats it as read-only.
type MonthlyAggregate struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Present int        `json:"present"`
	Absent  int        `json:"absent"`
	Late    int        `json:"late"`
	Total   int        `json:"total"`
}

// Percentage is the attended share (late counts as attended). ok is false
// when the month has no records and the percentage is undefined.
func (a MonthlyAggregate) Percentage() (pct float64, ok bool) {
	if a.Total == 0 {
		return 0, false
	}
	return float64(a.Present+a.Late) * 100 / float64(a.Total), true
}

// PercentDisplay renders the percentage for the monthly list. A month with
// zero records stays in the list with an explicit non-numeric indicator.
func (a MonthlyAggregate) PercentDisplay() string {
	pct, ok := a.Percentage()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// DailyRecord is one day's status inside a selected month.
type DailyRecord struct {
	Date   time.Time `json:"date"`
	Status Status    `json:"status"`
}

// Repository is the attendance backend collaborator.
type Repository interface {
	// FetchRoster returns the course roster for a date, in display order,
	// with any previously-saved statuses.
	FetchRoster(ctx context.Context, courseID uuid.UUID, date time.Time) ([]roster.MemberInfo[Status], error)
	CommitBatch(ctx context.Context, req roster.BatchRequest[Status]) (core.Ack, error)
	MonthlySummary(ctx context.Context, courseID uuid.UUID) ([]MonthlyAggregate, error)
	DailyDetail(ctx context.Context, courseID uuid.UUID, year int, month time.Month) ([]DailyRecord, error)
}
