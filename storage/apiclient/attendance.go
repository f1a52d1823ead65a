package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/attendance"
	"github.com/Hanish3/college-portal/core/roster"
)

type AttendanceRepository struct {
	c *Client
}

var _ attendance.Repository = (*AttendanceRepository)(nil) // interface compliance check

func (c *Client) Attendance() *AttendanceRepository {
	return &AttendanceRepository{c: c}
}

type attendanceRosterRow struct {
	StudentID uuid.UUID          `json:"student_id"`
	Name      string             `json:"name"`
	Status    *attendance.Status `json:"status"`
}

func (r *AttendanceRepository) FetchRoster(ctx context.Context, courseID uuid.UUID, date time.Time) ([]roster.MemberInfo[attendance.Status], error) {
	query := url.Values{"date": []string{date.Format(attendance.DateLayout)}}
	var rows []attendanceRosterRow
	if err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/courses/%s/roster", courseID), query, nil, &rows); err != nil {
		return nil, err
	}
	infos := make([]roster.MemberInfo[attendance.Status], 0, len(rows))
	for _, row := range rows {
		infos = append(infos, roster.MemberInfo[attendance.Status]{ID: row.StudentID, Name: row.Name, Saved: row.Status})
	}
	return infos, nil
}

func (r *AttendanceRepository) CommitBatch(ctx context.Context, req roster.BatchRequest[attendance.Status]) (core.Ack, error) {
	in := struct {
		Date    string                                 `json:"date"`
		Entries []roster.BatchEntry[attendance.Status] `json:"entries"`
	}{Date: req.ContextKey, Entries: req.Entries}
	var ack core.Ack
	err := r.c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/courses/%s/attendance", req.ScopeID), nil, in, &ack)
	return ack, err
}

func (r *AttendanceRepository) MonthlySummary(ctx context.Context, courseID uuid.UUID) ([]attendance.MonthlyAggregate, error) {
	var months []attendance.MonthlyAggregate
	err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/courses/%s/attendance/months", courseID), nil, nil, &months)
	return months, err
}

func (r *AttendanceRepository) DailyDetail(ctx context.Context, courseID uuid.UUID, year int, month time.Month) ([]attendance.DailyRecord, error) {
	query := url.Values{
		"year":  []string{strconv.Itoa(year)},
		"month": []string{strconv.Itoa(int(month))},
	}
	var days []attendance.DailyRecord
	err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/courses/%s/attendance/days", courseID), query, nil, &days)
	return days, err
}
