package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core/access"
	"github.com/Hanish3/college-portal/core/attendance"
)

func (cli *commandLine) showHistory(courseID uuid.UUID, year int, month time.Month) error {
	if _, err := cli.requireView(access.ViewAttendanceHistory); err != nil {
		return err
	}

	ctx := context.Background()
	hist := attendance.NewHistory(cli.client.Attendance(), courseID)
	if err := hist.Open(ctx); err != nil {
		return err
	}
	defer hist.Close()

	months := hist.Months()
	if len(months) == 0 {
		fmt.Fprintln(cli.out, "No attendance recorded yet")
		return nil
	}
	fmt.Fprintln(cli.out, "Month       Present  Absent  Late  Attendance")
	for _, m := range months {
		fmt.Fprintf(cli.out, "%s %4d  %7d  %6d  %4d  %s\n",
			m.Month, m.Year, m.Present, m.Absent, m.Late, m.PercentDisplay())
	}

	if year == 0 && month == 0 {
		return nil
	}
	if year == 0 || month < time.January || month > time.December {
		return fmt.Errorf("-year and -month must be given together")
	}
	if err := hist.Select(ctx, year, month); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "\n%s %d:\n", month, year)
	for _, day := range hist.Days() {
		fmt.Fprintf(cli.out, "  %s  %s\n", day.Date.Format(attendance.DateLayout), day.Status)
	}
	return nil
}
