package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core/access"
	"github.com/Hanish3/college-portal/core/attendance"
)

// takeAttendance loads the day's roster and, when -all/-set were given,
// stages the edits and commits the whole sheet in one batch.
func (cli *commandLine) takeAttendance(courseID uuid.UUID, date time.Time, all string, sets []assignment) error {
	if _, err := cli.requireView(access.ViewTakeAttendance); err != nil {
		return err
	}

	ctx := context.Background()
	sess := attendance.NewSession(cli.client.Attendance(), courseID, date)
	if err := sess.Start(ctx); err != nil {
		return err
	}

	if all != "" {
		if err := sess.MarkAll(attendance.Status(all)); err != nil {
			return err
		}
	}
	for _, set := range sets {
		studentID, err := uuid.Parse(set.key)
		if err != nil {
			return fmt.Errorf("invalid student ID %q", set.key)
		}
		if err = sess.Mark(studentID, attendance.Status(set.value)); err != nil {
			return err
		}
	}

	fmt.Fprintf(cli.out, "Attendance for %s:\n", date.Format(attendance.DateLayout))
	for _, entry := range sess.Roster() {
		marker := " "
		if entry.Dirty {
			marker = "*"
		}
		fmt.Fprintf(cli.out, "  %s %-20s %s\n", marker, entry.Name, entry.Value)
	}

	if all == "" && len(sets) == 0 {
		return nil
	}
	ack, err := sess.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, ack.Message)
	return nil
}
