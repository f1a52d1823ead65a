package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core/access"
	"github.com/Hanish3/college-portal/core/gradebook"
)

func (cli *commandLine) editGradebook(courseID, assessmentID uuid.UUID, max float64, sets []assignment) error {
	if _, err := cli.requireView(access.ViewGradebook); err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := gradebook.NewSession(cli.client.Gradebook(), courseID, assessmentID, gradebook.Mark(max))
	if err != nil {
		return err
	}
	if err = sess.Start(ctx); err != nil {
		return err
	}

	for _, set := range sets {
		studentID, err := uuid.Parse(set.key)
		if err != nil {
			return fmt.Errorf("invalid student ID %q", set.key)
		}
		marks, err := strconv.ParseFloat(set.value, 64)
		if err != nil {
			return fmt.Errorf("invalid marks %q", set.value)
		}
		if err = sess.SetMark(studentID, gradebook.Mark(marks)); err != nil {
			return err
		}
	}

	fmt.Fprintf(cli.out, "Marks (out of %g):\n", float64(sess.Max()))
	for _, entry := range sess.Roster() {
		marker := " "
		if entry.Dirty {
			marker = "*"
		}
		fmt.Fprintf(cli.out, "  %s %-20s %g\n", marker, entry.Name, float64(entry.Value))
	}

	if len(sets) == 0 {
		return nil
	}
	ack, err := sess.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, ack.Message)
	return nil
}
