// Package attendance implements the class-attendance views: the roster
// staging session used to take attendance, and the two-level monthly/daily
// drill-down used to read it back.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/roster"
)

// Session is one attendance-taking view: a course roster staged in memory
// for an effective date, committed as a single batch.
type Session struct {
	repo      Repository
	courseID  uuid.UUID
	date      time.Time
	store     *roster.Store[Status]
	submitter *roster.Submitter[Status]
	started   bool
}

func NewSession(repo Repository, courseID uuid.UUID, date time.Time) *Session {
	return &Session{
		repo:      repo,
		courseID:  courseID,
		date:      date.UTC(),
		store:     roster.NewStore[Status](),
		submitter: roster.NewSubmitter[Status](repo),
	}
}

// Start fetches the roster and stages every student: previously-saved
// statuses where they exist, StatusPresent otherwise.
func (s *Session) Start(ctx context.Context) error {
	infos, err := s.repo.FetchRoster(ctx, s.courseID, s.date)
	if err != nil {
		return err
	}
	s.store.Load(infos, StatusPresent)
	s.started = true
	return nil
}

// Mark stages one student's status.
func (s *Session) Mark(studentID uuid.UUID, status Status) error {
	if !status.Valid() {
		return core.NewValidationError(
			fmt.Errorf("unknown attendance status %q", status),
			core.FieldError{Field: "status", Error: "must be one of present, absent, late"},
		)
	}
	return s.store.SetValue(studentID, status)
}

// MarkAll stages the same status for the whole roster ("mark all present").
func (s *Session) MarkAll(status Status) error {
	if !status.Valid() {
		return core.NewValidationError(
			fmt.Errorf("unknown attendance status %q", status),
			core.FieldError{Field: "status", Error: "must be one of present, absent, late"},
		)
	}
	s.store.SetAll(status)
	return nil
}

// Roster is the current staged state, in fetch order.
func (s *Session) Roster() roster.Snapshot[Status] {
	return s.store.Snapshot()
}

// Submit commits the whole staged roster as one batch for the session's
// date. Staged edits survive a failed submit.
func (s *Session) Submit(ctx context.Context) (core.Ack, error) {
	return s.submitter.Submit(ctx, s.courseID, s.date.Format(DateLayout), s.store.Snapshot())
}

func (s *Session) CourseID() uuid.UUID { return s.courseID }
func (s *Session) Date() time.Time     { return s.date }
func (s *Session) Started() bool       { return s.started }
