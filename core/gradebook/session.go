// Package gradebook implements the marks-entry view: the same staging and
// batch-commit engine as attendance, instantiated over numeric marks and
// scoped to one assessment of a course.
package gradebook

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/roster"
)

// Mark is a student's score on an assessment.
type Mark float64

// Repository is the gradebook backend collaborator.
type Repository interface {
	// FetchRoster returns the assessment's student roster in display order,
	// with any previously-saved marks.
	FetchRoster(ctx context.Context, courseID, assessmentID uuid.UUID) ([]roster.MemberInfo[Mark], error)
	CommitBatch(ctx context.Context, req roster.BatchRequest[Mark]) (core.Ack, error)
}

// Session is one marks-entry view. Marks are staged locally and committed
// as a single batch; scope is the course, context key the assessment.
type Session struct {
	repo         Repository
	courseID     uuid.UUID
	assessmentID uuid.UUID
	max          Mark
	store        *roster.Store[Mark]
	submitter    *roster.Submitter[Mark]
	started      bool
}

func NewSession(repo Repository, courseID, assessmentID uuid.UUID, max Mark) (*Session, error) {
	if max <= 0 {
		return nil, core.NewValidationError(
			fmt.Errorf("invalid maximum marks %v", max),
			core.FieldError{Field: "max_marks", Error: "must be greater than zero"},
		)
	}
	return &Session{
		repo:         repo,
		courseID:     courseID,
		assessmentID: assessmentID,
		max:          max,
		store:        roster.NewStore[Mark](),
		submitter:    roster.NewSubmitter[Mark](repo),
	}, nil
}

// Start fetches the roster and stages every student: previously-saved marks
// where they exist, zero otherwise.
func (s *Session) Start(ctx context.Context) error {
	infos, err := s.repo.FetchRoster(ctx, s.courseID, s.assessmentID)
	if err != nil {
		return err
	}
	s.store.Load(infos, 0)
	s.started = true
	return nil
}

// SetMark stages one student's mark; it must lie within [0, max].
func (s *Session) SetMark(studentID uuid.UUID, mark Mark) error {
	if err := s.checkRange(mark); err != nil {
		return err
	}
	return s.store.SetValue(studentID, mark)
}

// SetAllMarks stages the same mark for the whole roster.
func (s *Session) SetAllMarks(mark Mark) error {
	if err := s.checkRange(mark); err != nil {
		return err
	}
	s.store.SetAll(mark)
	return nil
}

func (s *Session) checkRange(mark Mark) error {
	if mark < 0 || mark > s.max {
		return core.NewValidationError(
			fmt.Errorf("marks %v out of range", mark),
			core.FieldError{Field: "marks", Error: fmt.Sprintf("must be between 0 and %v", s.max)},
		)
	}
	return nil
}

// Roster is the current staged state, in fetch order.
func (s *Session) Roster() roster.Snapshot[Mark] {
	return s.store.Snapshot()
}

// Submit commits the whole staged gradebook as one batch. Staged marks
// survive a failed submit.
func (s *Session) Submit(ctx context.Context) (core.Ack, error) {
	return s.submitter.Submit(ctx, s.courseID, s.assessmentID.String(), s.store.Snapshot())
}

func (s *Session) Max() Mark     { return s.max }
func (s *Session) Started() bool { return s.started }
