// Package database defines the local development backend's storage model
// and Repository contract, with two implementations: an in-memory dummy
// store and a Postgres store (sqlx).
package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrExists   = errors.New("record already exists")
)

type (
	User struct {
		ID           uuid.UUID `db:"id"`
		Name         string    `db:"name"`
		Username     string    `db:"username"`
		Role         string    `db:"role"`
		Suspended    bool      `db:"suspended"`
		PasswordHash []byte    `db:"password_hash"`
	}

	Course struct {
		ID   uuid.UUID `db:"id"`
		Name string    `db:"name"`
	}

	// AttendanceRecord is one student's status in a course on a date.
	// (course_id, student_id, date) is the natural key; committing the
	// same batch twice upserts in place.
	AttendanceRecord struct {
		CourseID  uuid.UUID `db:"course_id"`
		StudentID uuid.UUID `db:"student_id"`
		Date      time.Time `db:"date"`
		Status    string    `db:"status"`
	}

	Assessment struct {
		ID       uuid.UUID `db:"id"`
		CourseID uuid.UUID `db:"course_id"`
		Name     string    `db:"name"`
		MaxMarks float64   `db:"max_marks"`
	}

	MarkRecord struct {
		AssessmentID uuid.UUID `db:"assessment_id"`
		StudentID    uuid.UUID `db:"student_id"`
		Marks        float64   `db:"marks"`
	}

	AnswerOption struct {
		Text  string `json:"text"`
		Score int    `json:"score"`
	}

	SurveyQuestion struct {
		ID      uuid.UUID      `db:"id"`
		Text    string         `db:"text"`
		Answers []AnswerOption `db:"-"`
	}

	SurveyResponse struct {
		UserID   uuid.UUID `db:"user_id"`
		Date     time.Time `db:"date"`
		Score    int       `db:"score"`
		Comments string    `db:"comments"`
	}

	Repository interface {
		CreateUser(ctx context.Context, usr User) error
		GetUser(ctx context.Context, id uuid.UUID) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)

		CreateCourse(ctx context.Context, course Course) error
		GetCourse(ctx context.Context, id uuid.UUID) (Course, error)
		Enroll(ctx context.Context, courseID, studentID uuid.UUID) error
		// CourseRoster returns the enrolled students in enrollment order.
		CourseRoster(ctx context.Context, courseID uuid.UUID) ([]User, error)

		AttendanceForDate(ctx context.Context, courseID uuid.UUID, date time.Time) ([]AttendanceRecord, error)
		// UpsertAttendance applies a whole batch for one course+date
		// all-or-nothing.
		UpsertAttendance(ctx context.Context, recs []AttendanceRecord) error
		StudentAttendance(ctx context.Context, courseID, studentID uuid.UUID) ([]AttendanceRecord, error)

		CreateAssessment(ctx context.Context, a Assessment) error
		GetAssessment(ctx context.Context, id uuid.UUID) (Assessment, error)
		MarksFor(ctx context.Context, assessmentID uuid.UUID) ([]MarkRecord, error)
		UpsertMarks(ctx context.Context, recs []MarkRecord) error

		CreateSurveyQuestion(ctx context.Context, q SurveyQuestion) error
		SurveyQuestions(ctx context.Context) ([]SurveyQuestion, error)
		HasSurveyResponse(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
		CreateSurveyResponse(ctx context.Context, resp SurveyResponse) error
	}
)

// DateOnly normalizes a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
