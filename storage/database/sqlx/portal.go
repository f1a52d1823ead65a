// Package sqlxrepos is the Postgres-backed Repository for the mock API,
// letting local fixtures survive restarts.
package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Hanish3/college-portal/storage/database"
)

type repository struct {
	db *sqlx.DB
}

var _ database.Repository = (*repository)(nil) // interface compliance check

func NewRepository(db *sql.DB) database.Repository {
	return &repository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *repository) CreateUser(ctx context.Context, usr database.User) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO users (id, name, username, role, suspended, password_hash) VALUES ($1, $2, $3, $4, $5, $6)`,
		usr.ID, usr.Name, usr.Username, usr.Role, usr.Suspended, usr.PasswordHash,
	)
	return errors.Wrap(err, "creating user")
}

func (repo *repository) GetUser(ctx context.Context, id uuid.UUID) (database.User, error) {
	var usr database.User
	err := repo.db.GetContext(ctx, &usr, `SELECT * FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return database.User{}, database.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user")
}

func (repo *repository) GetUserByUsername(ctx context.Context, username string) (database.User, error) {
	var usr database.User
	err := repo.db.GetContext(ctx, &usr, `SELECT * FROM users WHERE username = $1`, username)
	if err == sql.ErrNoRows {
		return database.User{}, database.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user by username")
}

func (repo *repository) CreateCourse(ctx context.Context, course database.Course) error {
	_, err := repo.db.ExecContext(ctx, `INSERT INTO courses (id, name) VALUES ($1, $2)`, course.ID, course.Name)
	return errors.Wrap(err, "creating course")
}

func (repo *repository) GetCourse(ctx context.Context, id uuid.UUID) (database.Course, error) {
	var course database.Course
	err := repo.db.GetContext(ctx, &course, `SELECT * FROM courses WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return database.Course{}, database.ErrNotFound
	}
	return course, errors.Wrap(err, "getting course")
}

func (repo *repository) Enroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO enrollments (course_id, student_id) VALUES ($1, $2)`, courseID, studentID)
	return errors.Wrap(err, "enrolling student")
}

func (repo *repository) CourseRoster(ctx context.Context, courseID uuid.UUID) ([]database.User, error) {
	var users []database.User
	err := repo.db.SelectContext(ctx, &users,
		`SELECT u.* FROM users u
		   JOIN enrollments e ON e.student_id = u.id
		  WHERE e.course_id = $1
		  ORDER BY e.position`, courseID)
	return users, errors.Wrap(err, "querying course roster")
}

func (repo *repository) AttendanceForDate(ctx context.Context, courseID uuid.UUID, date time.Time) ([]database.AttendanceRecord, error) {
	var recs []database.AttendanceRecord
	err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM attendance_records WHERE course_id = $1 AND date = $2`,
		courseID, database.DateOnly(date))
	return recs, errors.Wrap(err, "querying attendance")
}

func (repo *repository) UpsertAttendance(ctx context.Context, recs []database.AttendanceRecord) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning attendance batch")
	}
	for _, rec := range recs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attendance_records (course_id, student_id, date, status)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (course_id, student_id, date) DO UPDATE SET status = EXCLUDED.status`,
			rec.CourseID, rec.StudentID, database.DateOnly(rec.Date), rec.Status)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "upserting attendance record")
		}
	}
	return errors.Wrap(tx.Commit(), "committing attendance batch")
}

func (repo *repository) StudentAttendance(ctx context.Context, courseID, studentID uuid.UUID) ([]database.AttendanceRecord, error) {
	var recs []database.AttendanceRecord
	err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM attendance_records
		  WHERE course_id = $1 AND student_id = $2
		  ORDER BY date`, courseID, studentID)
	return recs, errors.Wrap(err, "querying student attendance")
}

func (repo *repository) CreateAssessment(ctx context.Context, a database.Assessment) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO assessments (id, course_id, name, max_marks) VALUES ($1, $2, $3, $4)`,
		a.ID, a.CourseID, a.Name, a.MaxMarks)
	return errors.Wrap(err, "creating assessment")
}

func (repo *repository) GetAssessment(ctx context.Context, id uuid.UUID) (database.Assessment, error) {
	var a database.Assessment
	err := repo.db.GetContext(ctx, &a, `SELECT * FROM assessments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return database.Assessment{}, database.ErrNotFound
	}
	return a, errors.Wrap(err, "getting assessment")
}

func (repo *repository) MarksFor(ctx context.Context, assessmentID uuid.UUID) ([]database.MarkRecord, error) {
	var recs []database.MarkRecord
	err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM mark_records WHERE assessment_id = $1`, assessmentID)
	return recs, errors.Wrap(err, "querying marks")
}

func (repo *repository) UpsertMarks(ctx context.Context, recs []database.MarkRecord) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning marks batch")
	}
	for _, rec := range recs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO mark_records (assessment_id, student_id, marks)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (assessment_id, student_id) DO UPDATE SET marks = EXCLUDED.marks`,
			rec.AssessmentID, rec.StudentID, rec.Marks)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "upserting mark record")
		}
	}
	return errors.Wrap(tx.Commit(), "committing marks batch")
}

func (repo *repository) CreateSurveyQuestion(ctx context.Context, q database.SurveyQuestion) error {
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return errors.Wrap(err, "encoding answers")
	}
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO survey_questions (id, text, answers) VALUES ($1, $2, $3)`, q.ID, q.Text, answers)
	return errors.Wrap(err, "creating survey question")
}

func (repo *repository) SurveyQuestions(ctx context.Context) ([]database.SurveyQuestion, error) {
	rows, err := repo.db.QueryxContext(ctx, `SELECT id, text, answers FROM survey_questions`)
	if err != nil {
		return nil, errors.Wrap(err, "querying survey questions")
	}
	defer func() { _ = rows.Close() }()

	var questions []database.SurveyQuestion
	for rows.Next() {
		var (
			q       database.SurveyQuestion
			answers []byte
		)
		if err = rows.Scan(&q.ID, &q.Text, &answers); err != nil {
			return nil, errors.Wrap(err, "scanning survey question")
		}
		if err = json.Unmarshal(answers, &q.Answers); err != nil {
			return nil, errors.Wrap(err, "decoding answers")
		}
		questions = append(questions, q)
	}
	return questions, errors.Wrap(rows.Err(), "iterating survey questions")
}

func (repo *repository) HasSurveyResponse(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM survey_responses WHERE user_id = $1 AND date = $2)`,
		userID, database.DateOnly(date))
	return exists, errors.Wrap(err, "checking survey response")
}

func (repo *repository) CreateSurveyResponse(ctx context.Context, resp database.SurveyResponse) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO survey_responses (user_id, date, score, comments) VALUES ($1, $2, $3, $4)`,
		resp.UserID, database.DateOnly(resp.Date), resp.Score, null.NewString(resp.Comments, resp.Comments != ""))
	return errors.Wrap(err, "creating survey response")
}
