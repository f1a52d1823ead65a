package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/storage/database"
)

type repository struct {
	db *DB
}

var _ database.Repository = (*repository)(nil) // interface compliance check

func NewRepository(db *DB) database.Repository {
	return &repository{db: db}
}

func (repo *repository) CreateUser(_ context.Context, usr database.User) error {
	repo.db.users.Lock()
	defer repo.db.users.Unlock()

	for _, u := range repo.db.users.table {
		if u.Username == usr.Username {
			return database.ErrExists
		}
	}
	repo.db.users.table[usr.ID] = &usr
	return nil
}

func (repo *repository) GetUser(_ context.Context, id uuid.UUID) (database.User, error) {
	repo.db.users.RLock()
	defer repo.db.users.RUnlock()

	if usr, ok := repo.db.users.table[id]; ok {
		return *usr, nil
	}
	return database.User{}, database.ErrNotFound
}

func (repo *repository) GetUserByUsername(_ context.Context, username string) (database.User, error) {
	repo.db.users.RLock()
	defer repo.db.users.RUnlock()

	for _, usr := range repo.db.users.table {
		if usr.Username == username {
			return *usr, nil
		}
	}
	return database.User{}, database.ErrNotFound
}

func (repo *repository) CreateCourse(_ context.Context, course database.Course) error {
	repo.db.courses.Lock()
	defer repo.db.courses.Unlock()

	if _, ok := repo.db.courses.table[course.ID]; ok {
		return database.ErrExists
	}
	repo.db.courses.table[course.ID] = &course
	return nil
}

func (repo *repository) GetCourse(_ context.Context, id uuid.UUID) (database.Course, error) {
	repo.db.courses.RLock()
	defer repo.db.courses.RUnlock()

	if course, ok := repo.db.courses.table[id]; ok {
		return *course, nil
	}
	return database.Course{}, database.ErrNotFound
}

func (repo *repository) Enroll(_ context.Context, courseID, studentID uuid.UUID) error {
	repo.db.courses.Lock()
	defer repo.db.courses.Unlock()

	if _, ok := repo.db.courses.table[courseID]; !ok {
		return database.ErrNotFound
	}
	for _, id := range repo.db.courses.enrollments[courseID] {
		if id == studentID {
			return database.ErrExists
		}
	}
	repo.db.courses.enrollments[courseID] = append(repo.db.courses.enrollments[courseID], studentID)
	return nil
}

func (repo *repository) CourseRoster(ctx context.Context, courseID uuid.UUID) ([]database.User, error) {
	repo.db.courses.RLock()
	ids := append([]uuid.UUID(nil), repo.db.courses.enrollments[courseID]...)
	repo.db.courses.RUnlock()

	users := make([]database.User, 0, len(ids))
	for _, id := range ids {
		usr, err := repo.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, usr)
	}
	return users, nil
}

func (repo *repository) AttendanceForDate(_ context.Context, courseID uuid.UUID, date time.Time) ([]database.AttendanceRecord, error) {
	repo.db.attendance.RLock()
	defer repo.db.attendance.RUnlock()

	day := database.DateOnly(date).Format("2006-01-02")
	var recs []database.AttendanceRecord
	for key, rec := range repo.db.attendance.table {
		if key.course == courseID && key.date == day {
			recs = append(recs, *rec)
		}
	}
	return recs, nil
}

func (repo *repository) UpsertAttendance(_ context.Context, recs []database.AttendanceRecord) error {
	repo.db.attendance.Lock()
	defer repo.db.attendance.Unlock()

	for i := range recs {
		rec := recs[i]
		rec.Date = database.DateOnly(rec.Date)
		key := attendanceKey{course: rec.CourseID, student: rec.StudentID, date: rec.Date.Format("2006-01-02")}
		repo.db.attendance.table[key] = &rec
	}
	return nil
}

func (repo *repository) StudentAttendance(_ context.Context, courseID, studentID uuid.UUID) ([]database.AttendanceRecord, error) {
	repo.db.attendance.RLock()
	defer repo.db.attendance.RUnlock()

	var recs []database.AttendanceRecord
	for key, rec := range repo.db.attendance.table {
		if key.course == courseID && key.student == studentID {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
	return recs, nil
}

func (repo *repository) CreateAssessment(_ context.Context, a database.Assessment) error {
	repo.db.assessments.Lock()
	defer repo.db.assessments.Unlock()

	if _, ok := repo.db.assessments.table[a.ID]; ok {
		return database.ErrExists
	}
	repo.db.assessments.table[a.ID] = &a
	return nil
}

func (repo *repository) GetAssessment(_ context.Context, id uuid.UUID) (database.Assessment, error) {
	repo.db.assessments.RLock()
	defer repo.db.assessments.RUnlock()

	if a, ok := repo.db.assessments.table[id]; ok {
		return *a, nil
	}
	return database.Assessment{}, database.ErrNotFound
}

func (repo *repository) MarksFor(_ context.Context, assessmentID uuid.UUID) ([]database.MarkRecord, error) {
	repo.db.assessments.RLock()
	defer repo.db.assessments.RUnlock()

	var recs []database.MarkRecord
	for key, rec := range repo.db.assessments.marks {
		if key.assessment == assessmentID {
			recs = append(recs, *rec)
		}
	}
	return recs, nil
}

func (repo *repository) UpsertMarks(_ context.Context, recs []database.MarkRecord) error {
	repo.db.assessments.Lock()
	defer repo.db.assessments.Unlock()

	for i := range recs {
		rec := recs[i]
		repo.db.assessments.marks[markKey{assessment: rec.AssessmentID, student: rec.StudentID}] = &rec
	}
	return nil
}

func (repo *repository) CreateSurveyQuestion(_ context.Context, q database.SurveyQuestion) error {
	repo.db.survey.Lock()
	defer repo.db.survey.Unlock()

	repo.db.survey.questions = append(repo.db.survey.questions, q)
	return nil
}

func (repo *repository) SurveyQuestions(_ context.Context) ([]database.SurveyQuestion, error) {
	repo.db.survey.RLock()
	defer repo.db.survey.RUnlock()

	return append([]database.SurveyQuestion(nil), repo.db.survey.questions...), nil
}

func (repo *repository) HasSurveyResponse(_ context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	repo.db.survey.RLock()
	defer repo.db.survey.RUnlock()

	key := responseKey{user: userID, date: database.DateOnly(date).Format("2006-01-02")}
	_, ok := repo.db.survey.responses[key]
	return ok, nil
}

func (repo *repository) CreateSurveyResponse(_ context.Context, resp database.SurveyResponse) error {
	repo.db.survey.Lock()
	defer repo.db.survey.Unlock()

	resp.Date = database.DateOnly(resp.Date)
	key := responseKey{user: resp.UserID, date: resp.Date.Format("2006-01-02")}
	if _, ok := repo.db.survey.responses[key]; ok {
		return database.ErrExists
	}
	repo.db.survey.responses[key] = &resp
	return nil
}
