// Package dummydb is the in-memory Repository used by tests and by the
// mock API when no Postgres instance is around.
package dummydb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/storage/database"
)

type (
	DB struct {
		users       *userTable
		courses     *courseTable
		attendance  *attendanceTable
		assessments *assessmentTable
		survey      *surveyTable
	}

	userTable struct {
		sync.RWMutex
		table map[uuid.UUID]*database.User
	}

	courseTable struct {
		sync.RWMutex
		table map[uuid.UUID]*database.Course
		// enrollments keeps insertion order per course: the roster's
		// display order.
		enrollments map[uuid.UUID][]uuid.UUID
	}

	attendanceKey struct {
		course  uuid.UUID
		student uuid.UUID
		date    string // YYYY-MM-DD
	}

	attendanceTable struct {
		sync.RWMutex
		table map[attendanceKey]*database.AttendanceRecord
	}

	markKey struct {
		assessment uuid.UUID
		student    uuid.UUID
	}

	assessmentTable struct {
		sync.RWMutex
		table map[uuid.UUID]*database.Assessment
		marks map[markKey]*database.MarkRecord
	}

	responseKey struct {
		user uuid.UUID
		date string
	}

	surveyTable struct {
		sync.RWMutex
		questions []database.SurveyQuestion
		responses map[responseKey]*database.SurveyResponse
	}
)

func Open() (*DB, error) {
	db := &DB{
		users: &userTable{table: make(map[uuid.UUID]*database.User)},
		courses: &courseTable{
			table:       make(map[uuid.UUID]*database.Course),
			enrollments: make(map[uuid.UUID][]uuid.UUID),
		},
		attendance: &attendanceTable{table: make(map[attendanceKey]*database.AttendanceRecord)},
		assessments: &assessmentTable{
			table: make(map[uuid.UUID]*database.Assessment),
			marks: make(map[markKey]*database.MarkRecord),
		},
		survey: &surveyTable{responses: make(map[responseKey]*database.SurveyResponse)},
	}
	return db, nil
}
