package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Fixed fixture IDs so CLI walkthroughs can reference them across restarts.
var (
	SeedCourseID     = uuid.MustParse("0a0c1f66-9b3e-4b52-8f0e-0f4c3f1d2a01")
	SeedAssessmentID = uuid.MustParse("1b1d2f77-0c4f-4c63-9a1f-1a5d4a2e3b02")

	SeedFacultyID  = uuid.MustParse("2c2e3a88-1d5a-4d74-ab2a-2b6e5b3f4c03")
	SeedStudentIDs = []uuid.UUID{
		uuid.MustParse("3d3f4b99-2e6b-4e85-bc3b-3c7f6c4a5d04"),
		uuid.MustParse("4e4a5caa-3f7c-4f96-cd4c-4d8a7d5b6e05"),
		uuid.MustParse("5f5b6dbb-4a8d-4aa7-de5d-5e9b8e6c7f06"),
	}
)

type seedUser struct {
	id        uuid.UUID
	name      string
	username  string
	role      string
	suspended bool
}

// Seed populates the repository with a demo course, its roster, an
// assessment and the daily survey questions. All passwords are the
// username; this data never leaves a developer's machine.
func Seed(ctx context.Context, repo Repository) error {
	if _, err := repo.GetCourse(ctx, SeedCourseID); err == nil {
		return nil // already seeded
	}

	users := []seedUser{
		{SeedFacultyID, "Asha Iyer", "asha", "faculty", false},
		{SeedStudentIDs[0], "Ravi Kumar", "ravi", "student", false},
		{SeedStudentIDs[1], "Meena Pillai", "meena", "student", false},
		{SeedStudentIDs[2], "John Mathew", "john", "student", false},
		{uuid.New(), "Suspended Sam", "sam", "student", true},
		{uuid.New(), "Priya Nair", "priya", "admin", false},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.username), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hashing seed password")
		}
		err = repo.CreateUser(ctx, User{
			ID:           u.id,
			Name:         u.name,
			Username:     u.username,
			Role:         u.role,
			Suspended:    u.suspended,
			PasswordHash: hash,
		})
		if err != nil {
			return errors.Wrapf(err, "seeding user %s", u.username)
		}
	}

	if err := repo.CreateCourse(ctx, Course{ID: SeedCourseID, Name: "Data Structures"}); err != nil {
		return errors.Wrap(err, "seeding course")
	}
	for _, id := range SeedStudentIDs {
		if err := repo.Enroll(ctx, SeedCourseID, id); err != nil {
			return errors.Wrap(err, "seeding enrollment")
		}
	}

	err := repo.CreateAssessment(ctx, Assessment{
		ID:       SeedAssessmentID,
		CourseID: SeedCourseID,
		Name:     "Internal Exam 1",
		MaxMarks: 50,
	})
	if err != nil {
		return errors.Wrap(err, "seeding assessment")
	}

	questions := []SurveyQuestion{
		{
			ID:   uuid.New(),
			Text: "How are you feeling today?",
			Answers: []AnswerOption{
				{Text: "Great", Score: 5},
				{Text: "Okay", Score: 3},
				{Text: "Not good", Score: 1},
			},
		},
		{
			ID:   uuid.New(),
			Text: "How well did you sleep last night?",
			Answers: []AnswerOption{
				{Text: "Very well", Score: 5},
				{Text: "Average", Score: 3},
				{Text: "Poorly", Score: 1},
			},
		},
		{
			ID:   uuid.New(),
			Text: "How stressed do you feel about your coursework?",
			Answers: []AnswerOption{
				{Text: "Not at all", Score: 5},
				{Text: "Somewhat", Score: 3},
				{Text: "Very", Score: 1},
			},
		},
	}
	for _, q := range questions {
		if err = repo.CreateSurveyQuestion(ctx, q); err != nil {
			return errors.Wrap(err, "seeding survey question")
		}
	}
	return nil
}
