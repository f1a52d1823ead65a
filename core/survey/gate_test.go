package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Hanish3/college-portal/core"
)

type fakeRepo struct {
	submittedToday bool
	checkErr       error
	checkCalls     int

	questions    []Question
	questionsErr error
	fetchCalls   int

	submissions []Submission
	submitAck   core.Ack
	submitErr   error
}

func (f *fakeRepo) CheckToday(context.Context) (bool, error) {
	f.checkCalls++
	return f.submittedToday, f.checkErr
}

func (f *fakeRepo) FetchQuestions(context.Context) ([]Question, error) {
	f.fetchCalls++
	return f.questions, f.questionsErr
}

func (f *fakeRepo) SubmitResponses(_ context.Context, sub Submission) (core.Ack, error) {
	f.submissions = append(f.submissions, sub)
	return f.submitAck, f.submitErr
}

var moodAnswers = []Answer{
	{Text: "Not at all", Score: 0},
	{Text: "Sometimes", Score: 1},
	{Text: "Often", Score: 2},
}

func questions(n int) []Question {
	qs := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, Question{ID: uuid.New(), Text: "How did you feel today?", Answers: moodAnswers})
	}
	return qs
}

func TestGate_Enter_alreadySubmitted(t *testing.T) {
	repo := &fakeRepo{submittedToday: true, questions: questions(3)}
	g := NewGate(repo)

	status, err := g.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	assert.Equal(t, StatusAlreadySubmitted, status)
	assert.Zero(t, repo.fetchCalls, "no question fetch when already submitted")
	assert.Empty(t, g.Questions())
}

func TestGate_Enter_awaitingAnswers(t *testing.T) {
	repo := &fakeRepo{questions: questions(3)}
	g := NewGate(repo)

	status, err := g.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	assert.Equal(t, StatusAwaitingAnswers, status)
	assert.Len(t, g.Questions(), 3)

	// re-entry does not re-randomize: the fetch happened exactly once
	if _, err := g.Enter(context.Background()); err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	assert.Equal(t, 1, repo.fetchCalls)
	assert.Equal(t, 1, repo.checkCalls)
}

func TestGate_Enter_checkFailure(t *testing.T) {
	repo := &fakeRepo{checkErr: errors.New("backend unavailable")}
	g := NewGate(repo)

	status, err := g.Enter(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StatusUnknown, status)

	// the gate stays resolvable once the backend recovers
	repo.checkErr = nil
	repo.questions = questions(2)
	status, err = g.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	assert.Equal(t, StatusAwaitingAnswers, status)
}

func TestGate_SelectAnswer(t *testing.T) {
	repo := &fakeRepo{questions: questions(2)}
	g := NewGate(repo)
	if _, err := g.Enter(context.Background()); err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	qid := repo.questions[0].ID

	if err := g.SelectAnswer(qid, moodAnswers[0]); err != nil {
		t.Fatalf("SelectAnswer() failed: %v", err)
	}
	assert.Equal(t, 1, g.Answered())

	// single-select: a later choice overwrites the prior one
	if err := g.SelectAnswer(qid, moodAnswers[2]); err != nil {
		t.Fatalf("SelectAnswer() failed: %v", err)
	}
	assert.Equal(t, 1, g.Answered())
	chosen, ok := g.AnswerFor(qid)
	assert.True(t, ok)
	assert.Equal(t, moodAnswers[2], chosen)

	// unknown question
	err := g.SelectAnswer(uuid.New(), moodAnswers[0])
	assert.True(t, errors.Is(err, ErrUnknownQuestion))

	// answer outside the question's options
	err = g.SelectAnswer(qid, Answer{Text: "Maybe", Score: 9})
	assert.True(t, core.IsValidationError(err))
}

func TestGate_SelectAnswer_beforeEnter(t *testing.T) {
	g := NewGate(&fakeRepo{})
	err := g.SelectAnswer(uuid.New(), moodAnswers[0])
	assert.Equal(t, ErrNotAwaiting, err)
}

func TestGate_Submit_requiresTotalCoverage(t *testing.T) {
	repo := &fakeRepo{questions: questions(3)}
	g := NewGate(repo)
	if _, err := g.Enter(context.Background()); err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}

	// rejected for every partial answer set
	for i, q := range repo.questions {
		_, err := g.Submit(context.Background())
		assert.True(t, core.IsValidationError(err), "partial set of %d answers must be rejected", i)
		assert.Empty(t, repo.submissions)
		if err := g.SelectAnswer(q.ID, moodAnswers[1]); err != nil {
			t.Fatalf("SelectAnswer() failed: %v", err)
		}
	}

	// accepted only at full coverage
	g.SetComments("  long week  ")
	ack, err := g.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	assert.Equal(t, repo.submitAck, ack)
	assert.Equal(t, StatusSubmitted, g.Status())

	sub := repo.submissions[0]
	assert.Len(t, sub.Responses, 3)
	for i, r := range sub.Responses {
		assert.Equal(t, repo.questions[i].ID, r.QuestionID) // question order preserved
		assert.Equal(t, moodAnswers[1], r.Answer)
	}
	assert.Equal(t, "long week", sub.Comments)
}

func TestGate_Submit_oneWayTransition(t *testing.T) {
	repo := &fakeRepo{questions: questions(1), submitAck: core.Ack{Message: "thanks"}}
	g := NewGate(repo)
	if _, err := g.Enter(context.Background()); err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	if err := g.SelectAnswer(repo.questions[0].ID, moodAnswers[0]); err != nil {
		t.Fatalf("SelectAnswer() failed: %v", err)
	}
	if _, err := g.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	// submitted is final for the session: no more answers, no re-submit
	_, err := g.Submit(context.Background())
	assert.Equal(t, ErrNotAwaiting, err)
	assert.Equal(t, ErrNotAwaiting, g.SelectAnswer(repo.questions[0].ID, moodAnswers[1]))

	status, err := g.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	assert.Equal(t, StatusSubmitted, status)
	assert.Len(t, repo.submissions, 1)
}

func TestGate_Submit_failureKeepsAnswers(t *testing.T) {
	repo := &fakeRepo{questions: questions(2), submitErr: errors.New("survey closed for today")}
	g := NewGate(repo)
	if _, err := g.Enter(context.Background()); err != nil {
		t.Fatalf("Enter() failed: %v", err)
	}
	for _, q := range repo.questions {
		if err := g.SelectAnswer(q.ID, moodAnswers[2]); err != nil {
			t.Fatalf("SelectAnswer() failed: %v", err)
		}
	}

	_, err := g.Submit(context.Background())
	assert.EqualError(t, err, "survey closed for today")
	assert.Equal(t, StatusAwaitingAnswers, g.Status(), "failed submit does not advance the gate")
	assert.Equal(t, 2, g.Answered(), "answers preserved for a retry")

	repo.submitErr = nil
	if _, err := g.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() retry failed: %v", err)
	}
	assert.Equal(t, StatusSubmitted, g.Status())
}
