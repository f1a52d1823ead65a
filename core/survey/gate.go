// Package survey implements the daily well-being survey view: a one-per-day
// submission gate over a randomized question set. Single-record rather than
// roster-shaped, but with the same stage-then-commit discipline.
package survey

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core"
)

// Status is the gate's state: Unknown until the same-day check resolves,
// then AlreadySubmitted or AwaitingAnswers, and Submitted after a
// successful submit (one-way for the rest of the session).
type Status int

const (
	StatusUnknown Status = iota
	StatusAlreadySubmitted
	StatusAwaitingAnswers
	StatusSubmitted
)

var (
	// ErrUnknownQuestion flags an answer to a question outside the fetched
	// set: the form and the question set have desynchronized.
	ErrUnknownQuestion = errors.New("question not in current survey")

	// ErrNotAwaiting rejects answers or submits outside AwaitingAnswers.
	ErrNotAwaiting = errors.New("survey is not awaiting answers")

	// ErrSubmitInFlight rejects overlapping submits from the same gate.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

type (
	// Answer is one selectable option of a question.
	Answer struct {
		Text  string `json:"text"`
		Score int    `json:"score"`
	}

	Question struct {
		ID      uuid.UUID `json:"id"`
		Text    string    `json:"text"`
		Answers []Answer  `json:"answers"`
	}

	// Response pairs a question with the single chosen answer.
	Response struct {
		QuestionID uuid.UUID `json:"question_id"`
		Answer     Answer    `json:"answer"`
	}

	// Submission is the full survey payload committed in one call.
	Submission struct {
		Responses []Response `json:"responses"`
		Comments  string     `json:"comments"`
	}

	// Repository is the survey backend collaborator.
	Repository interface {
		// CheckToday reports whether the caller already submitted today.
		CheckToday(ctx context.Context) (bool, error)
		// FetchQuestions returns the randomized question set.
		FetchQuestions(ctx context.Context) ([]Question, error)
		SubmitResponses(ctx context.Context, sub Submission) (core.Ack, error)
	}

	// Gate owns one survey view's state. Not safe for concurrent use;
	// each view owns its own Gate.
	Gate struct {
		repo      Repository
		status    Status
		questions []Question
		answers   map[uuid.UUID]Answer
		comments  string
		inFlight  bool
	}
)

func NewGate(repo Repository) *Gate {
	return &Gate{repo: repo, answers: make(map[uuid.UUID]Answer)}
}

// Enter resolves the gate's state: the same-day check first, then (only
// when awaiting answers) a single fetch of the randomized questions.
// Re-entering an already-resolved gate is a no-op: the question set is
// never re-randomized within a view's lifetime.
func (g *Gate) Enter(ctx context.Context) (Status, error) {
	if g.status != StatusUnknown {
		return g.status, nil
	}
	submitted, err := g.repo.CheckToday(ctx)
	if err != nil {
		return StatusUnknown, err
	}
	if submitted {
		g.status = StatusAlreadySubmitted
		return g.status, nil
	}
	questions, err := g.repo.FetchQuestions(ctx)
	if err != nil {
		return StatusUnknown, err
	}
	g.questions = questions
	g.status = StatusAwaitingAnswers
	return g.status, nil
}

func (g *Gate) Status() Status        { return g.status }
func (g *Gate) Questions() []Question { return g.questions }
func (g *Gate) Answered() int         { return len(g.answers) }

// SelectAnswer stores exactly one chosen answer for a question,
// overwriting any prior choice (single-select).
func (g *Gate) SelectAnswer(questionID uuid.UUID, answer Answer) error {
	if g.status != StatusAwaitingAnswers {
		return ErrNotAwaiting
	}
	question, ok := g.question(questionID)
	if !ok {
		return pkgerrors.Wrap(ErrUnknownQuestion, questionID.String())
	}
	if !containsAnswer(question.Answers, answer) {
		return core.NewValidationError(
			fmt.Errorf("answer %q is not an option of this question", answer.Text),
			core.FieldError{Field: "answer", Error: "choose one of the listed answers"},
		)
	}
	g.answers[questionID] = answer
	return nil
}

// AnswerFor returns the chosen answer for a question, if any.
func (g *Gate) AnswerFor(questionID uuid.UUID) (Answer, bool) {
	a, ok := g.answers[questionID]
	return a, ok
}

func (g *Gate) SetComments(comments string) {
	g.comments = core.CleanString(comments)
}

// Submit commits the survey. It requires every question to carry exactly
// one chosen answer; the validation failure names what is missing rather
// than silently blocking. On success the gate transitions one-way to
// Submitted. Tomorrow's eligibility is the backend's call, re-evaluated by
// the next view entry's CheckToday; it is never tracked client-side
// across days.
func (g *Gate) Submit(ctx context.Context) (core.Ack, error) {
	if g.status != StatusAwaitingAnswers {
		return core.Ack{}, ErrNotAwaiting
	}
	if g.inFlight {
		return core.Ack{}, ErrSubmitInFlight
	}
	if len(g.answers) != len(g.questions) {
		missing := len(g.questions) - len(g.answers)
		return core.Ack{}, core.NewValidationError(
			fmt.Errorf("%d of %d questions answered", len(g.answers), len(g.questions)),
			core.FieldError{Field: "responses", Error: fmt.Sprintf("%d question(s) still unanswered", missing)},
		)
	}
	g.inFlight = true
	defer func() { g.inFlight = false }()

	sub := Submission{Responses: make([]Response, 0, len(g.questions)), Comments: g.comments}
	for _, q := range g.questions {
		sub.Responses = append(sub.Responses, Response{QuestionID: q.ID, Answer: g.answers[q.ID]})
	}
	ack, err := g.repo.SubmitResponses(ctx, sub)
	if err != nil {
		return core.Ack{}, err
	}
	g.status = StatusSubmitted
	return ack, nil
}

func (g *Gate) question(id uuid.UUID) (Question, bool) {
	for _, q := range g.questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func containsAnswer(options []Answer, answer Answer) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
