package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core/access"
	"github.com/Hanish3/college-portal/core/survey"
)

// takeSurvey shows today's check-in questions, or submits when every
// question was answered with -answer pairs.
func (cli *commandLine) takeSurvey(answers []assignment, comments string) error {
	if _, err := cli.requireView(access.ViewSurvey); err != nil {
		return err
	}

	ctx := context.Background()
	gate := survey.NewGate(cli.client.Survey())
	status, err := gate.Enter(ctx)
	if err != nil {
		return err
	}
	if status == survey.StatusAlreadySubmitted {
		fmt.Fprintln(cli.out, "Already checked in today; see you tomorrow")
		return nil
	}

	for _, a := range answers {
		questionID, err := uuid.Parse(a.key)
		if err != nil {
			return fmt.Errorf("invalid question ID %q", a.key)
		}
		n, err := strconv.Atoi(a.value)
		if err != nil {
			return fmt.Errorf("invalid answer number %q", a.value)
		}
		question, err := findQuestion(gate.Questions(), questionID)
		if err != nil {
			return err
		}
		if n < 1 || n > len(question.Answers) {
			return fmt.Errorf("question %s has no answer %d", a.key, n)
		}
		if err = gate.SelectAnswer(questionID, question.Answers[n-1]); err != nil {
			return err
		}
	}

	for _, q := range gate.Questions() {
		fmt.Fprintf(cli.out, "%s\n  %s\n", q.ID, q.Text)
		for i, answer := range q.Answers {
			marker := " "
			if picked, ok := gate.AnswerFor(q.ID); ok && picked == answer {
				marker = "*"
			}
			fmt.Fprintf(cli.out, "  %s %d) %s\n", marker, i+1, answer.Text)
		}
	}

	if len(answers) == 0 {
		fmt.Fprintln(cli.out, "\nAnswer with: survey -answer QUESTION=N ... [-comments TEXT]")
		return nil
	}

	gate.SetComments(comments)
	ack, err := gate.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, ack.Message)
	return nil
}

func findQuestion(questions []survey.Question, id uuid.UUID) (survey.Question, error) {
	for _, q := range questions {
		if q.ID == id {
			return q, nil
		}
	}
	return survey.Question{}, fmt.Errorf("unknown question %s", id)
}
