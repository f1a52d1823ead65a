package apiclient

import (
	"context"
	"net/http"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/survey"
)

type SurveyRepository struct {
	c *Client
}

var _ survey.Repository = (*SurveyRepository)(nil) // interface compliance check

func (c *Client) Survey() *SurveyRepository {
	return &SurveyRepository{c: c}
}

func (r *SurveyRepository) CheckToday(ctx context.Context) (bool, error) {
	var out struct {
		Submitted bool `json:"submitted"`
	}
	if err := r.c.do(ctx, http.MethodGet, "/v1/survey/today", nil, nil, &out); err != nil {
		return false, err
	}
	return out.Submitted, nil
}

func (r *SurveyRepository) FetchQuestions(ctx context.Context) ([]survey.Question, error) {
	var questions []survey.Question
	err := r.c.do(ctx, http.MethodGet, "/v1/survey/questions", nil, nil, &questions)
	return questions, err
}

func (r *SurveyRepository) SubmitResponses(ctx context.Context, sub survey.Submission) (core.Ack, error) {
	var ack core.Ack
	err := r.c.do(ctx, http.MethodPost, "/v1/survey", nil, sub, &ack)
	return ack, err
}
