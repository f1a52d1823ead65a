package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/gradebook"
	"github.com/Hanish3/college-portal/core/roster"
)

type GradebookRepository struct {
	c *Client
}

var _ gradebook.Repository = (*GradebookRepository)(nil) // interface compliance check

func (c *Client) Gradebook() *GradebookRepository {
	return &GradebookRepository{c: c}
}

type gradebookRosterRow struct {
	StudentID uuid.UUID       `json:"student_id"`
	Name      string          `json:"name"`
	Marks     *gradebook.Mark `json:"marks"`
}

func (r *GradebookRepository) FetchRoster(ctx context.Context, courseID, assessmentID uuid.UUID) ([]roster.MemberInfo[gradebook.Mark], error) {
	var rows []gradebookRosterRow
	path := fmt.Sprintf("/v1/courses/%s/assessments/%s/marks", courseID, assessmentID)
	if err := r.c.do(ctx, http.MethodGet, path, nil, nil, &rows); err != nil {
		return nil, err
	}
	infos := make([]roster.MemberInfo[gradebook.Mark], 0, len(rows))
	for _, row := range rows {
		infos = append(infos, roster.MemberInfo[gradebook.Mark]{ID: row.StudentID, Name: row.Name, Saved: row.Marks})
	}
	return infos, nil
}

func (r *GradebookRepository) CommitBatch(ctx context.Context, req roster.BatchRequest[gradebook.Mark]) (core.Ack, error) {
	in := struct {
		Entries []roster.BatchEntry[gradebook.Mark] `json:"entries"`
	}{Entries: req.Entries}
	var ack core.Ack
	path := fmt.Sprintf("/v1/courses/%s/assessments/%s/marks", req.ScopeID, req.ContextKey)
	err := r.c.do(ctx, http.MethodPost, path, nil, in, &ack)
	return ack, err
}
