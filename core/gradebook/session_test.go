package gradebook

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/roster"
)

type fakeRepo struct {
	roster    []roster.MemberInfo[Mark]
	rosterErr error
	commits   []roster.BatchRequest[Mark]
	commitAck core.Ack
	commitErr error
}

func (f *fakeRepo) FetchRoster(context.Context, uuid.UUID, uuid.UUID) ([]roster.MemberInfo[Mark], error) {
	return f.roster, f.rosterErr
}

func (f *fakeRepo) CommitBatch(_ context.Context, req roster.BatchRequest[Mark]) (core.Ack, error) {
	f.commits = append(f.commits, req)
	return f.commitAck, f.commitErr
}

func markRoster(names ...string) []roster.MemberInfo[Mark] {
	infos := make([]roster.MemberInfo[Mark], 0, len(names))
	for _, name := range names {
		infos = append(infos, roster.MemberInfo[Mark]{ID: uuid.New(), Name: name})
	}
	return infos
}

func TestNewSession_rejectsNonPositiveMax(t *testing.T) {
	_, err := NewSession(&fakeRepo{}, uuid.New(), uuid.New(), 0)
	assert.True(t, core.IsValidationError(err))
	_, err = NewSession(&fakeRepo{}, uuid.New(), uuid.New(), -10)
	assert.True(t, core.IsValidationError(err))
}

func TestSession_Start(t *testing.T) {
	repo := &fakeRepo{roster: markRoster("Amina", "Ben")}
	saved := Mark(17.5)
	repo.roster[1].Saved = &saved

	s, err := NewSession(repo, uuid.New(), uuid.New(), 20)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	snap := s.Roster()
	assert.Equal(t, Mark(0), snap[0].Value)
	assert.Equal(t, Mark(17.5), snap[1].Value)
}

func TestSession_SetMark(t *testing.T) {
	repo := &fakeRepo{roster: markRoster("Amina")}
	s, err := NewSession(repo, uuid.New(), uuid.New(), 20)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	tests := []struct {
		name    string
		mark    Mark
		wantErr bool
	}{
		{name: "zero", mark: 0},
		{name: "max", mark: 20},
		{name: "fractional", mark: 12.5},
		{name: "negative", mark: -1, wantErr: true},
		{name: "above max", mark: 20.5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetMark(repo.roster[0].ID, tt.mark)
			if tt.wantErr {
				assert.True(t, core.IsValidationError(err))
				return
			}
			if err != nil {
				t.Fatalf("SetMark() failed: %v", err)
			}
			assert.Equal(t, tt.mark, s.Roster()[0].Value)
		})
	}

	assert.True(t, errors.Is(s.SetMark(uuid.New(), 5), roster.ErrStaleRef))
}

func TestSession_SetAllMarks(t *testing.T) {
	repo := &fakeRepo{roster: markRoster("Amina", "Ben", "Cheng")}
	s, err := NewSession(repo, uuid.New(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if err := s.SetAllMarks(10); err != nil {
		t.Fatalf("SetAllMarks() failed: %v", err)
	}
	for _, e := range s.Roster() {
		assert.Equal(t, Mark(10), e.Value)
	}

	assert.True(t, core.IsValidationError(s.SetAllMarks(11)))
}

func TestSession_Submit(t *testing.T) {
	repo := &fakeRepo{
		roster:    markRoster("Amina", "Ben"),
		commitAck: core.Ack{Message: "marks recorded"},
	}
	courseID, assessmentID := uuid.New(), uuid.New()
	s, err := NewSession(repo, courseID, assessmentID, 20)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := s.SetMark(repo.roster[0].ID, 18); err != nil {
		t.Fatalf("SetMark() failed: %v", err)
	}

	ack, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	assert.Equal(t, "marks recorded", ack.Message)

	req := repo.commits[0]
	assert.Equal(t, courseID, req.ScopeID)
	assert.Equal(t, assessmentID.String(), req.ContextKey)
	assert.Equal(t, Mark(18), req.Entries[0].Value)
	assert.Equal(t, Mark(0), req.Entries[1].Value)
	assert.Len(t, req.Entries, len(s.Roster()))
}
