package roster

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core"
)

// ErrSubmitInFlight rejects a second submit from the same Submitter while
// one is outstanding; re-submission is a deliberate user action, never
// automatic, since the commit is not proven idempotent server-side.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

type (
	// BatchEntry is one member's value on the wire.
	BatchEntry[V any] struct {
		MemberID uuid.UUID `json:"member_id"`
		Value    V         `json:"value"`
	}

	// BatchRequest is the full roster state committed as one atomic batch.
	// Built once from a Snapshot, immutable, submitted exactly once per
	// user-initiated submit.
	BatchRequest[V any] struct {
		ScopeID    uuid.UUID       `json:"scope_id"`
		ContextKey string          `json:"context_key"`
		Entries    []BatchEntry[V] `json:"entries"`
	}

	// Committer is the backing store's batch commit endpoint.
	Committer[V any] interface {
		CommitBatch(ctx context.Context, req BatchRequest[V]) (core.Ack, error)
	}

	// Submitter serializes a Snapshot into a BatchRequest and performs
	// exactly one commit call. On failure local state is untouched, so the
	// operator can fix the cause and re-submit without re-entering data.
	Submitter[V any] struct {
		committer Committer[V]
		inFlight  bool
	}
)

// NewBatchRequest builds the batch for a snapshot. Entries are a total
// function over the snapshot's members: every member, in roster order.
func NewBatchRequest[V any](scopeID uuid.UUID, contextKey string, snap Snapshot[V]) BatchRequest[V] {
	entries := make([]BatchEntry[V], 0, len(snap))
	for _, e := range snap {
		entries = append(entries, BatchEntry[V]{MemberID: e.MemberID, Value: e.Value})
	}
	return BatchRequest[V]{ScopeID: scopeID, ContextKey: contextKey, Entries: entries}
}

// Mapping reconstructs the member→value mapping carried by the request.
func (r BatchRequest[V]) Mapping() map[uuid.UUID]V {
	m := make(map[uuid.UUID]V, len(r.Entries))
	for _, e := range r.Entries {
		m[e.MemberID] = e.Value
	}
	return m
}

func NewSubmitter[V any](committer Committer[V]) *Submitter[V] {
	return &Submitter[V]{committer: committer}
}

func (s *Submitter[V]) Submit(ctx context.Context, scopeID uuid.UUID, contextKey string, snap Snapshot[V]) (core.Ack, error) {
	if s.inFlight {
		return core.Ack{}, ErrSubmitInFlight
	}
	s.inFlight = true
	defer func() { s.inFlight = false }()

	return s.committer.CommitBatch(ctx, NewBatchRequest(scopeID, contextKey, snap))
}

// InFlight reports whether a submit is outstanding; views disable their
// submit control on it.
func (s *Submitter[V]) InFlight() bool {
	return s.inFlight
}
