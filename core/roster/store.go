// Package roster implements the staging-and-batch-commit engine shared by
// the attendance and gradebook views: a roster of members is loaded with a
// per-member value, edited in local memory (single edits or bulk apply) and
// committed as one atomic batch.
//
// A Store belongs to exactly one view instance and is not safe for
// concurrent use; there is no shared roster cache.
package roster

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/google/uuid"
)

// ErrStaleRef is returned when a mutation references a member outside the
// current roster. It indicates the roster and the edit surface have
// desynchronized (e.g. a stale scope) and is a programmer-visible error,
// never swallowed.
var ErrStaleRef = errors.New("member not in current roster")

type (
	// MemberInfo is one row of a roster fetch: identity, display name and
	// the previously-saved value, if any.
	MemberInfo[V any] struct {
		ID    uuid.UUID
		Name  string
		Saved *V
	}

	member[V any] struct {
		id    uuid.UUID
		name  string
		value V
		dirty bool
	}

	// Entry is one member's current value in a Snapshot.
	Entry[V any] struct {
		MemberID uuid.UUID
		Name     string
		Value    V
		Dirty    bool
	}

	// Snapshot is a read-only copy of the roster at a point in time, in
	// fetch order.
	Snapshot[V any] []Entry[V]

	// Store is the in-memory staging area: one current value per member.
	Store[V any] struct {
		order   []uuid.UUID
		members map[uuid.UUID]*member[V]
	}
)

func NewStore[V any]() *Store[V] {
	return &Store[V]{members: make(map[uuid.UUID]*member[V])}
}

// Load initializes the roster wholesale, replacing any prior state.
// Every member gets def unless the fetch carried a previously-saved value;
// no member is ever left without a value. Duplicate ids are a degenerate
// input the caller should prevent upstream; last wins.
func (s *Store[V]) Load(infos []MemberInfo[V], def V) {
	s.order = make([]uuid.UUID, 0, len(infos))
	s.members = make(map[uuid.UUID]*member[V], len(infos))
	for _, info := range infos {
		value := def
		if info.Saved != nil {
			value = *info.Saved
		}
		if _, ok := s.members[info.ID]; !ok {
			s.order = append(s.order, info.ID)
		}
		s.members[info.ID] = &member[V]{id: info.ID, name: info.Name, value: value}
	}
}

// SetValue updates exactly one member and marks it dirty. Dirtiness is for
// audit only and never blocks submission.
func (s *Store[V]) SetValue(id uuid.UUID, value V) error {
	m, ok := s.members[id]
	if !ok {
		return pkgerrors.Wrap(ErrStaleRef, id.String())
	}
	m.value = value
	m.dirty = true
	return nil
}

// SetAll applies value to every member in one step. Observers only ever see
// the fully-old or fully-new roster: reads go through Snapshot copies.
func (s *Store[V]) SetAll(value V) {
	for _, id := range s.order {
		m := s.members[id]
		m.value = value
		m.dirty = true
	}
}

// Snapshot returns a read-only copy of the current roster state.
func (s *Store[V]) Snapshot() Snapshot[V] {
	out := make(Snapshot[V], 0, len(s.order))
	for _, id := range s.order {
		m := s.members[id]
		out = append(out, Entry[V]{MemberID: m.id, Name: m.name, Value: m.value, Dirty: m.dirty})
	}
	return out
}

func (s *Store[V]) Len() int {
	return len(s.order)
}
