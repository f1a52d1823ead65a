package roster

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func members(names ...string) []MemberInfo[string] {
	infos := make([]MemberInfo[string], 0, len(names))
	for _, name := range names {
		infos = append(infos, MemberInfo[string]{ID: uuid.New(), Name: name})
	}
	return infos
}

func TestStore_Load(t *testing.T) {
	infos := members("Amina", "Ben", "Cheng")
	s := NewStore[string]()
	s.Load(infos, "present")

	snap := s.Snapshot()
	if len(snap) != len(infos) {
		t.Fatalf("Snapshot() length = %d; want %d", len(snap), len(infos))
	}
	for i, e := range snap {
		assert.Equal(t, infos[i].ID, e.MemberID) // insertion order = fetch order
		assert.Equal(t, infos[i].Name, e.Name)
		assert.Equal(t, "present", e.Value)
		assert.False(t, e.Dirty)
	}
}

func TestStore_Load_savedValuesOverrideDefault(t *testing.T) {
	saved := "absent"
	infos := members("Amina", "Ben")
	infos[1].Saved = &saved

	s := NewStore[string]()
	s.Load(infos, "present")

	snap := s.Snapshot()
	assert.Equal(t, "present", snap[0].Value)
	assert.Equal(t, "absent", snap[1].Value)
	assert.False(t, snap[1].Dirty, "a saved value is not an operator edit")
}

func TestStore_Load_replacesWholesale(t *testing.T) {
	s := NewStore[string]()
	s.Load(members("Amina", "Ben"), "present")
	if err := s.SetValue(s.Snapshot()[0].MemberID, "late"); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}

	fresh := members("Dana")
	s.Load(fresh, "present")

	snap := s.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("Snapshot() length = %d; want 1 (no merge with prior roster)", len(snap))
	}
	assert.Equal(t, fresh[0].ID, snap[0].MemberID)
	assert.Equal(t, "present", snap[0].Value)
}

func TestStore_Load_duplicateIDsLastWins(t *testing.T) {
	id := uuid.New()
	saved := "late"
	infos := []MemberInfo[string]{
		{ID: id, Name: "First"},
		{ID: id, Name: "Second", Saved: &saved},
	}

	s := NewStore[string]()
	s.Load(infos, "present")

	assert.Equal(t, 1, s.Len())
	snap := s.Snapshot()
	assert.Equal(t, "Second", snap[0].Name)
	assert.Equal(t, "late", snap[0].Value)
}

func TestStore_SetValue(t *testing.T) {
	infos := members("Amina", "Ben", "Cheng")
	s := NewStore[string]()
	s.Load(infos, "present")

	if err := s.SetValue(infos[1].ID, "absent"); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}

	snap := s.Snapshot()
	assert.Equal(t, "present", snap[0].Value)
	assert.Equal(t, "absent", snap[1].Value)
	assert.Equal(t, "present", snap[2].Value)
	assert.True(t, snap[1].Dirty)
	assert.False(t, snap[0].Dirty)
}

func TestStore_SetValue_staleRef(t *testing.T) {
	s := NewStore[string]()
	s.Load(members("Amina"), "present")

	err := s.SetValue(uuid.New(), "absent")
	assert.True(t, errors.Is(err, ErrStaleRef))

	// the roster is untouched
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "present", s.Snapshot()[0].Value)
}

func TestStore_SetAll(t *testing.T) {
	infos := members("Amina", "Ben", "Cheng")
	s := NewStore[string]()
	s.Load(infos, "absent")
	if err := s.SetValue(infos[0].ID, "late"); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}

	s.SetAll("present")

	for _, e := range s.Snapshot() {
		assert.Equal(t, "present", e.Value)
		assert.True(t, e.Dirty)
	}
}

func TestStore_SetAll_emptyRoster(t *testing.T) {
	s := NewStore[string]()
	s.Load(nil, "present")
	s.SetAll("absent")
	assert.Empty(t, s.Snapshot())
}

// last-write-wins per key, whatever the interleaving of SetValue and SetAll.
func TestStore_lastWriteWins(t *testing.T) {
	infos := members("Amina", "Ben", "Cheng")
	s := NewStore[string]()
	s.Load(infos, "present")

	if err := s.SetValue(infos[0].ID, "absent"); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}
	s.SetAll("late")
	if err := s.SetValue(infos[2].ID, "absent"); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}

	snap := s.Snapshot()
	assert.Equal(t, "late", snap[0].Value)
	assert.Equal(t, "late", snap[1].Value)
	assert.Equal(t, "absent", snap[2].Value)
}

func TestStore_snapshotIsACopy(t *testing.T) {
	infos := members("Amina")
	s := NewStore[string]()
	s.Load(infos, "present")

	snap := s.Snapshot()
	snap[0].Value = "absent"

	assert.Equal(t, "present", s.Snapshot()[0].Value)
}
