package credstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credential")
	store := NewFile(path)

	_, ok := store.Get()
	assert.False(t, ok, "absent before Set")

	if err := store.Set("raw-credential\n"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	raw, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "raw-credential", raw)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("os.Stat() failed: %v", err)
		}
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	_, ok = store.Get()
	assert.False(t, ok)

	// clearing an already-cleared store is not an error
	assert.NoError(t, store.Clear())
}

func TestFile_emptyFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("os.WriteFile() failed: %v", err)
	}
	_, ok := NewFile(path).Get()
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	store := NewMemory()
	_, ok := store.Get()
	assert.False(t, ok)

	if err := store.Set("raw"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	raw, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "raw", raw)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	_, ok = store.Get()
	assert.False(t, ok)
}
