package draftstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yatra/internal/wizard"
)

// The two implementations must behave identically through the interface.
func stores(t *testing.T) map[string]wizard.DraftStore {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return map[string]wizard.DraftStore{
		"mem":  NewMemStore(),
		"file": fs,
	}
}

// TestRoundTrip tests put, get, overwrite and delete for both stores.
func TestRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := store.Get(ctx, "registration-draft:off-1"); err != nil || ok {
				t.Fatalf("expected empty slot, got ok=%v err=%v", ok, err)
			}

			if err := store.Put(ctx, "registration-draft:off-1", []byte(`{"step":3}`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, ok, err := store.Get(ctx, "registration-draft:off-1")
			if err != nil || !ok {
				t.Fatalf("get: ok=%v err=%v", ok, err)
			}
			if string(got) != `{"step":3}` {
				t.Errorf("expected stored value, got %s", got)
			}

			if err := store.Put(ctx, "registration-draft:off-1", []byte(`{"step":4}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _, _ = store.Get(ctx, "registration-draft:off-1")
			if string(got) != `{"step":4}` {
				t.Errorf("expected overwrite to win, got %s", got)
			}

			if err := store.Delete(ctx, "registration-draft:off-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := store.Get(ctx, "registration-draft:off-1"); ok {
				t.Error("expected slot gone after delete")
			}

			// Deleting a missing key is not an error.
			if err := store.Delete(ctx, "registration-draft:off-1"); err != nil {
				t.Errorf("delete missing: %v", err)
			}
		})
	}
}

// TestKeyIsolation tests that slots for different offerings never collide.
func TestKeyIsolation(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Put(ctx, "registration-draft:off-1", []byte("one")); err != nil {
				t.Fatal(err)
			}
			if err := store.Put(ctx, "registration-draft:off-2", []byte("two")); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, "registration-draft:off-1"); err != nil {
				t.Fatal(err)
			}
			got, ok, _ := store.Get(ctx, "registration-draft:off-2")
			if !ok || string(got) != "two" {
				t.Errorf("expected off-2 slot untouched, got ok=%v value=%s", ok, got)
			}
		})
	}
}

// TestMemStore_DefensiveCopies tests that callers cannot mutate a stored slot.
func TestMemStore_DefensiveCopies(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	in := []byte("original")
	if err := store.Put(ctx, "k", in); err != nil {
		t.Fatal(err)
	}
	in[0] = 'X'

	got, _, _ := store.Get(ctx, "k")
	if string(got) != "original" {
		t.Errorf("expected put to copy its input, got %s", got)
	}

	got[0] = 'Y'
	again, _, _ := store.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("expected get to return a copy, got %s", again)
	}

	if store.Len() != 1 {
		t.Errorf("expected 1 slot, got %d", store.Len())
	}
}

// TestFileStore_KeyEncoding tests that unsafe key characters stay inside the
// store directory.
func TestFileStore_KeyEncoding(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	key := "registration-draft:../../etc/passwd"
	if err := store.Put(ctx, key, []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one slot file in dir, got %d", len(entries))
	}
	name := entries[0].Name()
	if strings.ContainsAny(name, "/:.") && !strings.HasSuffix(name, ".json") {
		t.Errorf("expected hex-encoded filename, got %s", name)
	}
	if filepath.Dir(filepath.Join(dir, name)) != dir {
		t.Errorf("slot escaped the store directory: %s", name)
	}

	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok || string(got) != "x" {
		t.Errorf("round trip through encoded key failed: ok=%v err=%v value=%s", ok, err, got)
	}
}

// TestFileStore_SurvivesReopen tests durability across store instances.
func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := first.Put(ctx, "registration-draft:off-1", []byte("persisted")); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, ok, err := second.Get(ctx, "registration-draft:off-1")
	if err != nil || !ok || string(got) != "persisted" {
		t.Errorf("expected slot to survive reopen: ok=%v err=%v value=%s", ok, err, got)
	}
}
