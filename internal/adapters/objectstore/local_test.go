package objectstore

import (
	"context"
	"io"
	"strings"
	"testing"
)

// TestLocalStore_RoundTrip tests put and open through the returned path.
func TestLocalStore_RoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	path, err := store.Put(ctx, "upi.png", strings.NewReader("screenshot-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("expected extension preserved, got %s", path)
	}

	f, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "screenshot-bytes" {
		t.Errorf("expected content back, got %s", content)
	}
}

// TestLocalStore_UniqueNames tests that identical filenames never collide.
func TestLocalStore_UniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first, err := store.Put(ctx, "aadhaar.jpg", strings.NewReader("one"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Put(ctx, "aadhaar.jpg", strings.NewReader("two"))
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("expected distinct paths, got %s twice", first)
	}
}

// TestLocalStore_OversizedExtension tests that absurd extensions are dropped.
func TestLocalStore_OversizedExtension(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path, err := store.Put(context.Background(), "doc.thisextensionisfartoolong", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(path, "thisextension") {
		t.Errorf("expected extension dropped, got %s", path)
	}
}

// TestLocalStore_PathTraversal tests that open refuses escaping paths.
func TestLocalStore_PathTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, bad := range []string{"../secrets.txt", "../../etc/passwd", "/etc/passwd"} {
		if _, err := store.Open(context.Background(), bad); err == nil {
			t.Errorf("expected %q refused", bad)
		}
	}
}
