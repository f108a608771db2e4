package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"neeklo-backend/internal/shared/storage/object"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, err := store.Save(ctx, "visitor-1", "brief.txt", "text/plain", strings.NewReader("Сайт под ключ"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("Сайт под ключ")) {
		t.Fatalf("unexpected size: %d", size)
	}
	if !strings.HasSuffix(key, "_brief.txt") {
		t.Fatalf("unexpected key: %s", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "Сайт под ключ" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}

func TestSaveRejectsBadName(t *testing.T) {
	store := New(t.TempDir())
	if _, _, err := store.Save(context.Background(), "v", "../x", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatalf("expected invalid name error")
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Open(context.Background(), "2026/01/01/abc/missing.txt")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
