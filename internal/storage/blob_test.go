package storage_test

import (
	"io"
	"strings"
	"testing"

	"github.com/localstore/storeapi/internal/storage"
)

func TestPutOpenRemove(t *testing.T) {
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	key, size, err := store.Put(strings.NewReader("hello blob"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if key == "" {
		t.Fatal("Expected a generated key")
	}
	if size != int64(len("hello blob")) {
		t.Errorf("Expected size %d, got %d", len("hello blob"), size)
	}

	r, err := store.Open(key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	content, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(content) != "hello blob" {
		t.Errorf("Expected round-tripped content, got %q", content)
	}

	if err := store.Remove(key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Open(key); err == nil {
		t.Error("Expected open of removed blob to fail")
	}
}

// Two puts of identical content still get distinct keys.
func TestPutDistinctKeys(t *testing.T) {
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	first, _, err := store.Put(strings.NewReader("same"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	second, _, err := store.Put(strings.NewReader("same"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if first == second {
		t.Errorf("Expected distinct keys, got %s twice", first)
	}
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := store.Remove("no-such-key"); err != nil {
		t.Errorf("Expected no-op for missing blob, got %v", err)
	}
}
