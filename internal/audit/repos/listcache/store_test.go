package listcache

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("https://example.com/list.txt", "||example.com^\n", 1723550000); err != nil {
		t.Fatalf("Put: %v", err)
	}

	content, fetched, ok, err := s.Get("https://example.com/list.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cached entry")
	}
	if content != "||example.com^\n" {
		t.Errorf("content = %q", content)
	}
	if fetched != 1723550000 {
		t.Errorf("fetchedUnix = %d, want 1723550000", fetched)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, _, ok, err := s.Get("https://example.com/unknown.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown source")
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("src", "old", 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("src", "new", 2); err != nil {
		t.Fatalf("Put: %v", err)
	}
	content, fetched, ok, err := s.Get("src")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if content != "new" || fetched != 2 {
		t.Errorf("got %q/%d, want new/2", content, fetched)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Put("src", "content", 42); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	content, fetched, ok, err := s2.Get("src")
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if content != "content" || fetched != 42 {
		t.Errorf("got %q/%d after reopen", content, fetched)
	}
}
