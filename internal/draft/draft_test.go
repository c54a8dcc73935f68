package draft

import (
	"path/filepath"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type storylineDraft struct {
	Topic  string `json:"topic"`
	Target string `json:"target"`
	Goal   string `json:"goal"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "drafts.db"), nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)

	in := storylineDraft{Topic: "Q3 results", Target: "board", Goal: "approval"}
	if err := s.Save(KeyStoryline, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var out storylineDraft
	found, err := s.Load(KeyStoryline, &out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !found {
		t.Fatal("Expected draft to be found")
	}
	if out != in {
		t.Errorf("Roundtrip mismatch: got %+v want %+v", out, in)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(KeyStoryline, storylineDraft{Topic: "first"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(KeyStoryline, storylineDraft{Topic: "second"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var out storylineDraft
	if _, err := s.Load(KeyStoryline, &out); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out.Topic != "second" {
		t.Errorf("Expected latest draft to win, got %q", out.Topic)
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)

	var out storylineDraft
	found, err := s.Load(KeyStoryline, &out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if found {
		t.Error("Expected no draft for fresh store")
	}
}

func TestCorruptDraftIgnored(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.db.Exec(`INSERT INTO drafts (key, payload) VALUES (?, ?)`,
		KeyStoryline, "{not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var out storylineDraft
	found, err := s.Load(KeyStoryline, &out)
	if err != nil {
		t.Fatalf("Load should not fail on corrupt draft: %v", err)
	}
	if found {
		t.Error("Corrupt draft must be treated as absent")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(KeyStoryline, storylineDraft{Topic: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Clear(KeyStoryline); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	var out storylineDraft
	found, _ := s.Load(KeyStoryline, &out)
	if found {
		t.Error("Expected draft gone after Clear")
	}

	// clearing again is a no-op
	if err := s.Clear(KeyStoryline); err != nil {
		t.Errorf("Clear of absent key failed: %v", err)
	}
}
