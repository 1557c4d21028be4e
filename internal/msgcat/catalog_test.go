package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("queue.waiting", map[string]any{"Position": 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Waiting for an opponent. You are number 2 in the queue." {
		t.Fatalf("unexpected text %q", got)
	}
	if !c.Has("reject.MandatoryCaptureViolation") {
		t.Fatalf("expected rejection text for mandatory capture")
	}
}

func TestMissingDataFallsBack(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("session.opponent_departed", map[string]any{}); err == nil {
		t.Fatalf("expected missingkey error")
	}
	if got := c.Text("session.opponent_departed", map[string]any{}, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	var nilCat *Catalog
	if got := nilCat.Text("queue.left", nil, "left"); got != "left" {
		t.Fatalf("nil catalog: got %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("queue:\n  left: \"bye\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("queue.left", nil, ""); got != "bye" {
		t.Fatalf("override not applied: %q", got)
	}
}

func TestDuplicateOverrideKeys(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("queue:\n  left: \"x\"\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
