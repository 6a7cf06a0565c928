package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Render("chain.seeded", map[string]any{"Current": "马到成功"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "马到成功") {
		t.Fatalf("rendered message missing idiom: %q", out)
	}
}

func TestRenderMissingKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatal("expected error for unknown key")
	}
	// missingkey=error: templates must not reference absent fields.
	if _, err := c.Render("chain.current", map[string]any{}); err == nil {
		t.Fatal("expected error for absent template field")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "chain:\n  current: \"现在轮到：{{.Current}}\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-custom.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Render("chain.current", map[string]any{"Current": "功亏一篑"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "现在轮到：功亏一篑" {
		t.Fatalf("override not applied: %q", out)
	}
	// Untouched keys keep their defaults.
	if _, err := c.Render("chain.none", nil); err != nil {
		t.Fatalf("default key lost: %v", err)
	}
}

func TestOverrideDuplicateKeyRejected(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("chain:\n  none: \"x\"\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected duplicate key error")
	}
}
