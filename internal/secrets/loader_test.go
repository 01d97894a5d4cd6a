package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadInlineValue(t *testing.T) {
	secret, err := Load(Source{Name: "api key", Value: "  sk-123  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "sk-123" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("sk-from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	secret, err := Load(Source{Name: "api key", Value: "ignored", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "sk-from-file" {
		t.Fatalf("expected file to win, got %q", secret)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(Source{Name: "api key", File: path})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty-file error, got %v", err)
	}
}

func TestLoadUnconfigured(t *testing.T) {
	_, err := Load(Source{Name: "heygen api key"})
	if err == nil || !strings.Contains(err.Error(), "heygen api key is not configured") {
		t.Fatalf("expected not-configured error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "absent")})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
