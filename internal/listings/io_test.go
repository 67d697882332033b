package listings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jimezsa/jobassist/internal/models"
	"github.com/jimezsa/jobassist/internal/normalize"
)

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listings.json")

	listings := []models.JobListing{{
		Title:      "SRE",
		Company:    "Acme",
		Location:   "Remote",
		ApplyURL:   "https://example.com/1",
		DatePosted: "2 days ago",
		Platform:   "LinkedIn",
		IsRealJob:  true,
	}}
	if err := WriteFile(path, listings); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected len=1, got %d", len(got))
	}
	if got[0].Title != "SRE" || got[0].ApplyURL != "https://example.com/1" || !got[0].IsRealJob {
		t.Fatalf("unexpected listing read back: %+v", got[0])
	}
	if got[0].JobType != normalize.DefaultJobType || got[0].Description != normalize.DefaultDescription {
		t.Fatalf("expected defaults to be filled: %+v", got[0])
	}
}

func TestReadBlankAndInvalid(t *testing.T) {
	got, err := Read(strings.NewReader("  \n"))
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("Read(blank) = %v, %v", got, err)
	}

	if _, err := Read(strings.NewReader(`{"title":"x"}`)); err == nil {
		t.Fatalf("expected error for non-array input")
	}
}

func TestReadFileAllowMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	got, err := ReadFileAllowMissing(missing)
	if err != nil {
		t.Fatalf("ReadFileAllowMissing() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty listings for missing file, got %d", len(got))
	}

	if _, err := ReadFile(missing); !os.IsNotExist(err) {
		t.Fatalf("ReadFile(missing) error = %v, want not exist", err)
	}
}

func TestWriteFileNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := WriteFile(path, nil); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("unexpected content %q", data)
	}
}
