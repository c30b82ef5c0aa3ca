package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/terra-clan/prep-tracker/internal/models"
	"github.com/terra-clan/prep-tracker/internal/storage"
	"github.com/terra-clan/prep-tracker/internal/tracker"
)

const sample = `
questions:
  - title: Two Sum
    topics: [Array, Hash Table]
    difficulty: Easy
    date_solved: "2024-01-01"
    tags: [blind75]
  - title: Broken
    difficulty: Impossible
companies:
  - name: Acme
    status: SELECTED
  - name: Globex
`

func writeSeed(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write seed: %v", err)
	}
	return path
}

func TestApplySeed(t *testing.T) {
	ctx := context.Background()
	path := writeSeed(t, t.TempDir(), "seed.yaml", sample)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(f.Questions) != 2 || len(f.Companies) != 2 {
		t.Fatalf("unexpected parse result: %d questions, %d companies", len(f.Questions), len(f.Companies))
	}

	svc := tracker.New(storage.NewMemoryRepository())
	res, err := f.Apply(ctx, svc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.Questions != 1 || res.Companies != 2 || res.Skipped != 1 {
		t.Errorf("unexpected result: %+v", res)
	}

	st, err := svc.CompanyStats(ctx)
	if err != nil {
		t.Fatalf("CompanyStats failed: %v", err)
	}
	if st.SelectedCount != 1 || st.StatusCounts[models.StatusApplied] != 1 {
		t.Errorf("unexpected company stats: %+v", st)
	}

	// A second run leaves populated collections alone.
	res, err = f.Apply(ctx, svc)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if res.Questions != 0 || res.Companies != 0 {
		t.Errorf("expected no writes on re-seed, got %+v", res)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSeed(t, dir, "a.yaml", "questions:\n  - title: A\n    difficulty: Easy\n")
	writeSeed(t, dir, "b.yml", "companies:\n  - name: B\n")
	writeSeed(t, dir, "notes.txt", "ignored")

	f, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(f.Questions) != 1 || len(f.Companies) != 1 {
		t.Errorf("expected 1 question and 1 company, got %d and %d", len(f.Questions), len(f.Companies))
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeSeed(t, t.TempDir(), "bad.yaml", "questions: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBundledSeed(t *testing.T) {
	path := filepath.Join("..", "..", "seed", "sample.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("bundled seed not found, skipping")
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	res, err := f.Apply(context.Background(), tracker.New(storage.NewMemoryRepository()))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.Skipped != 0 {
		t.Errorf("bundled seed has %d invalid entries", res.Skipped)
	}
}
