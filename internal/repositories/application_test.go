package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"alfredoptarigan/skill-profiler/internal/models"
)

func newTestRecord(t *testing.T) *models.ApplicationRecord {
	t.Helper()

	var results models.ScoreResult
	results.Add(models.ScoreEntry{Question: "1. Describe Go interfaces.", Answer: "Implicit", Score: "8"})
	results.Add(models.ScoreEntry{Question: "2. What is a goroutine?", Answer: "", Score: "0"})
	results.Add(models.ScoreEntry{Question: "3. Explain channels.", Answer: "pipes", Failed: true})

	return models.NewApplicationRecord("session-1", "job_1234abcd", results)
}

func TestFileApplicationRepositorySingleFileOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "exam_results.json")
	repo := NewFileApplicationRepository(path, false)

	first := newTestRecord(t)
	second := newTestRecord(t)

	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got := gjson.GetBytes(data, "application_id").String(); got != second.ID.String() {
		t.Fatalf("expected latest record in file, got %s", got)
	}
	if got := gjson.GetBytes(data, "selected_job").String(); got != "job_1234abcd" {
		t.Fatalf("unexpected selected_job %q", got)
	}
	if got := gjson.GetBytes(data, "total_score").Int(); got != 8 {
		t.Fatalf("expected total 8, got %d", got)
	}
	if got := gjson.GetBytes(data, `results.3\. Explain channels\..score`).String(); got != "Error in evaluation" {
		t.Fatalf("expected error marker, got %q", got)
	}

	if _, err := repo.FindByID(ctx, first.ID); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected overwritten record to be gone, got %v", err)
	}

	found, err := repo.FindByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Results.Len() != 3 || found.MaxScore != 30 {
		t.Fatalf("unexpected record: %+v", found)
	}
}

func TestFileApplicationRepositoryPartitioned(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "results")
	repo := NewFileApplicationRepository(dir, true)

	first := newTestRecord(t)
	second := newTestRecord(t)

	for _, r := range []*models.ApplicationRecord{first, second} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected one file per application, got %d", len(entries))
	}

	for _, r := range []*models.ApplicationRecord{first, second} {
		found, err := repo.FindByID(ctx, r.ID)
		if err != nil {
			t.Fatalf("find %s: %v", r.ID, err)
		}
		if found.ID != r.ID {
			t.Fatalf("expected %s, got %s", r.ID, found.ID)
		}
		entries := found.Results.Entries()
		if entries[0].Question != "1. Describe Go interfaces." || !entries[2].Failed {
			t.Fatalf("results not restored: %+v", entries)
		}
	}

	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFileApplicationRepositoryReportsWriteFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The parent "directory" is a regular file, so the write cannot succeed.
	repo := NewFileApplicationRepository(filepath.Join(blocker, "exam_results.json"), false)
	if err := repo.Save(context.Background(), newTestRecord(t)); err == nil {
		t.Fatalf("expected save to fail")
	}
}
