package repositories

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	session, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	session.SelectJob("job_1234abcd")
	session.SetSkills("Go, SQL")
	session.SetQuestions([]string{"q1", "q2"})
	if err := session.SetAnswer(1, "answer"); err != nil {
		t.Fatalf("set answer: %v", err)
	}

	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if loaded.JobID != "job_1234abcd" || loaded.Skills != "Go, SQL" {
		t.Fatalf("unexpected session: %+v", loaded)
	}
	if len(loaded.Questions) != 2 || loaded.Answers[1] != "answer" {
		t.Fatalf("questions/answers not restored: %+v", loaded)
	}
}

func TestMemorySessionRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	session, _ := repo.Create(ctx)
	session.SetSkills("unsaved")

	loaded, err := repo.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Skills != "" {
		t.Fatalf("changes must not be visible before save, got %q", loaded.Skills)
	}
}

func TestMemorySessionRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	session, _ := repo.Create(ctx)

	if err := repo.Delete(ctx, session.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}
