package repositories

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"alfredoptarigan/skill-profiler/internal/models"
)

// Set to a Postgres DSN to run the database-backed tests, for example
// "host=localhost user=postgres password=postgres dbname=skill_profiler_test sslmode=disable".
const testDatabaseEnv = "SKILL_PROFILER_TEST_DATABASE_DSN"

func newGormApplications(t *testing.T) ApplicationRepository {
	t.Helper()

	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseEnv)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&models.ApplicationRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		db.Where("session_id = ?", "session-1").Delete(&models.ApplicationRecord{})
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return NewGormApplicationRepository(db)
}

func TestGormApplicationRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newGormApplications(t)

	record := newTestRecord(t)
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	found, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.TotalScore != 8 || found.MaxScore != 30 || found.JobID != "job_1234abcd" {
		t.Fatalf("unexpected record: %+v", found)
	}
	entries := found.Results.Entries()
	if len(entries) != 3 || entries[0].Question != "1. Describe Go interfaces." || !entries[2].Failed {
		t.Fatalf("results not restored: %+v", entries)
	}

	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestGormApplicationRepositorySaveUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	repo := newGormApplications(t)

	var partial models.ScoreResult
	partial.Add(models.ScoreEntry{Question: "q1", Answer: "a1", Score: "6"})
	record := models.NewApplicationRecord("session-1", "job_1234abcd", partial)
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("save partial: %v", err)
	}

	complete := partial
	complete.Add(models.ScoreEntry{Question: "q2", Answer: "a2", Score: "9"})
	completed := models.NewApplicationRecord("session-1", "job_1234abcd", complete)
	completed.ID = record.ID
	if err := repo.Save(ctx, completed); err != nil {
		t.Fatalf("save completed: %v", err)
	}

	found, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.TotalScore != 15 || found.Results.Len() != 2 {
		t.Fatalf("record not updated: total=%d len=%d", found.TotalScore, found.Results.Len())
	}
}
