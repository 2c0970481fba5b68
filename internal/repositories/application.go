package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/skill-profiler/internal/models"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Save(ctx context.Context, record *models.ApplicationRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ApplicationRecord, error)
}

// fileApplicationRepository writes each record as pretty-printed JSON. In
// single-file mode every submission overwrites the same file; partitioned mode
// writes one file per application id under dir.
type fileApplicationRepository struct {
	path        string
	partitioned bool
	mu          sync.Mutex
}

// NewFileApplicationRepository returns a file-backed persister. When
// partitioned is true, path is treated as a directory.
func NewFileApplicationRepository(path string, partitioned bool) ApplicationRepository {
	return &fileApplicationRepository{path: path, partitioned: partitioned}
}

// Save implements ApplicationRepository.
func (r *fileApplicationRepository) Save(_ context.Context, record *models.ApplicationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.target(record.ID)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode application: %w", err)
	}

	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write application: %w", err)
	}

	return nil
}

// FindByID implements ApplicationRepository.
func (r *fileApplicationRepository) FindByID(_ context.Context, id uuid.UUID) (*models.ApplicationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.target(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to read application: %w", err)
	}

	var record models.ApplicationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}

	// The single file only ever holds the latest submission.
	if record.ID != id {
		return nil, ErrApplicationNotFound
	}

	return &record, nil
}

func (r *fileApplicationRepository) target(id uuid.UUID) string {
	if r.partitioned {
		return filepath.Join(r.path, id.String()+".json")
	}
	return r.path
}

type gormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository stores applications in a database table keyed by id.
func NewGormApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &gormApplicationRepository{db: db}
}

// Save implements ApplicationRepository. A record that was saved before,
// such as a completed partial application, is updated in place.
func (r *gormApplicationRepository) Save(ctx context.Context, record *models.ApplicationRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}
	return nil
}

// FindByID implements ApplicationRepository.
func (r *gormApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ApplicationRecord, error) {
	var record models.ApplicationRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &record, nil
}
