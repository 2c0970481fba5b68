package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"

	"alfredoptarigan/skill-profiler/internal/models"
)

type JobRepository interface {
	Create(job models.JobPosting) (models.JobPosting, error)
	ReadAll() (map[string]models.JobPosting, error)
	Read(id string) (models.JobPosting, bool, error)
	Update(id string, update models.JobUpdate) (bool, error)
	Delete(id string) (bool, error)
}

// jobRepository keeps all jobs in one pretty-printed JSON object keyed by job id.
// Every mutation rewrites the whole file.
type jobRepository struct {
	path string
	mu   sync.Mutex
}

// NewJobRepository opens the job file, creating it with an empty object when
// it is missing or blank.
func NewJobRepository(path string) (JobRepository, error) {
	r := &jobRepository{path: path}
	if err := r.init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *jobRepository) init() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create job store directory: %w", err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read job store: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return r.write(map[string]models.JobPosting{})
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("job store %s is not a JSON object", r.path)
	}

	return nil
}

// Create implements JobRepository.
func (r *jobRepository) Create(job models.JobPosting) (models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs, err := r.load()
	if err != nil {
		return models.JobPosting{}, err
	}

	job.ID = models.NewJobID()
	for _, exists := jobs[job.ID]; exists; _, exists = jobs[job.ID] {
		job.ID = models.NewJobID()
	}
	jobs[job.ID] = job

	if err := r.write(jobs); err != nil {
		return models.JobPosting{}, err
	}

	return job, nil
}

// ReadAll implements JobRepository.
func (r *jobRepository) ReadAll() (map[string]models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// Read implements JobRepository.
func (r *jobRepository) Read(id string) (models.JobPosting, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs, err := r.load()
	if err != nil {
		return models.JobPosting{}, false, err
	}

	job, ok := jobs[id]
	return job, ok, nil
}

// Update implements JobRepository.
func (r *jobRepository) Update(id string, update models.JobUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs, err := r.load()
	if err != nil {
		return false, err
	}

	job, ok := jobs[id]
	if !ok {
		return false, nil
	}

	job.Apply(update)
	jobs[id] = job

	if err := r.write(jobs); err != nil {
		return false, err
	}

	return true, nil
}

// Delete implements JobRepository.
func (r *jobRepository) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs, err := r.load()
	if err != nil {
		return false, err
	}

	if _, ok := jobs[id]; !ok {
		return false, nil
	}
	delete(jobs, id)

	if err := r.write(jobs); err != nil {
		return false, err
	}

	return true, nil
}

func (r *jobRepository) load() (map[string]models.JobPosting, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job store: %w", err)
	}

	jobs := make(map[string]models.JobPosting)
	if len(bytes.TrimSpace(data)) == 0 {
		return jobs, nil
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode job store: %w", err)
	}

	return jobs, nil
}

func (r *jobRepository) write(jobs map[string]models.JobPosting) error {
	data, err := json.MarshalIndent(jobs, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode job store: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job store: %w", err)
	}

	return nil
}
