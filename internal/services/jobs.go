package services

import (
	"sort"

	"go.uber.org/zap"

	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/repositories"
)

type JobService interface {
	Create(job models.JobPosting) (models.JobPosting, error)
	List() ([]models.JobPosting, error)
	Get(id string) (models.JobPosting, error)
	Update(id string, update models.JobUpdate) (models.JobPosting, error)
	Delete(id string) error
}

type jobService struct {
	jobRepo repositories.JobRepository
	logger  *zap.Logger
}

func NewJobService(jobRepo repositories.JobRepository, logger *zap.Logger) JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jobService{jobRepo: jobRepo, logger: logger}
}

// Create implements JobService.
func (s *jobService) Create(job models.JobPosting) (models.JobPosting, error) {
	if err := models.ValidateJob(job); err != nil {
		return models.JobPosting{}, err
	}

	created, err := s.jobRepo.Create(job)
	if err != nil {
		return models.JobPosting{}, err
	}

	s.logger.Info("job created", zap.String("job_id", created.ID), zap.String("label", created.Label()))
	return created, nil
}

// List implements JobService. Jobs are ordered by label, then id.
func (s *jobService) List() ([]models.JobPosting, error) {
	all, err := s.jobRepo.ReadAll()
	if err != nil {
		return nil, err
	}

	jobs := make([]models.JobPosting, 0, len(all))
	for id, job := range all {
		job.ID = id
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Label() != jobs[j].Label() {
			return jobs[i].Label() < jobs[j].Label()
		}
		return jobs[i].ID < jobs[j].ID
	})

	return jobs, nil
}

// Get implements JobService.
func (s *jobService) Get(id string) (models.JobPosting, error) {
	job, ok, err := s.jobRepo.Read(id)
	if err != nil {
		return models.JobPosting{}, err
	}
	if !ok {
		return models.JobPosting{}, ErrJobNotFound
	}
	job.ID = id
	return job, nil
}

// Update implements JobService.
func (s *jobService) Update(id string, update models.JobUpdate) (models.JobPosting, error) {
	if err := models.ValidateJobUpdate(update); err != nil {
		return models.JobPosting{}, err
	}

	ok, err := s.jobRepo.Update(id, update)
	if err != nil {
		return models.JobPosting{}, err
	}
	if !ok {
		return models.JobPosting{}, ErrJobNotFound
	}

	s.logger.Info("job updated", zap.String("job_id", id))
	return s.Get(id)
}

// Delete implements JobService.
func (s *jobService) Delete(id string) error {
	ok, err := s.jobRepo.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrJobNotFound
	}

	s.logger.Info("job deleted", zap.String("job_id", id))
	return nil
}
