package pipeline

import (
	"sync"
	"time"
)

// Store is the in-process job registry. It must answer status and result
// lookups even when every external dependency is down, so it is a plain
// mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewStore creates an empty job store
func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create registers a new queued job
func (s *Store) Create(id string) *Job {
	now := time.Now()
	job := &Job{
		ID:          id,
		Status:      StatusQueued,
		CurrentStep: "queued",
		Progress:    0,
		ETASeconds:  stageETA[StatusQueued],
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.jobs[id] = job
	s.mu.Unlock()

	return job
}

// Get returns a copy of the job so callers cannot mutate shared state
func (s *Store) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *job, nil
}

// SetStatus advances a job to the given stage. Progress is monotonic: a
// stage transition never lowers the reported percentage, and terminal jobs
// never change again.
func (s *Store) SetStatus(id string, status Status, step string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status.Terminal() {
		return nil
	}

	job.Status = status
	job.CurrentStep = step
	if p, ok := stageProgress[status]; ok && p > job.Progress {
		job.Progress = p
	}
	job.ETASeconds = stageETA[status]
	job.UpdatedAt = time.Now()

	return nil
}

// MarkCompleted records the result and moves the job to its terminal
// completed state exactly once.
func (s *Store) MarkCompleted(id string, result *ProcessingResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status.Terminal() {
		return nil
	}

	job.Status = StatusCompleted
	job.CurrentStep = "completed"
	job.Progress = 100
	job.ETASeconds = 0
	job.Result = result
	job.UpdatedAt = time.Now()

	return nil
}

// MarkFailed moves the job to its terminal error state exactly once
func (s *Store) MarkFailed(id string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status.Terminal() {
		return nil
	}

	job.Status = StatusError
	job.CurrentStep = "error"
	job.ETASeconds = 0
	if cause != nil {
		job.Error = cause.Error()
	}
	job.UpdatedAt = time.Now()

	return nil
}
