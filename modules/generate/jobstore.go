package generate

import (
	"sync"
	"time"
)

// JobStore keeps async job state in process memory. Generated assets live on
// disk; job records only need to survive until the caller polls them.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
	}
}

func (s *JobStore) Create(jobID string, req normalizedRequest) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &Job{
		JobID:     jobID,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		request:   req,
	}
	s.jobs[jobID] = job
	return job
}

// Get returns a copy of the job, so callers never race with updates.
func (s *JobStore) Get(jobID string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (s *JobStore) SetStage(jobID, stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = StatusProcessing
		job.Stage = stage
	}
}

func (s *JobStore) Complete(jobID, imageURL, filePath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		now := time.Now()
		job.Status = StatusCompleted
		job.Stage = ""
		job.ImageURL = imageURL
		job.FilePath = filePath
		job.CompletedAt = &now
	}
}

func (s *JobStore) Fail(jobID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		now := time.Now()
		job.Status = StatusFailed
		job.Stage = ""
		job.Error = message
		job.CompletedAt = &now
	}
}
