// Package registry holds the in-memory download job records. It is the
// only shared mutable state in the server; all access goes through one
// mutex so incremental supervisor writes and handler reads never race.
package registry

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/clipvault/clipvault/internal/domain"
)

// Registry is an in-memory store of download jobs keyed by job ID.
// Jobs are never removed once created; lifetime is process uptime.
type Registry struct {
	mu   sync.RWMutex
	jobs map[domain.JobID]*domain.Job
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		jobs: make(map[domain.JobID]*domain.Job),
	}
}

// Create registers a new job in the starting state and returns its snapshot.
func (r *Registry) Create(sourceID, title string) domain.Snapshot {
	job := domain.NewJob(domain.JobID(uuid.NewString()), sourceID, title)

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return job.Snapshot()
}

// Get returns a snapshot of the job, or ErrJobNotFound for unknown IDs.
func (r *Registry) Get(id domain.JobID) (domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.Snapshot{}, domain.ErrJobNotFound
	}

	return job.Snapshot(), nil
}

// Update applies fn to the stored job under the registry lock. This is a
// read-modify-write, never a blind overwrite: the supervisor writes fields
// incrementally and concurrent updates on the same key must not be lost.
func (r *Registry) Update(id domain.JobID, fn func(*domain.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}

	fn(job)
	return nil
}

// List returns snapshots of all jobs, newest first.
func (r *Registry) List() []domain.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]*domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	out := make([]domain.Snapshot, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.Snapshot())
	}

	return out
}

// Len returns the number of tracked jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
