package domain

import (
	"time"
)

// JobID is a unique identifier for a download job.
type JobID string

// String returns the string representation of the JobID.
func (id JobID) String() string {
	return string(id)
}

// JobStatus represents the current state of a download job.
type JobStatus string

const (
	JobStatusStarting    JobStatus = "starting"
	JobStatusDownloading JobStatus = "downloading"
	JobStatusCompleted   JobStatus = "completed"
	JobStatusError       JobStatus = "error"
)

// Terminal reports whether the status allows no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// Job tracks one download attempt of a remote video. The live process
// handle is owned by the supervisor and never stored on the record, so a
// Job is always safe to snapshot and serialize.
type Job struct {
	ID        JobID
	SourceID  string
	Title     string
	Status    JobStatus
	Progress  float64
	Error     string
	FilePath  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob creates a job in the starting state.
func NewJob(id JobID, sourceID, title string) *Job {
	if title == "" {
		title = "Unknown"
	}
	now := time.Now()
	return &Job{
		ID:        id,
		SourceID:  sourceID,
		Title:     title,
		Status:    JobStatusStarting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkDownloading transitions the job to the downloading state.
func (j *Job) MarkDownloading() {
	j.Status = JobStatusDownloading
	j.UpdatedAt = time.Now()
}

// SetProgress records a parsed progress percentage. Values below the
// current progress are ignored so flaky downloader output never moves a
// job backwards; values are clamped to [0, 100].
func (j *Job) SetProgress(p float64) {
	if p < j.Progress {
		return
	}
	if p > 100 {
		p = 100
	}
	j.Progress = p
	j.UpdatedAt = time.Now()
}

// MarkCompleted transitions the job to the completed state with the
// serving path of the downloaded file.
func (j *Job) MarkCompleted(filePath string) {
	j.Status = JobStatusCompleted
	j.Progress = 100
	j.FilePath = filePath
	j.UpdatedAt = time.Now()
}

// MarkError transitions the job to the error state.
func (j *Job) MarkError(msg string) {
	j.Status = JobStatusError
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// Snapshot is the externally visible projection of a Job.
type Snapshot struct {
	JobID    JobID     `json:"jobId"`
	SourceID string    `json:"sourceId"`
	Title    string    `json:"title"`
	Status   JobStatus `json:"status"`
	Progress float64   `json:"progress"`
	Error    string    `json:"error,omitempty"`
	FilePath string    `json:"filePath,omitempty"`
}

// Snapshot returns a plain-data copy of the job.
func (j *Job) Snapshot() Snapshot {
	return Snapshot{
		JobID:    j.ID,
		SourceID: j.SourceID,
		Title:    j.Title,
		Status:   j.Status,
		Progress: j.Progress,
		Error:    j.Error,
		FilePath: j.FilePath,
	}
}
