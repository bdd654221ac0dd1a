package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/notekit/chartparse/internal/note"
)

// JobStatus represents the state of an asynchronous note job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusLoading   JobStatus = "loading"
	StatusParsing   JobStatus = "parsing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one uploaded note through load and parse. Parsing itself is
// fail-soft, so the only failure path is an unreadable or unsupported file.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *note.ParsedNote
	errors   []string
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a load-stage error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// LastUpdate returns the update timestamp under the job lock, so the
// store's cleanup loop never races an in-flight status write.
func (j *Job) LastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetFileData stores the raw upload bytes for the worker.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw upload bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetResult records the parse result and releases the upload bytes.
func (j *Job) SetResult(n note.ParsedNote) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &n
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string           `json:"job_id"`
	Filename string           `json:"filename"`
	Status   JobStatus        `json:"status"`
	Phase    string           `json:"phase"`
	Errors   []string         `json:"errors"`
	Result   *note.ParsedNote `json:"result,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state, including the parsed
// note once the job has completed.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Filename: j.Filename,
		Status:   j.Status,
		Phase:    j.Phase,
		Errors:   errs,
		Result:   j.result,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
// Evicting a job also discards its parsed note; nothing is persisted.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.LastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// NewJobID derives a job identifier from the upload name and time.
func NewJobID(filename string, now time.Time) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s-%d", filename, now.UnixNano()))
	return fmt.Sprintf("%x", h[:])[:20]
}
