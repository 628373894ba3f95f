package engine

import (
	"time"

	"github.com/battlewithbytes/skinstudio/internal/progress"
	"github.com/battlewithbytes/skinstudio/internal/project"
)

// Job states. Between queued and the final state a job moves through the
// assembler's states (validate, check_output, ...).
const (
	StateQueued    = "queued"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Job is one generation run recorded in the history.
type Job struct {
	ID          string     `json:"id"`
	ModName     string     `json:"mod_name"`
	ProjectPath string     `json:"project_path,omitempty"`
	State       string     `json:"state"`
	Progress    float64    `json:"progress"`
	ZipPath     string     `json:"zip_path,omitempty"`
	Digest      string     `json:"digest,omitempty"`
	Size        int64      `json:"size,omitempty"`
	Entries     int        `json:"entries"`
	Cars        int        `json:"cars"`
	Skins       int        `json:"skins"`
	Warnings    int        `json:"warnings"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Finished reports whether the job reached a final state.
func (j *Job) Finished() bool {
	return j.State == StateCompleted || j.State == StateFailed
}

// LogEntry is a single log line of a job.
type LogEntry struct {
	JobID     string    `json:"job_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Request starts a generation.
type Request struct {
	Project *project.Project
	// ProjectPath is recorded in the history when the project came from a
	// file.
	ProjectPath string
	// Sink receives the job's events in addition to the returned channel.
	Sink progress.Sink
}
