// Package engine runs mod generations in the background and keeps their
// history.
package engine

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/battlewithbytes/skinstudio/internal/assembler"
	"github.com/battlewithbytes/skinstudio/internal/progress"
)

const (
	HistoryFile = "history.db"
	LockFile    = "generate.lock"

	eventBuffer = 256
)

// ErrBusy is returned when a generation is already running.
var ErrBusy = errors.New("a generation is already running")

var errLocked = errors.New("lock held")

// Engine runs one generation at a time.
type Engine struct {
	asm     *assembler.Assembler
	store   *Store
	dataDir string
	log     zerolog.Logger

	mu      sync.Mutex
	running bool
}

// New creates an engine, opening the history database in dataDir.
func New(asm *assembler.Assembler, dataDir string, log zerolog.Logger) (*Engine, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := NewStore(filepath.Join(dataDir, HistoryFile))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return &Engine{
		asm:     asm,
		store:   store,
		dataDir: dataDir,
		log:     log.With().Str("component", "engine").Logger(),
	}, nil
}

// Close closes the history database.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Running reports whether a generation is in progress in this process.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Start records a new job and generates the project on a background
// goroutine. The returned channel carries the job's events and is closed
// after the terminal done or failed event; callers must drain it.
func (e *Engine) Start(ctx context.Context, req Request) (*Job, <-chan progress.Event, error) {
	if req.Project == nil {
		return nil, nil, errors.New("no project to generate")
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, nil, ErrBusy
	}
	lock, err := tryLock(filepath.Join(e.dataDir, LockFile))
	if err != nil {
		e.mu.Unlock()
		if errors.Is(err, errLocked) {
			return nil, nil, fmt.Errorf("%w in another skinstudio process", ErrBusy)
		}
		return nil, nil, fmt.Errorf("taking generation lock: %w", err)
	}
	e.running = true
	e.mu.Unlock()

	now := time.Now()
	job := &Job{
		ID:          uuid.NewString(),
		ModName:     req.Project.ModName,
		ProjectPath: req.ProjectPath,
		State:       StateQueued,
		Cars:        len(req.Project.Cars),
		Skins:       req.Project.SkinCount(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.CreateJob(job); err != nil {
		e.release(lock)
		return nil, nil, fmt.Errorf("creating job: %w", err)
	}

	events := make(chan progress.Event, eventBuffer)
	snapshot := *job
	go e.run(ctx, job, req, lock, events)
	return &snapshot, events, nil
}

func (e *Engine) release(lock *fileLock) {
	if err := lock.unlock(); err != nil {
		e.log.Warn().Err(err).Msg("releasing generation lock")
	}
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// run executes the generation for a job. The job is only touched from this
// goroutine.
func (e *Engine) run(ctx context.Context, job *Job, req Request, lock *fileLock, events chan progress.Event) {
	defer close(events)
	defer e.release(lock)

	jc := &jobContext{engine: e, job: job, log: e.log.With().Str("job", job.ID).Logger()}
	rep := progress.NewReporter(job.ID, progress.Tee(jc, req.Sink, progress.ChanSink(events)))
	jc.info("Generating %s: %d car(s), %d skin(s)", job.ModName, job.Cars, job.Skins)

	res, err := e.asm.Generate(ctx, req.Project, rep)
	if err != nil {
		job.Error = err.Error()
		rep.Fail(err)
		return
	}

	job.ZipPath = res.ZipPath
	job.Entries = res.Entries
	job.Warnings = len(res.Warnings)
	if info, err := os.Stat(res.ZipPath); err == nil {
		job.Size = info.Size()
	}
	if digest, err := FileDigest(res.ZipPath); err != nil {
		jc.warn("Computing digest: %v", err)
	} else {
		job.Digest = digest
	}
	rep.Done(fmt.Sprintf("Created %s (%d files)", res.ZipPath, res.Entries))
}

// FileDigest returns the hex BLAKE2b-256 digest of a file.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// GetJob returns a job by ID.
func (e *Engine) GetJob(id string) (*Job, error) {
	return e.store.GetJob(id)
}

// ListJobs returns the most recent jobs.
func (e *Engine) ListJobs(limit int) ([]*Job, error) {
	return e.store.ListJobs(limit)
}

// GetLogs returns all logs for a job.
func (e *Engine) GetLogs(jobID string) ([]*LogEntry, error) {
	return e.store.GetLogs(jobID)
}

// DeleteJob removes a job from the history. The archive is left alone.
func (e *Engine) DeleteJob(id string) error {
	return e.store.DeleteJob(id)
}
