package engine

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists the generation history to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time; queue in Go rather than on the SQLite lock.
	db.SetMaxOpenConns(4)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id           TEXT PRIMARY KEY,
			mod_name     TEXT NOT NULL,
			project_path TEXT NOT NULL DEFAULT '',
			state        TEXT NOT NULL,
			progress     REAL NOT NULL DEFAULT 0,
			zip_path     TEXT NOT NULL DEFAULT '',
			digest       TEXT NOT NULL DEFAULT '',
			size         INTEGER NOT NULL DEFAULT 0,
			entries      INTEGER NOT NULL DEFAULT 0,
			cars         INTEGER NOT NULL DEFAULT 0,
			skins        INTEGER NOT NULL DEFAULT 0,
			warnings     INTEGER NOT NULL DEFAULT 0,
			error        TEXT NOT NULL DEFAULT '',
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL,
			completed_at TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS job_logs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id    TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			level     TEXT NOT NULL,
			message   TEXT NOT NULL,
			FOREIGN KEY (job_id) REFERENCES jobs(id)
		);

		CREATE INDEX IF NOT EXISTS idx_job_logs_job_id ON job_logs(job_id);
	`)
	return err
}

// CreateJob inserts a new job.
func (s *Store) CreateJob(job *Job) error {
	_, err := s.db.Exec(`
		INSERT INTO jobs (id, mod_name, project_path, state, progress, cars, skins, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.ModName, job.ProjectPath, job.State, job.Progress, job.Cars, job.Skins,
		job.CreatedAt.Format(time.RFC3339), job.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// UpdateJob updates a job's mutable fields.
func (s *Store) UpdateJob(job *Job) error {
	completedAt := ""
	if job.CompletedAt != nil {
		completedAt = job.CompletedAt.Format(time.RFC3339)
	}
	_, err := s.db.Exec(`
		UPDATE jobs SET state=?, progress=?, zip_path=?, digest=?, size=?, entries=?, warnings=?, error=?, updated_at=?, completed_at=?
		WHERE id=?`,
		job.State, job.Progress, job.ZipPath, job.Digest, job.Size, job.Entries, job.Warnings, job.Error,
		job.UpdatedAt.Format(time.RFC3339), completedAt,
		job.ID,
	)
	return err
}

const jobColumns = `id, mod_name, project_path, state, progress, zip_path, digest, size, entries, cars, skins, warnings, error, created_at, updated_at, completed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*Job, error) {
	var job Job
	var createdAt, updatedAt, completedAt string
	err := row.Scan(&job.ID, &job.ModName, &job.ProjectPath, &job.State, &job.Progress,
		&job.ZipPath, &job.Digest, &job.Size, &job.Entries, &job.Cars, &job.Skins, &job.Warnings,
		&job.Error, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	job.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	job.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if completedAt != "" {
		t, _ := time.Parse(time.RFC3339, completedAt)
		job.CompletedAt = &t
	}
	return &job, nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(id string) (*Job, error) {
	return scanJob(s.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id=?`, id))
}

// ListJobs returns up to limit jobs, most recent first. A limit of 0 or less
// returns all of them.
func (s *Store) ListJobs(limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// DeleteJob removes a job and its logs.
func (s *Store) DeleteJob(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM job_logs WHERE job_id=?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM jobs WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// AppendLog adds a log entry for a job.
func (s *Store) AppendLog(entry *LogEntry) error {
	_, err := s.db.Exec(`INSERT INTO job_logs (job_id, timestamp, level, message) VALUES (?, ?, ?, ?)`,
		entry.JobID, entry.Timestamp.Format(time.RFC3339Nano), entry.Level, entry.Message,
	)
	return err
}

// GetLogs returns all log entries for a job.
func (s *Store) GetLogs(jobID string) ([]*LogEntry, error) {
	rows, err := s.db.Query(`SELECT job_id, timestamp, level, message FROM job_logs WHERE job_id=? ORDER BY id ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*LogEntry
	for rows.Next() {
		var entry LogEntry
		var ts string
		if err := rows.Scan(&entry.JobID, &ts, &entry.Level, &entry.Message); err != nil {
			return nil, err
		}
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}
