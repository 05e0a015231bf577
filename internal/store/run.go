package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tslkit/tslkit/internal/generator"
	"github.com/tslkit/tslkit/internal/model"
)

// ErrRunNotFound is returned by ReadRun for unknown run IDs.
var ErrRunNotFound = errors.New("run not found")

// Run is the summary row for one persisted generation run.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Total     int       `json:"total"`
	Normal    int       `json:"normal"`
	Single    int       `json:"single"`
	Error     int       `json:"error"`
}

// SaveRun persists a generation result under a fresh UUIDv7 run ID.
// The run row and all frame rows are written in one transaction.
func (s *Store) SaveRun(ctx context.Context, source string, result *generator.Result) (Run, error) {
	run := Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Total:     result.Total(),
		Normal:    result.NormalCount(),
		Single:    result.SingleCount(),
		Error:     result.ErrorCount(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("save run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, source, total, normal_count, single_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339Nano),
		run.Source,
		run.Total,
		run.Normal,
		run.Single,
		run.Error,
	)
	if err != nil {
		return Run{}, fmt.Errorf("save run: insert run: %w", err)
	}

	for _, f := range result.Frames {
		entriesJSON, err := json.Marshal(f.Entries)
		if err != nil {
			return Run{}, fmt.Errorf("save run: marshal entries for frame %d: %w", f.Seq, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO frames (run_id, seq, frame_type, frame_key, branch, entries)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			f.Seq,
			f.Type.String(),
			f.Key,
			string(f.Branch),
			string(entriesJSON),
		)
		if err != nil {
			return Run{}, fmt.Errorf("save run: insert frame %d: %w", f.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("save run: commit: %w", err)
	}

	return run, nil
}

// ReadRun loads a run's summary and its frames in generation order.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, []generator.Frame, error) {
	var (
		run       Run
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source, total, normal_count, single_count, error_count
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &createdAt, &run.Source, &run.Total, &run.Normal, &run.Single, &run.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("read run %s: %w", id, err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, nil, fmt.Errorf("read run %s: parse created_at: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, frame_type, frame_key, branch, entries
		FROM frames WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("read run %s: query frames: %w", id, err)
	}
	defer rows.Close()

	var frames []generator.Frame
	for rows.Next() {
		var (
			f           generator.Frame
			typeName    string
			branch      string
			entriesJSON string
		)
		if err := rows.Scan(&f.Seq, &typeName, &f.Key, &branch, &entriesJSON); err != nil {
			return Run{}, nil, fmt.Errorf("read run %s: scan frame: %w", id, err)
		}
		if f.Type, err = model.ParseFrameType(typeName); err != nil {
			return Run{}, nil, fmt.Errorf("read run %s: %w", id, err)
		}
		f.Branch = generator.Branch(branch)
		if err := json.Unmarshal([]byte(entriesJSON), &f.Entries); err != nil {
			return Run{}, nil, fmt.Errorf("read run %s: unmarshal entries: %w", id, err)
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("read run %s: iterate frames: %w", id, err)
	}

	return run, frames, nil
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source, total, normal_count, single_count, error_count
		FROM runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			createdAt string
		)
		if err := rows.Scan(&run.ID, &createdAt, &run.Source, &run.Total, &run.Normal, &run.Single, &run.Error); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("list runs: parse created_at: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}
