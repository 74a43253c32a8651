// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a SQLite history of rendered digests: one row per
// run and one row per paper in that run, with the topic it was filed under.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-digest/internal/classify"
	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	dbFile     = "digest.db"
	dateLayout = "2006-01-02"
)

// ErrRunNotFound is returned by Entries for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run describes one rendered digest.
type Run struct {
	ID         int64     `json:"id" yaml:"id"`
	DigestDate time.Time `json:"digest_date" yaml:"digest_date"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	InputPath  string    `json:"input_path" yaml:"input_path"`
	OutputPath string    `json:"output_path" yaml:"output_path"`
	PaperCount int       `json:"paper_count" yaml:"paper_count"`
}

// Entry is one paper as it appeared in a run.
type Entry struct {
	Position  int      `json:"position" yaml:"position"`
	Key       string   `json:"key" yaml:"key"`
	ArxivID   string   `json:"arxiv_id" yaml:"arxiv_id"`
	Title     string   `json:"title" yaml:"title"`
	Authors   []string `json:"authors" yaml:"authors"`
	Topic     int      `json:"topic" yaml:"topic"`
	Relevance *int     `json:"relevance,omitempty" yaml:"relevance,omitempty"`
	Novelty   *int     `json:"novelty,omitempty" yaml:"novelty,omitempty"`
}

// Store manages the archive database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates dir/digest.db and its schema.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.FileAccessError{Op: "creating archive directory", Path: dir, Err: err}
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			digest_date TEXT NOT NULL,
			created_at TEXT NOT NULL,
			input_path TEXT,
			output_path TEXT,
			paper_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			paper_key TEXT,
			arxiv_id TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT,
			topic INTEGER NOT NULL,
			relevance INTEGER,
			novelty INTEGER,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_arxiv_id ON entries(arxiv_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run and the topic of each of its papers, in one
// transaction. It returns the new run id.
func (s *Store) Record(ctx context.Context, run Run, papers []types.Paper, groups *classify.Groups) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (digest_date, created_at, input_path, output_path, paper_count)
		 VALUES (?, ?, ?, ?, ?)`,
		run.DigestDate.Format(dateLayout), run.CreatedAt.UTC().Format(time.RFC3339),
		run.InputPath, run.OutputPath, len(papers),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (run_id, position, paper_key, arxiv_id, title, authors, topic, relevance, novelty)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authors, err := json.Marshal([]string(p.Authors))
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %q: %w", p.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, runID, i, p.Key, p.ArxivID, p.Title, string(authors),
			groups.TopicFor(i), nullInt(p.Relevance), nullInt(p.Novelty)); err != nil {
			return 0, fmt.Errorf("inserting entry %q: %w", p.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs lists recorded runs, newest first. A limit of 0 or less returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, digest_date, created_at, input_path, output_path, paper_count
		FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                  Run
			digestDate, create string
			input, output      sql.NullString
		)
		if err := rows.Scan(&r.ID, &digestDate, &create, &input, &output, &r.PaperCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.DigestDate, err = time.Parse(dateLayout, digestDate); err != nil {
			return nil, fmt.Errorf("run %d: parsing digest date: %w", r.ID, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, create); err != nil {
			return nil, fmt.Errorf("run %d: parsing creation time: %w", r.ID, err)
		}
		r.InputPath = input.String
		r.OutputPath = output.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Entries returns the papers of one run in input order.
func (s *Store) Entries(ctx context.Context, runID int64) ([]Entry, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking run %d: %w", runID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, paper_key, arxiv_id, title, authors, topic, relevance, novelty
		 FROM entries WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                  Entry
			key, authors       sql.NullString
			relevance, novelty sql.NullInt64
		)
		if err := rows.Scan(&e.Position, &key, &e.ArxivID, &e.Title, &authors, &e.Topic, &relevance, &novelty); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Key = key.String
		if authors.Valid && authors.String != "" {
			if err := json.Unmarshal([]byte(authors.String), &e.Authors); err != nil {
				return nil, fmt.Errorf("parsing authors of entry %d: %w", e.Position, err)
			}
		}
		e.Relevance = intPtr(relevance)
		e.Novelty = intPtr(novelty)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
