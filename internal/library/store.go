// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists the paper records and projects that duplicate
// reports are built from.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

const defaultDBPath = "library/library.db"

var (
	// ErrProjectNotFound is returned when a named project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrPaperNotFound is returned when a paper ID is not in the library.
	ErrPaperNotFound = errors.New("paper not found")

	// ErrProjectExists is returned when creating a project whose name is taken.
	ErrProjectExists = errors.New("project already exists")
)

// Store manages the library SQLite database.
type Store struct {
	db *sql.DB
}

// ListOptions scopes a record listing.
type ListOptions struct {
	// Project limits the listing to papers in the named project. Empty
	// lists the whole library.
	Project string
}

// NewStore opens or creates the library database at cfg.DBPath and
// creates the schema if it does not exist.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
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
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			venue TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS paper_authors (
			paper_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (paper_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			name TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS paper_projects (
			project_name TEXT NOT NULL REFERENCES projects(name) ON DELETE CASCADE,
			paper_id TEXT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			PRIMARY KEY (project_name, paper_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_projects_paper ON paper_projects(paper_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// UpsertPapers inserts or replaces records in one transaction. A record's
// author list is replaced as a whole. Records with an empty ID are
// rejected. It returns the number of records written.
func (s *Store) UpsertPapers(ctx context.Context, records []types.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, year, venue, doi, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, year=excluded.year, venue=excluded.venue,
			doi=excluded.doi, updated_at=excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing paper upsert: %w", err)
	}
	defer paperStmt.Close()

	authorStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO paper_authors (paper_id, position, name) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing author insert: %w", err)
	}
	defer authorStmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			return 0, fmt.Errorf("upserting paper %q: empty id", r.Title)
		}
		if _, err := paperStmt.ExecContext(ctx, r.ID, r.Title, r.Year, r.Venue, r.DOI, now); err != nil {
			return 0, fmt.Errorf("upserting paper %s: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM paper_authors WHERE paper_id = ?`, r.ID); err != nil {
			return 0, fmt.Errorf("clearing authors of %s: %w", r.ID, err)
		}
		for i, name := range r.Authors {
			if _, err := authorStmt.ExecContext(ctx, r.ID, i, name); err != nil {
				return 0, fmt.Errorf("inserting author of %s: %w", r.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing papers: %w", err)
	}
	return len(records), nil
}

// ListRecords returns a snapshot of the library sorted by ID, with authors
// in source order. A project scope that names no existing project returns
// ErrProjectNotFound.
func (s *Store) ListRecords(ctx context.Context, opts ListOptions) ([]types.Record, error) {
	var (
		paperQuery  = `SELECT id, title, year, venue, doi FROM papers`
		authorQuery = `SELECT a.paper_id, a.name FROM paper_authors a`
		args        []any
	)
	if opts.Project != "" {
		if err := s.requireProject(ctx, opts.Project); err != nil {
			return nil, err
		}
		paperQuery += ` JOIN paper_projects pp ON pp.paper_id = papers.id WHERE pp.project_name = ?`
		authorQuery += ` JOIN paper_projects pp ON pp.paper_id = a.paper_id WHERE pp.project_name = ?`
		args = append(args, opts.Project)
	}
	paperQuery += ` ORDER BY id`
	authorQuery += ` ORDER BY a.paper_id, a.position`

	rows, err := s.db.QueryContext(ctx, paperQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	records := []types.Record{}
	index := make(map[string]int)
	for rows.Next() {
		var r types.Record
		if err := rows.Scan(&r.ID, &r.Title, &r.Year, &r.Venue, &r.DOI); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		index[r.ID] = len(records)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}

	authorRows, err := s.db.QueryContext(ctx, authorQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}
	defer authorRows.Close()

	for authorRows.Next() {
		var paperID, name string
		if err := authorRows.Scan(&paperID, &name); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		if i, ok := index[paperID]; ok {
			records[i].Authors = append(records[i].Authors, name)
		}
	}
	if err := authorRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating authors: %w", err)
	}

	return records, nil
}

// CreateProject adds an empty project.
func (s *Store) CreateProject(ctx context.Context, name, description string) (types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Project{}, errors.New("project name is required")
	}

	created := time.Now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, description, created.Format(time.RFC3339))
	if err != nil {
		return types.Project{}, fmt.Errorf("creating project %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Project{}, fmt.Errorf("%w: %s", ErrProjectExists, name)
	}

	return types.Project{Name: name, Description: description, CreatedAt: created}, nil
}

// AddPaperToProject adds papers to a project. Adding a paper twice is a
// no-op. Either all papers are added or none.
func (s *Store) AddPaperToProject(ctx context.Context, project string, paperIDs ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM projects WHERE name = ?`, project).Scan(&exists); err != nil {
		return fmt.Errorf("checking project: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, project)
	}

	for _, id := range paperIDs {
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM papers WHERE id = ?`, id).Scan(&exists); err != nil {
			return fmt.Errorf("checking paper: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("%w: %s", ErrPaperNotFound, id)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO paper_projects (project_name, paper_id) VALUES (?, ?)`,
			project, id); err != nil {
			return fmt.Errorf("adding %s to %s: %w", id, project, err)
		}
	}

	return tx.Commit()
}

// ListProjects returns every project sorted by name, with paper counts.
func (s *Store) ListProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.name, p.description, p.created_at, count(pp.paper_id)
		 FROM projects p LEFT JOIN paper_projects pp ON pp.project_name = p.name
		 GROUP BY p.name ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	projects := []types.Project{}
	for rows.Next() {
		var (
			p       types.Project
			created string
		)
		if err := rows.Scan(&p.Name, &p.Description, &created, &p.Papers); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, created)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) requireProject(ctx context.Context, name string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM projects WHERE name = ?`, name).Scan(&n); err != nil {
		return fmt.Errorf("checking project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}
	return nil
}
