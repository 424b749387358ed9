package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/projcat/internal/config"
	"github.com/dshills/projcat/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// Store is the SQLite-backed project catalog. It exclusively owns every
// persisted row; callers mutate only through the upsert/replace operations.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the catalog at path and applies schema
// migrations idempotently. A path that cannot be opened is a fatal
// configuration error for the caller; it is never retried here.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog dir: %w", err)
		}
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// OpenDefault opens the catalog at the well-known per-user location.
func OpenDefault() (*Store, error) {
	path, err := config.DBPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Path returns the catalog file location.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertProject inserts or updates a project keyed by path and returns the
// resolved identifier. An update refreshes name, type, VCS flag, and the
// updated-at timestamp; created-at is preserved.
func (s *Store) UpsertProject(ctx context.Context, name, path string, projectType *string, isVCS bool) (int64, error) {
	query := `
		INSERT INTO projects (name, path, type, is_git_repo, updated_at)
		VALUES (?, ?, ?, ?, strftime('%s','now'))
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			is_git_repo = excluded.is_git_repo,
			updated_at = strftime('%s','now')
		RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query, name, path, projectType, boolToInt(isVCS)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert project: %w", err)
	}
	return id, nil
}

// UpsertMetrics replaces the metrics row for a project wholesale: absent
// fields in the new call overwrite previously present values with NULL.
func (s *Store) UpsertMetrics(ctx context.Context, projectID int64, sizeBytes, filesCount, lastEditedAt, loc *int64) error {
	query := `
		INSERT INTO metrics (project_id, size_bytes, files_count, last_edited_at, loc)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			files_count = excluded.files_count,
			last_edited_at = excluded.last_edited_at,
			loc = excluded.loc
	`
	if _, err := s.db.ExecContext(ctx, query, projectID, sizeBytes, filesCount, lastEditedAt, loc); err != nil {
		return fmt.Errorf("failed to upsert metrics: %w", err)
	}
	return nil
}

// UpsertVCSInfo replaces the repository metadata row for a project, with
// the same wholesale semantics as UpsertMetrics.
func (s *Store) UpsertVCSInfo(ctx context.Context, projectID int64, info types.VCSInfo) error {
	query := `
		INSERT INTO vcs_info (project_id, last_commit_at, branch, remote_url)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			last_commit_at = excluded.last_commit_at,
			branch = excluded.branch,
			remote_url = excluded.remote_url
	`
	if _, err := s.db.ExecContext(ctx, query, projectID, info.LastCommitAt, info.Branch, info.RemoteURL); err != nil {
		return fmt.Errorf("failed to upsert vcs info: %w", err)
	}
	return nil
}

// GetVCSInfo returns the repository metadata row for a project; a project
// without one yields the zero value.
func (s *Store) GetVCSInfo(ctx context.Context, projectID int64) (types.VCSInfo, error) {
	var (
		lastCommitAt sql.NullInt64
		branch       sql.NullString
		remoteURL    sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT last_commit_at, branch, remote_url FROM vcs_info WHERE project_id = ?",
		projectID).Scan(&lastCommitAt, &branch, &remoteURL)
	if errors.Is(err, sql.ErrNoRows) {
		return types.VCSInfo{}, nil
	}
	if err != nil {
		return types.VCSInfo{}, fmt.Errorf("failed to read vcs info: %w", err)
	}

	var info types.VCSInfo
	if lastCommitAt.Valid {
		info.LastCommitAt = &lastCommitAt.Int64
	}
	if branch.Valid {
		info.Branch = &branch.String
	}
	if remoteURL.Valid {
		info.RemoteURL = &remoteURL.String
	}
	return info, nil
}

// ReplaceLanguageBreakdown deletes the project's existing per-language rows
// and inserts the given set. An empty input clears the breakdown.
func (s *Store) ReplaceLanguageBreakdown(ctx context.Context, projectID int64, breakdown []types.LanguageCount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM loc_lang WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("failed to clear language breakdown: %w", err)
	}
	for _, lc := range breakdown {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO loc_lang (project_id, language, code) VALUES (?, ?, ?)",
			projectID, lc.Language, lc.Code)
		if err != nil {
			return fmt.Errorf("failed to insert language breakdown: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit language breakdown: %w", err)
	}
	return nil
}

// LanguageBreakdown returns the project's per-language rows ordered by
// descending code count.
func (s *Store) LanguageBreakdown(ctx context.Context, projectID int64) ([]types.LanguageCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT language, code FROM loc_lang WHERE project_id = ? ORDER BY code DESC, language ASC",
		projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]types.LanguageCount, 0)
	for rows.Next() {
		var lc types.LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Code); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

const recordColumns = `
	p.id, p.name, p.path, p.type, p.is_git_repo,
	m.size_bytes, m.files_count, m.last_edited_at, m.loc
`

// GetProjectByPath returns the record for an exact path, or ErrNotFound.
func (s *Store) GetProjectByPath(ctx context.Context, path string) (types.ProjectRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects p
		LEFT JOIN metrics m ON m.project_id = p.id
		WHERE p.path = ?
	`, recordColumns)

	rows, err := s.db.QueryContext(ctx, query, path)
	if err != nil {
		return types.ProjectRecord{}, err
	}
	defer func() { _ = rows.Close() }()

	records, err := collectRecords(rows)
	if err != nil {
		return types.ProjectRecord{}, err
	}
	if len(records) == 0 {
		return types.ProjectRecord{}, fmt.Errorf("project %s: %w", path, ErrNotFound)
	}
	return records[0], nil
}

// ListProjects returns up to limit records ordered by sortKey with each
// key's default direction (recency, size, and loc descend; name and type
// ascend). Nullable metric columns sort last either way.
func (s *Store) ListProjects(ctx context.Context, sortKey types.SortKey, limit int) ([]types.ProjectRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects p
		LEFT JOIN metrics m ON m.project_id = p.id
		ORDER BY %s
		LIMIT ?
	`, recordColumns, orderClause(sortKey, defaultAscending(sortKey)))

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectRecords(rows)
}

// CountProjects returns the number of projects whose name or path contains
// search; an empty search counts every project.
func (s *Store) CountProjects(ctx context.Context, search string) (int, error) {
	var (
		count int
		err   error
	)
	if search == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects p").Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM projects p WHERE p.name LIKE ?1 OR p.path LIKE ?1",
			"%"+search+"%").Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// QueryProjects returns one page of records matching search, sorted by
// sortKey in the requested direction. Null metric values sort last in both
// directions; the window is page*pageSize onward.
func (s *Store) QueryProjects(ctx context.Context, search string, sortKey types.SortKey, ascending bool, page, pageSize int) ([]types.ProjectRecord, error) {
	where := ""
	args := make([]interface{}, 0, 3)
	if search != "" {
		where = "WHERE p.name LIKE ? OR p.path LIKE ?"
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	args = append(args, pageSize, page*pageSize)

	query := fmt.Sprintf(`
		SELECT %s
		FROM projects p
		LEFT JOIN metrics m ON m.project_id = p.id
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, recordColumns, where, orderClause(sortKey, ascending))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectRecords(rows)
}

// orderClause builds the ORDER BY expression for a sort key. SQLite lacks
// NULLS LAST, so nullable metric keys get a CASE prefix that pins null rows
// after all others regardless of direction.
func orderClause(sortKey types.SortKey, ascending bool) string {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	switch sortKey {
	case types.SortSize:
		return "CASE WHEN m.size_bytes IS NULL THEN 1 ELSE 0 END, m.size_bytes " + dir
	case types.SortName:
		return "p.name " + dir
	case types.SortType:
		return "p.type " + dir + ", p.name " + dir
	case types.SortLOC:
		return "CASE WHEN m.loc IS NULL THEN 1 ELSE 0 END, m.loc " + dir
	default: // SortRecent
		return "CASE WHEN m.last_edited_at IS NULL THEN 1 ELSE 0 END, m.last_edited_at " + dir
	}
}

// defaultAscending gives each sort key the direction the plain listing
// uses: lexicographic keys ascend, metric keys show largest/newest first.
func defaultAscending(sortKey types.SortKey) bool {
	switch sortKey {
	case types.SortName, types.SortType:
		return true
	default:
		return false
	}
}

func collectRecords(rows *sql.Rows) ([]types.ProjectRecord, error) {
	records := make([]types.ProjectRecord, 0)
	for rows.Next() {
		var (
			rec          types.ProjectRecord
			projectType  sql.NullString
			isVCS        int64
			sizeBytes    sql.NullInt64
			filesCount   sql.NullInt64
			lastEditedAt sql.NullInt64
			loc          sql.NullInt64
		)
		err := rows.Scan(&rec.ID, &rec.Name, &rec.Path, &projectType, &isVCS,
			&sizeBytes, &filesCount, &lastEditedAt, &loc)
		if err != nil {
			return nil, err
		}
		rec.IsVCS = isVCS != 0
		if projectType.Valid {
			rec.Type = &projectType.String
		}
		if sizeBytes.Valid {
			rec.SizeBytes = &sizeBytes.Int64
		}
		if filesCount.Valid {
			rec.FilesCount = &filesCount.Int64
		}
		if lastEditedAt.Valid {
			rec.LastEditedAt = &lastEditedAt.Int64
		}
		if loc.Valid {
			rec.LOC = &loc.Int64
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
