package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/aymane70/taskman/internal/model"
)

// timeLayout is RFC 3339 with fixed nanosecond width so that stored UTC
// timestamps compare lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	errNotFound = errors.New("not found")
	errConflict = errors.New("already exists")
)

// Store is the server's SQL storage. The DSN picks the driver: postgres://
// URLs use lib/pq, anything else is treated as a SQLite file path.
type Store struct {
	db       *sql.DB
	postgres bool
}

// OpenStore opens the database and runs migrations
func OpenStore(dsn string) (*Store, error) {
	driver := "sqlite"
	postgres := false
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "postgres"
		postgres = true
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, postgres: postgres}

	if !postgres {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// modernc sqlite serializes writes; a single connection avoids
		// table-lock errors under concurrent handlers.
		db.SetMaxOpenConns(1)
	}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind converts ? placeholders to $N for postgres
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type userRecord struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// CreateUser inserts a new account; duplicate username/email is errConflict
func (s *Store) CreateUser(ctx context.Context, u userRecord) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		u.ID, u.Username, u.Email, u.PasswordHash, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return errConflict
		}
		return err
	}
	return nil
}

// GetUserByUsername looks up an account for login
func (s *Store) GetUserByUsername(ctx context.Context, username string) (userRecord, error) {
	var u userRecord
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, username, email, password_hash FROM users WHERE username = ?`),
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return userRecord{}, errNotFound
	}
	return u, err
}

// InsertTask stores a new task owned by userID
func (s *Store) InsertTask(ctx context.Context, userID string, t model.Task) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		t.ID, userID, t.Title, t.Description, string(t.Status), string(t.Priority),
		nullTime(t.DueDate), t.CreatedAt.UTC().Format(timeLayout), t.UpdatedAt.UTC().Format(timeLayout),
	)
	return err
}

// GetTask fetches one task; ownership is part of the lookup
func (s *Store) GetTask(ctx context.Context, userID, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?`),
		id, userID,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, errNotFound
	}
	return t, err
}

// UpdateTask replaces the mutable fields of a task
func (s *Store) UpdateTask(ctx context.Context, userID string, t model.Task) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		t.Title, t.Description, string(t.Status), string(t.Priority),
		nullTime(t.DueDate), t.UpdatedAt.UTC().Format(timeLayout), t.ID, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errNotFound
	}
	return nil
}

// DeleteTask removes a task
func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		DELETE FROM tasks WHERE id = ? AND user_id = ?`),
		id, userID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errNotFound
	}
	return nil
}

// listFilter carries the validated query parameters for ListTasks
type listFilter struct {
	Search   string
	Status   string
	Priority string
	SortCol  string // whitelisted column name
	SortDesc bool
	Page     int
	Size     int
}

// ListTasks returns one page of tasks plus the unpaginated total
func (s *Store) ListTasks(ctx context.Context, userID string, f listFilter) ([]model.Task, int64, error) {
	where := "WHERE user_id = ?"
	args := []any{userID}

	if f.Search != "" {
		where += " AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)"
		pattern := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pattern, pattern)
	}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		where += " AND priority = ?"
		args = append(args, f.Priority)
	}

	var total int64
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT COUNT(*) FROM tasks "+where), args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	query := fmt.Sprintf(`
		SELECT id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks %s ORDER BY %s %s, id %s LIMIT ? OFFSET ?`, where, f.SortCol, dir, dir)
	args = append(args, f.Size, f.Page*f.Size)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

// Statistics aggregates counts by status and priority for one user
func (s *Store) Statistics(ctx context.Context, userID string) (model.Statistics, error) {
	var stats model.Statistics
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'TODO' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'IN_PROGRESS' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'DONE' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN priority = 'HIGH' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN priority = 'MEDIUM' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN priority = 'LOW' THEN 1 ELSE 0 END), 0)
		FROM tasks WHERE user_id = ?`),
		userID,
	).Scan(&stats.TotalTasks, &stats.TodoTasks, &stats.InProgressTasks, &stats.DoneTasks,
		&stats.HighPriorityTasks, &stats.MediumPriorityTasks, &stats.LowPriorityTasks)
	return stats, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t         model.Task
		status    string
		priority  string
		due       sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &due, &createdAt, &updatedAt); err != nil {
		return model.Task{}, err
	}
	t.Status = model.Status(status)
	t.Priority = model.Priority(priority)
	if due.Valid && due.String != "" {
		if parsed, err := time.Parse(timeLayout, due.String); err == nil {
			t.DueDate = &parsed
		}
	}
	t.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	t.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}
