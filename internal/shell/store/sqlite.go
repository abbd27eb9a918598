package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artpar/mumblr/internal/core/domain"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	timeLayout = time.RFC3339
	dayLayout  = "2006-01-02"
)

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	// A single connection serialises writers and keeps ":memory:" databases
	// from being split across pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Entry Operations
// =============================================================================

// entryRow represents an entry row in the database.
type entryRow struct {
	ID              string  `db:"id"`
	Type            string  `db:"type"`
	Title           string  `db:"title"`
	Slug            string  `db:"slug"`
	Content         string  `db:"content"`
	Description     string  `db:"description"`
	LinkURL         string  `db:"link_url"`
	ImageURL        string  `db:"image_url"`
	VideoURL        string  `db:"video_url"`
	Published       bool    `db:"published"`
	CommentsEnabled bool    `db:"comments_enabled"`
	PublishDate     string  `db:"publish_date"`
	PublishDay      string  `db:"publish_day"`
	ExpiryDate      *string `db:"expiry_date"`
	CreatedAt       string  `db:"created_at"`
	UpdatedAt       string  `db:"updated_at"`
}

type tagRow struct {
	EntryID string `db:"entry_id"`
	Tag     string `db:"tag"`
}

// Entry writes touch two tables, so outside a transaction they run in one.

func (s *SQLiteStore) CreateEntry(ctx context.Context, entry *domain.Entry) error {
	return s.WithTx(ctx, func(tx Store) error {
		return tx.CreateEntry(ctx, entry)
	})
}

func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return getEntry(ctx, s.db, id)
}

func (s *SQLiteStore) GetEntryByPermalink(ctx context.Context, day time.Time, slug string) (*domain.Entry, error) {
	return getEntryByPermalink(ctx, s.db, day, slug)
}

func (s *SQLiteStore) UpdateEntry(ctx context.Context, entry *domain.Entry) error {
	return s.WithTx(ctx, func(tx Store) error {
		return tx.UpdateEntry(ctx, entry)
	})
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	return s.WithTx(ctx, func(tx Store) error {
		return tx.DeleteEntry(ctx, id)
	})
}

func (s *SQLiteStore) ListEntries(ctx context.Context, opts ListOptions) ([]domain.Entry, error) {
	return listEntries(ctx, s.db, opts)
}

func (s *SQLiteStore) ListEntriesBySlug(ctx context.Context, slug string) ([]domain.Entry, error) {
	return listEntriesBySlug(ctx, s.db, slug)
}

func (s *SQLiteStore) ListLiveEntries(ctx context.Context, filter LiveFilter, opts ListOptions) ([]domain.Entry, error) {
	return listLiveEntries(ctx, s.db, filter, opts)
}

func (s *SQLiteStore) CountLiveEntries(ctx context.Context, filter LiveFilter) (int, error) {
	return countLiveEntries(ctx, s.db, filter)
}

func (s *SQLiteStore) LiveTagCounts(ctx context.Context, now time.Time) (map[string]int, error) {
	return liveTagCounts(ctx, s.db, now)
}

// =============================================================================
// Transaction Support
// =============================================================================

func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLiteStore{tx: tx}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Transaction Store
// =============================================================================

// txSQLiteStore implements Store within a transaction.
type txSQLiteStore struct {
	tx *sqlx.Tx
}

func (s *txSQLiteStore) CreateEntry(ctx context.Context, entry *domain.Entry) error {
	return createEntry(ctx, s.tx, entry)
}

func (s *txSQLiteStore) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return getEntry(ctx, s.tx, id)
}

func (s *txSQLiteStore) GetEntryByPermalink(ctx context.Context, day time.Time, slug string) (*domain.Entry, error) {
	return getEntryByPermalink(ctx, s.tx, day, slug)
}

func (s *txSQLiteStore) UpdateEntry(ctx context.Context, entry *domain.Entry) error {
	return updateEntry(ctx, s.tx, entry)
}

func (s *txSQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	return deleteEntry(ctx, s.tx, id)
}

func (s *txSQLiteStore) ListEntries(ctx context.Context, opts ListOptions) ([]domain.Entry, error) {
	return listEntries(ctx, s.tx, opts)
}

func (s *txSQLiteStore) ListEntriesBySlug(ctx context.Context, slug string) ([]domain.Entry, error) {
	return listEntriesBySlug(ctx, s.tx, slug)
}

func (s *txSQLiteStore) ListLiveEntries(ctx context.Context, filter LiveFilter, opts ListOptions) ([]domain.Entry, error) {
	return listLiveEntries(ctx, s.tx, filter, opts)
}

func (s *txSQLiteStore) CountLiveEntries(ctx context.Context, filter LiveFilter) (int, error) {
	return countLiveEntries(ctx, s.tx, filter)
}

func (s *txSQLiteStore) LiveTagCounts(ctx context.Context, now time.Time) (map[string]int, error) {
	return liveTagCounts(ctx, s.tx, now)
}

func (s *txSQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLiteStore) Ping(ctx context.Context) error {
	// The transaction holds a live connection
	return nil
}

func (s *txSQLiteStore) Close() error {
	// No-op for tx store
	return nil
}

// =============================================================================
// Shared Implementation Functions
// =============================================================================

func entryParams(entry *domain.Entry) map[string]any {
	var expiry *string
	if entry.ExpiryDate != nil {
		e := entry.ExpiryDate.UTC().Format(timeLayout)
		expiry = &e
	}
	return map[string]any{
		"id":               entry.ID,
		"type":             string(entry.Type),
		"title":            entry.Title,
		"slug":             entry.Slug,
		"content":          entry.Content,
		"description":      entry.Description,
		"link_url":         entry.LinkURL,
		"image_url":        entry.ImageURL,
		"video_url":        entry.VideoURL,
		"published":        entry.Published,
		"comments_enabled": entry.CommentsEnabled,
		"publish_date":     entry.PublishDate.UTC().Format(timeLayout),
		"publish_day":      entry.PublishDate.UTC().Format(dayLayout),
		"expiry_date":      expiry,
		"created_at":       entry.CreatedAt.UTC().Format(timeLayout),
		"updated_at":       entry.UpdatedAt.UTC().Format(timeLayout),
	}
}

func createEntry(ctx context.Context, exec executor, entry *domain.Entry) error {
	query := `
		INSERT INTO entries (
			id, type, title, slug, content, description,
			link_url, image_url, video_url, published, comments_enabled,
			publish_date, publish_day, expiry_date, created_at, updated_at
		) VALUES (
			:id, :type, :title, :slug, :content, :description,
			:link_url, :image_url, :video_url, :published, :comments_enabled,
			:publish_date, :publish_day, :expiry_date, :created_at, :updated_at
		)`

	if _, err := exec.NamedExecContext(ctx, query, entryParams(entry)); err != nil {
		return classifyWriteError("CreateEntry", entry.ID, err)
	}

	return replaceTags(ctx, exec, "CreateEntry", entry)
}

func getEntry(ctx context.Context, exec executor, id string) (*domain.Entry, error) {
	var row entryRow
	err := exec.GetContext(ctx, &row, `SELECT * FROM entries WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetEntry", "entry", id, "entry not found", ErrNotFound)
		}
		return nil, NewStoreError("GetEntry", "entry", id, err.Error(), err)
	}

	entries, err := rowsToEntries(ctx, exec, []entryRow{row})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func getEntryByPermalink(ctx context.Context, exec executor, day time.Time, slug string) (*domain.Entry, error) {
	day = day.UTC()
	key := day.Format(dayLayout) + "/" + slug

	var row entryRow
	err := exec.GetContext(ctx, &row, `SELECT * FROM entries WHERE publish_day = ? AND slug = ?`, day.Format(dayLayout), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetEntryByPermalink", "entry", key, "entry not found", ErrNotFound)
		}
		return nil, NewStoreError("GetEntryByPermalink", "entry", key, err.Error(), err)
	}

	entries, err := rowsToEntries(ctx, exec, []entryRow{row})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func updateEntry(ctx context.Context, exec executor, entry *domain.Entry) error {
	query := `
		UPDATE entries SET
			type = :type,
			title = :title,
			slug = :slug,
			content = :content,
			description = :description,
			link_url = :link_url,
			image_url = :image_url,
			video_url = :video_url,
			published = :published,
			comments_enabled = :comments_enabled,
			publish_date = :publish_date,
			publish_day = :publish_day,
			expiry_date = :expiry_date,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := exec.NamedExecContext(ctx, query, entryParams(entry))
	if err != nil {
		return classifyWriteError("UpdateEntry", entry.ID, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("UpdateEntry", "entry", entry.ID, "entry not found", ErrNotFound)
	}

	return replaceTags(ctx, exec, "UpdateEntry", entry)
}

func deleteEntry(ctx context.Context, exec executor, id string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, id); err != nil {
		return NewStoreError("DeleteEntry", "entry", id, err.Error(), err)
	}

	result, err := exec.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return NewStoreError("DeleteEntry", "entry", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteEntry", "entry", id, "entry not found", ErrNotFound)
	}

	return nil
}

func listEntries(ctx context.Context, exec executor, opts ListOptions) ([]domain.Entry, error) {
	opts = opts.Normalize()
	query := `SELECT * FROM entries ORDER BY publish_date DESC, id LIMIT ? OFFSET ?`

	var rows []entryRow
	if err := exec.SelectContext(ctx, &rows, query, opts.Limit, opts.Offset); err != nil {
		return nil, NewStoreError("ListEntries", "entry", "", err.Error(), err)
	}

	return rowsToEntries(ctx, exec, rows)
}

// liveWhere builds the condition matching domain.Entry.IsLive for entries
// aliased as e.
func listEntriesBySlug(ctx context.Context, exec executor, slug string) ([]domain.Entry, error) {
	query := `SELECT * FROM entries WHERE slug = ? ORDER BY publish_date DESC, id`

	var rows []entryRow
	if err := exec.SelectContext(ctx, &rows, query, slug); err != nil {
		return nil, NewStoreError("ListEntriesBySlug", "entry", slug, err.Error(), err)
	}

	return rowsToEntries(ctx, exec, rows)
}

func liveWhere(filter LiveFilter) (string, []any) {
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}
	ts := now.UTC().Format(timeLayout)

	where := `e.published = 1 AND e.publish_date <= ? AND (e.expiry_date IS NULL OR e.expiry_date > ?)`
	args := []any{ts, ts}

	if filter.Tag != "" {
		where += ` AND EXISTS (SELECT 1 FROM entry_tags t WHERE t.entry_id = e.id AND t.tag = ?)`
		args = append(args, filter.Tag)
	}
	return where, args
}

func listLiveEntries(ctx context.Context, exec executor, filter LiveFilter, opts ListOptions) ([]domain.Entry, error) {
	opts = opts.Normalize()
	where, args := liveWhere(filter)
	query := `SELECT e.* FROM entries e WHERE ` + where + ` ORDER BY e.publish_date DESC, e.id LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	var rows []entryRow
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, NewStoreError("ListLiveEntries", "entry", "", err.Error(), err)
	}

	return rowsToEntries(ctx, exec, rows)
}

func countLiveEntries(ctx context.Context, exec executor, filter LiveFilter) (int, error) {
	where, args := liveWhere(filter)

	var n int
	if err := exec.GetContext(ctx, &n, `SELECT COUNT(*) FROM entries e WHERE `+where, args...); err != nil {
		return 0, NewStoreError("CountLiveEntries", "entry", "", err.Error(), err)
	}
	return n, nil
}

func liveTagCounts(ctx context.Context, exec executor, now time.Time) (map[string]int, error) {
	where, args := liveWhere(LiveFilter{Now: now})
	query := `
		SELECT tg.tag AS tag, COUNT(*) AS n
		FROM entry_tags tg JOIN entries e ON e.id = tg.entry_id
		WHERE ` + where + `
		GROUP BY tg.tag`

	var rows []struct {
		Tag string `db:"tag"`
		N   int    `db:"n"`
	}
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, NewStoreError("LiveTagCounts", "tag", "", err.Error(), err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Tag] = r.N
	}
	return counts, nil
}

// =============================================================================
// Tags
// =============================================================================

func replaceTags(ctx context.Context, exec executor, op string, entry *domain.Entry) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, entry.ID); err != nil {
		return NewStoreError(op, "entry", entry.ID, "failed to clear tags: "+err.Error(), err)
	}

	for i, tag := range domain.NormalizeTags(entry.Tags) {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO entry_tags (entry_id, tag, position) VALUES (?, ?, ?)`,
			entry.ID, tag, i)
		if err != nil {
			return NewStoreError(op, "entry", entry.ID, "failed to store tag "+tag+": "+err.Error(), err)
		}
	}
	return nil
}

func loadTags(ctx context.Context, exec executor, ids []string) (map[string][]string, error) {
	tags := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}

	query, args, err := sqlx.In(`SELECT entry_id, tag FROM entry_tags WHERE entry_id IN (?) ORDER BY entry_id, position`, ids)
	if err != nil {
		return nil, NewStoreError("loadTags", "tag", "", err.Error(), err)
	}

	var rows []tagRow
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, NewStoreError("loadTags", "tag", "", err.Error(), err)
	}

	for _, r := range rows {
		tags[r.EntryID] = append(tags[r.EntryID], r.Tag)
	}
	return tags, nil
}

// =============================================================================
// Conversion Helpers
// =============================================================================

func rowsToEntries(ctx context.Context, exec executor, rows []entryRow) ([]domain.Entry, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	tags, err := loadTags(ctx, exec, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := rowToEntry(&row)
		if err != nil {
			return nil, err
		}
		entry.Tags = tags[row.ID]
		entries = append(entries, *entry)
	}
	return entries, nil
}

func rowToEntry(row *entryRow) (*domain.Entry, error) {
	publishDate, err := time.Parse(timeLayout, row.PublishDate)
	if err != nil {
		return nil, NewStoreError("rowToEntry", "entry", row.ID, "failed to parse publish_date", ErrInvalidData)
	}
	createdAt, _ := time.Parse(timeLayout, row.CreatedAt)
	updatedAt, _ := time.Parse(timeLayout, row.UpdatedAt)

	var expiry *time.Time
	if row.ExpiryDate != nil && *row.ExpiryDate != "" {
		t, err := time.Parse(timeLayout, *row.ExpiryDate)
		if err != nil {
			return nil, NewStoreError("rowToEntry", "entry", row.ID, "failed to parse expiry_date", ErrInvalidData)
		}
		expiry = &t
	}

	return &domain.Entry{
		ID:              row.ID,
		Type:            domain.EntryType(row.Type),
		Title:           row.Title,
		Slug:            row.Slug,
		Content:         row.Content,
		Description:     row.Description,
		LinkURL:         row.LinkURL,
		ImageURL:        row.ImageURL,
		VideoURL:        row.VideoURL,
		Published:       row.Published,
		CommentsEnabled: row.CommentsEnabled,
		PublishDate:     publishDate,
		ExpiryDate:      expiry,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

// classifyWriteError maps SQLite constraint failures to store errors.
func classifyWriteError(op, id string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "entries.id"):
			return NewStoreError(op, "entry", id, "entry with this ID already exists", ErrDuplicateID)
		case strings.Contains(msg, "entries.slug"):
			return NewStoreError(op, "entry", id, "slug already used on that day", ErrDuplicateSlug)
		}
	}
	return NewStoreError(op, "entry", id, err.Error(), err)
}
