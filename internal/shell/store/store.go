package store

import (
	"context"
	"time"

	"github.com/artpar/mumblr/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for blog entries.
type Store interface {
	// Entry operations
	CreateEntry(ctx context.Context, entry *domain.Entry) error
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	GetEntryByPermalink(ctx context.Context, day time.Time, slug string) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, entry *domain.Entry) error
	DeleteEntry(ctx context.Context, id string) error

	// ListEntries returns every entry, live or not, newest first.
	ListEntries(ctx context.Context, opts ListOptions) ([]domain.Entry, error)

	// ListEntriesBySlug returns every entry using slug, on any day.
	ListEntriesBySlug(ctx context.Context, slug string) ([]domain.Entry, error)

	// Live entries are what readers see (see domain.Entry.IsLive).
	ListLiveEntries(ctx context.Context, filter LiveFilter, opts ListOptions) ([]domain.Entry, error)
	CountLiveEntries(ctx context.Context, filter LiveFilter) (int, error)
	LiveTagCounts(ctx context.Context, now time.Time) (map[string]int, error)

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// =============================================================================
// Options
// =============================================================================

// LiveFilter selects live entries at Now, optionally restricted to a tag.
type LiveFilter struct {
	Now time.Time
	Tag string
}

// ListOptions defines pagination and filtering options.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns default list options.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:  100,
		Offset: 0,
	}
}

// PageOptions returns the options selecting a 1-based page of perPage entries.
func PageOptions(page, perPage int) ListOptions {
	if page < 1 {
		page = 1
	}
	return ListOptions{Limit: perPage, Offset: (page - 1) * perPage}.Normalize()
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
