package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/artpar/mumblr/internal/core/domain"
	"github.com/artpar/mumblr/internal/core/slug"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Seed File
// =============================================================================

// SeedFile is the YAML document read by LoadSeedFile.
type SeedFile struct {
	Entries []SeedEntry `yaml:"entries"`
}

// SeedEntry describes one entry in a seed file. Omitted fields take the
// defaults of domain.NewEntry.
type SeedEntry struct {
	Type            string     `yaml:"type"`
	Title           string     `yaml:"title"`
	Slug            string     `yaml:"slug,omitempty"`
	Content         string     `yaml:"content,omitempty"`
	Description     string     `yaml:"description,omitempty"`
	LinkURL         string     `yaml:"link_url,omitempty"`
	ImageURL        string     `yaml:"image_url,omitempty"`
	VideoURL        string     `yaml:"video_url,omitempty"`
	Tags            []string   `yaml:"tags,omitempty"`
	Published       *bool      `yaml:"published,omitempty"`
	CommentsEnabled *bool      `yaml:"comments_enabled,omitempty"`
	PublishDate     *time.Time `yaml:"publish_date,omitempty"`
	ExpiryDate      *time.Time `yaml:"expiry_date,omitempty"`
}

// LoadSeedFile reads and parses a seed file.
func LoadSeedFile(path string) ([]SeedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses seed YAML.
func ParseSeed(data []byte) ([]SeedEntry, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Entries, nil
}

// ToEntry builds a validated domain entry. An empty slug is derived from
// the title with derive (slug.Derive when nil).
func (s SeedEntry) ToEntry(derive func(string) string) (*domain.Entry, error) {
	entryType, err := domain.ParseEntryType(s.Type)
	if err != nil {
		return nil, err
	}
	entry, err := domain.NewEntry(entryType, s.Title)
	if err != nil {
		return nil, err
	}

	if derive == nil {
		derive = slug.Derive
	}
	entry.Slug = s.Slug
	if entry.Slug == "" {
		entry.Slug = derive(s.Title)
	}
	entry.Content = s.Content
	entry.Description = s.Description
	entry.LinkURL = s.LinkURL
	entry.ImageURL = s.ImageURL
	entry.VideoURL = s.VideoURL
	entry.Tags = domain.NormalizeTags(s.Tags)
	if s.Published != nil {
		entry.Published = *s.Published
	}
	if s.CommentsEnabled != nil {
		entry.CommentsEnabled = *s.CommentsEnabled
	}
	if s.PublishDate != nil {
		entry.PublishDate = s.PublishDate.UTC()
	}
	if s.ExpiryDate != nil {
		expiry := s.ExpiryDate.UTC()
		entry.ExpiryDate = &expiry
	}

	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("seed entry %q: %w", s.Title, err)
	}
	return entry, nil
}

// =============================================================================
// Seeding
// =============================================================================

// Seed inserts seed entries in a single transaction, skipping those already
// seeded, so seeding the same file twice is harmless. A dated entry is
// already seeded when its permalink is taken. An undated entry lands on the
// day it is first seeded, so it is already seeded when an entry of the same
// type and title uses its slug on any day.
// It returns the number of entries created.
func Seed(ctx context.Context, s Store, seeds []SeedEntry, derive func(string) string) (int, error) {
	created := 0
	err := s.WithTx(ctx, func(tx Store) error {
		for _, seed := range seeds {
			entry, err := seed.ToEntry(derive)
			if err != nil {
				return err
			}

			seeded, err := alreadySeeded(ctx, tx, seed, entry)
			if err != nil {
				return err
			}
			if seeded {
				continue
			}

			if err := tx.CreateEntry(ctx, entry); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func alreadySeeded(ctx context.Context, s Store, seed SeedEntry, entry *domain.Entry) (bool, error) {
	if seed.PublishDate != nil {
		_, err := s.GetEntryByPermalink(ctx, entry.PublishDate, entry.Slug)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	existing, err := s.ListEntriesBySlug(ctx, entry.Slug)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.Type == entry.Type && e.Title == entry.Title {
			return true, nil
		}
	}
	return false, nil
}
