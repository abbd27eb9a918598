package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/artpar/mumblr/internal/core/bookmarklet"
	"github.com/artpar/mumblr/internal/core/pagescript"
	"github.com/artpar/mumblr/internal/core/slug"
	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Log          LogConfig          `mapstructure:"log"`
	Site         SiteConfig         `mapstructure:"site"`
	Bookmarklet  BookmarkletConfig  `mapstructure:"bookmarklet"`
	PageScript   PageScriptConfig   `mapstructure:"page_script"`
	ScrollFollow ScrollFollowConfig `mapstructure:"scroll_follow"`
	Slug         SlugConfig         `mapstructure:"slug"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Seed         SeedConfig         `mapstructure:"seed"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SiteConfig holds the public site settings.
type SiteConfig struct {
	// BaseURL is the absolute URL the blog is served under, without a
	// trailing slash. Bookmarklet endpoints default to paths below it.
	BaseURL        string `mapstructure:"base_url"`
	EntriesPerPage int    `mapstructure:"entries_per_page"`
}

// BookmarkletConfig holds the values rendered into the bookmarklet.
type BookmarkletConfig struct {
	LinkURL       string   `mapstructure:"link_url"`
	VideoURL      string   `mapstructure:"video_url"`
	VideoPatterns []string `mapstructure:"video_patterns"`
}

// PageScriptConfig names the admin form elements the page script binds to.
type PageScriptConfig struct {
	TitleField string `mapstructure:"title_field"`
	SlugField  string `mapstructure:"slug_field"`
	SidebarID  string `mapstructure:"sidebar_id"`
}

// ScrollFollowConfig holds the sticky sidebar options.
type ScrollFollowConfig struct {
	Container string `mapstructure:"container"`
	Offset    int    `mapstructure:"offset"`
	Speed     int    `mapstructure:"speed"`
	Delay     int    `mapstructure:"delay"`
}

// SlugConfig selects the slug derivation.
// "literal" collapses only the first hyphen run, "collapse" every run.
type SlugConfig struct {
	Mode string `mapstructure:"mode"`
}

// AuthConfig holds the admin account. The password is stored as a bcrypt
// hash; generate one with -hash-password. An empty hash disables the admin.
type AuthConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	Realm        string `mapstructure:"realm"`
}

// SeedConfig points at an optional YAML file of entries loaded at startup.
type SeedConfig struct {
	Path string `mapstructure:"path"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("database.dsn", "./data/mumblr.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("site.base_url", "http://localhost:8080")
	v.SetDefault("site.entries_per_page", 10)
	v.SetDefault("bookmarklet.link_url", "")  // Derived from site.base_url
	v.SetDefault("bookmarklet.video_url", "") // Derived from site.base_url
	v.SetDefault("bookmarklet.video_patterns", bookmarklet.DefaultVideoPatterns)

	defaults := pagescript.DefaultOptions()
	v.SetDefault("page_script.title_field", defaults.TitleField)
	v.SetDefault("page_script.slug_field", defaults.SlugField)
	v.SetDefault("page_script.sidebar_id", defaults.SidebarID)
	v.SetDefault("scroll_follow.container", defaults.ScrollFollow.Container)
	v.SetDefault("scroll_follow.offset", defaults.ScrollFollow.Offset)
	v.SetDefault("scroll_follow.speed", defaults.ScrollFollow.Speed)
	v.SetDefault("scroll_follow.delay", defaults.ScrollFollow.Delay)

	v.SetDefault("slug.mode", string(slug.ModeLiteral))
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password_hash", "") // Admin disabled until set
	v.SetDefault("auth.realm", "mumblr admin")
	v.SetDefault("seed.path", "")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("MUMBLR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolve fills derived values and rejects settings no handler could use.
func (c *Config) resolve() error {
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	if c.Bookmarklet.LinkURL == "" {
		c.Bookmarklet.LinkURL = c.Site.BaseURL + "/admin/add/link/"
	}
	if c.Bookmarklet.VideoURL == "" {
		c.Bookmarklet.VideoURL = c.Site.BaseURL + "/admin/add/video/"
	}
	if c.Site.EntriesPerPage <= 0 {
		return fmt.Errorf("site.entries_per_page must be positive, got %d", c.Site.EntriesPerPage)
	}

	mode, err := slug.ParseMode(c.Slug.Mode)
	if err != nil {
		return fmt.Errorf("slug.mode: %w", err)
	}
	c.Slug.Mode = string(mode)

	if err := c.BookmarkletConfig().Validate(); err != nil {
		return fmt.Errorf("bookmarklet: %w", err)
	}
	if err := c.PageScriptOptions().Validate(); err != nil {
		return fmt.Errorf("page script: %w", err)
	}
	return nil
}

// BookmarkletConfig returns the bookmarklet settings.
func (c *Config) BookmarkletConfig() bookmarklet.Config {
	return bookmarklet.Config{
		LinkURL:       c.Bookmarklet.LinkURL,
		VideoURL:      c.Bookmarklet.VideoURL,
		VideoPatterns: c.Bookmarklet.VideoPatterns,
	}
}

// PageScriptOptions returns the page script settings.
func (c *Config) PageScriptOptions() pagescript.Options {
	return pagescript.Options{
		TitleField: c.PageScript.TitleField,
		SlugField:  c.PageScript.SlugField,
		SidebarID:  c.PageScript.SidebarID,
		SlugMode:   slug.Mode(c.Slug.Mode),
		ScrollFollow: pagescript.ScrollFollow{
			Container: c.ScrollFollow.Container,
			Offset:    c.ScrollFollow.Offset,
			Speed:     c.ScrollFollow.Speed,
			Delay:     c.ScrollFollow.Delay,
		},
	}
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
