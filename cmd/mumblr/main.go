package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/artpar/mumblr/internal/core/auth"
)

// Set with -ldflags at release time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	hashPassword := flag.Bool("hash-password", false, "Read a password from stdin, print its bcrypt hash for auth.password_hash and exit")
	flag.Parse()

	switch {
	case *showVersion:
		fmt.Printf("mumblr %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	case *hashPassword:
		hash, err := hashFromReader(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash-password: %v\n", err)
			return ExitConfigError
		}
		fmt.Println(hash)
		return ExitSuccess
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	logger := SetupLogger(cfg)
	logger.Info("starting mumblr",
		"version", Version,
		"config", *configPath,
		"base_url", cfg.Site.BaseURL,
		"slug_mode", cfg.Slug.Mode,
	)

	server, err := NewServer(cfg, logger)
	if err != nil {
		return exitCode(logger, "failed to create server", err)
	}
	if err := server.Start(context.Background()); err != nil {
		return exitCode(logger, "server stopped", err)
	}
	return ExitSuccess
}

// exitCode logs err and picks the process exit code. Errors that are not a
// ServerError count as configuration errors.
func exitCode(logger *slog.Logger, msg string, err error) int {
	var sErr *ServerError
	if errors.As(err, &sErr) {
		logger.Error(msg, "error", sErr.Err, "operation", sErr.Op)
		return sErr.ExitCode
	}
	logger.Error(msg, "error", err)
	return ExitConfigError
}

// hashFromReader hashes the first line of r.
func hashFromReader(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return auth.HashPassword(strings.TrimRight(line, "\r\n"))
}
