package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
)

//go:embed *.sql
var files embed.FS

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// EnsureTablesExist applies the embedded schema files in name order. Every
// statement is idempotent, so this runs on each start.
func EnsureTablesExist(ctx context.Context, db execer, logger primary.Logger) error {
	names, err := fileNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		for _, stmt := range Statements(string(data)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				logger.Error("Failed to apply schema", "file", name, "error", err)
				return fmt.Errorf("failed to apply schema %s: %w", name, err)
			}
		}
		logger.Debug("Schema applied", "file", name)
	}
	return nil
}

func fileNames() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to list schema files: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Statements splits a schema file on semicolons, dropping comment lines.
// The schema files hold no string literals or function bodies.
func Statements(src string) []string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
