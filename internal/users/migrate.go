// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package users

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/opsboard/opsboard/internal/logging"
	"github.com/opsboard/opsboard/internal/model"
	"github.com/opsboard/opsboard/internal/security"
)

// MigrationReport counts what a migration run did with each line.
type MigrationReport struct {
	Inserted       int
	Duplicates     int
	Malformed      int
	MalformedLines []int
}

func (r *MigrationReport) malformed(line int) {
	r.Malformed++
	r.MalformedLines = append(r.MalformedLines, line)
}

// Migrator imports `name,secret[,role]` lines into a Directory. Running it
// twice over the same input inserts nothing the second time.
type Migrator struct {
	dir *Directory
	log *clog.Logger
}

// NewMigrator returns a Migrator writing through dir.
func NewMigrator(dir *Directory, logger *clog.Logger) *Migrator {
	return &Migrator{dir: dir, log: logging.Or(logger)}
}

// MigrateFile migrates the file at path. A missing file is logged and yields
// an empty report.
func (m *Migrator) MigrateFile(ctx context.Context, path string) (MigrationReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.log.Warn("user migration file not found; nothing to migrate", "path", path)
			return MigrationReport{}, nil
		}
		return MigrationReport{}, fmt.Errorf("open migration file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return m.Migrate(ctx, f)
}

// Migrate reads one credential per line. Empty lines and a leading header
// line are skipped. Lines without two or three fields, or with an empty name
// or secret, are counted as malformed. A secret that parses as a bcrypt hash
// is stored verbatim; anything else is hashed with the primary scheme.
// Storage failures stop the run and are returned with the partial report.
func (m *Migrator) Migrate(ctx context.Context, r io.Reader) (MigrationReport, error) {
	var rep MigrationReport
	scanner := bufio.NewScanner(r)
	lineNo := 0
	seenContent := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if !seenContent {
			seenContent = true
			if isHeader(fields[0]) {
				continue
			}
		}

		if len(fields) < 2 || len(fields) > 3 || fields[0] == "" || fields[1] == "" {
			m.log.Warn("skipping malformed credential line", "line", lineNo)
			rep.malformed(lineNo)
			continue
		}
		name, secret := fields[0], fields[1]
		role := model.DefaultRole
		if len(fields) == 3 && fields[2] != "" {
			role = fields[2]
		}

		var err error
		if security.LooksLikeBcrypt(secret) {
			_, err = m.dir.RegisterHashed(ctx, name, secret, security.SchemeBcrypt, role)
		} else {
			_, err = m.dir.Register(ctx, name, security.FromString(secret), role)
		}
		switch {
		case err == nil:
			rep.Inserted++
		case errors.Is(err, ErrUserExists):
			m.log.Debug("user already present; skipping", "name", name, "line", lineNo)
			rep.Duplicates++
		case errors.Is(err, ErrInvalidUser):
			m.log.Warn("skipping invalid credential line", "line", lineNo, "err", err)
			rep.malformed(lineNo)
		default:
			return rep, fmt.Errorf("migrate line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return rep, fmt.Errorf("read migration input: %w", err)
	}
	m.log.Info("user migration finished", "inserted", rep.Inserted, "duplicates", rep.Duplicates, "malformed", rep.Malformed)
	return rep, nil
}

func isHeader(first string) bool {
	switch strings.ToLower(first) {
	case "name", "username":
		return true
	}
	return false
}
