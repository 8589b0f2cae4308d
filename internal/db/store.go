// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/opsboard/opsboard/internal/model"
	"github.com/opsboard/opsboard/util/slicest"
	"github.com/uptrace/bun"
)

// Store defines the set of methods the services and the CLI need from the
// persistence layer.
type Store interface {
	// Users
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	AddUser(ctx context.Context, u *model.User) (int64, error)
	UpdateUserRole(ctx context.Context, name, role string) (int64, error)
	UpdateUserSecret(ctx context.Context, name, hash, scheme string) (int64, error)
	DeleteUser(ctx context.Context, name string) (int64, error)
	GetAllUsers(ctx context.Context) ([]model.UserSummary, error)

	// Records
	Incidents() *Rows[model.Incident]
	Tickets() *Rows[model.Ticket]
	Datasets() *Rows[model.Dataset]

	// Backup
	ExportDataForBackup(ctx context.Context) (*model.BackupData, error)
	IntegrateDataFromBackup(ctx context.Context, data *model.BackupData) (int, error)

	Maintain(ctx context.Context) error
	Type() string
	BunDB() *bun.DB
	Close() error
}

// BunStore implements Store for every supported dialect.
type BunStore struct {
	bun    *bun.DB
	dbType string

	incidents *Rows[model.Incident]
	tickets   *Rows[model.Ticket]
	datasets  *Rows[model.Dataset]
}

var _ Store = (*BunStore)(nil)

func newBunStore(bdb *bun.DB, dbType string) *BunStore {
	return &BunStore{
		bun:       bdb,
		dbType:    dbType,
		incidents: NewRows(bdb, IncidentsTable, Descending, incidentID),
		tickets:   NewRows(bdb, TicketsTable, Ascending, ticketID),
		datasets:  NewRows(bdb, DatasetsTable, Ascending, datasetID),
	}
}

// BunDB returns the underlying *bun.DB.
func (s *BunStore) BunDB() *bun.DB { return s.bun }

// Type returns the database type the store was opened with.
func (s *BunStore) Type() string { return s.dbType }

// Close releases the connection pool.
func (s *BunStore) Close() error {
	if s == nil || s.bun == nil {
		return nil
	}
	return s.bun.Close()
}

// Incidents lists newest first.
func (s *BunStore) Incidents() *Rows[model.Incident] { return s.incidents }

// Tickets lists by ascending id.
func (s *BunStore) Tickets() *Rows[model.Ticket] { return s.tickets }

// Datasets lists by ascending id.
func (s *BunStore) Datasets() *Rows[model.Dataset] { return s.datasets }

// GetUserByName retrieves a user by exact name. Returns (nil, nil) if not found.
func (s *BunStore) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	err := s.bun.NewSelect().Model(&u).Where("name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %q: %w", name, err)
	}
	return &u, nil
}

// AddUser inserts u and returns its new id. A name collision yields ErrDuplicate.
func (s *BunStore) AddUser(ctx context.Context, u *model.User) (int64, error) {
	if _, err := s.bun.NewInsert().Model(u).Column("name", "secret_hash", "hash_scheme", "role").Returning("id").Exec(ctx); err != nil {
		mapped := MapDBError(err)
		if errors.Is(mapped, ErrDuplicate) {
			return 0, mapped
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Name, mapped)
	}
	dbLogf("db: added user %q id=%d", u.Name, u.ID)
	return u.ID, nil
}

// UpdateUserRole sets the role of the named user.
func (s *BunStore) UpdateUserRole(ctx context.Context, name, role string) (int64, error) {
	res, err := ExecRaw(ctx, s.bun, "UPDATE users SET role = ? WHERE name = ?", role, name)
	if err != nil {
		return 0, fmt.Errorf("update role of %q: %w", name, err)
	}
	return affected(res)
}

// UpdateUserSecret replaces the stored hash and its scheme tag.
func (s *BunStore) UpdateUserSecret(ctx context.Context, name, hash, scheme string) (int64, error) {
	res, err := ExecRaw(ctx, s.bun, "UPDATE users SET secret_hash = ?, hash_scheme = ? WHERE name = ?", hash, scheme, name)
	if err != nil {
		return 0, fmt.Errorf("update secret of %q: %w", name, err)
	}
	return affected(res)
}

// DeleteUser removes the named user. Removing an absent user affects zero rows.
func (s *BunStore) DeleteUser(ctx context.Context, name string) (int64, error) {
	res, err := s.bun.NewDelete().Model((*model.User)(nil)).Where("name = ?", name).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete user %q: %w", name, err)
	}
	return affected(res)
}

// GetAllUsers lists users by ascending id without their credentials.
func (s *BunStore) GetAllUsers(ctx context.Context) ([]model.UserSummary, error) {
	var us []model.User
	if err := s.bun.NewSelect().Model(&us).Column("id", "name", "role").OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return slicest.Map(us, model.User.Summary), nil
}

// Maintain performs engine-specific housekeeping. For SQLite this runs PRAGMA
// optimize, VACUUM, a WAL checkpoint and an integrity check. For Postgres it
// runs VACUUM ANALYZE. For MySQL it runs OPTIMIZE TABLE for every table.
func (s *BunStore) Maintain(ctx context.Context) error {
	switch s.dbType {
	case TypeSQLite:
		// PRAGMA optimize may not be useful on in-memory databases; ignore its errors.
		if _, err := ExecRaw(ctx, s.bun, "PRAGMA optimize"); err != nil {
			dbLogf("db: sqlite optimize failed (ignored): %v", err)
		}
		if _, err := ExecRaw(ctx, s.bun, "VACUUM"); err != nil {
			return fmt.Errorf("sqlite vacuum failed: %w", err)
		}
		_, _ = ExecRaw(ctx, s.bun, "PRAGMA wal_checkpoint(TRUNCATE)")
		var res string
		if err := QueryRawInto(ctx, s.bun, &res, "PRAGMA integrity_check"); err != nil {
			return fmt.Errorf("sqlite integrity_check failed: %w", err)
		}
		if res != "ok" {
			return fmt.Errorf("sqlite integrity_check failed: %s", res)
		}
	case TypePostgres:
		if _, err := ExecRaw(ctx, s.bun, "VACUUM ANALYZE"); err != nil {
			return fmt.Errorf("postgres vacuum failed: %w", err)
		}
	case TypeMySQL:
		var tables []string
		if err := QueryRawInto(ctx, s.bun, &tables, "SHOW TABLES"); err != nil {
			return fmt.Errorf("mysql show tables failed: %w", err)
		}
		var failed []string
		var lastErr error
		for _, table := range tables {
			if _, err := ExecRaw(ctx, s.bun, "OPTIMIZE TABLE ?", bun.Ident(table)); err != nil {
				dbLogf("db: mysql optimize table %s failed: %v", table, err)
				failed = append(failed, table)
				lastErr = err
			}
		}
		if lastErr != nil {
			return fmt.Errorf("mysql optimize failed for %s: %w", strings.Join(failed, ", "), lastErr)
		}
	default:
		return fmt.Errorf("unsupported db type for maintenance: %s", s.dbType)
	}
	return nil
}
