// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestNewStoreFromDSN_UnsupportedType(t *testing.T) {
	if _, err := NewStoreFromDSN("oracle", "whatever"); err == nil {
		t.Fatalf("expected error for unsupported database type")
	}
}

func TestNewStoreFromDSN_OpenFailure(t *testing.T) {
	prev := sqlOpenFunc
	sqlOpenFunc = func(string, string) (*sql.DB, error) { return nil, errors.New("nope") }
	defer func() { sqlOpenFunc = prev }()

	if _, err := NewStoreFromDSN(TypeSQLite, ":memory:"); err == nil {
		t.Fatalf("expected open failure to be returned")
	}
}

func TestApplySchemaIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := ApplySchema(ctx, s.BunDB().DB, TypeSQLite); err != nil {
			t.Fatalf("ApplySchema run %d: %v", i+1, err)
		}
	}
	for _, table := range []string{"users", "incidents", "tickets", "datasets"} {
		var n int
		if err := QueryRawInto(ctx, s.BunDB(), &n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table); err != nil {
			t.Fatalf("query sqlite_master: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected table %s to exist once, got %d", table, n)
		}
	}
}

func TestApplySchemaUnknownDialect(t *testing.T) {
	s := newTestStore(t)
	if err := ApplySchema(context.Background(), s.BunDB().DB, "oracle"); err == nil {
		t.Fatalf("expected error for dialect without schema")
	}
}

func TestFileStorePersistsAcrossOpen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "opsboard.db")
	ctx := context.Background()

	s, err := NewStoreFromDSN(TypeSQLite, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.AddUser(ctx, newUser("alice")); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = NewStoreFromDSN(TypeSQLite, dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	u, err := s.GetUserByName(ctx, "alice")
	if err != nil || u == nil {
		t.Fatalf("expected alice after reopen, got %v, %v", u, err)
	}
	if err := s.Maintain(ctx); err != nil {
		t.Fatalf("Maintain: %v", err)
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x INT);\n\n  ;CREATE TABLE b (y INT);\n")
	if len(got) != 2 || got[0] != "CREATE TABLE a (x INT)" || got[1] != "CREATE TABLE b (y INT)" {
		t.Fatalf("unexpected statements: %#v", got)
	}
}

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Fatalf("nil should map to nil")
	}
	for _, msg := range []string{
		"UNIQUE constraint failed: users.name",
		"Error 1062: Duplicate entry 'alice' for key 'name'",
		"ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)",
	} {
		if !errors.Is(MapDBError(errors.New(msg)), ErrDuplicate) {
			t.Fatalf("expected %q to map to ErrDuplicate", msg)
		}
	}
	other := errors.New("disk I/O error")
	if MapDBError(other) != other {
		t.Fatalf("unrelated errors must pass through")
	}
}
