// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"io"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/opsboard/opsboard/internal/db"
)

// Quiet is a logger that discards everything.
var Quiet = clog.New(io.Discard)

// MemoryDSN returns a shared-cache in-memory SQLite DSN unique to t.
func MemoryDSN(t testing.TB) string {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}

// NewStore opens a fresh in-memory store with the schema applied and closes
// it when the test ends.
func NewStore(t testing.TB) *db.BunStore {
	t.Helper()
	s, err := db.NewStoreFromDSN(db.TypeSQLite, MemoryDSN(t))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
