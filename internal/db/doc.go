// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db is the persistent store for opsboard.
//
// A single Bun-backed implementation serves SQLite (the default), PostgreSQL
// and MySQL. NewStoreFromDSN opens the connection, applies the embedded
// per-dialect schema (CREATE TABLE IF NOT EXISTS only; there is no version
// table) and returns a *BunStore.
//
// Users are reached through dedicated methods on the store. The three record
// tables are reached through Rows, a typed CRUD view that only ever names
// columns from its Table allow-list.
//
// Lookups return (nil, nil) when nothing matches. Updates and deletes return
// the number of affected rows; zero is not an error.
//
// Testing notes
//   - Use a shared-cache in-memory DSN such as
//     "file:"+t.Name()+"?mode=memory&cache=shared" for real SQL semantics.
package db
