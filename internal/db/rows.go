// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/opsboard/opsboard/internal/model"
	"github.com/uptrace/bun"
)

// Table names a table and the columns callers may write to it.
type Table struct {
	Name    string
	Columns []string
}

// The static table allow-lists. No other table or column name ever reaches SQL.
var (
	UsersTable     = Table{Name: "users", Columns: []string{"secret_hash", "hash_scheme", "role"}}
	IncidentsTable = Table{Name: "incidents", Columns: []string{"title", "severity", "status", "date", "reported_by"}}
	TicketsTable   = Table{Name: "tickets", Columns: []string{"title", "priority", "status", "created_date"}}
	DatasetsTable  = Table{Name: "datasets", Columns: []string{"name", "source", "category", "size"}}
)

// Column normalizes name and checks it against the allow-list. The returned
// name is safe to use as an identifier.
func (t Table) Column(name string) (string, error) {
	col := strings.ToLower(strings.TrimSpace(name))
	if !slices.Contains(t.Columns, col) {
		return "", fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, name)
	}
	return col, nil
}

// Order is the listing order of a Rows view.
type Order int

const (
	// Ascending lists oldest rows (lowest id) first.
	Ascending Order = iota
	// Descending lists newest rows (highest id) first.
	Descending
)

func (o Order) expr() string {
	if o == Descending {
		return "id DESC"
	}
	return "id ASC"
}

// Rows is a typed CRUD view over one allow-listed table.
type Rows[T any] struct {
	db    bun.IDB
	table Table
	order Order
	idOf  func(*T) int64
}

// NewRows builds a view of table for row type T. idOf reads the primary key
// back after an insert.
func NewRows[T any](db bun.IDB, table Table, order Order, idOf func(*T) int64) *Rows[T] {
	return &Rows[T]{db: db, table: table, order: order, idOf: idOf}
}

// Table returns the allow-list the view was built with.
func (r *Rows[T]) Table() Table { return r.table }

// Insert stores row and returns its new id.
func (r *Rows[T]) Insert(ctx context.Context, row *T) (int64, error) {
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", r.table.Name, MapDBError(err))
	}
	id := r.idOf(row)
	dbLogf("db: inserted %s id=%d", r.table.Name, id)
	return id, nil
}

// All returns every row in the view's order.
func (r *Rows[T]) All(ctx context.Context) ([]T, error) {
	var rows []T
	if err := r.db.NewSelect().Model(&rows).OrderExpr(r.order.expr()).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.Name, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// ByID returns the row with the given id, or nil when none exists.
func (r *Rows[T]) ByID(ctx context.Context, id int64) (*T, error) {
	row := new(T)
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s %d: %w", r.table.Name, id, err)
	}
	return row, nil
}

// UpdateColumn sets one allow-listed column on the row with the given id and
// returns the number of rows changed.
func (r *Rows[T]) UpdateColumn(ctx context.Context, id int64, column string, value any) (int64, error) {
	col, err := r.table.Column(column)
	if err != nil {
		return 0, err
	}
	res, err := ExecRaw(ctx, r.db, "UPDATE ? SET ? = ? WHERE id = ?", bun.Ident(r.table.Name), bun.Ident(col), value, id)
	if err != nil {
		return 0, fmt.Errorf("update %s.%s: %w", r.table.Name, col, MapDBError(err))
	}
	return affected(res)
}

// Delete removes the row with the given id and returns the number of rows removed.
func (r *Rows[T]) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.table.Name, err)
	}
	return affected(res)
}

// Count returns the number of rows in the table.
func (r *Rows[T]) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*T)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table.Name, err)
	}
	return n, nil
}

func incidentID(i *model.Incident) int64 { return i.ID }
func ticketID(t *model.Ticket) int64     { return t.ID }
func datasetID(d *model.Dataset) int64   { return d.ID }
