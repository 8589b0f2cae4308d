// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package records provides the CRUD facades for incidents, tickets and
// datasets. Each facade is a Service over one allow-listed table.
package records

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/opsboard/opsboard/internal/db"
	"github.com/opsboard/opsboard/internal/logging"
)

// ErrValidation is returned when a row or field value is rejected before
// reaching the store. Unknown columns match both ErrValidation and
// db.ErrUnknownColumn.
var ErrValidation = errors.New("validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// entity describes how a Service fills, defaults and checks rows of T.
type entity[T any] struct {
	// setters assign a raw CSV cell to one column of a row.
	setters map[string]func(*T, string) error
	// parsers convert raw strings for non-text columns.
	parsers map[string]func(string) (any, error)
	// required columns may not be updated to an empty value.
	required []string
	// defaults fills unset optional fields before insert.
	defaults func(*T)
}

// Service is the CRUD facade over one table.
type Service[T any] struct {
	rows *db.Rows[T]
	ent  entity[T]
	log  *clog.Logger
}

func newService[T any](rows *db.Rows[T], ent entity[T], logger *clog.Logger) *Service[T] {
	return &Service[T]{rows: rows, ent: ent, log: logging.Or(logger)}
}

// Table returns the table allow-list the service writes to.
func (s *Service[T]) Table() db.Table { return s.rows.Table() }

// Insert applies defaults, validates row and stores it. The new id is
// returned and also set on row.
func (s *Service[T]) Insert(ctx context.Context, row *T) (int64, error) {
	if s.ent.defaults != nil {
		s.ent.defaults(row)
	}
	if err := validateRow(row); err != nil {
		return 0, err
	}
	id, err := s.rows.Insert(ctx, row)
	if err != nil {
		return 0, err
	}
	s.log.Debug("inserted record", "table", s.rows.Table().Name, "id", id)
	return id, nil
}

// All returns every row in the service's listing order.
func (s *Service[T]) All(ctx context.Context) ([]T, error) {
	return s.rows.All(ctx)
}

// ByID returns one row, or (nil, nil) when the id does not exist.
func (s *Service[T]) ByID(ctx context.Context, id int64) (*T, error) {
	return s.rows.ByID(ctx, id)
}

// UpdateField sets one column of the row with the given id and returns the
// rows affected. String values are trimmed and typed columns are parsed.
func (s *Service[T]) UpdateField(ctx context.Context, id int64, field string, value any) (int64, error) {
	col, err := s.rows.Table().Column(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if raw, ok := value.(string); ok {
		value, err = s.parse(col, raw)
		if err != nil {
			return 0, err
		}
	}
	return s.rows.UpdateColumn(ctx, id, col, value)
}

// parse trims raw, rejects empty required values and converts typed columns.
func (s *Service[T]) parse(col, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && slices.Contains(s.ent.required, col) {
		return nil, fmt.Errorf("%w: %s is required", ErrValidation, col)
	}
	if p, ok := s.ent.parsers[col]; ok {
		return p(raw)
	}
	return raw, nil
}

// Build assembles a row from column/value pairs. Column names are checked
// against the allow-list; values go through the column setters. The row is
// not validated or stored.
func (s *Service[T]) Build(fields map[string]string) (*T, error) {
	row := new(T)
	for name, raw := range fields {
		col, err := s.rows.Table().Column(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		if set, ok := s.ent.setters[col]; ok {
			if err := set(row, strings.TrimSpace(raw)); err != nil {
				return nil, err
			}
		}
	}
	return row, nil
}

// Delete removes the row with the given id and returns the rows affected.
func (s *Service[T]) Delete(ctx context.Context, id int64) (int64, error) {
	return s.rows.Delete(ctx, id)
}

func validateRow(row any) error {
	if err := validate.Struct(row); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %q", ErrValidation, strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
