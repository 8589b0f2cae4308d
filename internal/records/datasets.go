// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package records

import (
	"fmt"
	"strconv"

	clog "github.com/charmbracelet/log"
	"github.com/opsboard/opsboard/internal/db"
	"github.com/opsboard/opsboard/internal/model"
)

// Datasets is the facade over the datasets table.
type Datasets struct {
	*Service[model.Dataset]
}

// NewDatasets returns the datasets facade. Datasets list oldest first.
func NewDatasets(rows *db.Rows[model.Dataset], logger *clog.Logger) *Datasets {
	return &Datasets{newService(rows, entity[model.Dataset]{
		setters: map[string]func(*model.Dataset, string) error{
			"name":     func(d *model.Dataset, v string) error { d.Name = v; return nil },
			"source":   func(d *model.Dataset, v string) error { d.Source = v; return nil },
			"category": func(d *model.Dataset, v string) error { d.Category = v; return nil },
			"size": func(d *model.Dataset, v string) (err error) {
				d.Size, err = ParseSize(v)
				return err
			},
		},
		parsers: map[string]func(string) (any, error){
			"size": parseSizeColumn,
		},
		required: []string{"name"},
	}, logger)}
}

// parseSizeColumn stores an empty size as NULL, the same as an insert
// without one.
func parseSizeColumn(v string) (any, error) {
	if v == "" {
		return nil, nil
	}
	return ParseSize(v)
}

// ParseSize parses a byte count. Empty means unknown and yields zero.
func ParseSize(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: size %q is not an integer", ErrValidation, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: size must not be negative", ErrValidation)
	}
	return n, nil
}
