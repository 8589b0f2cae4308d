// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opsboard/opsboard/util/slicest"
)

// LoadCSV inserts one row per data record of a CSV document. The header row
// names the columns and every name must be in the table's allow-list. An
// `id` column is ignored so exported sheets can be loaded back. Loading stops
// at the first invalid record; the rows inserted before it stay.
func (s *Service[T]) LoadCSV(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := slicest.MapX(header, func(h string) (string, error) {
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(h), "id") {
			return "", nil
		}
		return s.rows.Table().Column(h)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: csv header: %w", ErrValidation, err)
	}

	inserted := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return inserted, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) != len(cols) {
			return inserted, fmt.Errorf("%w: csv line %d has %d fields, header has %d", ErrValidation, line, len(rec), len(cols))
		}
		fields := make(map[string]string, len(cols))
		for i, col := range cols {
			if col != "" {
				fields[col] = rec[i]
			}
		}
		row, err := s.Build(fields)
		if err != nil {
			return inserted, fmt.Errorf("csv line %d: %w", line, err)
		}
		if _, err := s.Insert(ctx, row); err != nil {
			return inserted, fmt.Errorf("csv line %d: %w", line, err)
		}
		inserted++
	}
	s.log.Info("loaded csv", "table", s.rows.Table().Name, "rows", inserted)
	return inserted, nil
}

// LoadCSVFile opens path and runs LoadCSV on it.
func (s *Service[T]) LoadCSVFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()
	return s.LoadCSV(ctx, f)
}
