// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/opsboard/opsboard/internal/model"
	"github.com/uptrace/bun"
)

// ExportDataForBackup reads every table inside one transaction.
func (s *BunStore) ExportDataForBackup(ctx context.Context) (*model.BackupData, error) {
	data := &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		Users:         []model.User{},
		Incidents:     []model.Incident{},
		Tickets:       []model.Ticket{},
		Datasets:      []model.Dataset{},
	}
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&data.Users).OrderExpr("id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("export users: %w", err)
		}
		if err := tx.NewSelect().Model(&data.Incidents).OrderExpr("id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("export incidents: %w", err)
		}
		if err := tx.NewSelect().Model(&data.Tickets).OrderExpr("id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("export tickets: %w", err)
		}
		if err := tx.NewSelect().Model(&data.Datasets).OrderExpr("id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("export datasets: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dbLogf("db: exported %d rows", data.Rows())
	return data, nil
}

// IntegrateDataFromBackup inserts every backup row whose id (or unique user
// name) is not already present and returns how many rows were added. Existing
// rows are never modified.
func (s *BunStore) IntegrateDataFromBackup(ctx context.Context, data *model.BackupData) (int, error) {
	if data == nil {
		return 0, nil
	}
	if data.SchemaVersion > model.BackupSchemaVersion {
		return 0, fmt.Errorf("backup schema version %d is newer than supported version %d", data.SchemaVersion, model.BackupSchemaVersion)
	}
	var total int64
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		steps := []struct {
			table string
			n     int
			model any
		}{
			{UsersTable.Name, len(data.Users), &data.Users},
			{IncidentsTable.Name, len(data.Incidents), &data.Incidents},
			{TicketsTable.Name, len(data.Tickets), &data.Tickets},
			{DatasetsTable.Name, len(data.Datasets), &data.Datasets},
		}
		for _, st := range steps {
			if st.n == 0 {
				continue
			}
			res, err := s.insertIgnore(tx.NewInsert().Model(st.model)).Exec(ctx)
			if err != nil {
				return fmt.Errorf("restore %s: %w", st.table, err)
			}
			n, err := affected(res)
			if err != nil {
				return err
			}
			total += n
			if s.dbType == TypePostgres {
				if err := resyncSequence(ctx, tx, st.table); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	dbLogf("db: integrated %d of %d backup rows", total, data.Rows())
	return int(total), nil
}

// insertIgnore turns q into an insert that skips conflicting rows. Returning
// is suppressed so skipped rows do not upset Bun's row count check.
func (s *BunStore) insertIgnore(q *bun.InsertQuery) *bun.InsertQuery {
	if s.dbType == TypeMySQL {
		return q.Ignore()
	}
	return q.On("CONFLICT DO NOTHING").Returning("NULL")
}

// resyncSequence moves a Postgres serial past the highest restored id.
func resyncSequence(ctx context.Context, tx bun.Tx, table string) error {
	_, err := ExecRaw(ctx, tx,
		"SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM ?), 1))",
		table, bun.Ident(table))
	if err != nil {
		return fmt.Errorf("resync %s id sequence: %w", table, err)
	}
	return nil
}
