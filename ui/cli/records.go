// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opsboard/opsboard/internal/db"
	"github.com/opsboard/opsboard/internal/i18n"
	"github.com/opsboard/opsboard/internal/model"
	"github.com/spf13/cobra"
)

// recordService is what the record commands need from a records facade.
type recordService[T any] interface {
	Build(fields map[string]string) (*T, error)
	Insert(ctx context.Context, row *T) (int64, error)
	All(ctx context.Context) ([]T, error)
	ByID(ctx context.Context, id int64) (*T, error)
	UpdateField(ctx context.Context, id int64, field string, value any) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	LoadCSVFile(ctx context.Context, path string) (int, error)
}

type statusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, status string) (int64, error)
}

// recordView binds one record kind to its command group.
type recordView[T any] struct {
	use     string
	noun    string
	aliases []string
	table   db.Table
	// svc is resolved at run time; services exist only after setup.
	svc     func() recordService[T]
	headers []string
	row     func(T) []string
	status  bool
}

func incidentsView(a *app) recordView[model.Incident] {
	return recordView[model.Incident]{
		use:     "incident",
		noun:    "incident",
		aliases: []string{"incidents"},
		table:   db.IncidentsTable,
		svc:     func() recordService[model.Incident] { return a.incidents },
		headers: []string{"ID", "TITLE", "SEVERITY", "STATUS", "DATE", "REPORTED BY"},
		row: func(i model.Incident) []string {
			return []string{strconv.FormatInt(i.ID, 10), i.Title, i.Severity, i.Status, i.Date, i.ReportedBy}
		},
		status: true,
	}
}

func ticketsView(a *app) recordView[model.Ticket] {
	return recordView[model.Ticket]{
		use:     "ticket",
		noun:    "ticket",
		aliases: []string{"tickets"},
		table:   db.TicketsTable,
		svc:     func() recordService[model.Ticket] { return a.tickets },
		headers: []string{"ID", "TITLE", "PRIORITY", "STATUS", "CREATED"},
		row: func(t model.Ticket) []string {
			return []string{strconv.FormatInt(t.ID, 10), t.Title, t.Priority, t.Status, t.CreatedDate}
		},
		status: true,
	}
}

func datasetsView(a *app) recordView[model.Dataset] {
	return recordView[model.Dataset]{
		use:     "dataset",
		noun:    "dataset",
		aliases: []string{"datasets"},
		table:   db.DatasetsTable,
		svc:     func() recordService[model.Dataset] { return a.datasets },
		headers: []string{"ID", "NAME", "SOURCE", "CATEGORY", "SIZE"},
		row: func(d model.Dataset) []string {
			size := ""
			if d.Size > 0 {
				size = fmt.Sprintf("%.2f MB", d.SizeMB())
			}
			return []string{strconv.FormatInt(d.ID, 10), d.Name, d.Source, d.Category, size}
		},
	}
}

func newRecordCmd[T any](a *app, v recordView[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     v.use,
		Aliases: v.aliases,
		Short:   fmt.Sprintf("Manage %ss", v.noun),
	}
	cmd.AddCommand(
		v.addCmd(a),
		v.listCmd(a),
		v.showCmd(a),
		v.updateCmd(a),
		v.deleteCmd(a),
		v.loadCmd(a),
	)
	if v.status {
		cmd.AddCommand(v.statusCmd(a))
	}
	return cmd
}

func flagName(col string) string { return strings.ReplaceAll(col, "_", "-") }

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (v recordView[T]) addCmd(a *app) *cobra.Command {
	values := make(map[string]*string, len(v.table.Columns))
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", v.noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make(map[string]string, len(values))
			for col, val := range values {
				if cmd.Flags().Changed(flagName(col)) {
					fields[col] = *val
				}
			}
			svc := v.svc()
			row, err := svc.Build(fields)
			if err != nil {
				return err
			}
			id, err := svc.Insert(a.ctx(cmd), row)
			if err != nil {
				return err
			}
			say(cmd.OutOrStdout(), i18n.T("record.added", v.noun, id))
			return nil
		},
	}
	for _, col := range v.table.Columns {
		values[col] = cmd.Flags().String(flagName(col), "", col)
	}
	return cmd
}

func (v recordView[T]) listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss", v.noun),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := v.svc().All(a.ctx(cmd))
			if err != nil {
				return err
			}
			if len(all) == 0 {
				say(cmd.OutOrStdout(), i18n.T("record.none", v.noun+"s"))
				return nil
			}
			rows := make([][]string, 0, len(all))
			for _, r := range all {
				rows = append(rows, v.row(r))
			}
			renderTable(cmd.OutOrStdout(), v.headers, rows)
			return nil
		},
	}
}

func (v recordView[T]) showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show one %s", v.noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := v.svc().ByID(a.ctx(cmd), id)
			if err != nil {
				return err
			}
			if r == nil {
				return errors.New(i18n.T("record.not_found", v.noun, id))
			}
			renderTable(cmd.OutOrStdout(), v.headers, [][]string{v.row(*r)})
			return nil
		},
	}
}

func (v recordView[T]) updateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <field> <value>",
		Short: fmt.Sprintf("Change one field of a %s", v.noun),
		Long:  fmt.Sprintf("Changes one field of a %s. Allowed fields: %s.", v.noun, strings.Join(v.table.Columns, ", ")),
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := v.svc().UpdateField(a.ctx(cmd), id, args[1], args[2])
			return v.reportChange(cmd, id, n, err, "record.updated")
		},
	}
}

func (v recordView[T]) statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: fmt.Sprintf("Set the status of a %s", v.noun),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			su, ok := v.svc().(statusUpdater)
			if !ok {
				return fmt.Errorf("%ss have no status", v.noun)
			}
			n, err := su.UpdateStatus(a.ctx(cmd), id, args[1])
			return v.reportChange(cmd, id, n, err, "record.updated")
		},
	}
}

func (v recordView[T]) deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", v.noun),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := v.svc().Delete(a.ctx(cmd), id)
			return v.reportChange(cmd, id, n, err, "record.deleted")
		},
	}
}

func (v recordView[T]) loadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.csv>",
		Short: fmt.Sprintf("Load %ss from a CSV file", v.noun),
		Long: fmt.Sprintf(`Loads %ss from a CSV file whose header names the columns.
Allowed columns: %s. An id column is ignored.`, v.noun, strings.Join(v.table.Columns, ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := v.svc().LoadCSVFile(a.ctx(cmd), args[0])
			if n > 0 || err == nil {
				say(cmd.OutOrStdout(), i18n.T("record.loaded", n, v.noun))
			}
			return err
		},
	}
}

func (v recordView[T]) reportChange(cmd *cobra.Command, id, n int64, err error, msgID string) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New(i18n.T("record.not_found", v.noun, id))
	}
	say(cmd.OutOrStdout(), i18n.T(msgID, v.noun, id))
	return nil
}
