// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package records

import (
	"context"

	clog "github.com/charmbracelet/log"
	"github.com/opsboard/opsboard/internal/db"
	"github.com/opsboard/opsboard/internal/model"
)

// Incidents is the facade over the incidents table.
type Incidents struct {
	*Service[model.Incident]
}

// NewIncidents returns the incidents facade. Incidents list newest first.
func NewIncidents(rows *db.Rows[model.Incident], logger *clog.Logger) *Incidents {
	return &Incidents{newService(rows, entity[model.Incident]{
		setters: map[string]func(*model.Incident, string) error{
			"title":       func(i *model.Incident, v string) error { i.Title = v; return nil },
			"severity":    func(i *model.Incident, v string) error { i.Severity = v; return nil },
			"status":      func(i *model.Incident, v string) error { i.Status = v; return nil },
			"date":        func(i *model.Incident, v string) error { i.Date = v; return nil },
			"reported_by": func(i *model.Incident, v string) error { i.ReportedBy = v; return nil },
		},
		required: []string{"title", "severity", "status"},
		defaults: func(i *model.Incident) {
			if i.Status == "" {
				i.Status = model.DefaultStatus
			}
		},
	}, logger)}
}

// UpdateStatus sets the status of one incident.
func (s *Incidents) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	return s.UpdateField(ctx, id, "status", status)
}
