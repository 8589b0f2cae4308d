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

// Tickets is the facade over the tickets table.
type Tickets struct {
	*Service[model.Ticket]
}

// NewTickets returns the tickets facade. Tickets list oldest first.
func NewTickets(rows *db.Rows[model.Ticket], logger *clog.Logger) *Tickets {
	return &Tickets{newService(rows, entity[model.Ticket]{
		setters: map[string]func(*model.Ticket, string) error{
			"title":        func(t *model.Ticket, v string) error { t.Title = v; return nil },
			"priority":     func(t *model.Ticket, v string) error { t.Priority = v; return nil },
			"status":       func(t *model.Ticket, v string) error { t.Status = v; return nil },
			"created_date": func(t *model.Ticket, v string) error { t.CreatedDate = v; return nil },
		},
		required: []string{"title", "priority", "status"},
		defaults: func(t *model.Ticket) {
			if t.Status == "" {
				t.Status = model.DefaultStatus
			}
		},
	}, logger)}
}

// UpdateStatus sets the status of one ticket.
func (s *Tickets) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	return s.UpdateField(ctx, id, "status", status)
}
