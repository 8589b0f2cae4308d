// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"strings"

	"github.com/uptrace/bun"
)

// Ticket is an IT support ticket.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t" json:"-"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Title       string `bun:"title,notnull" json:"title" validate:"required"`
	Priority    string `bun:"priority,notnull" json:"priority" validate:"required"`
	Status      string `bun:"status,notnull" json:"status"`
	CreatedDate string `bun:"created_date,nullzero" json:"created_date,omitempty"`
}

// IsHighPriority reports whether the ticket is High or Critical priority.
func (t Ticket) IsHighPriority() bool {
	switch strings.ToLower(strings.TrimSpace(t.Priority)) {
	case "high", "critical":
		return true
	}
	return false
}

// IsActive reports whether the ticket is neither resolved nor closed.
func (t Ticket) IsActive() bool {
	switch strings.ToLower(strings.TrimSpace(t.Status)) {
	case "resolved", "closed":
		return false
	}
	return true
}
