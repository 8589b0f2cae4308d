// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"strings"

	"github.com/uptrace/bun"
)

// Incident is a reported security incident.
type Incident struct {
	bun.BaseModel `bun:"table:incidents,alias:i" json:"-"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Title      string `bun:"title,notnull" json:"title" validate:"required"`
	Severity   string `bun:"severity,notnull" json:"severity" validate:"required"`
	Status     string `bun:"status,notnull" json:"status"`
	Date       string `bun:"date,nullzero" json:"date,omitempty"`
	ReportedBy string `bun:"reported_by,nullzero" json:"reported_by,omitempty"`
}

var severityLevels = map[string]int{
	"low":      1,
	"medium":   2,
	"high":     3,
	"critical": 4,
}

// SeverityLevel maps Low..Critical to 1..4. Unknown severities are 0.
func (i Incident) SeverityLevel() int {
	return severityLevels[strings.ToLower(strings.TrimSpace(i.Severity))]
}

// IsHighRisk reports whether the severity is High or Critical.
func (i Incident) IsHighRisk() bool {
	return i.SeverityLevel() >= 3
}

// IsOpen reports whether the incident still needs attention.
func (i Incident) IsOpen() bool {
	switch strings.ToLower(strings.TrimSpace(i.Status)) {
	case "open", "in progress", "in-progress":
		return true
	}
	return false
}
