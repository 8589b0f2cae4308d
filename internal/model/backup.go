// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package model

// BackupSchemaVersion is written into every backup document.
const BackupSchemaVersion = 1

// BackupData is the full export of every table.
type BackupData struct {
	SchemaVersion int        `json:"schema_version"`
	Users         []User     `json:"users"`
	Incidents     []Incident `json:"incidents"`
	Tickets       []Ticket   `json:"tickets"`
	Datasets      []Dataset  `json:"datasets"`
}

// Rows returns the total number of rows in the backup.
func (b *BackupData) Rows() int {
	if b == nil {
		return 0
	}
	return len(b.Users) + len(b.Incidents) + len(b.Tickets) + len(b.Datasets)
}
