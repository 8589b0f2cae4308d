// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"math"

	"github.com/uptrace/bun"
)

// Dataset describes a tracked data set. Size is in bytes; zero means unknown.
type Dataset struct {
	bun.BaseModel `bun:"table:datasets,alias:d" json:"-"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name" validate:"required"`
	Source   string `bun:"source,nullzero" json:"source,omitempty"`
	Category string `bun:"category,nullzero" json:"category,omitempty"`
	Size     int64  `bun:"size,nullzero" json:"size,omitempty" validate:"gte=0"`
}

// SizeKB returns the size in kilobytes, rounded to two decimals.
func (d Dataset) SizeKB() float64 {
	return round2(float64(d.Size) / 1024)
}

// SizeMB returns the size in megabytes, rounded to two decimals.
func (d Dataset) SizeMB() float64 {
	return round2(float64(d.Size) / (1024 * 1024))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
