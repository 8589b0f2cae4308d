// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup encodes full store exports as zstd-compressed JSON.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/opsboard/opsboard/internal/model"
)

// Extension is appended to backup file names that lack it.
const Extension = ".json.zst"

// DefaultFileName returns opsboard-backup-YYYY-MM-DD.json.zst for now.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("opsboard-backup-%s%s", now.Format("2006-01-02"), Extension)
}

// NormalizeFileName appends .zst (or .json.zst) when name lacks it.
func NormalizeFileName(name string) string {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return name
	case strings.HasSuffix(name, ".json"):
		return name + ".zst"
	default:
		return name + Extension
	}
}

// Encode writes data as indented JSON through a zstd encoder.
func Encode(w io.Writer, data *model.BackupData) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not flush zstd writer: %w", err)
	}
	return nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*model.BackupData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	if data.SchemaVersion == 0 {
		return nil, errors.New("backup has no schema_version")
	}
	return &data, nil
}

// WriteFile encodes data into filename with 0600 permissions.
func WriteFile(filename string, data *model.BackupData) (err error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return Encode(f, data)
}

// ReadFile decodes the backup stored in filename.
func ReadFile(filename string) (*model.BackupData, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}
