// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func seed(t *testing.T, dsn string) {
	t.Helper()
	mustRun(t, dsn, "alice-pw\n", "user", "register", "alice")
	mustRun(t, dsn, "", "incident", "add", "--title", "Outage", "--severity", "Critical")
	mustRun(t, dsn, "", "ticket", "add", "--title", "Reset token", "--priority", "Low")
	mustRun(t, dsn, "", "dataset", "add", "--name", "audit-log", "--size", "1024")
}

func TestBackupAndRestore(t *testing.T) {
	dir, dsn := testEnv(t)
	seed(t, dsn)

	out := mustRun(t, dsn, "", "backup", "nightly.json")
	if !strings.Contains(out, "Backup of 4 rows written to nightly.json.zst.") {
		t.Fatalf("unexpected backup output: %q", out)
	}
	file := filepath.Join(dir, "nightly.json.zst")
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	out = mustRun(t, dsn, "", "restore", file)
	if !strings.Contains(out, "Restored 0 of 4 rows") {
		t.Fatalf("restoring into the same database should add nothing: %q", out)
	}

	fresh := filepath.Join(dir, "fresh.db")
	out = mustRun(t, fresh, "", "restore", file)
	if !strings.Contains(out, "Restored 4 of 4 rows") {
		t.Fatalf("restoring into an empty database should add every row: %q", out)
	}
	mustRun(t, fresh, "alice-pw\n", "user", "login", "alice")
}

func TestBackupDefaultFileName(t *testing.T) {
	dir, dsn := testEnv(t)
	old := now
	now = func() time.Time { return time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = old })

	mustRun(t, dsn, "", "backup")
	if _, err := os.Stat(filepath.Join(dir, "opsboard-backup-2026-10-16.json.zst")); err != nil {
		t.Fatalf("default backup file missing: %v", err)
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	dir, dsn := testEnv(t)
	file := filepath.Join(dir, "junk.json.zst")
	if err := os.WriteFile(file, []byte("not zstd"), 0o600); err != nil {
		t.Fatalf("write junk: %v", err)
	}
	if _, err := run(t, dsn, "", "restore", file); err == nil {
		t.Fatalf("restore of a corrupt file should fail")
	}
}

func TestTransfer(t *testing.T) {
	dir, dsn := testEnv(t)
	seed(t, dsn)

	if _, err := run(t, dsn, "", "transfer", "--type", "sqlite"); err == nil {
		t.Fatalf("transfer without --dsn should fail")
	}

	target := filepath.Join(dir, "target.db")
	out := mustRun(t, dsn, "", "transfer", "--type", "sqlite", "--dsn", target)
	if !strings.Contains(out, "Transferred 4 of 4 rows to the sqlite database.") {
		t.Fatalf("unexpected transfer output: %q", out)
	}
	out = mustRun(t, target, "", "dataset", "list")
	if !strings.Contains(out, "audit-log") {
		t.Fatalf("transferred dataset missing: %q", out)
	}

	out = mustRun(t, dsn, "", "transfer", "--type", "sqlite", "--dsn", target)
	if !strings.Contains(out, "Transferred 0 of 4 rows") {
		t.Fatalf("repeated transfer should add nothing: %q", out)
	}
}

func TestMaintenance(t *testing.T) {
	_, dsn := testEnv(t)
	seed(t, dsn)
	out := mustRun(t, dsn, "", "maintenance", "--timeout", "30s")
	if !strings.Contains(out, "Database maintenance finished for sqlite.") {
		t.Fatalf("unexpected maintenance output: %q", out)
	}
}
