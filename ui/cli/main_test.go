// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/opsboard/opsboard/internal/config"
)

// testEnv isolates config lookup and returns a file-backed DSN in a temp dir.
func testEnv(t *testing.T) (dir, dsn string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("OPSBOARD_LOG_LEVEL", "error")
	t.Setenv("OPSBOARD_SECURITY_BCRYPT_COST", "4")
	t.Chdir(dir)
	return dir, filepath.Join(dir, "opsboard.db")
}

// run executes a fresh root command against dsn and returns its output.
func run(t *testing.T, dsn, stdin string, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, dsn, strings.NewReader(stdin), args...)
}

func runWithInput(t *testing.T, dsn string, in io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd, a := newRootCmd()
	t.Cleanup(a.close)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(in)
	cmd.SetArgs(append([]string{"--db-dsn", dsn}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dsn, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, dsn, stdin, args...)
	if err != nil {
		t.Fatalf("opsboard %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	_, dsn := testEnv(t)
	mustRun(t, dsn, "", "user", "list")

	path, err := config.GetConfigPath(false)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected default config at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "hash_scheme: bcrypt") {
		t.Fatalf("default config lacks hash scheme:\n%s", data)
	}
}

func TestMissingConfigFlagFile(t *testing.T) {
	dir, dsn := testEnv(t)
	_, err := run(t, dsn, "", "--config", filepath.Join(dir, "nope.yaml"), "user", "list")
	if err == nil || !strings.Contains(err.Error(), "--config") {
		t.Fatalf("expected --config error, got %v", err)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	_, dsn := testEnv(t)
	_, err := run(t, dsn, "", "--db-type", "oracle", "user", "list")
	if err == nil || !strings.Contains(err.Error(), "database.type") {
		t.Fatalf("expected invalid database.type error, got %v", err)
	}
}

func TestVersionSkipsSetup(t *testing.T) {
	_, dsn := testEnv(t)
	out, err := run(t, dsn, "", "--db-type", "oracle", "version")
	if err != nil {
		t.Fatalf("version should not need a database: %v", err)
	}
	if !strings.Contains(out, "version: ") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestResolveBuildVersionFromBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-01T00:00:00Z"},
		},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "v1.2.3" || c != "abc123" || d != "2026-01-01T00:00:00Z" {
		t.Fatalf("unexpected build version: %s %s %s", v, c, d)
	}
}

func TestResolveBuildVersionFromDeps(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "example.com/wrapper", Version: "(devel)"},
		Deps: []*debug.Module{{Path: modulePath, Version: "v0.9.0"}},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "v0.9.0" {
		t.Fatalf("expected dependency version, got %s", v)
	}
	if c != "dev" || d != "" {
		t.Fatalf("expected dev commit and empty date, got %q %q", c, d)
	}
}

func TestCompositeVersion(t *testing.T) {
	if got := compositeVersion("dev", "dev", ""); got != "dev" {
		t.Fatalf("got %q", got)
	}
	if got := compositeVersion("v1", "abc", "today"); got != "v1 (abc) built: today" {
		t.Fatalf("got %q", got)
	}
}
