// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestVerbs(t *testing.T) {
	got := verbs("Loaded %d %s rows (100%% done, %5.2f MB)")
	if !slices.Equal(got, []string{"d", "s", "f"}) {
		t.Fatalf("unexpected verbs: %v", got)
	}
}

func TestFindUsedKeysOnlyMatchesCatalogNamespaces(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cmd", "a.go"), `package a
func f() {
	_ = i18n.T("user.none")
	report("record.updated")
	_ = cfg("database.type")
}`)
	writeFile(t, filepath.Join(dir, "cmd", "a_test.go"), `package a
var _ = "user.only_in_tests"`)

	used, err := findUsedKeys(dir, []string{"user", "record"})
	if err != nil {
		t.Fatalf("findUsedKeys: %v", err)
	}
	for _, k := range []string{"user.none", "record.updated"} {
		if _, ok := used[k]; !ok {
			t.Fatalf("expected %s to be found, got %v", k, used)
		}
	}
	for _, k := range []string{"database.type", "user.only_in_tests"} {
		if _, ok := used[k]; ok {
			t.Fatalf("did not expect %s", k)
		}
	}
}

func TestLintReportsProblems(t *testing.T) {
	dir := t.TempDir()
	locales := filepath.Join(dir, "locales")
	writeFile(t, filepath.Join(dir, "a.go"), `package a
var _ = []string{"user.none", "user.removed", "user.ghost"}`)
	writeFile(t, filepath.Join(locales, "en.yaml"), `"user.none": "No users."
"user.removed": "Removed user %s."
"user.unused": "Never shown."
`)
	writeFile(t, filepath.Join(locales, "de.yaml"), `"user.none": "Keine Benutzer."
"user.removed": "Benutzer %d entfernt."
`)

	var out bytes.Buffer
	ok, err := lint(&out, dir, locales)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if ok {
		t.Fatalf("expected lint to fail:\n%s", out.String())
	}
	for _, want := range []string{
		"Undefined: user.ghost",
		"Missing in de.yaml: user.unused",
		"Verb mismatch in de.yaml: user.removed",
		"Orphaned: user.unused",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestLintProjectCatalogs(t *testing.T) {
	root := filepath.Join("..", "..")
	var out bytes.Buffer
	ok, err := lint(&out, root, filepath.Join(root, localesDir))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if !ok {
		t.Fatalf("project catalogs are inconsistent:\n%s", out.String())
	}
}
