// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the message catalogs against the Go sources. It fails
// when code uses an id the primary catalog lacks, when another catalog misses
// a primary id, or when a translation expects different fmt verbs than the
// primary text. Ids no code uses are reported as warnings.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

func main() {
	ok, err := lint(os.Stdout, projectRoot, filepath.Join(projectRoot, localesDir))
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

// report collects everything lint found.
type report struct {
	Undefined  []string
	Orphaned   []string
	Missing    map[string][]string
	Mismatched map[string][]string
}

func (r report) ok() bool {
	return len(r.Undefined) == 0 && len(r.Missing) == 0 && len(r.Mismatched) == 0
}

func lint(w io.Writer, root, locales string) (bool, error) {
	primary, err := loadCatalog(filepath.Join(locales, primaryLocale))
	if err != nil {
		return false, fmt.Errorf("load primary catalog %s: %w", primaryLocale, err)
	}
	used, err := findUsedKeys(root, namespaces(primary))
	if err != nil {
		return false, fmt.Errorf("scan sources: %w", err)
	}
	others, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return false, err
	}

	rep := report{Missing: map[string][]string{}, Mismatched: map[string][]string{}}
	for key := range used {
		if _, ok := primary[key]; !ok {
			rep.Undefined = append(rep.Undefined, key)
		}
	}
	for key := range primary {
		if _, ok := used[key]; !ok {
			rep.Orphaned = append(rep.Orphaned, key)
		}
	}
	for _, file := range others {
		name := filepath.Base(file)
		if name == primaryLocale {
			continue
		}
		cat, err := loadCatalog(file)
		if err != nil {
			return false, fmt.Errorf("load %s: %w", name, err)
		}
		for key, text := range primary {
			tr, ok := cat[key]
			switch {
			case !ok:
				rep.Missing[name] = append(rep.Missing[name], key)
			case !slices.Equal(verbs(text), verbs(tr)):
				rep.Mismatched[name] = append(rep.Mismatched[name], key)
			}
		}
	}
	printReport(w, rep, len(used), len(primary))
	return rep.ok(), nil
}

func printReport(w io.Writer, rep report, used, defined int) {
	_, _ = fmt.Fprintf(w, "Found %d message ids in code, %d in %s.\n", used, defined, primaryLocale)
	section := func(title string, keys []string) {
		slices.Sort(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  - %s: %s\n", title, k)
		}
	}
	section("Undefined", rep.Undefined)
	for _, name := range sortedKeys(rep.Missing) {
		section("Missing in "+name, rep.Missing[name])
	}
	for _, name := range sortedKeys(rep.Mismatched) {
		section("Verb mismatch in "+name, rep.Mismatched[name])
	}
	section("Orphaned", rep.Orphaned)
	if rep.ok() {
		_, _ = fmt.Fprintln(w, "✅ Catalogs are consistent.")
	} else {
		_, _ = fmt.Fprintln(w, "❌ Found issues that need to be addressed.")
	}
}

func sortedKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// namespaces returns the leading segments of the catalog ids.
func namespaces(cat map[string]string) []string {
	seen := map[string]struct{}{}
	for key := range cat {
		ns, _, _ := strings.Cut(key, ".")
		seen[ns] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, regexp.QuoteMeta(ns))
	}
	slices.Sort(out)
	return out
}

// findUsedKeys collects string literals shaped like message ids of the given
// namespaces from non-test Go files under root. The tools tree is skipped.
func findUsedKeys(root string, ns []string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	if len(ns) == 0 {
		return keys, nil
	}
	re := regexp.MustCompile(`"((?:` + strings.Join(ns, "|") + `)\.[a-z_]+)"`)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "tools", "_examples", ".git":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range re.FindAllStringSubmatch(string(content), -1) {
			keys[m[1]] = struct{}{}
		}
		return nil
	})
	return keys, err
}

// loadCatalog reads a flat id: text YAML catalog.
func loadCatalog(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat := map[string]string{}
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return nil, err
	}
	return cat, nil
}

var verbRe = regexp.MustCompile(`%[-+# 0]*\d*(?:\.\d+)?[a-zA-Z%]`)

// verbs lists the fmt verbs of text in order, ignoring literal percent signs.
func verbs(text string) []string {
	var out []string
	for _, v := range verbRe.FindAllString(text, -1) {
		if v != "%%" {
			out = append(out, v[len(v)-1:])
		}
	}
	return out
}
