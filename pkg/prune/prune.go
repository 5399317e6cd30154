// Package prune removes non-publishable paths from the staged workspace.
// Entries are literal relative paths only. Glob patterns are recognized so
// they can be skipped, never expanded: growing a pattern engine here would
// silently change what gets published.
package prune

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 IgnoreFileName is the optional ignore list at the original project root
const IgnoreFileName = ".npmignore"

// 🚫 defaultEntries apply when the project carries no ignore file
var defaultEntries = []string{
	".env",
	".env.local",
	".git",
	"node_modules",
	"coverage",
	"reserved.log",
}

// 📋 List is the ordered, de-duplicated set of paths to remove before
// publish. Glob-bearing entries survive loading and are skipped at apply
// time.
type List struct {
	Entries []string
	// FromFile records whether the list came from the project's ignore file
	FromFile bool
}

// 📥 Load sources the prune list once per run. The ignore file in the
// original project root takes precedence over the built-in defaults.
// extras are appended last, subject to the same de-duplication.
func Load(originalRoot string, extras ...string) (*List, error) {
	list := &List{}

	data, err := os.ReadFile(filepath.Join(originalRoot, IgnoreFileName))
	switch {
	case err == nil:
		list.Entries = parseIgnoreFile(string(data))
		list.FromFile = true
	case os.IsNotExist(err):
		list.Entries = append(list.Entries, defaultEntries...)
	default:
		return nil, errors.Errorf("reading %s: %w", IgnoreFileName, err)
	}

	list.Entries = dedupe(append(list.Entries, normalizeEntries(extras)...))
	return list, nil
}

// 🏃 Apply removes every literal entry that exists under stagedRoot,
// recursively for directories. Absence is not an error. Entries containing
// glob metacharacters or escaping the staged root are skipped silently.
func (l *List) Apply(ctx context.Context, stagedRoot string) error {
	logger := zerolog.Ctx(ctx)

	for _, entry := range l.Entries {
		if containsGlob(entry) {
			logger.Debug().Str("entry", entry).Msg("skipping glob prune entry")
			continue
		}

		resolved := filepath.Join(stagedRoot, entry)
		rel, err := filepath.Rel(stagedRoot, resolved)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			logger.Debug().Str("entry", entry).Msg("skipping prune entry outside workspace")
			continue
		}

		if _, err := os.Lstat(resolved); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Errorf("inspecting %s: %w", entry, err)
		}

		if err := os.RemoveAll(resolved); err != nil {
			return errors.Errorf("pruning %s: %w", entry, err)
		}
		logger.Debug().Str("entry", entry).Msg("pruned from workspace")
	}

	return nil
}

// 📝 parseIgnoreFile parses ignore-list content: one entry per line, blank
// lines, #-comments, and !-negations discarded, trailing slashes stripped.
func parseIgnoreFile(content string) []string {
	var entries []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		entries = append(entries, normalizeEntry(line))
	}
	return dedupe(entries)
}

func normalizeEntry(entry string) string {
	return strings.TrimSuffix(strings.TrimSpace(entry), "/")
}

func normalizeEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if n := normalizeEntry(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// 🔍 containsGlob reports whether an entry carries glob metacharacters
func containsGlob(entry string) bool {
	return strings.ContainsAny(entry, "*?[]")
}

func dedupe(entries []string) []string {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
