// Package text performs literal placeholder substitution across the staged
// tree. Replacements are plain string matches, never regular expressions.
package text

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkgclaim/pkgclaim/pkg/walk"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🪪 Placeholder tokens recognized in template projects
const (
	PackageNameToken = "<package-name>"
	UsernameToken    = "<username>"
)

// 🔄 Replacement maps one literal token to its replacement text
type Replacement struct {
	Token string
	Value string
}

// 🗺️ Map is an ordered set of replacements. Entries apply in slice order,
// so when tokens overlap the earlier entry wins. The reservation pipeline
// only ever carries the two fixed placeholder entries.
type Map []Replacement

// 🏭 NewMap builds the fixed reservation replacement map
func NewMap(packageName, username string) Map {
	return Map{
		{Token: PackageNameToken, Value: packageName},
		{Token: UsernameToken, Value: username},
	}
}

// 🔄 ReplaceAll applies every map entry to content, in order. It reports
// whether any replacement occurred.
func (m Map) ReplaceAll(content string) (string, bool) {
	modified := false
	for _, r := range m {
		if r.Token == "" {
			continue
		}
		next := strings.ReplaceAll(content, r.Token, r.Value)
		if next != content {
			modified = true
		}
		content = next
	}
	return content, modified
}

// 🏃 Apply walks root and rewrites every text file in which at least one
// token occurs. Files that fail to decode as UTF-8 text are treated as
// binary and left untouched, as are files with zero occurrences (content
// and mtime unchanged). Returns the number of files rewritten.
func Apply(ctx context.Context, root string, m Map) (int, error) {
	logger := zerolog.Ctx(ctx)
	rewritten := 0

	err := walk.Walk(root, func(path, rel string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Errorf("reading %s: %w", rel, err)
		}

		if !isText(data) {
			logger.Debug().Str("file", rel).Msg("skipping binary file")
			return nil
		}

		updated, modified := m.ReplaceAll(string(data))
		if !modified {
			return nil
		}

		if err := os.WriteFile(path, []byte(updated), walk.FileMode(d)); err != nil {
			return errors.Errorf("rewriting %s: %w", rel, err)
		}
		logger.Debug().Str("file", rel).Msg("placeholders replaced")
		rewritten++
		return nil
	})
	if err != nil {
		return rewritten, errors.Errorf("substituting placeholders: %w", err)
	}
	return rewritten, nil
}

// 🔍 isText reports whether data decodes as text. NUL bytes or invalid
// UTF-8 mark the file as binary.
func isText(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	return utf8.Valid(data)
}
