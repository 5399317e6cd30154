package text_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkgclaim/pkgclaim/pkg/text"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 testContext returns a context carrying a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestReplaceAll tests ordered literal replacement
func TestReplaceAll(t *testing.T) {
	m := text.NewMap("my-pkg", "alice")

	t.Run("both_tokens", func(t *testing.T) {
		out, modified := m.ReplaceAll("# <package-name>\nby <username>\n")
		assert.True(t, modified)
		assert.Equal(t, "# my-pkg\nby alice\n", out)
	})

	t.Run("repeated_token", func(t *testing.T) {
		out, modified := m.ReplaceAll("<package-name> <package-name>")
		assert.True(t, modified)
		assert.Equal(t, "my-pkg my-pkg", out)
	})

	t.Run("no_tokens", func(t *testing.T) {
		out, modified := m.ReplaceAll("nothing to do")
		assert.False(t, modified)
		assert.Equal(t, "nothing to do", out)
	})

	t.Run("insertion_order_wins_on_overlap", func(t *testing.T) {
		overlapping := text.Map{
			{Token: "<name>", Value: "first"},
			{Token: "<name>-ext", Value: "second"},
		}
		out, modified := overlapping.ReplaceAll("<name>-ext")
		assert.True(t, modified)
		assert.Equal(t, "first-ext", out)
	})
}

// 🧪 TestApply tests tree-wide substitution
func TestApply(t *testing.T) {
	ctx := testContext(t)

	t.Run("rewrites_matching_files", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# <package-name>"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", "index.js"), []byte("// <username>"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "LICENSE"), []byte("MIT"), 0644))

		n, err := text.Apply(ctx, root, text.NewMap("my-pkg", "alice"))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		readme, err := os.ReadFile(filepath.Join(root, "README.md"))
		require.NoError(t, err)
		assert.Equal(t, "# my-pkg", string(readme))

		index, err := os.ReadFile(filepath.Join(root, "src", "index.js"))
		require.NoError(t, err)
		assert.Equal(t, "// alice", string(index))
	})

	t.Run("untouched_file_keeps_mtime", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "plain.txt")
		require.NoError(t, os.WriteFile(path, []byte("no tokens here"), 0644))
		past := time.Now().Add(-time.Hour).Truncate(time.Second)
		require.NoError(t, os.Chtimes(path, past, past))

		n, err := text.Apply(ctx, root, text.NewMap("my-pkg", "alice"))
		require.NoError(t, err)
		assert.Zero(t, n)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(past), "mtime changed on a file with zero occurrences")
	})

	t.Run("binary_file_skipped", func(t *testing.T) {
		root := t.TempDir()
		binary := append([]byte("<package-name>"), 0x00, 0xff, 0xfe)
		path := filepath.Join(root, "asset.bin")
		require.NoError(t, os.WriteFile(path, binary, 0644))

		n, err := text.Apply(ctx, root, text.NewMap("my-pkg", "alice"))
		require.NoError(t, err)
		assert.Zero(t, n)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, binary, after)
	})

	t.Run("invalid_utf8_skipped", func(t *testing.T) {
		root := t.TempDir()
		invalid := []byte{'<', 0xc3, 0x28, '>'}
		path := filepath.Join(root, "garbled.txt")
		require.NoError(t, os.WriteFile(path, invalid, 0644))

		n, err := text.Apply(ctx, root, text.NewMap("my-pkg", "alice"))
		require.NoError(t, err)
		assert.Zero(t, n)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, invalid, after)
	})

	t.Run("excluded_dirs_not_visited", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0755))
		dep := filepath.Join(root, "node_modules", "dep.js")
		require.NoError(t, os.WriteFile(dep, []byte("<package-name>"), 0644))

		n, err := text.Apply(ctx, root, text.NewMap("my-pkg", "alice"))
		require.NoError(t, err)
		assert.Zero(t, n)

		after, err := os.ReadFile(dep)
		require.NoError(t, err)
		assert.Equal(t, "<package-name>", string(after))
	})
}
