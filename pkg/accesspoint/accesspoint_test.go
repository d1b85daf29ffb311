package accesspoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	items "github.com/goliatone/go-items"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func binaryRegistry(t *testing.T) *items.Registry {
	t.Helper()
	reg := items.NewRegistry()
	require.NoError(t, reg.Register("binary", items.AtomFactory(items.Binary{})))
	return reg
}

func TestStaticDefaults(t *testing.T) {
	ap := Static{FormatID: "binary", StorageNames: []string{"b", "a"}}
	assert.Equal(t, DefaultEncoding, ap.DefaultEncoding())
	assert.Equal(t, []string{"a", "b"}, ap.StoragePropertyNames())
	assert.Empty(t, ap.ParserAliases())

	ap.Parser = map[string]string{"x": "y"}
	aliases := ap.ParserAliases()
	aliases["x"] = "z"
	assert.Equal(t, "y", ap.Parser["x"])
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "items.yaml", `
format: yaml
root: /data
pattern: "**/*.yml"
parser_aliases:
  - alias: Title
    name: title
storage_properties:
  - owner
`)

	cfg, err := Load(filepath.Join(dir, "items.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "/data", cfg.Root)
	assert.Equal(t, "**/*.yml", cfg.Pattern)
	assert.Equal(t, DefaultEncoding, cfg.Encoding)
	assert.Equal(t, []Alias{{Alias: "Title", Name: "title"}}, cfg.ParserAliases)
	assert.Equal(t, []string{"owner"}, cfg.StorageProperties)

	ap := cfg.Static()
	assert.Equal(t, map[string]string{"Title": "title"}, ap.ParserAliases())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadWithViperRejectsIncompleteAlias(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("storage_aliases", []map[string]any{{"alias": "Owner"}})

	_, err := LoadWithViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete alias")
}

func TestFSItems(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.bin", "alpha")
	writeFile(t, root, "nested/b.bin", "beta")
	writeFile(t, root, "skip.txt", "nope")

	ap := NewFS(Config{Format: "binary", Root: root, Pattern: "**/*.bin"})
	assert.Equal(t, []string{"name", "path"}, ap.StoragePropertyNames())

	list, err := ap.Items(binaryRegistry(t))
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, "a.bin", first.ID())
	name, err := first.Get(PropName)
	require.NoError(t, err)
	assert.Equal(t, "a.bin", name)
	assert.Equal(t, items.StreamUnopened, first.StreamState())

	filename, ok := first.Filename()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a.bin"), filename)

	atom, ok := list[1].(*items.AtomItem)
	require.True(t, ok)
	content, err := atom.Read()
	require.NoError(t, err)
	assert.Equal(t, "beta", string(content))
	assert.Equal(t, items.StreamClosed, atom.StreamState())

	path, err := atom.Get(PropPath)
	require.NoError(t, err)
	assert.Equal(t, "nested/b.bin", path)
}

func TestFSItemMissingFile(t *testing.T) {
	ap := NewFS(Config{Format: "binary", Root: t.TempDir()})
	item, err := ap.Item(binaryRegistry(t), "ghost.bin")
	require.NoError(t, err)

	_, err = item.Get(items.ContentKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFSUnknownFormat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.bin", "alpha")
	ap := NewFS(Config{Format: "nope", Root: root})

	_, err := ap.Items(binaryRegistry(t))
	assert.ErrorIs(t, err, items.ErrParserNotAvailable)
}
