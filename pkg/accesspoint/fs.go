package accesspoint

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	items "github.com/goliatone/go-items"
)

// Storage-origin properties every FS item carries.
const (
	PropPath = "path"
	PropName = "name"
)

// FS stores one item per file under Root. Files are selected with a
// doublestar Pattern relative to Root.
type FS struct {
	Static
	Root    string
	Pattern string
}

var (
	_ items.AccessPoint      = (*FS)(nil)
	_ items.FilenameResolver = (*FS)(nil)
)

// NewFS builds an FS access point from cfg.
func NewFS(cfg Config) *FS {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = "**/*"
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	return &FS{Static: cfg.Static(), Root: root, Pattern: pattern}
}

// StoragePropertyNames adds path and name to the configured names.
func (f *FS) StoragePropertyNames() []string {
	seen := map[string]struct{}{PropPath: {}, PropName: {}}
	for _, name := range f.StorageNames {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilenameFor joins Root with the item's path property.
func (f *FS) FilenameFor(item items.Item) (string, bool) {
	rel, ok := item.Properties().StorageProperties()[PropPath].(string)
	if !ok || rel == "" {
		return "", false
	}
	return filepath.Join(f.Root, filepath.FromSlash(rel)), true
}

// Paths returns the slash-separated paths under Root matching Pattern,
// sorted. Directories are skipped.
func (f *FS) Paths() ([]string, error) {
	fsys := os.DirFS(f.Root)
	matches, err := doublestar.Glob(fsys, f.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "accesspoint: glob %q under %s", f.Pattern, f.Root)
	}
	sort.Strings(matches)
	return matches, nil
}

// Item builds the item stored at rel, a slash-separated path under Root.
func (f *FS) Item(reg *items.Registry, rel string, opts ...items.Option) (items.Item, error) {
	full := filepath.Join(f.Root, filepath.FromSlash(rel))
	storage := map[string]any{
		PropPath: rel,
		PropName: path.Base(rel),
	}
	for _, name := range f.StorageNames {
		if _, ok := storage[name]; !ok {
			storage[name] = nil
		}
	}
	opener := func() (io.ReadCloser, error) {
		return os.Open(full)
	}
	return reg.Create(f, opener, storage, opts...)
}

// Items builds one item per matching file, in path order.
func (f *FS) Items(reg *items.Registry, opts ...items.Option) ([]items.Item, error) {
	paths, err := f.Paths()
	if err != nil {
		return nil, err
	}
	out := make([]items.Item, 0, len(paths))
	for _, rel := range paths {
		item, err := f.Item(reg, rel, append([]items.Option{items.WithID(rel)}, opts...)...)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
