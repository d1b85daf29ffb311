// Package formats registers the built-in item formats.
package formats

import (
	"sync"

	items "github.com/goliatone/go-items"
	"github.com/goliatone/go-items/formats/lines"
	"github.com/goliatone/go-items/formats/text"
	"github.com/goliatone/go-items/formats/yamlprops"
)

// Binary is the registry identifier of opaque byte atoms.
const Binary = "binary"

var (
	defaultOnce     sync.Once
	defaultRegistry *items.Registry
)

// Load returns the process-wide registry holding every built-in format. It is
// populated once.
func Load() *items.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = items.NewRegistry()
		if err := Register(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

// Register adds the built-in formats to reg.
func Register(reg *items.Registry) error {
	builtins := []struct {
		format  string
		factory items.Factory
	}{
		{Binary, items.AtomFactory(items.Binary{})},
		{text.Format, text.Factory()},
		{yamlprops.Format, yamlprops.Factory()},
		{lines.Format, lines.Factory()},
	}
	for _, builtin := range builtins {
		if err := reg.Register(builtin.format, builtin.factory); err != nil {
			return err
		}
	}
	return nil
}
