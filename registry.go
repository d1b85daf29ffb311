package items

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Factory turns the shared item state into a concrete variant.
type Factory func(base *Base) (Item, error)

// Registry maps format identifiers to item factories. Format identifiers are
// case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register stores factory under format guarding against duplicates.
func (r *Registry) Register(format string, factory Factory) error {
	if factory == nil {
		return errors.Newf("items: factory for format %q is nil", format)
	}
	if format == "" {
		return errors.New("items: format must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}
	key := strings.ToLower(format)
	if _, exists := r.factories[key]; exists {
		return errors.Wrapf(ErrDuplicateFormat, "format %q", format)
	}
	r.factories[key] = factory
	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(format string, factory Factory) {
	if err := r.Register(format, factory); err != nil {
		panic(err)
	}
}

// Has reports whether format is registered.
func (r *Registry) Has(format string) bool {
	return r.lookup(format) != nil
}

// Formats returns registered format identifiers sorted alphabetically.
func (r *Registry) Formats() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.factories))
	for format := range r.factories {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func (r *Registry) lookup(format string) Factory {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[strings.ToLower(format)]
}

// Create builds the item for an existing piece of data. An access point
// without format yields a raw item that never opens its stream. An unknown
// format fails with *ParserNotAvailableError.
func (r *Registry) Create(ap AccessPoint, opener Opener, storage map[string]any, opts ...Option) (Item, error) {
	if r == nil {
		return nil, errors.New("items: registry is nil")
	}
	if ap == nil {
		return nil, errors.New("items: access point is required")
	}
	format := ap.Format()
	if format == "" {
		return NewBase(ap, nil, storage, opts...), nil
	}
	factory := r.lookup(format)
	if factory == nil {
		return nil, &ParserNotAvailableError{Format: format}
	}
	item, err := factory(NewBase(ap, opener, storage, opts...))
	if err != nil {
		return nil, err
	}
	if isNilItem(item) || item.base() == nil {
		return nil, errors.Wrapf(ErrNilItem, "format %q", format)
	}
	return item, nil
}

func isNilItem(item Item) bool {
	if item == nil {
		return true
	}
	v := reflect.ValueOf(item)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// CreateItem builds a new, unsaved item. Storage-origin names declared by the
// access point start out nil and count as newly set; the item is considered
// loaded, so it never parses. Each supplied property goes through Set, in
// name order.
func (r *Registry) CreateItem(ap AccessPoint, properties map[string]any, opts ...Option) (Item, error) {
	if ap == nil {
		return nil, errors.New("items: access point is required")
	}
	storage := make(map[string]any, len(ap.StoragePropertyNames()))
	for _, name := range ap.StoragePropertyNames() {
		storage[name] = nil
	}

	opts = append([]Option{WithID(uuid.NewString())}, opts...)
	item, err := r.Create(ap, nil, storage, opts...)
	if err != nil {
		return nil, err
	}

	b := item.base()
	b.props.markLoaded()
	b.props.resetStorageOld()

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	b.creating = true
	for _, name := range names {
		b.props.Set(name, properties[name])
	}
	b.creating = false

	b.created()
	return item, nil
}
