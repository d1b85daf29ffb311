package items

import (
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
)

// LoadStatus tracks whether the parsed-origin properties of an item have been
// produced.
type LoadStatus int

const (
	StatusUnloaded LoadStatus = iota
	StatusLoading
	StatusLoaded
)

func (s LoadStatus) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// MergePolicy decides what happens when a parse result meets parsed-origin
// values written before the first load.
type MergePolicy int

const (
	// MergePreserveEdits keeps values the caller set before the first load and
	// takes everything else from the parser.
	MergePreserveEdits MergePolicy = iota
	// MergeParserWins overwrites every parsed name unconditionally.
	MergeParserWins
)

func (p MergePolicy) String() string {
	switch p {
	case MergePreserveEdits:
		return "preserve-edits"
	case MergeParserWins:
		return "parser-wins"
	default:
		return "unknown"
	}
}

// Loader produces the parsed-origin properties of an item.
type Loader func() (Properties, error)

// PropertyStore is the property map of a single item. Names are resolved
// through the item's aliases before every lookup or mutation.
//
// Storage-origin values live in their own map and always shadow parsed-origin
// values of the same name. Writing them never marks the content modified.
type PropertyStore struct {
	aliases *AliasResolver
	loader  Loader
	policy  MergePolicy

	parsed     Properties
	storage    map[string]any
	storageOld map[string]any
	edited     map[string]struct{}

	modified bool
	status   LoadStatus
	loadErr  error

	onModified func(name string)
}

func newPropertyStore(aliases *AliasResolver, storage map[string]any, loader Loader, policy MergePolicy) *PropertyStore {
	s := &PropertyStore{
		aliases:    aliases,
		loader:     loader,
		policy:     policy,
		parsed:     Properties{},
		storage:    copyValues(storage),
		storageOld: copyValues(storage),
		edited:     map[string]struct{}{},
	}
	s.parsed.Set(ContentKey, []byte{})
	return s
}

// Get returns the value of name, or nil when name has no value.
func (s *PropertyStore) Get(name string) (any, error) {
	value, _, err := s.Lookup(name)
	return value, err
}

// Lookup returns the value of name and whether it is set at all, which tells
// an absent property apart from one set to an empty value.
func (s *PropertyStore) Lookup(name string) (any, bool, error) {
	key := s.aliases.Resolve(name)
	if value, ok := s.storage[key]; ok {
		return value, true, nil
	}
	if err := s.ensureLoaded(); err != nil {
		return nil, false, err
	}
	values := s.parsed[key]
	if len(values) == 0 {
		return nil, false, nil
	}
	return values[0], true, nil
}

// GetAll returns every value of name in order. Storage-origin names hold a
// single value.
func (s *PropertyStore) GetAll(name string) ([]any, error) {
	key := s.aliases.Resolve(name)
	if value, ok := s.storage[key]; ok {
		return []any{value}, nil
	}
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.parsed.GetAll(key), nil
}

// Set stores value under name. Storage-origin names are overwritten in place;
// any other name is replaced by the single value and the content is marked
// modified.
func (s *PropertyStore) Set(name string, value any) {
	key := s.aliases.Resolve(name)
	if _, ok := s.storage[key]; ok {
		s.storage[key] = value
		return
	}
	s.parsed.Set(key, value)
	s.touch(key)
}

// Add appends value to a parsed-origin name, loading first so the value
// extends the parsed list. It behaves like Set for storage-origin names.
func (s *PropertyStore) Add(name string, value any) error {
	key := s.aliases.Resolve(name)
	if _, ok := s.storage[key]; ok {
		s.storage[key] = value
		return nil
	}
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.parsed.Add(key, value)
	s.touch(key)
	return nil
}

func (s *PropertyStore) touch(key string) {
	if s.status != StatusLoaded {
		s.edited[key] = struct{}{}
	}
	wasClean := !s.modified
	s.modified = true
	if wasClean && s.onModified != nil {
		s.onModified(key)
	}
}

// MergeParsed folds a parse result into the parsed-origin properties under
// the store's MergePolicy.
func (s *PropertyStore) MergeParsed(props Properties) {
	for name, values := range props {
		if s.policy == MergePreserveEdits {
			if _, ok := s.edited[name]; ok {
				continue
			}
		}
		s.parsed[name] = append([]any(nil), values...)
	}
}

// IsModified reports whether a parsed-origin property was written.
func (s *PropertyStore) IsModified() bool {
	return s.modified
}

// Status returns the lazy-load state.
func (s *PropertyStore) Status() LoadStatus {
	return s.status
}

// Policy returns the merge policy applied on load.
func (s *PropertyStore) Policy() MergePolicy {
	return s.policy
}

// Load runs the lazy load now if it has not happened yet.
func (s *PropertyStore) Load() error {
	return s.ensureLoaded()
}

// ensureLoaded runs the loader at most once. A failure, including a panic in
// the loader, is kept and returned to every later caller.
func (s *PropertyStore) ensureLoaded() error {
	switch s.status {
	case StatusLoaded:
		return s.loadErr
	case StatusLoading:
		return ErrLoadInProgress
	}

	s.status = StatusLoading
	props, err := s.runLoader()
	s.status = StatusLoaded
	if err != nil {
		s.loadErr = err
		return err
	}
	s.MergeParsed(props)
	return nil
}

func (s *PropertyStore) runLoader() (props Properties, err error) {
	if s.loader == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			props = nil
			err = errors.Wrapf(ErrLoadPanicked, "%v", r)
		}
	}()
	return s.loader()
}

// Keys returns canonical names plus every known alias.
func (s *PropertyStore) Keys() []string {
	seen := map[string]struct{}{}
	for _, key := range s.KeysWithoutAliases() {
		seen[key] = struct{}{}
	}
	for _, alias := range s.aliases.Aliases() {
		seen[alias] = struct{}{}
	}
	return sortedKeys(seen)
}

// KeysWithoutAliases returns the parsed-origin and storage-origin names. It
// does not trigger a load.
func (s *PropertyStore) KeysWithoutAliases() []string {
	seen := make(map[string]struct{}, len(s.parsed)+len(s.storage))
	for key, values := range s.parsed {
		if len(values) > 0 {
			seen[key] = struct{}{}
		}
	}
	for key := range s.storage {
		seen[key] = struct{}{}
	}
	return sortedKeys(seen)
}

// KeysWithAliases returns only the alias names.
func (s *PropertyStore) KeysWithAliases() []string {
	return s.aliases.Aliases()
}

// StorageProperties returns a copy of the current storage-origin values.
func (s *PropertyStore) StorageProperties() map[string]any {
	return copyValues(s.storage)
}

// StoragePropertiesOld returns a copy of the storage-origin values as they
// were when the item was built.
func (s *PropertyStore) StoragePropertiesOld() map[string]any {
	return copyValues(s.storageOld)
}

// IsStorageProperty reports whether name resolves to a storage-origin name.
func (s *PropertyStore) IsStorageProperty(name string) bool {
	_, ok := s.storage[s.aliases.Resolve(name)]
	return ok
}

// StorageChanges returns the storage-origin names whose value differs from
// the old snapshot, including names missing from it.
func (s *PropertyStore) StorageChanges() []string {
	changed := map[string]struct{}{}
	for key, value := range s.storage {
		old, ok := s.storageOld[key]
		if !ok || !reflect.DeepEqual(old, value) {
			changed[key] = struct{}{}
		}
	}
	return sortedKeys(changed)
}

// AliasedStorageProperties maps each alias pointing at a storage-origin name
// to the current value.
func (s *PropertyStore) AliasedStorageProperties() map[string]any {
	out := map[string]any{}
	for _, alias := range s.aliases.Aliases() {
		canonical, _ := s.aliases.Canonical(alias)
		if value, ok := s.storage[canonical]; ok {
			out[alias] = value
		}
	}
	return out
}

// Snapshot returns the whole property set under canonical names, with
// storage-origin values shadowing parsed-origin ones. It loads first.
func (s *PropertyStore) Snapshot() (Properties, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	out := s.parsed.Clone()
	for key, value := range s.storage {
		out[key] = []any{value}
	}
	return out, nil
}

func (s *PropertyStore) storageNames() []string {
	names := make(map[string]struct{}, len(s.storage))
	for key := range s.storage {
		names[key] = struct{}{}
	}
	return sortedKeys(names)
}

func (s *PropertyStore) markLoaded() {
	s.status = StatusLoaded
}

func (s *PropertyStore) resetStorageOld() {
	s.storageOld = map[string]any{}
}

func copyValues(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
