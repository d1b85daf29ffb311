package query

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// Variadic marks a function that accepts any number of arguments.
const Variadic = -1

// ErrFunctionArity is returned when a helper is called with the wrong number
// of arguments.
var ErrFunctionArity = errors.New("query: wrong number of arguments")

// Function is a helper callable from conditions.
type Function func(args ...any) (any, error)

type helper struct {
	arity int
	fn    Function
}

// FunctionRegistry holds condition helpers keyed by case-insensitive name.
// Names bound by the environment (now, format, props, values, call) cannot be
// registered.
type FunctionRegistry struct {
	mu      sync.RWMutex
	helpers map[string]helper
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{helpers: map[string]helper{}}
}

// DefaultFunctions returns a registry holding the item helpers:
//
//	lower(v), upper(v)   string case folding
//	glob(pattern, v)     doublestar match, e.g. glob("notes/**/*.yaml", path)
//	has(list, v)         membership in a multi-valued property
func DefaultFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	r.mustRegister("lower", 1, func(args ...any) (any, error) {
		return strings.ToLower(stringOf(args[0])), nil
	})
	r.mustRegister("upper", 1, func(args ...any) (any, error) {
		return strings.ToUpper(stringOf(args[0])), nil
	})
	r.mustRegister("glob", 2, func(args ...any) (any, error) {
		ok, err := doublestar.Match(stringOf(args[0]), stringOf(args[1]))
		if err != nil {
			return nil, errors.Wrapf(err, "query: glob %q", stringOf(args[0]))
		}
		return ok, nil
	})
	r.mustRegister("has", 2, func(args ...any) (any, error) {
		return contains(args[0], args[1]), nil
	})
	return r
}

// Register adds a variadic fn under name.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	return r.RegisterArity(name, Variadic, fn)
}

// RegisterArity adds fn under name; calls with a different argument count
// fail with ErrFunctionArity before fn runs.
func (r *FunctionRegistry) RegisterArity(name string, arity int, fn Function) error {
	if fn == nil {
		return errors.Newf("query: function %q is nil", name)
	}
	if !isIdentifier(name) {
		return errors.Newf("query: function name %q is not an identifier", name)
	}
	if arity < Variadic {
		return errors.Newf("query: function %q has invalid arity %d", name, arity)
	}
	key := strings.ToLower(name)
	if isReservedName(key) {
		return errors.WithHint(
			errors.Newf("query: function name %q is reserved", name),
			"now, format, props, values and call are bound by the environment",
		)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.helpers == nil {
		r.helpers = map[string]helper{}
	}
	if _, exists := r.helpers[key]; exists {
		return errors.Newf("query: function %q already registered", name)
	}
	r.helpers[key] = helper{arity: arity, fn: fn}
	return nil
}

func (r *FunctionRegistry) mustRegister(name string, arity int, fn Function) {
	if err := r.RegisterArity(name, arity, fn); err != nil {
		panic(err)
	}
}

// Merge copies the helpers of other that r does not define yet.
func (r *FunctionRegistry) Merge(other *FunctionRegistry) {
	if other == nil {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.helpers == nil {
		r.helpers = map[string]helper{}
	}
	for name, h := range other.helpers {
		if _, exists := r.helpers[name]; !exists {
			r.helpers[name] = h
		}
	}
}

// Call runs the helper registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, errors.New("query: function registry is nil")
	}
	r.mu.RLock()
	h, ok := r.helpers[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Newf("query: function %q not registered", name)
	}
	if h.arity != Variadic && len(args) != h.arity {
		return nil, errors.Wrapf(ErrFunctionArity, "%s: want %d, got %d", name, h.arity, len(args))
	}
	return h.fn(args...)
}

// Names returns the registered names, sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.helpers))
	for name := range r.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bind exposes every helper as a variable, plus call(name, args...).
func (r *FunctionRegistry) bind(vars map[string]any) {
	if r == nil {
		return
	}
	vars["call"] = func(name string, args ...any) (any, error) {
		return r.Call(name, args...)
	}
	for _, name := range r.Names() {
		fn := name
		vars[fn] = func(args ...any) (any, error) {
			return r.Call(fn, args...)
		}
	}
}

func isReservedName(name string) bool {
	switch name {
	case "now", "format", "props", "values", "call":
		return true
	}
	return false
}

func stringOf(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func contains(list, value any) bool {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.DeepEqual(list, value)
	}
	for i := 0; i < rv.Len(); i++ {
		if reflect.DeepEqual(rv.Index(i).Interface(), value) {
			return true
		}
	}
	return false
}
