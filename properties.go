package items

import "sort"

// ContentKey is the canonical property holding an item's raw payload.
const ContentKey = "_content"

// Properties is a multi-valued property map. The first value of a name is its
// scalar value.
type Properties map[string][]any

// Get returns the first value for name, or nil when name has no values.
func (p Properties) Get(name string) any {
	if values := p[name]; len(values) > 0 {
		return values[0]
	}
	return nil
}

// GetAll returns a copy of every value stored for name.
func (p Properties) GetAll(name string) []any {
	values := p[name]
	if len(values) == 0 {
		return nil
	}
	return append([]any(nil), values...)
}

// Has reports whether name holds at least one value.
func (p Properties) Has(name string) bool {
	return len(p[name]) > 0
}

// Set replaces the values of name with value.
func (p Properties) Set(name string, value any) {
	p[name] = []any{value}
}

// Add appends value to the values of name.
func (p Properties) Add(name string, value any) {
	p[name] = append(p[name], value)
}

// Keys returns the property names in lexical order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy whose value slices are detached from p.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for key, values := range p {
		out[key] = append([]any(nil), values...)
	}
	return out
}

// First flattens p to its scalar values.
func (p Properties) First() map[string]any {
	out := make(map[string]any, len(p))
	for key, values := range p {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
