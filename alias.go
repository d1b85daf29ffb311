package items

import "sort"

// AliasResolver maps external property names onto canonical names. It is
// immutable after construction.
type AliasResolver struct {
	aliases   map[string]string
	order     []string
	positions map[string]int
}

// NewAliasResolver merges parser aliases with storage aliases applied on top,
// so a storage alias wins when both tables define the same name.
func NewAliasResolver(parser, storage map[string]string) *AliasResolver {
	merged := make(map[string]string, len(parser)+len(storage))
	for alias, canonical := range parser {
		merged[alias] = canonical
	}
	for alias, canonical := range storage {
		merged[alias] = canonical
	}

	order := make([]string, 0, len(merged))
	for alias := range merged {
		order = append(order, alias)
	}
	sort.Strings(order)

	positions := make(map[string]int, len(order))
	for i, alias := range order {
		positions[alias] = i
	}
	return &AliasResolver{
		aliases:   merged,
		order:     order,
		positions: positions,
	}
}

// Resolve returns the canonical name for name, or name itself when no alias
// is defined. Resolution is a single step.
func (r *AliasResolver) Resolve(name string) string {
	if r == nil {
		return name
	}
	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

// Canonical reports the canonical name for alias when alias is known.
func (r *AliasResolver) Canonical(alias string) (string, bool) {
	if r == nil {
		return "", false
	}
	canonical, ok := r.aliases[alias]
	return canonical, ok
}

// Aliases returns the known alias names in lexical order.
func (r *AliasResolver) Aliases() []string {
	if r == nil || len(r.order) == 0 {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Position returns the enumeration index of alias.
func (r *AliasResolver) Position(alias string) (int, bool) {
	if r == nil {
		return 0, false
	}
	pos, ok := r.positions[alias]
	return pos, ok
}

// Len returns the number of aliases.
func (r *AliasResolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Map returns a copy of the alias → canonical table.
func (r *AliasResolver) Map() map[string]string {
	if r == nil {
		return nil
	}
	out := make(map[string]string, len(r.aliases))
	for alias, canonical := range r.aliases {
		out[alias] = canonical
	}
	return out
}
