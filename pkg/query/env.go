package query

import (
	"time"

	items "github.com/goliatone/go-items"
)

// Env is the set of values an expression is evaluated against.
type Env struct {
	Format string
	Now    time.Time
	// Props maps canonical and alias names to their first value.
	Props map[string]any
	// Values maps canonical and alias names to every value.
	Values map[string][]any
}

// EnvFor loads item and builds its evaluation environment.
func EnvFor(item items.Item, now time.Time) (Env, error) {
	store := item.Properties()
	snapshot, err := store.Snapshot()
	if err != nil {
		return Env{}, err
	}
	env := Env{
		Format: item.Format(),
		Now:    now,
		Props:  snapshot.First(),
		Values: make(map[string][]any, len(snapshot)),
	}
	for name, values := range snapshot {
		if len(values) > 0 {
			env.Values[name] = values
		}
	}
	for _, alias := range store.KeysWithAliases() {
		values, err := store.GetAll(alias)
		if err != nil {
			return Env{}, err
		}
		if len(values) == 0 {
			continue
		}
		env.Values[alias] = values
		env.Props[alias] = values[0]
	}
	return env, nil
}

func (env Env) withDefaults() Env {
	if env.Now.IsZero() {
		env.Now = time.Now()
	}
	if env.Props == nil {
		env.Props = map[string]any{}
	}
	if env.Values == nil {
		env.Values = map[string][]any{}
	}
	return env
}

// variables flattens env into name/value bindings. Reserved names win over
// properties of the same name.
func (env Env) variables() map[string]any {
	vars := make(map[string]any, len(env.Props)+4)
	for name, value := range env.Props {
		if isIdentifier(name) {
			vars[name] = value
		}
	}
	vars["now"] = env.Now
	vars["format"] = env.Format
	vars["props"] = env.Props
	vars["values"] = env.Values
	return vars
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
