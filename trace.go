package items

import (
	"encoding/json"
)

// Origin names where a traced value came from.
type Origin string

const (
	OriginStorage Origin = "storage"
	OriginParsed  Origin = "parsed"
	OriginAbsent  Origin = "absent"
)

// Trace captures how a property name was resolved and which origin produced
// the effective value.
type Trace struct {
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	Aliased   bool   `json:"aliased"`
	Origin    Origin `json:"origin"`
	Values    []any  `json:"values,omitempty"`
	// Old is the storage-origin value from the snapshot taken at build time.
	Old any `json:"old,omitempty"`
	// Shadowed holds parsed-origin values hidden by a storage-origin value.
	// It is only filled when the item was already loaded.
	Shadowed []any `json:"shadowed,omitempty"`
}

// Trace resolves name and reports its provenance. Tracing a storage-origin
// name never triggers a load.
func (s *PropertyStore) Trace(name string) (Trace, error) {
	key := s.aliases.Resolve(name)
	trace := Trace{
		Name:      name,
		Canonical: key,
		Aliased:   key != name,
	}
	if value, ok := s.storage[key]; ok {
		trace.Origin = OriginStorage
		trace.Values = []any{value}
		trace.Old = s.storageOld[key]
		if s.status == StatusLoaded {
			trace.Shadowed = s.parsed.GetAll(key)
		}
		return trace, nil
	}
	if err := s.ensureLoaded(); err != nil {
		return Trace{}, err
	}
	if values := s.parsed.GetAll(key); len(values) > 0 {
		trace.Origin = OriginParsed
		trace.Values = values
		return trace, nil
	}
	trace.Origin = OriginAbsent
	return trace, nil
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
