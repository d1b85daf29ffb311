// Package yamlprops is the atom format whose payload is a YAML mapping. Each
// top-level key becomes a property; sequences become multi-valued
// properties and are written back as sequences whatever their length.
package yamlprops

import (
	"bytes"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	items "github.com/goliatone/go-items"
)

const Format = "yaml"

// Codec implements items.Codec for YAML property documents. Neither the
// payload property nor storage-origin properties are part of the document.
//
// A Codec remembers which names it parsed from sequences, so each item needs
// its own; Factory takes care of that.
type Codec struct {
	sequences map[string]struct{}
}

// Factory builds yaml atoms, each with a fresh Codec.
func Factory() items.Factory {
	return func(base *items.Base) (items.Item, error) {
		return items.NewAtomItem(base, &Codec{}), nil
	}
}

// IsSequence reports whether name was parsed from a YAML sequence.
func (c *Codec) IsSequence(name string) bool {
	_, ok := c.sequences[name]
	return ok
}

func (c *Codec) Parse(_ items.CodecContext, r io.Reader) (items.Properties, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	props := items.Properties{}
	if len(bytes.TrimSpace(data)) == 0 {
		return props, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "yaml: parse")
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("yaml: top-level node must be a mapping")
	}

	var fields map[string]any
	if err := doc.Content[0].Decode(&fields); err != nil {
		return nil, errors.Wrap(err, "yaml: decode mapping")
	}
	c.sequences = map[string]struct{}{}
	for name, value := range fields {
		if list, ok := value.([]any); ok {
			c.sequences[name] = struct{}{}
			props[name] = append([]any{}, list...)
			continue
		}
		props.Set(name, value)
	}
	return props, nil
}

func (c *Codec) Encode(ctx items.CodecContext, props items.Properties) ([]byte, error) {
	names := make([]string, 0, len(props))
	for name := range props {
		if name == items.ContentKey || ctx.IsStorage(name) {
			continue
		}
		if len(props[name]) > 0 || c.IsSequence(name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []byte{}, nil
	}
	sort.Strings(names)

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range names {
		values := props[name]
		var value any
		switch {
		case c.IsSequence(name) || len(values) > 1:
			value = append([]any{}, values...)
		default:
			value = values[0]
		}
		var node yaml.Node
		if err := node.Encode(value); err != nil {
			return nil, errors.Wrapf(err, "yaml: encode %q", name)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&node,
		)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, errors.Wrap(err, "yaml: encode")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "yaml: encode")
	}
	return buf.Bytes(), nil
}
