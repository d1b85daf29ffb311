// Package lines is a capsule format: the payload is split into lines and
// each line is a binary atom subitem.
package lines

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"

	items "github.com/goliatone/go-items"
	"github.com/goliatone/go-items/pkg/accesspoint"
)

const Format = "lines"

// PropLine is the storage-origin property holding a subitem's 1-based line
// number in the loaded payload.
const PropLine = "line"

// Codec implements items.CapsuleCodec.
type Codec struct {
	subitems *items.Registry
}

// New returns a lines codec.
func New() *Codec {
	reg := items.NewRegistry()
	reg.MustRegister("binary", items.AtomFactory(items.Binary{}))
	return &Codec{subitems: reg}
}

func Factory() items.Factory {
	return items.CapsuleFactory(New())
}

// Parse keeps the whole payload.
func (c *Codec) Parse(ctx items.CodecContext, r io.Reader) (items.Properties, error) {
	return items.Binary{}.Parse(ctx, r)
}

// Encode returns the payload when the subitems were never loaded.
func (c *Codec) Encode(ctx items.CodecContext, props items.Properties) ([]byte, error) {
	return items.Binary{}.Encode(ctx, props)
}

// LoadSubitems splits the payload on '\n'. A trailing newline does not start
// an extra line.
func (c *Codec) LoadSubitems(capsule *items.CapsuleItem) ([]items.Item, error) {
	value, err := capsule.Get(items.ContentKey)
	if err != nil {
		return nil, err
	}
	payload, err := items.ContentBytes(value)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	payload = bytes.TrimSuffix(payload, []byte("\n"))

	ap := accesspoint.Static{
		FormatID:     "binary",
		StorageNames: []string{PropLine},
		Encoding:     capsule.Encoding(),
	}
	parts := bytes.Split(payload, []byte("\n"))
	out := make([]items.Item, 0, len(parts))
	for i, part := range parts {
		line := part
		opener := func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(line)), nil
		}
		item, err := c.subitems.Create(ap, opener, map[string]any{PropLine: i + 1})
		if err != nil {
			return nil, errors.Wrapf(err, "lines: line %d", i+1)
		}
		out = append(out, item)
	}
	return out, nil
}

// EncodeCapsule joins the serialized subitems in their current order. The
// payload keeps a trailing newline when the loaded one had it.
func (c *Codec) EncodeCapsule(_ items.CodecContext, props items.Properties, subitems *items.Sequence[items.Item]) ([]byte, error) {
	original, err := items.ContentBytes(props.Get(items.ContentKey))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for i, item := range subitems.Values() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		part, err := item.Serialize()
		if err != nil {
			return nil, errors.Wrapf(err, "lines: subitem %d", i)
		}
		buf.Write(part)
	}
	if bytes.HasSuffix(original, []byte("\n")) && subitems.Len() > 0 {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// NewLine builds a subitem holding payload, ready to insert into a capsule's
// sequence.
func (c *Codec) NewLine(payload []byte) (items.Item, error) {
	ap := accesspoint.Static{FormatID: "binary", StorageNames: []string{PropLine}}
	return c.subitems.CreateItem(ap, map[string]any{items.ContentKey: payload})
}
