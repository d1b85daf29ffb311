package items

import (
	"io"

	"github.com/cockroachdb/errors"
)

// AtomItem is an indivisible block of data kept under ContentKey.
type AtomItem struct {
	*Base
}

// NewAtomItem binds codec to base and returns the atom view of it.
func NewAtomItem(base *Base, codec Codec) *AtomItem {
	atom := &AtomItem{Base: base}
	base.bind(codec, atom)
	return atom
}

// AtomFactory returns a Factory building atoms backed by codec.
func AtomFactory(codec Codec) Factory {
	return func(base *Base) (Item, error) {
		return NewAtomItem(base, codec), nil
	}
}

// Read returns the payload, i.e. the ContentKey property.
func (a *AtomItem) Read() ([]byte, error) {
	value, err := a.Get(ContentKey)
	if err != nil {
		return nil, err
	}
	return ContentBytes(value)
}

// Write replaces the payload, i.e. sets the ContentKey property.
func (a *AtomItem) Write(value []byte) {
	a.Set(ContentKey, value)
}

// Binary is the atom codec for opaque bytes: the whole stream becomes the
// payload and the payload is returned verbatim.
type Binary struct{}

// Parse reads the whole stream into ContentKey.
func (Binary) Parse(_ CodecContext, r io.Reader) (Properties, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Properties{ContentKey: {data}}, nil
}

// Encode returns ContentKey unchanged.
func (Binary) Encode(_ CodecContext, props Properties) ([]byte, error) {
	return ContentBytes(props.Get(ContentKey))
}

// ContentBytes converts a payload value to bytes. nil converts to nil.
func ContentBytes(value any) ([]byte, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return typed, nil
	case string:
		return []byte(typed), nil
	default:
		return nil, errors.Newf("items: content of type %T is not a payload", value)
	}
}
