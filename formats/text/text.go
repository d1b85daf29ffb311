// Package text is the atom format for encoded text. The payload is decoded
// into a string using the access point's default encoding and encoded back
// on serialization.
package text

import (
	"io"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	items "github.com/goliatone/go-items"
)

// Format is the registry identifier.
const Format = "text"

// Codec implements items.Codec for text atoms.
type Codec struct{}

// Factory builds text atoms.
func Factory() items.Factory {
	return items.AtomFactory(Codec{})
}

// Parse decodes the stream into a string payload.
func (Codec) Parse(ctx items.CodecContext, r io.Reader) (items.Properties, error) {
	enc, err := lookup(ctx.Encoding)
	if err != nil {
		return nil, err
	}
	decoded, err := io.ReadAll(enc.NewDecoder().Reader(r))
	if err != nil {
		return nil, errors.Wrapf(err, "text: decode %s", ctx.Encoding)
	}
	return items.Properties{items.ContentKey: {string(decoded)}}, nil
}

// Encode writes the payload back in the item's encoding.
func (Codec) Encode(ctx items.CodecContext, props items.Properties) ([]byte, error) {
	enc, err := lookup(ctx.Encoding)
	if err != nil {
		return nil, err
	}
	payload, err := items.ContentBytes(props.Get(items.ContentKey))
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "text: encode %s", ctx.Encoding)
	}
	return out, nil
}

// String returns the payload of a text atom as a string.
func String(atom *items.AtomItem) (string, error) {
	payload, err := atom.Read()
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = "utf-8"
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "text: unknown encoding %q", name),
			"use a WHATWG encoding label such as utf-8 or windows-1252",
		)
	}
	return enc, nil
}
