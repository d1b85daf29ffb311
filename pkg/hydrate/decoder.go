// Package hydrate decodes item properties into typed structs.
//
// Properties are flattened into a JSON document first: names with one value
// map to that value, multi-valued names map to an array. The payload
// property is left out unless WithContent is set.
package hydrate

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"

	items "github.com/goliatone/go-items"
)

// Context identifies the item being decoded.
type Context struct {
	ItemID string
	Format string
}

// PreHook may rewrite the flattened document before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook may adjust or validate the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder turns item properties into values of T.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	configure []func(*json.Decoder)
	content   bool
}

func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDisallowUnknownFields fails on properties T has no field for.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configure = append(d.configure, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithUseNumber decodes numbers into interface fields as json.Number.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configure = append(d.configure, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithContent keeps the payload property in the document.
func WithContent[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.content = true
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode loads item and decodes its unified property set.
func (d *Decoder[T]) Decode(item items.Item) (T, error) {
	var zero T
	props, err := item.Properties().Snapshot()
	if err != nil {
		return zero, err
	}
	return d.DecodeProperties(Context{ItemID: item.ID(), Format: item.Format()}, props)
}

// DecodeProperties decodes props, running pre-hooks on the flattened
// document and post-hooks on the result.
func (d *Decoder[T]) DecodeProperties(ctx Context, props items.Properties) (T, error) {
	var zero T
	doc := d.flatten(props)
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, doc)
		if err != nil {
			return zero, errors.Wrapf(err, "hydrate: pre-hook for item %q", ctx.ItemID)
		}
		if next != nil {
			doc = next
		}
	}

	buffer, err := json.Marshal(doc)
	if err != nil {
		return zero, errors.Wrapf(err, "hydrate: marshal item %q", ctx.ItemID)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configure {
		configure(decoder)
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, errors.Wrapf(err, "hydrate: decode %s item %q", ctx.Format, ctx.ItemID)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, errors.Wrapf(err, "hydrate: post-hook for item %q", ctx.ItemID)
		}
	}
	return result, nil
}

func (d *Decoder[T]) flatten(props items.Properties) map[string]any {
	doc := make(map[string]any, len(props))
	for name, values := range props {
		if len(values) == 0 || (name == items.ContentKey && !d.content) {
			continue
		}
		if len(values) == 1 {
			doc[name] = contentValue(values[0])
			continue
		}
		list := make([]any, len(values))
		for i, value := range values {
			list[i] = contentValue(value)
		}
		doc[name] = list
	}
	return doc
}

// contentValue keeps byte payloads readable instead of base64.
func contentValue(value any) any {
	if raw, ok := value.([]byte); ok {
		return string(raw)
	}
	return value
}
