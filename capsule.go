package items

import "time"

// CapsuleCodec is implemented by composite formats. LoadSubitems builds the
// children of a capsule; EncodeCapsule serializes a capsule whose children
// were loaded, consulting the sequence's edit log as needed.
type CapsuleCodec interface {
	Codec
	LoadSubitems(capsule *CapsuleItem) ([]Item, error)
	EncodeCapsule(ctx CodecContext, props Properties, subitems *Sequence[Item]) ([]byte, error)
}

// CapsuleItem is an ordered, modification-tracked collection of items.
type CapsuleItem struct {
	*Base

	codec       CapsuleCodec
	subitems    *Sequence[Item]
	subitemsErr error
}

// NewCapsuleItem binds codec to base and returns the capsule view of it.
func NewCapsuleItem(base *Base, codec CapsuleCodec) *CapsuleItem {
	capsule := &CapsuleItem{Base: base, codec: codec}
	base.bind(codec, capsule)
	return capsule
}

// CapsuleFactory returns a Factory building capsules backed by codec.
func CapsuleFactory(codec CapsuleCodec) Factory {
	return func(base *Base) (Item, error) {
		return NewCapsuleItem(base, codec), nil
	}
}

// Subitems returns the children, loading them once on first use. A loading
// failure is returned again on later calls.
func (c *CapsuleItem) Subitems() (*Sequence[Item], error) {
	if c.subitems != nil {
		return c.subitems, nil
	}
	if c.subitemsErr != nil {
		return nil, c.subitemsErr
	}
	start := time.Now()
	children, err := c.codec.LoadSubitems(c)
	c.log(OpSubitems, start, len(children), err)
	if err != nil {
		c.subitemsErr = err
		return nil, err
	}
	c.subitems = NewSequence(children...)
	return c.subitems, nil
}

// SubitemsLoaded reports whether Subitems already ran successfully.
func (c *CapsuleItem) SubitemsLoaded() bool {
	return c.subitems != nil
}

// SubitemsModified reports whether the children were restructured since they
// were loaded.
func (c *CapsuleItem) SubitemsModified() bool {
	return c.subitems != nil && c.subitems.Modified()
}

// Serialize encodes the capsule. Once the children are loaded they are handed
// to the codec together with the property set.
func (c *CapsuleItem) Serialize() ([]byte, error) {
	if c.subitems == nil {
		return c.Base.Serialize()
	}
	props, err := c.props.Snapshot()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	payload, err := c.codec.EncodeCapsule(c.codecContext(), props, c.subitems)
	c.log(OpSerialize, start, len(props), err)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
