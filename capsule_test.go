package items

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordCapsule splits the payload on spaces; each word is a binary atom.
type wordCapsule struct {
	Binary
	loads int
	err   error
}

func (c *wordCapsule) LoadSubitems(capsule *CapsuleItem) ([]Item, error) {
	c.loads++
	if c.err != nil {
		return nil, c.err
	}
	value, err := capsule.Get(ContentKey)
	if err != nil {
		return nil, err
	}
	payload, err := ContentBytes(value)
	if err != nil {
		return nil, err
	}
	var out []Item
	for _, word := range bytes.Fields(payload) {
		w := word
		base := NewBase(testAP{format: "binary"}, func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(w)), nil
		}, nil)
		out = append(out, NewAtomItem(base, Binary{}))
	}
	return out, nil
}

func (c *wordCapsule) EncodeCapsule(_ CodecContext, _ Properties, subitems *Sequence[Item]) ([]byte, error) {
	parts := make([][]byte, 0, subitems.Len())
	for _, item := range subitems.Values() {
		part, err := item.Serialize()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return bytes.Join(parts, []byte(" ")), nil
}

func newWordCapsule(t *testing.T, codec *wordCapsule, payload string) *CapsuleItem {
	t.Helper()
	reg := NewRegistry()
	reg.MustRegister("words", CapsuleFactory(codec))
	item, err := reg.Create(testAP{format: "words"}, newProbe(payload).open, nil)
	require.NoError(t, err)
	return item.(*CapsuleItem)
}

func TestCapsuleSubitemsLoadOnce(t *testing.T) {
	codec := &wordCapsule{}
	capsule := newWordCapsule(t, codec, "alpha beta gamma")
	assert.False(t, capsule.SubitemsLoaded())

	seq, err := capsule.Subitems()
	require.NoError(t, err)
	again, err := capsule.Subitems()
	require.NoError(t, err)

	assert.Same(t, seq, again)
	assert.Equal(t, 1, codec.loads)
	assert.Equal(t, 3, seq.Len())
	assert.True(t, capsule.SubitemsLoaded())
	assert.False(t, capsule.SubitemsModified())
}

func TestCapsuleSerializeConsultsEdits(t *testing.T) {
	capsule := newWordCapsule(t, &wordCapsule{}, "alpha beta gamma")

	out, err := capsule.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "alpha beta gamma", string(out))

	seq, err := capsule.Subitems()
	require.NoError(t, err)
	removed, err := seq.Remove(1)
	require.NoError(t, err)
	require.NoError(t, seq.Insert(0, removed))
	assert.True(t, capsule.SubitemsModified())

	out, err = capsule.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "beta alpha gamma", string(out))

	seq.Commit()
	assert.False(t, capsule.SubitemsModified())
}

func TestCapsuleSubitemErrorIsSticky(t *testing.T) {
	codec := &wordCapsule{err: errParse}
	capsule := newWordCapsule(t, codec, "x")

	_, err := capsule.Subitems()
	assert.Equal(t, errParse, err)
	_, err = capsule.Subitems()
	assert.Equal(t, errParse, err)
	assert.Equal(t, 1, codec.loads)
	assert.False(t, capsule.SubitemsLoaded())
}
