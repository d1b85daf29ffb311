package lines

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	items "github.com/goliatone/go-items"
	"github.com/goliatone/go-items/pkg/accesspoint"
)

func newCapsule(t *testing.T, codec *Codec, payload string) *items.CapsuleItem {
	t.Helper()
	reg := items.NewRegistry()
	require.NoError(t, reg.Register(Format, items.CapsuleFactory(codec)))
	opener := func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(payload)), nil
	}
	item, err := reg.Create(accesspoint.Static{FormatID: Format}, opener, nil)
	require.NoError(t, err)
	return item.(*items.CapsuleItem)
}

func TestSubitemsSplitLines(t *testing.T) {
	capsule := newCapsule(t, New(), "one\ntwo\nthree\n")

	seq, err := capsule.Subitems()
	require.NoError(t, err)
	require.Equal(t, 3, seq.Len())

	item, err := seq.At(1)
	require.NoError(t, err)
	second := item.(*items.AtomItem)
	payload, err := second.Read()
	require.NoError(t, err)
	assert.Equal(t, "two", string(payload))

	line, err := second.Get(PropLine)
	require.NoError(t, err)
	assert.Equal(t, 2, line)
	assert.False(t, capsule.SubitemsModified())
}

func TestSerializeUnloadedIsVerbatim(t *testing.T) {
	capsule := newCapsule(t, New(), "a\nb")
	out, err := capsule.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "a\nb", string(out))
	assert.False(t, capsule.SubitemsLoaded())
}

func TestSerializeFollowsEdits(t *testing.T) {
	codec := New()
	capsule := newCapsule(t, codec, "one\ntwo\nthree\n")

	seq, err := capsule.Subitems()
	require.NoError(t, err)
	require.NoError(t, seq.Move(2, 0))
	_, err = seq.Remove(2)
	require.NoError(t, err)

	extra, err := codec.NewLine([]byte("four"))
	require.NoError(t, err)
	seq.Append(extra)

	item, err := seq.At(1)
	require.NoError(t, err)
	item.(*items.AtomItem).Write([]byte("ONE"))

	assert.True(t, capsule.SubitemsModified())
	out, err := capsule.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "three\nONE\nfour\n", string(out))
}

func TestEmptyPayloadHasNoSubitems(t *testing.T) {
	capsule := newCapsule(t, New(), "")
	seq, err := capsule.Subitems()
	require.NoError(t, err)
	assert.Equal(t, 0, seq.Len())

	out, err := capsule.Serialize()
	require.NoError(t, err)
	assert.Empty(t, out)
}
