package items

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Binary", AtomFactory(Binary{})))

	assert.Error(t, reg.Register("", AtomFactory(Binary{})))
	assert.Error(t, reg.Register("other", nil))
	assert.ErrorIs(t, reg.Register("BINARY", AtomFactory(Binary{})), ErrDuplicateFormat)
	assert.True(t, reg.Has("binary"))
	assert.Equal(t, []string{"binary"}, reg.Formats())
	assert.Panics(t, func() { reg.MustRegister("binary", AtomFactory(Binary{})) })
}

func TestCreateDispatchesCaseInsensitively(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("binary", AtomFactory(Binary{}))

	item, err := reg.Create(testAP{format: "BINARY"}, newProbe("x").open, nil)
	require.NoError(t, err)
	assert.IsType(t, &AtomItem{}, item)
}

func TestCreateUnknownFormat(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create(testAP{format: "nope"}, newProbe("").open, nil)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrParserNotAvailable))
	var notAvailable *ParserNotAvailableError
	require.True(t, errors.As(err, &notAvailable))
	assert.Equal(t, "nope", notAvailable.Format)
	assert.Contains(t, err.Error(), "nope")
}

func TestCreateRawItem(t *testing.T) {
	reg := NewRegistry()
	probe := newProbe("ignored")
	item, err := reg.Create(testAP{storageNames: []string{"a"}}, probe.open, map[string]any{"a": 1})
	require.NoError(t, err)
	assert.IsType(t, &Base{}, item)

	a, err := item.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, a)

	content, err := item.Get(ContentKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, content)

	_, err = item.Serialize()
	assert.ErrorIs(t, err, ErrNoCodec)
	assert.Equal(t, 0, probe.calls)
	assert.Equal(t, StreamUnopened, item.StreamState())
}

func TestCreateRequiresAccessPoint(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Create(nil, nil, nil)
	assert.Error(t, err)
	_, err = reg.CreateItem(nil, nil)
	assert.Error(t, err)

	var nilReg *Registry
	_, err = nilReg.Create(testAP{}, nil, nil)
	assert.Error(t, err)
}

func TestCreateItemIsLoadedAndClean(t *testing.T) {
	codec := &kvCodec{}
	reg := NewRegistry()
	reg.MustRegister("kv", AtomFactory(codec))
	ap := testAP{format: "kv", parser: map[string]string{"x": "y"}, storageNames: []string{"a", "b"}}

	item, err := reg.CreateItem(ap, nil)
	require.NoError(t, err)
	_, err = uuid.Parse(item.ID())
	require.NoError(t, err)

	assert.False(t, item.IsModified())
	for _, name := range []string{"a", "b", "y", ContentKey} {
		_, err := item.Get(name)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, codec.parses)
	assert.Equal(t, StatusLoaded, item.Properties().Status())

	a, err := item.Get("a")
	require.NoError(t, err)
	assert.Nil(t, a)

	content, err := item.Get(ContentKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, content)

	assert.Empty(t, item.Properties().StoragePropertiesOld())
	assert.Equal(t, []string{"a", "b"}, item.Properties().StorageChanges())
}

func TestCreateItemAppliesPropertiesThroughAliases(t *testing.T) {
	codec := &kvCodec{}
	reg := NewRegistry()
	reg.MustRegister("kv", AtomFactory(codec))
	ap := testAP{format: "kv", parser: map[string]string{"x": "y"}, storageNames: []string{"a"}}

	item, err := reg.CreateItem(ap, map[string]any{"x": "hello", "a": "A"}, WithID("fixed"))
	require.NoError(t, err)
	assert.Equal(t, "fixed", item.ID())

	y, err := item.Get("y")
	require.NoError(t, err)
	assert.Equal(t, "hello", y)
	assert.True(t, item.IsModified())

	out, err := item.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "a=A\ny=hello\n", string(out))
	assert.Equal(t, 0, codec.parses)
}

func TestCreateItemUnknownFormat(t *testing.T) {
	_, err := NewRegistry().CreateItem(testAP{format: "nope"}, nil)
	assert.ErrorIs(t, err, ErrParserNotAvailable)
}

func TestCreateRejectsFactoryWithoutItem(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("nil", func(*Base) (Item, error) { return nil, nil })
	reg.MustRegister("typed-nil", func(*Base) (Item, error) { return (*AtomItem)(nil), nil })
	reg.MustRegister("no-base", func(*Base) (Item, error) { return &AtomItem{}, nil })

	for _, format := range []string{"nil", "typed-nil", "no-base"} {
		_, err := reg.Create(testAP{format: format}, nil, nil)
		assert.ErrorIs(t, err, ErrNilItem, format)

		item, err := reg.CreateItem(testAP{format: format}, map[string]any{"title": "x"})
		assert.ErrorIs(t, err, ErrNilItem, format)
		assert.Nil(t, item, format)
	}
}
