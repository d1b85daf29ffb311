package items

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-items/pkg/activity"
)

// AccessPoint describes where an item lives: its format, its alias tables and
// the names of the properties the backend owns.
type AccessPoint interface {
	// Format returns the format identifier, or "" for uninterpreted items.
	Format() string
	ParserAliases() map[string]string
	StorageAliases() map[string]string
	StoragePropertyNames() []string
	DefaultEncoding() string
}

// FilenameResolver is implemented by access points that store items in files.
type FilenameResolver interface {
	FilenameFor(item Item) (string, bool)
}

// Opener acquires the raw content stream of an item.
type Opener func() (io.ReadCloser, error)

// CodecContext carries read-only item metadata into codec hooks.
type CodecContext struct {
	Format   string
	Encoding string
	ItemID   string
	// StorageNames lists the storage-origin names present in the property
	// set, sorted. Codecs whose payload must not carry them skip these.
	StorageNames []string
}

// IsStorage reports whether name is a storage-origin name.
func (c CodecContext) IsStorage(name string) bool {
	i := sort.SearchStrings(c.StorageNames, name)
	return i < len(c.StorageNames) && c.StorageNames[i] == name
}

// Codec is the capability a format contributes to an item. Parse turns raw
// content into properties under canonical names. Encode turns the unified
// property set back into a payload; it must not retain or modify props.
type Codec interface {
	Parse(ctx CodecContext, r io.Reader) (Properties, error)
	Encode(ctx CodecContext, props Properties) ([]byte, error)
}

// StreamState tracks the content stream of an item.
type StreamState int

const (
	StreamUnopened StreamState = iota
	StreamOpened
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamUnopened:
		return "unopened"
	case StreamOpened:
		return "opened"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Item is a format-typed unit of data. Every implementation embeds *Base.
type Item interface {
	ID() string
	Format() string
	AccessPoint() AccessPoint
	Properties() *PropertyStore
	Get(name string) (any, error)
	GetAll(name string) ([]any, error)
	Set(name string, value any)
	IsModified() bool
	Serialize() ([]byte, error)
	Encoding() string
	Filename() (string, bool)
	StreamState() StreamState
	Close() error

	base() *Base
}

// Base carries the state shared by every item variant. Used on its own it is
// a raw item: it has no codec, parses nothing and cannot be serialized.
type Base struct {
	cfg     itemConfig
	ap      AccessPoint
	opener  Opener
	codec   Codec
	aliases *AliasResolver
	props   *PropertyStore
	self    Item

	stream      io.ReadCloser
	streamState StreamState
	openErr     error
	creating    bool
}

// NewBase builds the shared item state. storage holds the storage-origin
// values; it is copied.
func NewBase(ap AccessPoint, opener Opener, storage map[string]any, opts ...Option) *Base {
	cfg := applyOptions(opts)
	b := &Base{
		cfg:     cfg,
		ap:      ap,
		opener:  opener,
		aliases: NewAliasResolver(ap.ParserAliases(), ap.StorageAliases()),
	}
	b.self = b
	b.props = newPropertyStore(b.aliases, storage, b.load, cfg.policy)
	b.props.onModified = b.modified
	return b
}

func (b *Base) bind(codec Codec, self Item) {
	b.codec = codec
	b.self = self
}

func (b *Base) base() *Base { return b }

// ID returns the item identifier, which may be empty.
func (b *Base) ID() string { return b.cfg.id }

// Format returns the access point's format identifier.
func (b *Base) Format() string { return b.ap.Format() }

// AccessPoint returns the descriptor the item was built from.
func (b *Base) AccessPoint() AccessPoint { return b.ap }

// Properties returns the item's property store.
func (b *Base) Properties() *PropertyStore { return b.props }

// Aliases returns the item's alias resolver.
func (b *Base) Aliases() *AliasResolver { return b.aliases }

// Codec returns the format codec, nil for raw items.
func (b *Base) Codec() Codec { return b.codec }

// Get reads a property, parsing the content first when needed.
func (b *Base) Get(name string) (any, error) { return b.props.Get(name) }

// GetAll reads every value of a property.
func (b *Base) GetAll(name string) ([]any, error) { return b.props.GetAll(name) }

// Set writes a property.
func (b *Base) Set(name string, value any) { b.props.Set(name, value) }

// IsModified reports whether parsed-origin content was written.
func (b *Base) IsModified() bool { return b.props.IsModified() }

// Encoding returns the text encoding declared by the access point.
func (b *Base) Encoding() string { return b.ap.DefaultEncoding() }

// Filename returns the path of the item when its access point stores items
// in files.
func (b *Base) Filename() (string, bool) {
	if resolver, ok := b.ap.(FilenameResolver); ok {
		return resolver.FilenameFor(b.self)
	}
	return "", false
}

// StreamState returns the state of the content stream.
func (b *Base) StreamState() StreamState { return b.streamState }

// Serialize encodes the unified property set with the item's codec.
func (b *Base) Serialize() ([]byte, error) {
	if b.codec == nil {
		return nil, ErrNoCodec
	}
	props, err := b.props.Snapshot()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	payload, err := b.codec.Encode(b.codecContext(), props)
	b.log(OpSerialize, start, len(props), err)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// OpenStream returns the content stream, invoking the opener on first use.
// The handle stays owned by the item: it is released when the content is
// parsed or when Close is called.
func (b *Base) OpenStream() (io.Reader, error) {
	switch b.streamState {
	case StreamOpened:
		return b.stream, nil
	case StreamClosed:
		if b.openErr != nil {
			return nil, b.openErr
		}
		return nil, errors.Newf("items: %s stream already consumed", b.Format())
	}
	if b.opener == nil {
		return nil, errors.WithHint(ErrNoOpener, "build the item with an opener to read its content")
	}

	start := time.Now()
	stream, err := b.opener()
	b.log(OpOpen, start, 0, err)
	if err != nil {
		b.streamState = StreamClosed
		b.openErr = errors.Wrapf(err, "items: open %s stream", b.Format())
		return nil, b.openErr
	}
	b.stream = stream
	b.streamState = StreamOpened
	return stream, nil
}

// Close releases the content stream if it is still open.
func (b *Base) Close() error {
	if b.streamState != StreamOpened {
		return nil
	}
	stream := b.stream
	b.stream = nil
	b.streamState = StreamClosed
	if stream == nil {
		return nil
	}
	if err := stream.Close(); err != nil {
		return errors.Wrapf(err, "items: close %s stream", b.Format())
	}
	return nil
}

// load is the PropertyStore loader: open, parse, release.
func (b *Base) load() (Properties, error) {
	if b.codec == nil {
		return nil, nil
	}
	start := time.Now()
	props, err := b.parse()
	b.log(OpParse, start, len(props), err)
	return props, err
}

func (b *Base) parse() (props Properties, err error) {
	stream, err := b.OpenStream()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := b.Close(); closeErr != nil && err == nil {
			props, err = nil, closeErr
		}
	}()
	return b.codec.Parse(b.codecContext(), stream)
}

func (b *Base) codecContext() CodecContext {
	return CodecContext{
		Format:       b.Format(),
		Encoding:     b.Encoding(),
		ItemID:       b.cfg.id,
		StorageNames: b.props.storageNames(),
	}
}

func (b *Base) log(op Op, start time.Time, count int, err error) {
	b.cfg.logger.LogEvent(Event{
		Op:         op,
		Format:     b.Format(),
		ItemID:     b.cfg.id,
		Duration:   time.Since(start),
		Properties: count,
		Err:        err,
	})
}

func (b *Base) modified(name string) {
	if b.creating {
		return
	}
	b.emit(activity.ItemModified(b.ref(), name))
}

func (b *Base) created() {
	b.emit(activity.ItemCreated(b.ref()))
}

func (b *Base) emit(event activity.Event) {
	if len(b.cfg.activity) == 0 {
		return
	}
	emitter := activity.NewEmitter(b.cfg.activity, activity.Config{Channel: b.cfg.channel, Actor: b.cfg.actor})
	start := time.Now()
	if err := emitter.Emit(context.Background(), event); err != nil {
		b.log(OpActivity, start, 0, err)
	}
}

func (b *Base) ref() activity.ItemRef {
	ref := activity.ItemRef{ID: b.cfg.id, Format: b.Format()}
	if filename, ok := b.Filename(); ok {
		ref.Filename = filename
	}
	return ref
}
