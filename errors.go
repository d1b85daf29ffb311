package items

import "github.com/cockroachdb/errors"

var (
	// ErrParserNotAvailable matches every *ParserNotAvailableError.
	ErrParserNotAvailable = errors.New("items: parser not available")
	// ErrDuplicateFormat indicates a second registration for the same format.
	ErrDuplicateFormat = errors.New("items: format already registered")
	// ErrNilItem indicates a factory returned no item and no error.
	ErrNilItem = errors.New("items: factory returned no item")
	// ErrNoOpener indicates content was needed from an item built without an
	// opener.
	ErrNoOpener = errors.New("items: no opener configured")
	// ErrNoCodec indicates an encode was requested from a raw item.
	ErrNoCodec = errors.New("items: item has no codec")
	// ErrLoadInProgress is returned by reads issued while the parse hook of the
	// same item is still running.
	ErrLoadInProgress = errors.New("items: properties are being loaded")
	// ErrIndexOutOfRange is returned by Sequence edits with invalid positions.
	ErrIndexOutOfRange = errors.New("items: index out of range")
	// ErrLoadPanicked wraps a panic raised while parsing an item's content.
	ErrLoadPanicked = errors.New("items: load panicked")
)

// ParserNotAvailableError reports a dispatch for a format nobody registered.
type ParserNotAvailableError struct {
	Format string
}

func (e *ParserNotAvailableError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "items: unknown parser: " + e.Format
}

// Is lets errors.Is(err, ErrParserNotAvailable) match.
func (e *ParserNotAvailableError) Is(target error) bool {
	return target == ErrParserNotAvailable
}
