package items

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

type testAP struct {
	format       string
	parser       map[string]string
	storage      map[string]string
	storageNames []string
	encoding     string
	filenames    bool
}

func (ap testAP) Format() string                    { return ap.format }
func (ap testAP) ParserAliases() map[string]string  { return ap.parser }
func (ap testAP) StorageAliases() map[string]string { return ap.storage }
func (ap testAP) StoragePropertyNames() []string    { return ap.storageNames }

func (ap testAP) DefaultEncoding() string {
	if ap.encoding == "" {
		return "utf-8"
	}
	return ap.encoding
}

type fileAP struct {
	testAP
}

func (fileAP) FilenameFor(item Item) (string, bool) {
	return "/data/" + item.ID(), item.ID() != ""
}

// kvCodec parses "name=value" lines and encodes every string value back the
// same way, in name order.
type kvCodec struct {
	parses  int
	encodes int
	err     error
	hook    func()
}

func (c *kvCodec) Parse(_ CodecContext, r io.Reader) (Properties, error) {
	c.parses++
	if c.hook != nil {
		c.hook()
	}
	if c.err != nil {
		return nil, c.err
	}
	props := Properties{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name, value, ok := strings.Cut(scanner.Text(), "=")
		if ok {
			props.Add(name, value)
		}
	}
	return props, scanner.Err()
}

func (c *kvCodec) Encode(_ CodecContext, props Properties) ([]byte, error) {
	c.encodes++
	names := props.Keys()
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		for _, value := range props[name] {
			if s, ok := value.(string); ok {
				b.WriteString(name + "=" + s + "\n")
			}
		}
	}
	return []byte(b.String()), nil
}

type trackedStream struct {
	io.Reader
	closed   bool
	closeErr error
}

func (s *trackedStream) Close() error {
	s.closed = true
	return s.closeErr
}

type openerProbe struct {
	calls  int
	stream *trackedStream
	err    error
}

func newProbe(content string) *openerProbe {
	return &openerProbe{stream: &trackedStream{Reader: strings.NewReader(content)}}
}

func (p *openerProbe) open() (io.ReadCloser, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.stream, nil
}

var errParse = errors.New("parse failed")
