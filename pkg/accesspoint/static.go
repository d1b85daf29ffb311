package accesspoint

import (
	"sort"

	items "github.com/goliatone/go-items"
)

// DefaultEncoding is used when an access point declares none.
const DefaultEncoding = "utf-8"

// Static is an items.AccessPoint with fixed tables.
type Static struct {
	FormatID     string
	Parser       map[string]string
	Storage      map[string]string
	StorageNames []string
	Encoding     string
}

var _ items.AccessPoint = Static{}

func (s Static) Format() string { return s.FormatID }

func (s Static) ParserAliases() map[string]string { return copyAliases(s.Parser) }

func (s Static) StorageAliases() map[string]string { return copyAliases(s.Storage) }

func (s Static) StoragePropertyNames() []string {
	names := append([]string(nil), s.StorageNames...)
	sort.Strings(names)
	return names
}

func (s Static) DefaultEncoding() string {
	if s.Encoding == "" {
		return DefaultEncoding
	}
	return s.Encoding
}

func copyAliases(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for alias, name := range in {
		out[alias] = name
	}
	return out
}
