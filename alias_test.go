package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliasResolverStorageWins(t *testing.T) {
	r := NewAliasResolver(
		map[string]string{"x": "y", "shared": "parsed"},
		map[string]string{"shared": "stored", "Owner": "owner"},
	)

	assert.Equal(t, "y", r.Resolve("x"))
	assert.Equal(t, "stored", r.Resolve("shared"))
	assert.Equal(t, "unknown", r.Resolve("unknown"))
	assert.Equal(t, "y", r.Resolve("y"))
	assert.Equal(t, []string{"Owner", "shared", "x"}, r.Aliases())
	assert.Equal(t, 3, r.Len())

	pos, ok := r.Position("shared")
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
	_, ok = r.Position("y")
	assert.False(t, ok)

	canonical, ok := r.Canonical("Owner")
	assert.True(t, ok)
	assert.Equal(t, "owner", canonical)
}

func TestAliasResolverCopiesInput(t *testing.T) {
	parser := map[string]string{"x": "y"}
	r := NewAliasResolver(parser, nil)
	parser["x"] = "z"

	assert.Equal(t, "y", r.Resolve("x"))
	m := r.Map()
	m["x"] = "w"
	assert.Equal(t, "y", r.Resolve("x"))
}

func TestAliasResolverResolvesOneStep(t *testing.T) {
	r := NewAliasResolver(map[string]string{"a": "b", "b": "c"}, nil)
	assert.Equal(t, "b", r.Resolve("a"))
}

func TestNilAliasResolver(t *testing.T) {
	var r *AliasResolver
	assert.Equal(t, "name", r.Resolve("name"))
	assert.Nil(t, r.Aliases())
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Map())
}
