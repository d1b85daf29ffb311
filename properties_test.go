package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertiesHelpers(t *testing.T) {
	props := Properties{}
	assert.Nil(t, props.Get("missing"))
	assert.False(t, props.Has("missing"))

	props.Add("tag", "a")
	props.Add("tag", "b")
	props.Set("title", "t")
	props["empty"] = nil

	assert.Equal(t, "a", props.Get("tag"))
	assert.Equal(t, []string{"empty", "tag", "title"}, props.Keys())
	assert.Equal(t, map[string]any{"tag": "a", "title": "t"}, props.First())

	clone := props.Clone()
	clone["tag"][0] = "changed"
	assert.Equal(t, "a", props.Get("tag"))

	all := props.GetAll("tag")
	all[1] = "changed"
	assert.Equal(t, []any{"a", "b"}, props["tag"])
	assert.Nil(t, Properties(nil).Clone())
}
