//go:build js_eval

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSEvaluator(t *testing.T) {
	assert.True(t, JSAvailable())
	evaluator, err := NewEvaluator(EngineJS, WithProgramCache(NewMapCache()))
	require.NoError(t, err)

	matcher := NewMatcher(evaluator)
	ok, err := matcher.Match(newItem(t, "title=draft"), `Title === "draft" && format === "kv"`)
	require.NoError(t, err)
	assert.True(t, ok)
}
