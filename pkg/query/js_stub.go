//go:build !js_eval

package query

// NewJSEvaluator fails unless the binary is built with the js_eval tag.
func NewJSEvaluator(opts ...EvaluatorOption) (Evaluator, error) {
	_ = applyEvaluatorOptions(opts)
	return nil, wrapEvaluationError(EngineJS, "", "", ErrEngineUnavailable)
}

// JSAvailable reports whether the binary was built with the js_eval tag.
func JSAvailable() bool { return false }
