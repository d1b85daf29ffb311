//go:build js_eval

package query

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cfg evaluatorConfig
}

// NewJSEvaluator returns an Evaluator backed by goja.
func NewJSEvaluator(opts ...EvaluatorOption) (Evaluator, error) {
	return &jsEvaluator{cfg: applyEvaluatorOptions(opts)}, nil
}

func (e *jsEvaluator) Engine() string { return EngineJS }

func (e *jsEvaluator) Evaluate(env Env, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluationError(EngineJS, expression, env.Format, ErrEmptyExpression)
	}
	env = env.withDefaults()
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, wrapEvaluationError(EngineJS, expression, env.Format, err)
	}

	vm := goja.New()
	vars := env.variables()
	e.cfg.functions.bind(vars)
	for name, value := range vars {
		if err := vm.Set(name, value); err != nil {
			return nil, wrapEvaluationError(EngineJS, expression, env.Format, err)
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, wrapEvaluationError(EngineJS, expression, env.Format, err)
	}
	return value.Export(), nil
}

func (e *jsEvaluator) loadOrCompile(expression string) (*goja.Program, error) {
	key := EngineJS + ":" + expression
	if e.cfg.cache != nil {
		if cached, ok := e.cfg.cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", fmt.Sprintf("(function(){ return (%s); })()", expression), false)
	if err != nil {
		return nil, err
	}
	if e.cfg.cache != nil {
		e.cfg.cache.Set(key, program)
	}
	return program, nil
}

// JSAvailable reports whether the binary was built with the js_eval tag.
func JSAvailable() bool { return true }
