package query

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

const EngineExpr = "expr"

type exprEvaluator struct {
	cfg evaluatorConfig
}

// NewExprEvaluator returns an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...EvaluatorOption) Evaluator {
	return &exprEvaluator{cfg: applyEvaluatorOptions(opts)}
}

func (e *exprEvaluator) Engine() string { return EngineExpr }

func (e *exprEvaluator) Evaluate(env Env, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluationError(EngineExpr, expression, env.Format, ErrEmptyExpression)
	}
	env = env.withDefaults()
	vars := env.variables()
	e.cfg.functions.bind(vars)

	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, expression, env.Format, err)
	}
	result, err := exprlang.Run(program, vars)
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, expression, env.Format, err)
	}
	return result, nil
}

func (e *exprEvaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cfg.cache != nil {
		if cached, ok := e.cfg.cache.Get(EngineExpr + ":" + expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	if registry := e.cfg.functions; registry != nil {
		for _, name := range registry.Names() {
			fn := name
			options = append(options, exprlang.Function(fn, func(args ...any) (any, error) {
				return registry.Call(fn, args...)
			}))
		}
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	if e.cfg.cache != nil {
		e.cfg.cache.Set(EngineExpr+":"+expression, program)
	}
	return program, nil
}
