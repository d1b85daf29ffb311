package query

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrEmptyExpression is returned for blank expressions.
var ErrEmptyExpression = errors.New("query: expression must not be empty")

// ErrNotBoolean is returned when a match expression yields a non-bool.
var ErrNotBoolean = errors.New("query: expression did not evaluate to a boolean")

// ErrEngineUnavailable is returned for engines compiled out of the binary.
var ErrEngineUnavailable = errors.New("query: engine not available")

// EvaluationError records which engine failed on which expression and item
// format.
type EvaluationError struct {
	Engine string
	Expr   string
	Format string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	expr := "expr=<empty>"
	if e.Expr != "" {
		expr = fmt.Sprintf("expr=%q", e.Expr)
	}
	return fmt.Sprintf("query: %s evaluator %s format=%s: %v", e.Engine, expr, e.Format, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluationError fills missing metadata on an existing EvaluationError
// or wraps err in a new one.
func wrapEvaluationError(engine, expr, format string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Format == "" {
			evalErr.Format = format
		}
		return evalErr
	}
	return &EvaluationError{Engine: engine, Expr: expr, Format: format, Err: err}
}
