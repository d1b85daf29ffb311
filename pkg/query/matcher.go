package query

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	items "github.com/goliatone/go-items"
)

const EngineJS = "js"

// NewEvaluator returns the engine registered under name: expr, cel or js.
func NewEvaluator(engine string, opts ...EvaluatorOption) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineExpr:
		return NewExprEvaluator(opts...), nil
	case EngineCEL:
		return NewCELEvaluator(opts...), nil
	case EngineJS:
		return NewJSEvaluator(opts...)
	default:
		return nil, errors.Wrapf(ErrEngineUnavailable, "query: engine %q", engine)
	}
}

// Matcher evaluates boolean conditions against items.
type Matcher struct {
	evaluator Evaluator
	logger    items.Logger
	now       func() time.Time
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithLogger reports every match as an items.OpQuery event.
func WithLogger(logger items.Logger) MatcherOption {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the value bound to now.
func WithClock(now func() time.Time) MatcherOption {
	return func(m *Matcher) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMatcher wraps evaluator. A nil evaluator falls back to expr.
func NewMatcher(evaluator Evaluator, opts ...MatcherOption) *Matcher {
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	m := &Matcher{
		evaluator: evaluator,
		logger:    items.LoggerFunc(nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Match loads item and reports whether expression holds for it.
func (m *Matcher) Match(item items.Item, expression string) (bool, error) {
	start := time.Now()
	ok, err := m.match(item, expression)
	m.logger.LogEvent(items.Event{
		Op:       items.OpQuery,
		Format:   item.Format(),
		ItemID:   item.ID(),
		Duration: time.Since(start),
		Err:      err,
	})
	return ok, err
}

func (m *Matcher) match(item items.Item, expression string) (bool, error) {
	env, err := EnvFor(item, m.now())
	if err != nil {
		return false, err
	}
	result, err := m.evaluator.Evaluate(env, expression)
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		return false, wrapEvaluationError(m.evaluator.Engine(), expression, env.Format,
			errors.Wrapf(ErrNotBoolean, "got %T", result))
	}
	return matched, nil
}

// Filter returns the items for which expression holds, in order. It stops at
// the first error.
func (m *Matcher) Filter(list []items.Item, expression string) ([]items.Item, error) {
	out := make([]items.Item, 0, len(list))
	for _, item := range list {
		ok, err := m.Match(item, expression)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}
