// Package query evaluates boolean conditions against item properties.
//
// Every property of an item is bound as a variable under its canonical name
// and under each of its aliases, so `title == "draft"` and
// `Title == "draft"` match the same item when Title is an alias of title.
// The variables now, format, props (all first values) and values (every
// value) are always bound. Names that are not identifiers are reachable
// through props["name"].
//
// Engines: expr-lang/expr (NewExprEvaluator), cel-go (NewCELEvaluator) and
// goja (NewJSEvaluator, only with the js_eval build tag).
package query
