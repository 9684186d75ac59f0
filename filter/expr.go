package filter

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/bitpart/dataapi/dataapi"
)

// dateLayouts are tried in order by parseDate
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// shadowedBuiltins are expr builtins whose names collide with Data API
// object fields. Disabling them lets expressions read the fields.
var shadowedBuiltins = []string{"date", "type"}

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newProgramCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *programCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	options := []expr.Option{
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // item fields are only known at run time
		expr.AsBool(),
	}
	for _, name := range shadowedBuiltins {
		options = append(options, expr.DisableBuiltin(name))
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate evaluates the filter against a single item. Items that make
// the expression fail at run time do not match.
func (f *exprFilter) Evaluate(item dataapi.Result) bool {
	env := createRuntimeEnvironment(item, f.helpers)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)

	// Date helpers
	funcs["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	funcs["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	funcs["parseDate"] = parseDate
	funcs["now"] = time.Now

	// String helpers. contains, startsWith and endsWith are expr operators
	// and case sensitive; these fold case.
	funcs["hasSubstring"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	funcs["beginsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	funcs["finishesWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	funcs["lower"] = strings.ToLower
	funcs["upper"] = strings.ToUpper

	return funcs
}

// parseDate accepts the date formats the Data API emits. Unparseable
// input yields the zero time.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// createRuntimeEnvironment exposes the item's top-level fields as variables
// alongside the helpers. Helpers shadow item fields of the same name.
func createRuntimeEnvironment(item dataapi.Result, helpers map[string]any) map[string]any {
	fields := make(map[string]any, len(item))
	for k, v := range item {
		fields[k] = normalize(v)
	}

	env := make(map[string]any, len(fields)+len(helpers)+3)
	maps.Copy(env, fields)
	env["Item"] = fields
	maps.Copy(env, helpers)

	env["hasTag"] = createHasTagFunc(item["tags"])
	env["hasCategory"] = createHasCategoryFunc(item["categories"])

	return env
}

// normalize converts json.Number values so expressions can compare them
// with numeric literals
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}
		return out
	case dataapi.Result:
		return normalize(map[string]any(val))
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// labels collects the string form of each element, reading "label" or
// "name" from objects
func labels(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(list))
	for _, e := range list {
		switch val := e.(type) {
		case string:
			out = append(out, strings.ToLower(val))
		case map[string]any:
			for _, key := range []string{"label", "name"} {
				if s, ok := val[key].(string); ok {
					out = append(out, strings.ToLower(s))
					break
				}
			}
		}
	}
	return out
}

func createHasTagFunc(tags any) func(string) bool {
	lowerTags := labels(tags)
	return func(tag string) bool {
		return slices.Contains(lowerTags, strings.ToLower(tag))
	}
}

func createHasCategoryFunc(categories any) func(string) bool {
	lowerCategories := labels(categories)
	return func(category string) bool {
		return slices.Contains(lowerCategories, strings.ToLower(category))
	}
}
