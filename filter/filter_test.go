package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitpart/dataapi/dataapi"
)

func sampleEntry() dataapi.Result {
	return dataapi.Result{
		"id":     json.Number("42"),
		"title":  "Hello Tokyo",
		"status": "Publish",
		"date":   time.Now().AddDate(0, 0, -10).Format(time.RFC3339),
		"tags":   []any{"Travel", "japan"},
		"categories": []any{
			map[string]any{"id": json.Number("3"), "label": "News"},
		},
		"author": map[string]any{"displayName": "Melody"},
		"score":  json.Number("4.5"),
		"type":   "page",
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasTag("travel")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasTag("unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `status == "Publish" and id > 10 and daysSince(parseDate(date)) < 30`,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, filter.Expression())
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expression string
		want       bool
	}{
		{`title == "Hello Tokyo"`, true},
		{`hasSubstring(title, "tokyo")`, true},
		{`title contains "Tokyo"`, true},
		{`title startsWith "Hello"`, true},
		{`beginsWith(title, "hello")`, true},
		{`finishesWith(title, "TOKYO")`, true},
		{`finishesWith(title, "osaka")`, false},
		{`lower(status) == "publish"`, true},
		{`upper(status) == "PUBLISH"`, true},
		{`id == 42`, true},
		{`id > 100`, false},
		{`score > 4.0`, true},
		{`hasTag("JAPAN")`, true},
		{`hasTag("food")`, false},
		{`hasCategory("news")`, true},
		{`hasCategory("Sports")`, false},
		{`author.displayName == "Melody"`, true},
		{`Item.title == title`, true},
		{`daysSince(parseDate(date)) >= 9`, true},
		{`parseDate(date) > daysAgo(30)`, true},
		{`parseDate(date) < now()`, true},
		{`missing == nil`, true},
		{`date != ""`, true},
		{`type == "page"`, true},
	}

	compiler := NewExprCompiler()
	entry := sampleEntry()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.Evaluate(entry))
		})
	}
}

func TestFieldsNamedLikeBuiltins(t *testing.T) {
	item := dataapi.Result{"title": "abc", "date": "2024-01-01", "type": "entry"}

	tests := []string{
		`hasSubstring(title, "B")`,
		`beginsWith(title, "A")`,
		`finishesWith(title, "C")`,
		`parseDate(date) < now()`,
		`date == "2024-01-01"`,
		`type == "entry"`,
	}

	compiler := NewExprCompiler()
	for _, expression := range tests {
		t.Run(expression, func(t *testing.T) {
			filter, err := compiler.Compile(expression)
			require.NoError(t, err)
			assert.True(t, filter.Evaluate(item))
		})
	}
}

func TestEvaluateRuntimeErrorDoesNotMatch(t *testing.T) {
	filter, err := NewExprCompiler().Compile(`lower(title) == "x"`)
	require.NoError(t, err)

	assert.False(t, filter.Evaluate(dataapi.Result{"title": json.Number("1")}))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-01T10:20:30+09:00", time.Date(2024, 3, 1, 1, 20, 30, 0, time.UTC)},
		{"2024-03-01 10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"not a date", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseDate(tt.input)), "got %v", parseDate(tt.input))
		})
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`id == 1`)
	require.NoError(t, err)
	again, err := compiler.Compile(` id == 1 `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`id == 2`)
	require.NoError(t, err)
	_, err = compiler.Compile(`id == 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())
}

func TestCompilerWithoutCache(t *testing.T) {
	compiler := NewExprCompiler()
	_, err := compiler.Compile(`id == 1`)
	require.NoError(t, err)
	assert.Equal(t, 0, compiler.Size())
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isLong": func(s string) bool { return len(s) > 5 },
	}))

	filter, err := compiler.Compile(`isLong(title)`)
	require.NoError(t, err)
	assert.True(t, filter.Evaluate(sampleEntry()))
}

func TestProgramCacheEviction(t *testing.T) {
	compiler := NewExprCompiler()
	a, _ := compiler.Compile(`id == 1`)
	b, _ := compiler.Compile(`id == 2`)
	c, _ := compiler.Compile(`id == 3`)

	cache := newProgramCache(2)
	cache.Put("a", a)
	cache.Put("b", b)
	_, ok := cache.Get("a")
	require.True(t, ok)
	cache.Put("c", c)

	_, ok = cache.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, cache.Len())
}

func makeItems(n int) []dataapi.Result {
	items := make([]dataapi.Result, n)
	for i := range items {
		items[i] = dataapi.Result{
			"id":    json.Number(fmt.Sprint(i)),
			"title": fmt.Sprintf("Entry %d", i),
		}
	}
	return items
}

func TestConcurrentEvaluator(t *testing.T) {
	filter, err := NewExprCompiler().Compile(`id % 2 == 0`)
	require.NoError(t, err)

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"empty", 0, 0},
		{"sequential", 10, 5},
		{"concurrent", 1000, 500},
	}

	evaluator := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(64))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := evaluator.Evaluate(context.Background(), filter, makeItems(tt.count))
			require.NoError(t, err)
			require.Len(t, matches, tt.want)
			for i, m := range matches {
				assert.Equal(t, json.Number(fmt.Sprint(i*2)), m["id"], "order must be preserved")
			}
		})
	}
}

func TestConcurrentEvaluatorCancelled(t *testing.T) {
	filter, err := NewExprCompiler().Compile(`true`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evaluator := NewConcurrentEvaluator(WithBatchSize(10))
	_, err = evaluator.Evaluate(ctx, filter, makeItems(5))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = evaluator.Evaluate(ctx, filter, makeItems(100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager(t *testing.T) {
	m := NewManager(WithEvaluator(NewConcurrentEvaluator(WithBatchSize(8))))

	require.NoError(t, m.RegisterFilters(map[string]string{
		"even":  `id % 2 == 0`,
		"first": `id < 3`,
	}))
	assert.Equal(t, []string{"even", "first"}, m.ListFilters())

	items := makeItems(20)
	matches, err := m.EvaluateFilter(context.Background(), "first", items)
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	_, err = m.EvaluateFilter(context.Background(), "missing", items)
	assert.EqualError(t, err, "filter 'missing' not found")

	matches, err = m.EvaluateExpression(context.Background(), `hasSubstring(title, "1")`, items)
	require.NoError(t, err)
	assert.Len(t, matches, 11) // 1 and 10-19

	_, err = m.EvaluateExpression(context.Background(), "", items)
	var compErr *CompilationError
	assert.ErrorAs(t, err, &compErr)
}

func TestManagerRegisterFiltersAtomic(t *testing.T) {
	m := NewManager()

	err := m.RegisterFilters(map[string]string{
		"good": `id == 1`,
		"bad":  `id ==`,
	})
	require.Error(t, err)
	assert.Empty(t, m.ListFilters())

	require.NoError(t, m.RegisterFilter("good", `id == 1`))
	_, ok := m.GetFilter("good")
	assert.True(t, ok)
	assert.ErrorContains(t, m.RegisterFilter("bad", `(`), "failed to compile filter 'bad'")
}
