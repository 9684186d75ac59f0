package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bitpart/dataapi/dataapi"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator splits large item lists into batches and evaluates
// them in parallel. Matches keep the order of the input.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate returns the items matching filter
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, items []dataapi.Result) ([]dataapi.Result, error) {
	if len(items) == 0 {
		return []dataapi.Result{}, nil
	}

	if len(items) < e.batchSize {
		return e.evaluateSequential(ctx, filter, items)
	}

	return e.evaluateConcurrent(ctx, filter, items)
}

func (e *ConcurrentEvaluator) evaluateSequential(ctx context.Context, filter CompiledFilter, items []dataapi.Result) ([]dataapi.Result, error) {
	matches := make([]dataapi.Result, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if filter.Evaluate(item) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, items []dataapi.Result) ([]dataapi.Result, error) {
	matched := make([]bool, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for start := 0; start < len(items); start += e.batchSize {
		end := min(start+e.batchSize, len(items))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				matched[i] = filter.Evaluate(items[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]dataapi.Result, 0, len(items))
	for i, ok := range matched {
		if ok {
			matches = append(matches, items[i])
		}
	}
	return matches, nil
}
