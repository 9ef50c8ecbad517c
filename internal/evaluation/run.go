package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/lehigh-university-libraries/tagscan/internal/scanner"
)

// Reader reads the tag from one photo. scanner.Service satisfies it.
type Reader interface {
	Read(ctx context.Context, data []byte) (*scanner.Reading, error)
}

// Runner evaluates dataset items with bounded concurrency.
type Runner struct {
	reader      Reader
	concurrency int
	logger      *slog.Logger
}

// NewRunner returns a Runner. Concurrency below one means serial.
func NewRunner(reader Reader, concurrency int, logger *slog.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{reader: reader, concurrency: concurrency, logger: logger}
}

// Run evaluates every item. Results keep the dataset's order.
func (r *Runner) Run(ctx context.Context, ds *Dataset) []ItemResult {
	results := make([]ItemResult, len(ds.Items))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.concurrency)
	for i, item := range ds.Items {
		wg.Add(1)
		go func(idx int, item Item) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			r.logger.Debug("Evaluating item", "id", item.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(ds.Items)))
			results[idx] = r.evaluate(ctx, item)
		}(i, item)
	}
	wg.Wait()

	return results
}

func (r *Runner) evaluate(ctx context.Context, item Item) ItemResult {
	result := ItemResult{
		ID:       item.ID,
		Image:    item.Image,
		Expected: item.Expected,
	}

	if err := ctx.Err(); err != nil {
		result.Verdict = VerdictFailed
		result.Error = err.Error()
		return result
	}

	data, err := os.ReadFile(item.Image)
	if err != nil {
		result.Verdict = VerdictFailed
		result.Error = fmt.Sprintf("failed to read image: %v", err)
		return result
	}

	reading, err := r.reader.Read(ctx, data)
	if err != nil {
		result.Verdict = VerdictFailed
		result.Error = err.Error()
		r.logger.Warn("Item failed", "id", item.ID, "err", err)
		return result
	}

	result.Got = string(reading.AssetTag)
	result.Fragments = reading.Fragments
	result.Duration = reading.Duration
	result.Verdict = Classify(item.Expected, result.Got, reading.Found)
	r.logger.Debug("Item evaluated", "id", item.ID, "expected", item.Expected, "got", result.Got, "verdict", result.Verdict)
	return result
}
