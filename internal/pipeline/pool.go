package pipeline

import (
	"sync"

	"gocv.io/x/gocv"
)

// Pool fans independent frames across a bounded number of goroutines.
type Pool struct {
	pipeline *Pipeline
	workers  int
}

// NewPool creates a Pool. workers below 1 is treated as 1.
func NewPool(p *Pipeline, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{pipeline: p, workers: workers}
}

// Workers returns the concurrency limit.
func (pl *Pool) Workers() int {
	return pl.workers
}

// ProcessAll processes every frame and returns results and errors in the
// order the frames were given. results[i] is nil when errs[i] is set.
// The caller must Close every non-nil result.
func (pl *Pool) ProcessAll(frames []gocv.Mat) ([]*Result, []error) {
	results := make([]*Result, len(frames))
	errs := make([]error, len(frames))

	var wg sync.WaitGroup
	sem := make(chan struct{}, pl.workers)

	for i := range frames {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i], errs[i] = pl.pipeline.Process(frames[i])
		}(i)
	}

	wg.Wait()
	return results, errs
}
