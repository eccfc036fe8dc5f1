package translate

import (
	"context"
	"fmt"
	"sync"
)

type batchFunc func(ctx context.Context, batch []Request) ([]string, error)

// splits requests into consecutive batches of at most size
func chunk(requests []Request, size int) [][]Request {
	batches := make([][]Request, 0, (len(requests)+size-1)/size)
	for start := 0; start < len(requests); start += size {
		end := min(start+size, len(requests))
		batches = append(batches, requests[start:end])
	}
	return batches
}

// runBatches calls fn for every batch with at most limit calls in flight and
// joins the answers in batch order. The first failure cancels the batches
// still waiting or running.
func runBatches(
	ctx context.Context,
	batches [][]Request,
	limit int,
	fn batchFunc,
) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	answers := make([][]string, len(batches))
	slots := make(chan struct{}, max(limit, 1))

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, batch := range batches {
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			fail(ctx.Err())
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-slots }()

			texts, err := fn(ctx, batch)
			if err != nil {
				fail(fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err))
				return
			}
			answers[i] = texts
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var joined []string
	for _, texts := range answers {
		joined = append(joined, texts...)
	}
	return joined, nil
}
