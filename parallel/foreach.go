// Package parallel contains bounded parallel loops used by the CPU bound stages of the pipeline.
package parallel

import "context"
import "sync"

import "golang.org/x/sync/semaphore"

// ForEach executes body for every integer in [0, length) with at most limit bodies
// running at the same time. It returns once every body has finished.
func ForEach(length, limit int, body func(i int)) {
	_ = ForEachErr(context.Background(), length, limit, func(i int) error {
		body(i)
		return nil
	})
}

// ForEachErr is ForEach for bodies that can fail. Once a body fails or ctx is done no
// further bodies are started, and the first error is returned after the running ones finish.
func ForEachErr(ctx context.Context, length, limit int, body func(i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		sem   = semaphore.NewWeighted(int64(limit))
		wg    sync.WaitGroup
		once  sync.Once
		first error
	)
	fail := func(err error) {
		once.Do(func() {
			first = err
			cancel()
		})
	}

	for i := 0; i < length; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			fail(err)
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			if err := body(i); err != nil {
				fail(err)
			}
		}(i)
	}

	wg.Wait()
	return first
}
