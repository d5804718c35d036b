package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
)

// renderBatch runs count independent renders, each into its own
// run-<n> subdirectory of cfg.outDir, across a bounded worker pool.
// Independent Backend instances share no state, so running them
// concurrently is safe.
func renderBatch(cfg renderConfig, count, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > count {
		workers = count
	}

	tasks := make(chan int, count)
	for i := 0; i < count; i++ {
		tasks <- i
	}
	close(tasks)

	errs := make([]error, count)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				runCfg := cfg
				runCfg.outDir = filepath.Join(cfg.outDir, fmt.Sprintf("run-%d", i))
				errs[i] = renderOne(runCfg)
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
	}
	return nil
}
