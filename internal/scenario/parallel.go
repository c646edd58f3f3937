package scenario

import (
	"context"
	"sync"
)

// RunMatrix executes a batch of scenarios concurrently, one goroutine per
// scenario. Models and forcings are constructed per run, so nothing is
// shared between cells. The first error wins.
func RunMatrix(ctx context.Context, cfgs []Config) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(idx int, c Config) {
			defer wg.Done()
			outcomes[idx], errs[idx] = Execute(ctx, c)
		}(i, cfg)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}
