package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/labsim/internal/dynamo"
)

// Job is one independent scene run inside a batch.
type Job struct {
	Scene   dynamo.Scene
	Metrics []dynamo.Metric
}

// RunBatch runs every job on its own goroutine with the same config. Results
// keep the order of jobs. Scenes must not be shared between jobs.
func RunBatch(ctx context.Context, jobs []Job, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim := New(jobs[idx].Scene)
			for _, m := range jobs[idx].Metrics {
				sim.AddMetric(m)
			}

			results[idx], errs[idx] = sim.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i, jobs[i].Scene.Name(), err)
		}
	}

	return results, nil
}
