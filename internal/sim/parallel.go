package sim

import (
	"context"
	"sync"

	"github.com/san-kum/dangle/internal/puppet"
	"github.com/san-kum/dangle/internal/rig"
)

// Factory builds a fresh puppet and pass. Each sweep run gets its own.
type Factory func() (*puppet.Puppet, *rig.Pass, error)

// Sweep runs the same scene once per value of one runtime offset, applied
// to every driver. Runs are independent and execute concurrently.
type Sweep struct {
	build   Factory
	offset  string
	values  []float64
	metrics func() []Metric
}

func NewSweep(build Factory, offset string, values []float64) *Sweep {
	return &Sweep{build: build, offset: offset, values: values}
}

// WithMetrics sets a constructor for the metrics each run records.
func (sw *Sweep) WithMetrics(fn func() []Metric) *Sweep {
	sw.metrics = fn
	return sw
}

func (sw *Sweep) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(sw.values))
	errs := make([]error, len(sw.values))

	var wg sync.WaitGroup
	for i, v := range sw.values {
		wg.Add(1)
		go func(idx int, value float64) {
			defer wg.Done()

			pup, pass, err := sw.build()
			if err != nil {
				errs[idx] = err
				return
			}
			for _, d := range pass.Drivers {
				if err := d.Props.SetOffset(sw.offset, value); err != nil {
					errs[idx] = err
					return
				}
			}

			s := New(pup, pass)
			if sw.metrics != nil {
				for _, m := range sw.metrics() {
					s.AddMetric(m)
				}
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, v)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
