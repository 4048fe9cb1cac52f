package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/puppet"
	"github.com/san-kum/dangle/internal/rig"
)

// Simulator advances a puppet's animation clock and its physics pass in
// lockstep, one frame per Step.
type Simulator struct {
	puppet    *puppet.Puppet
	pass      *rig.Pass
	params    []rig.ParamID
	metrics   []Metric
	observers []Observer

	time  float64
	frame int
}

func New(p *puppet.Puppet, pass *rig.Pass) *Simulator {
	params := make([]rig.ParamID, len(pass.Drivers))
	for i, d := range pass.Drivers {
		params[i] = d.Param
	}
	return &Simulator{
		puppet:    p,
		pass:      pass,
		params:    params,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Puppet() *puppet.Puppet { return s.puppet }
func (s *Simulator) Pass() *rig.Pass        { return s.pass }
func (s *Simulator) Params() []rig.ParamID  { return s.params }
func (s *Simulator) Time() float64          { return s.time }

// Step moves animation time forward by dt, runs the physics pass and
// returns the resulting frame.
func (s *Simulator) Step(dt float64) (Frame, error) {
	if !(dt >= 0) || !dynamo.IsFinite(dt) {
		return Frame{}, &dynamo.SimulationError{
			Frame:   s.frame,
			Time:    s.time,
			Wrapped: fmt.Errorf("%w: dt=%v", dynamo.ErrInvalidTimestep, dt),
		}
	}

	s.time += dt
	s.puppet.SetTime(s.time)
	stats := s.pass.Update(s.puppet, dt)

	f := Frame{
		Index:  s.frame,
		Time:   s.time,
		Stats:  stats,
		Params: s.params,
		Values: make([]dynamo.Vec2, len(s.pass.Drivers)),
	}
	for i, d := range s.pass.Drivers {
		f.Values[i] = d.Output
	}
	s.frame++
	return f, nil
}

// Reset rewinds the puppet and returns every driver to rest.
func (s *Simulator) Reset() {
	s.puppet.Reset()
	s.pass.Reset()
	s.time = 0
	s.frame = 0
}

// Run resets the simulator and steps it for cfg.Duration in steps of cfg.Dt.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Params:  s.params,
		Times:   make([]float64, 0, steps),
		Outputs: make([][]dynamo.Vec2, 0, steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.Reset()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f, err := s.Step(cfg.Dt)
		if err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		result.Skipped += f.Stats.Skipped
		result.Held += f.Stats.Held

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}

		result.Times = append(result.Times, f.Time)
		result.Outputs = append(result.Outputs, f.Values)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || !dynamo.IsFinite(cfg.Dt) {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrInvalidTimestep)
	}
	if !(cfg.Duration > 0) || !dynamo.IsFinite(cfg.Duration) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
