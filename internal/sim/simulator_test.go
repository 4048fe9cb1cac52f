package sim

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/physics"
	"github.com/san-kum/dangle/internal/puppet"
	"github.com/san-kum/dangle/internal/rig"
)

func build() (*puppet.Puppet, *rig.Pass, error) {
	pup, err := puppet.New([]puppet.Node{
		{Name: "root", Offset: dynamo.Vec2{100, 100}},
		{Name: "head", Parent: "root", Motion: puppet.Motion{
			Kind: puppet.MotionStep, Amplitude: dynamo.Vec2{40, 0}, At: 0.5,
		}},
	})
	if err != nil {
		return nil, nil, err
	}

	p := physics.DefaultProps()
	p.Length = 100
	p.AngleDamping = 0.2
	p.LengthDamping = 0.2
	hair, err := rig.NewDriver("hair", "head", physics.KindRigidPendulum, physics.AngleLength, p)
	if err != nil {
		return nil, nil, err
	}
	ear, err := rig.NewDriver("ear", "head", physics.KindSpringPendulum, physics.XY, p)
	if err != nil {
		return nil, nil, err
	}
	ghost, err := rig.NewDriver("ghost", "missing", physics.KindSpringPendulum, physics.XY, p)
	if err != nil {
		return nil, nil, err
	}
	return pup, rig.NewPass(physics.DefaultEnv(), hair, ear, ghost), nil
}

type countingObserver struct{ frames int }

func (o *countingObserver) OnFrame(Frame) { o.frames++ }

type maxMetric struct {
	param rig.ParamID
	max   float64
}

func (m *maxMetric) Name() string { return "max." + string(m.param) }
func (m *maxMetric) Observe(f Frame) {
	v, _ := f.Value(m.param)
	m.max = math.Max(m.max, math.Abs(v[0]))
}
func (m *maxMetric) Value() float64 { return m.max }
func (m *maxMetric) Reset()         { m.max = 0 }

var _ = Describe("Simulator", func() {
	var s *Simulator

	BeforeEach(func() {
		pup, pass, err := build()
		Expect(err).NotTo(HaveOccurred())
		s = New(pup, pass)
	})

	It("records one frame per step", func() {
		obs := &countingObserver{}
		s.AddObserver(obs)

		res, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Times).To(HaveLen(10))
		Expect(res.Outputs).To(HaveLen(10))
		Expect(res.Times[9]).To(BeNumerically("~", 1.0, 1e-9))
		Expect(obs.frames).To(Equal(10))
		Expect(res.Params).To(Equal([]rig.ParamID{"hair", "ear", "ghost"}))
	})

	It("counts drivers whose node is missing", func() {
		res, err := s.Run(context.Background(), Config{Dt: 1.0 / 60, Duration: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Skipped).To(Equal(60))
		Expect(s.Puppet().Params()).NotTo(ContainElement(rig.ParamID("ghost")))
	})

	It("reacts to the anchor step and settles back", func() {
		m := &maxMetric{param: "hair"}
		s.AddMetric(m)

		res, err := s.Run(context.Background(), Config{Dt: 1.0 / 60, Duration: 8})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKey("max.hair"))
		Expect(res.Metrics["max.hair"]).To(BeNumerically(">", 0.01))

		xs, ys, ok := res.Series("hair")
		Expect(ok).To(BeTrue())
		Expect(xs[0]).To(BeNumerically("~", 0, 1e-9))
		Expect(ys[0]).To(BeNumerically("~", 1, 1e-9))
		Expect(math.Abs(xs[len(xs)-1])).To(BeNumerically("<", 0.01))
	})

	It("is deterministic across runs", func() {
		cfg := Config{Dt: 1.0 / 60, Duration: 3}
		first, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		second, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Outputs).To(Equal(first.Outputs))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Run(ctx, Config{Dt: 0.1, Duration: 1})
		Expect(err).To(MatchError(context.Canceled))
	})

	DescribeTable("rejects invalid configs",
		func(cfg Config) {
			_, err := s.Run(context.Background(), cfg)
			Expect(err).To(HaveOccurred())
		},
		Entry("zero dt", Config{Dt: 0, Duration: 1}),
		Entry("negative dt", Config{Dt: -0.1, Duration: 1}),
		Entry("zero duration", Config{Dt: 0.1, Duration: 0}),
		Entry("NaN duration", Config{Dt: 0.1, Duration: math.NaN()}),
	)

	It("wraps bad steps in a simulation error", func() {
		_, err := s.Step(-1)
		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(err).To(MatchError(dynamo.ErrInvalidTimestep))
	})
})

var _ = Describe("Sweep", func() {
	It("runs one result per offset value", func() {
		sw := NewSweep(build, "angle_damping", []float64{0.5, 1, 4}).
			WithMetrics(func() []Metric { return []Metric{&maxMetric{param: "hair"}} })

		results, err := sw.Run(context.Background(), Config{Dt: 1.0 / 60, Duration: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].Metrics["max.hair"]).To(BeNumerically(">", results[2].Metrics["max.hair"]))
	})

	It("fails on an unknown offset", func() {
		_, err := NewSweep(build, "stiffness", []float64{1}).Run(context.Background(), Config{Dt: 0.1, Duration: 1})
		Expect(err).To(HaveOccurred())
	})
})
