package rig

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/physics"
)

func mustDriver(param ParamID, node NodeID, kind physics.Kind, mode physics.MapMode) *Driver {
	p := physics.DefaultProps()
	p.Length = 80
	p.Frequency = 2
	p.AngleDamping = 0.3
	p.LengthDamping = 0.3
	d, err := NewDriver(param, node, kind, mode, p)
	Expect(err).NotTo(HaveOccurred())
	return d
}

// wobble moves every node along its own Lissajous path.
func wobble(r *fakeRig, nodes []NodeID, t float64) {
	for i, n := range nodes {
		f := float64(i + 1)
		r.anchors[n] = dynamo.Vec2{40 * math.Sin(f*t), 25 * math.Cos(1.7*f*t)}
	}
}

func buildPass(count int) (*Pass, []NodeID) {
	kinds := []physics.Kind{physics.KindRigidPendulum, physics.KindSpringPendulum}
	modes := []physics.MapMode{physics.AngleLength, physics.XY}
	var drivers []*Driver
	var nodes []NodeID
	for i := 0; i < count; i++ {
		node := NodeID(fmt.Sprintf("node%d", i))
		nodes = append(nodes, node)
		drivers = append(drivers, mustDriver(ParamID(fmt.Sprintf("param%d", i)), node, kinds[i%2], modes[(i/2)%2]))
	}
	return NewPass(physics.DefaultEnv(), drivers...), nodes
}

var _ = Describe("Pass", func() {
	var (
		pass  *Pass
		nodes []NodeID
		r     *fakeRig
	)

	BeforeEach(func() {
		pass, nodes = buildPass(4)
		r = newFakeRig()
	})

	It("writes every driver's output once per tick", func() {
		wobble(r, nodes, 0)
		rep := pass.Update(r, 1.0/60.0)

		Expect(rep).To(Equal(Stats{Ticked: 4}))
		Expect(r.writes).To(Equal(4))
		for _, d := range pass.Drivers {
			Expect(r.params).To(HaveKeyWithValue(d.Param, d.Output))
		}
	})

	It("starts at rest values when the anchor does not move", func() {
		r.anchors = map[NodeID]dynamo.Vec2{}
		for _, n := range nodes {
			r.anchors[n] = dynamo.Vec2{10, 10}
		}
		for i := 0; i < 120; i++ {
			pass.Update(r, 1.0/60.0)
		}
		for _, d := range pass.Drivers {
			var rest dynamo.Vec2
			if d.MapMode == physics.AngleLength {
				rest = dynamo.Vec2{0, 1}
			}
			Expect(near(d.Output, rest, 1e-6)).To(BeTrue(), "%s: %v", d.Param, d.Output)
		}
	})

	It("skips drivers whose node is unavailable without touching them", func() {
		wobble(r, nodes, 0)
		pass.Update(r, 1.0/60.0)

		missing := pass.Drivers[1]
		before := *missing
		delete(r.anchors, missing.Node)
		delete(r.params, missing.Param)

		wobble(r, nodes[:1], 0.3)
		rep := pass.Update(r, 1.0/60.0)

		Expect(rep.Skipped).To(Equal(1))
		Expect(rep.Ticked).To(Equal(3))
		Expect(r.params).NotTo(HaveKey(missing.Param))
		Expect(missing.Output).To(Equal(before.Output))
		Expect(missing.Anchor).To(Equal(before.Anchor))
	})

	It("holds outputs on a non-finite anchor", func() {
		wobble(r, nodes, 0)
		pass.Update(r, 1.0/60.0)
		held := pass.Drivers[0].Output

		r.anchors[nodes[0]] = dynamo.Vec2{math.NaN(), 0}
		rep := pass.Update(r, 1.0/60.0)

		Expect(rep.Held).To(Equal(1))
		Expect(r.params[pass.Drivers[0].Param]).To(Equal(held))
	})

	It("counts a zero time step as held", func() {
		wobble(r, nodes, 0)
		pass.Update(r, 1.0/60.0)
		before := map[ParamID]dynamo.Vec2{}
		for k, v := range r.params {
			before[k] = v
		}

		wobble(r, nodes, 0.5)
		rep := pass.Update(r, 0)

		Expect(rep).To(Equal(Stats{Held: 4}))
		Expect(r.params).To(Equal(before))
	})

	DescribeTable("rejects bad time steps",
		func(dt float64) {
			wobble(r, nodes, 0)
			rep := pass.Update(r, dt)
			Expect(rep.Rejected).To(BeTrue())
			Expect(r.writes).To(BeZero())
		},
		Entry("negative", -0.01),
		Entry("NaN", math.NaN()),
		Entry("infinite", math.Inf(1)),
	)

	It("produces identical results when run in parallel", func() {
		seq, seqNodes := buildPass(64)
		par, _ := buildPass(64)
		par.Parallel = true
		rs, rp := newFakeRig(), newFakeRig()

		for i := 0; i < 200; i++ {
			t := float64(i) / 60.0
			wobble(rs, seqNodes, t)
			wobble(rp, seqNodes, t)
			Expect(seq.Update(rs, 1.0/60.0)).To(Equal(par.Update(rp, 1.0/60.0)))
		}
		Expect(rp.params).To(Equal(rs.params))
	})

	It("is deterministic across fresh passes", func() {
		a, an := buildPass(6)
		b, _ := buildPass(6)
		ra, rb := newFakeRig(), newFakeRig()
		steps := []float64{1.0 / 60, 1.0 / 30, 1.0 / 144, 0.25, 1.0 / 60}

		for i := 0; i < 300; i++ {
			dt := steps[i%len(steps)]
			wobble(ra, an, float64(i)*0.05)
			wobble(rb, an, float64(i)*0.05)
			a.Update(ra, dt)
			b.Update(rb, dt)
		}
		Expect(ra.params).To(Equal(rb.params))
	})

	It("resets drivers and offsets", func() {
		wobble(r, nodes, 0)
		pass.Update(r, 1.0/60.0)
		wobble(r, nodes, 1)
		pass.Update(r, 1.0/60.0)
		Expect(pass.Drivers[0].Props.SetOffset("gravity", 3)).To(Succeed())

		pass.Reset()
		pass.ResetOffsets()

		for _, d := range pass.Drivers {
			Expect(d.Output).To(Equal(dynamo.Vec2{}))
			Expect(d.Props.OffsetGravity).To(Equal(1.0))
		}
	})

	It("looks drivers up by parameter", func() {
		Expect(pass.Driver("param2")).To(BeIdenticalTo(pass.Drivers[2]))
		Expect(pass.Driver("nope")).To(BeNil())
	})
})
