package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/physics"
	"github.com/san-kum/dangle/internal/puppet"
	"github.com/san-kum/dangle/internal/rig"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 10.0
	DefaultLength   = 100.0
)

// Scene describes a puppet, its physics drivers and how long to run it.
type Scene struct {
	Name        string         `yaml:"name"`
	Env         EnvConfig      `yaml:"env"`
	Dt          float64        `yaml:"dt"`
	Duration    float64        `yaml:"duration"`
	MaxStep     float64        `yaml:"max_step"`
	MaxSubsteps int            `yaml:"max_substeps"`
	Parallel    bool           `yaml:"parallel,omitempty"`
	Nodes       []NodeConfig   `yaml:"nodes"`
	Drivers     []DriverConfig `yaml:"drivers"`
}

type EnvConfig struct {
	Gravity        float64 `yaml:"gravity"`
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
}

type NodeConfig struct {
	Name   string       `yaml:"name"`
	Parent string       `yaml:"parent,omitempty"`
	Offset dynamo.Vec2  `yaml:"offset,flow"`
	Motion MotionConfig `yaml:"motion,omitempty"`
	Hidden bool         `yaml:"hidden,omitempty"`
}

type MotionConfig struct {
	Kind      string      `yaml:"kind,omitempty"`
	Amplitude dynamo.Vec2 `yaml:"amplitude,flow,omitempty"`
	Frequency float64     `yaml:"frequency,omitempty"`
	Phase     float64     `yaml:"phase,omitempty"`
	At        float64     `yaml:"at,omitempty"`
	Keys      []KeyConfig `yaml:"keys,omitempty"`
}

type KeyConfig struct {
	T     float64     `yaml:"t"`
	Value dynamo.Vec2 `yaml:"value,flow"`
}

type DriverConfig struct {
	Param     string      `yaml:"param"`
	Node      string      `yaml:"node"`
	System    string      `yaml:"system"`
	MapMode   string      `yaml:"map_mode"`
	LocalOnly bool        `yaml:"local_only,omitempty"`
	Props     PropsConfig `yaml:"props"`
}

type PropsConfig struct {
	Gravity       float64     `yaml:"gravity"`
	Length        float64     `yaml:"length"`
	Frequency     float64     `yaml:"frequency"`
	AngleDamping  float64     `yaml:"angle_damping"`
	LengthDamping float64     `yaml:"length_damping"`
	OutputScale   dynamo.Vec2 `yaml:"output_scale,flow"`
}

func DefaultScene() *Scene {
	env := physics.DefaultEnv()
	return &Scene{
		Name:        "scene",
		Env:         EnvConfig{Gravity: env.Gravity, PixelsPerMeter: env.PixelsPerMeter},
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		MaxStep:     rig.DefaultMaxStep,
		MaxSubsteps: rig.DefaultMaxSubsteps,
	}
}

func DefaultDriver() DriverConfig {
	p := physics.DefaultProps()
	return DriverConfig{
		System:  physics.KindRigidPendulum.String(),
		MapMode: physics.AngleLength.String(),
		Props: PropsConfig{
			Gravity:       p.Gravity,
			Length:        DefaultLength,
			Frequency:     p.Frequency,
			AngleDamping:  p.AngleDamping,
			LengthDamping: p.LengthDamping,
			OutputScale:   p.OutputScale,
		},
	}
}

// UnmarshalYAML fills fields missing from the document with DefaultDriver.
func (d *DriverConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain DriverConfig
	*d = DefaultDriver()
	return node.Decode((*plain)(d))
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scene document over DefaultScene and validates it.
func Parse(data []byte) (*Scene, error) {
	s := DefaultScene()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func Save(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Validate reports the first problem found in the scene.
func (s *Scene) Validate() error {
	if !(s.Dt > 0) || !finite(s.Dt) {
		return fmt.Errorf("dt %v: %w", s.Dt, dynamo.ErrInvalidTimestep)
	}
	if !(s.Duration > 0) || !finite(s.Duration) {
		return fmt.Errorf("duration must be positive, got %v", s.Duration)
	}
	if !(s.MaxStep > 0) || !finite(s.MaxStep) {
		return fmt.Errorf("max_step %v: %w", s.MaxStep, dynamo.ErrInvalidTimestep)
	}
	if s.MaxSubsteps < 1 {
		return fmt.Errorf("max_substeps must be at least 1, got %d", s.MaxSubsteps)
	}
	if !finite(s.Env.Gravity) || !(s.Env.PixelsPerMeter > 0) || !finite(s.Env.PixelsPerMeter) {
		return fmt.Errorf("env %+v: %w", s.Env, dynamo.ErrParameterBounds)
	}

	nodes := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, err := puppet.ParseMotionKind(n.Motion.Kind); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		nodes[n.Name] = true
	}

	params := make(map[string]bool, len(s.Drivers))
	for i, d := range s.Drivers {
		if d.Param == "" {
			return fmt.Errorf("driver %d: empty param", i)
		}
		if params[d.Param] {
			return fmt.Errorf("driver %q: param written twice", d.Param)
		}
		params[d.Param] = true
		if !nodes[d.Node] {
			return fmt.Errorf("driver %q: %w: %q", d.Param, dynamo.ErrUnknownNode, d.Node)
		}
		if _, err := physics.ParseKind(d.System); err != nil {
			return fmt.Errorf("driver %q: %w", d.Param, err)
		}
		if _, err := physics.ParseMapMode(d.MapMode); err != nil {
			return fmt.Errorf("driver %q: %w", d.Param, err)
		}
		if err := d.Props.validate(); err != nil {
			return fmt.Errorf("driver %q: %w", d.Param, err)
		}
	}
	return nil
}

func (p PropsConfig) validate() error {
	if !finite(p.Gravity, p.Length, p.Frequency, p.AngleDamping, p.LengthDamping, p.OutputScale[0], p.OutputScale[1]) {
		return fmt.Errorf("non-finite props: %w", dynamo.ErrParameterBounds)
	}
	if p.Length <= 0 {
		return fmt.Errorf("length %v: %w", p.Length, dynamo.ErrParameterBounds)
	}
	if p.Frequency <= 0 {
		return fmt.Errorf("frequency %v: %w", p.Frequency, dynamo.ErrParameterBounds)
	}
	if p.AngleDamping < 0 || p.LengthDamping < 0 {
		return fmt.Errorf("negative damping: %w", dynamo.ErrParameterBounds)
	}
	return nil
}

// Props converts to a physics parameter set with identity offsets.
func (p PropsConfig) Props() physics.Props {
	props := physics.DefaultProps()
	props.Gravity = p.Gravity
	props.Length = p.Length
	props.Frequency = p.Frequency
	props.AngleDamping = p.AngleDamping
	props.LengthDamping = p.LengthDamping
	props.OutputScale = p.OutputScale
	return props
}

func (s *Scene) PhysicsEnv() physics.Env {
	return physics.Env{Gravity: s.Env.Gravity, PixelsPerMeter: s.Env.PixelsPerMeter}
}

// Build creates the puppet and update pass the scene describes.
func (s *Scene) Build() (*puppet.Puppet, *rig.Pass, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	nodes := make([]puppet.Node, len(s.Nodes))
	for i, n := range s.Nodes {
		kind, _ := puppet.ParseMotionKind(n.Motion.Kind)
		keys := make([]puppet.Key, len(n.Motion.Keys))
		for j, k := range n.Motion.Keys {
			keys[j] = puppet.Key{T: k.T, Value: k.Value}
		}
		nodes[i] = puppet.Node{
			Name:   rig.NodeID(n.Name),
			Parent: rig.NodeID(n.Parent),
			Offset: n.Offset,
			Hidden: n.Hidden,
			Motion: puppet.Motion{
				Kind:      kind,
				Amplitude: n.Motion.Amplitude,
				Frequency: n.Motion.Frequency,
				Phase:     n.Motion.Phase,
				At:        n.Motion.At,
				Keys:      keys,
			},
		}
	}
	pup, err := puppet.New(nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}

	drivers := make([]*rig.Driver, 0, len(s.Drivers))
	for _, d := range s.Drivers {
		kind, _ := physics.ParseKind(d.System)
		mode, _ := physics.ParseMapMode(d.MapMode)
		drv, err := rig.NewDriver(rig.ParamID(d.Param), rig.NodeID(d.Node), kind, mode, d.Props.Props())
		if err != nil {
			return nil, nil, fmt.Errorf("driver %q: %w", d.Param, err)
		}
		drv.LocalOnly = d.LocalOnly
		drv.MaxStep = s.MaxStep
		drv.MaxSubsteps = s.MaxSubsteps
		drivers = append(drivers, drv)
	}

	pass := rig.NewPass(s.PhysicsEnv(), drivers...)
	pass.Parallel = s.Parallel
	return pup, pass, nil
}

// Params lists the parameters the scene's drivers write, in driver order.
func (s *Scene) Params() []string {
	out := make([]string, len(s.Drivers))
	for i, d := range s.Drivers {
		out[i] = d.Param
	}
	return out
}

// Clone returns a deep copy.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Nodes = make([]NodeConfig, len(s.Nodes))
	for i, n := range s.Nodes {
		n.Motion.Keys = append([]KeyConfig(nil), n.Motion.Keys...)
		c.Nodes[i] = n
	}
	c.Drivers = append([]DriverConfig(nil), s.Drivers...)
	return &c
}
