package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/dangle/internal/dynamo"
)

func driver(param, node, system, mode string, length, freq, damping float64) DriverConfig {
	d := DefaultDriver()
	d.Param, d.Node, d.System, d.MapMode = param, node, system, mode
	d.Props.Length = length
	d.Props.Frequency = freq
	d.Props.AngleDamping = damping
	d.Props.LengthDamping = damping
	return d
}

func scene(name string, duration float64, nodes []NodeConfig, drivers ...DriverConfig) *Scene {
	s := DefaultScene()
	s.Name = name
	s.Duration = duration
	s.Nodes = nodes
	s.Drivers = drivers
	return s
}

var headBob = []NodeConfig{
	{Name: "root", Offset: dynamo.Vec2{200, 150}},
	{Name: "head", Parent: "root", Offset: dynamo.Vec2{0, -60},
		Motion: MotionConfig{Kind: "sine", Amplitude: dynamo.Vec2{30, 5}, Frequency: 0.8}},
}

// Presets maps a physics system to named example scenes.
var Presets = map[string]map[string]*Scene{
	"rigid_pendulum": {
		"hair": scene("hair", 10, headBob,
			driver("hair_sway", "head", "rigid_pendulum", "angle_length", 80, 1, 0.3)),
		"swing": scene("swing", 20, []NodeConfig{
			{Name: "pivot", Offset: dynamo.Vec2{200, 50},
				Motion: MotionConfig{Kind: "step", Amplitude: dynamo.Vec2{60, 0}, At: 0.5}},
		}, driver("swing", "pivot", "rigid_pendulum", "angle_length", 100, 1, 0.1)),
		"decay": scene("decay", 10, []NodeConfig{
			{Name: "pivot", Offset: dynamo.Vec2{200, 50},
				Motion: MotionConfig{Kind: "keys", Keys: []KeyConfig{
					{T: 0, Value: dynamo.Vec2{0, 0}},
					{T: 0.25, Value: dynamo.Vec2{80, 0}},
				}}},
		}, driver("sway", "pivot", "rigid_pendulum", "xy", 100, 1, 0.5)),
	},
	"spring_pendulum": {
		"earring": scene("earring", 10, headBob,
			driver("earring", "head", "spring_pendulum", "xy", 40, 2, 0.2)),
		"bounce": scene("bounce", 10, []NodeConfig{
			{Name: "anchor", Offset: dynamo.Vec2{200, 50},
				Motion: MotionConfig{Kind: "step", Amplitude: dynamo.Vec2{0, -40}, At: 0.5}},
		}, driver("bounce", "anchor", "spring_pendulum", "xy", 60, 1.5, 0.05)),
		"critical": scene("critical", 5, []NodeConfig{
			{Name: "anchor", Offset: dynamo.Vec2{200, 50},
				Motion: MotionConfig{Kind: "step", Amplitude: dynamo.Vec2{50, 0}, At: 0.5}},
		}, driver("settle", "anchor", "spring_pendulum", "xy", 60, 1.5, 1)),
		"orbit": scene("orbit", 20, []NodeConfig{
			{Name: "anchor", Offset: dynamo.Vec2{200, 100},
				Motion: MotionConfig{Kind: "circle", Amplitude: dynamo.Vec2{40, 40}, Frequency: 0.5}},
		}, driver("tail", "anchor", "spring_pendulum", "angle_length", 80, 1, 0.4)),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(system, preset string) *Scene {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	s, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return s.Clone()
}

// LookupPreset resolves a "system/name" reference.
func LookupPreset(ref string) (*Scene, error) {
	system, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("preset %q: want system/name", ref)
	}
	s := GetPreset(system, name)
	if s == nil {
		return nil, fmt.Errorf("preset %q not found", ref)
	}
	return s, nil
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Systems lists the systems with presets.
func Systems() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
