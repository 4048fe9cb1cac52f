// Package analysis inspects recorded parameter outputs.
//
//   - [PowerSpectrum] and [DominantFrequency]: how fast a driven
//     parameter oscillates, from its sampled output
//   - [NewTrace] and [TraceToASCII]: the path a parameter's (x, y)
//     output traces over a run
//
// A spring driver with little damping should ring at close to its
// configured frequency:
//
//	xs, _, _ := result.Series("earring")
//	hz := analysis.DominantFrequency(xs, dt)
package analysis
