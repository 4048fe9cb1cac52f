// Package metrics summarises a parameter's output over a run. Every
// metric measures deviation from the first observed value, which for a
// driver starting at rest is its rest output.
package metrics
