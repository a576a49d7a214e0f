// Package runner sequences the simulation pipeline: parameter rendering,
// model preparation, geometry export, simulator invocation, and output
// collection. Each run owns a fresh workspace; stages are strictly ordered
// and the first failure aborts the run.
package runner
