// Package simulator invokes the external SOFI2D executable, directly or
// through an MPI launcher, and reports its exit status and captured output.
package simulator
