// Package geometry converts source and receiver coordinate lists into the
// positional text files the simulator reads at startup, validating bounds
// before anything is written.
package geometry
