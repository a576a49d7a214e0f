// Package model reads velocity/density models from SEG-Y, resamples them
// onto the simulator's regular grid, and exports them in the simulator's raw
// float32 binary convention.
package model
