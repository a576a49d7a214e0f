package model

import "math"

// GardnerDensity derives a density grid from P-wave velocity using Gardner's
// relation, rho = 310 * vp^0.25, valid for velocities in m/s and densities in
// kg/m^3.
func GardnerDensity(vp *Grid) *Grid {
	rho := &Grid{NX: vp.NX, NZ: vp.NZ, DX: vp.DX, DZ: vp.DZ, Data: make([]float32, len(vp.Data))}
	for i, v := range vp.Data {
		rho.Data[i] = float32(310 * math.Pow(float64(v), 0.25))
	}
	return rho
}

// PoissonShear derives a shear velocity grid assuming a Poisson solid,
// vs = vp / sqrt(3).
func PoissonShear(vp *Grid) *Grid {
	vs := &Grid{NX: vp.NX, NZ: vp.NZ, DX: vp.DX, DZ: vp.DZ, Data: make([]float32, len(vp.Data))}
	for i, v := range vp.Data {
		vs.Data[i] = float32(float64(v) / math.Sqrt(3))
	}
	return vs
}
