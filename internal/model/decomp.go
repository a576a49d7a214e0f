package model

// Decomposition is a SOFI2D-safe MPI rank layout.
type Decomposition struct {
	NProcX         int
	NProcY         int
	ThreadsPerProc int
	TotalProcs     int
}

// SuggestDecomposition picks an MPI rank grid for an nx-by-nz model given a
// core budget. Each rank's local block must hold the absorbing frame plus
// the FD stencil on both sides (2*fw + 2*fdorder points per axis), and both
// grid dimensions must divide evenly across ranks. Among legal layouts the
// one with the most ranks wins; (1, 1) is always legal as a fallback.
func SuggestDecomposition(nx, nz, maxCores, fw, fdorder int) Decomposition {
	if maxCores < 1 {
		maxCores = 1
	}
	minBlock := 2*fw + 2*fdorder

	bestX, bestY := 1, 1
	bestProcs := 1
	for nproc := 1; nproc <= maxCores; nproc++ {
		for fx := 1; fx <= nproc; fx++ {
			if nproc%fx != 0 {
				continue
			}
			fy := nproc / fx
			if nx%fx != 0 || nz%fy != 0 {
				continue
			}
			if nx/fx < minBlock || nz/fy < minBlock {
				continue
			}
			if fx*fy > bestProcs {
				bestX, bestY = fx, fy
				bestProcs = fx * fy
			}
		}
	}

	threads := maxCores / bestProcs
	if threads < 1 {
		threads = 1
	}
	return Decomposition{
		NProcX:         bestX,
		NProcY:         bestY,
		ThreadsPerProc: threads,
		TotalProcs:     bestProcs,
	}
}
