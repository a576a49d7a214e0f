// Package deps checks that the external binaries the pipeline shells out to
// are present before a run starts.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"sofictl/internal/config"
)

// Requirement defines an external dependency sofictl relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements derives the external binary list from configuration. The MPI
// launcher is optional: single-rank runs never touch it.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "SOFI2D",
			Command:     cfg.Simulator.Binary,
			Description: "finite-difference seismic simulator",
		},
		{
			Name:        "MPI launcher",
			Command:     cfg.Simulator.MPIRun,
			Description: "runs multi-rank simulations",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of required dependencies that are not
// available.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s.Name)
		}
	}
	return missing
}
