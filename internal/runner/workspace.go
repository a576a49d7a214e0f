package runner

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the on-disk layout of one simulation run. Paths inside the
// parameter file are relative to Root so the simulator can be started there.
type Workspace struct {
	Root      string
	ModelDir  string
	GeomDir   string
	OutputDir string
	LogDir    string
}

// Workspace subdirectory names, matching the conventions the simulator's
// reference parameter files use.
const (
	modelDirName  = "model"
	geomDirName   = "Geom"
	outputDirName = "OUTPUT"
	logDirName    = "log"

	parameterFileName = "sofi2d.json"
	modelFileBase     = "model"
	sourceFileName    = "source.dat"
	receiverFileName  = "receiver.dat"
	simulatorLogName  = "sofi2d.log"
)

func newWorkspace(workDir, runID string) (*Workspace, error) {
	root := filepath.Join(workDir, "runs", runID)
	ws := &Workspace{
		Root:      root,
		ModelDir:  filepath.Join(root, modelDirName),
		GeomDir:   filepath.Join(root, geomDirName),
		OutputDir: filepath.Join(root, outputDirName),
		LogDir:    filepath.Join(root, logDirName),
	}
	for _, dir := range []string{ws.ModelDir, ws.GeomDir, ws.OutputDir, ws.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create run directory %q: %w", dir, err)
		}
	}
	return ws, nil
}

// ParameterFile is the absolute path of the rendered parameter file.
func (w *Workspace) ParameterFile() string {
	return filepath.Join(w.Root, parameterFileName)
}

// SimulatorLog is the absolute path receiving the simulator's output.
func (w *Workspace) SimulatorLog() string {
	return filepath.Join(w.LogDir, simulatorLogName)
}
