package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"sofictl/internal/stages"
)

var commandContext = exec.CommandContext

// Request describes one simulator invocation.
type Request struct {
	// ParameterFile is the rendered SOFI2D parameter file, relative to Dir.
	ParameterFile string
	// Dir is the run workspace the simulator starts in. The parameter file
	// references model and geometry paths relative to it.
	Dir string
	// Ranks is the number of MPI ranks. One rank runs the binary directly.
	Ranks int
	// LogPath receives the simulator's combined stdout and stderr.
	LogPath string
}

// Result captures the outcome of a completed simulator process.
type Result struct {
	ExitCode int
	Duration time.Duration
	LogPath  string
}

// Runner defines the simulator invocation boundary.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// Option configures the CLI runner.
type Option func(*CLI)

// WithBinary overrides the default simulator binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithMPIRun overrides the default MPI launcher name.
func WithMPIRun(mpirun string) Option {
	return func(c *CLI) {
		if mpirun != "" {
			c.mpirun = mpirun
		}
	}
}

// CLI wraps the external SOFI2D executable.
type CLI struct {
	binary string
	mpirun string
}

// NewCLI constructs a runner using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "sofi2d", mpirun: "mpirun"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Run launches the simulator with the given parameter file and blocks until
// the process exits. The child is an owned handle: stdout and stderr stream
// to the log file, Wait is always reached, and a non-zero exit status is
// returned as an external-tool error carrying the status and the tail of the
// combined output.
func (c *CLI) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.ParameterFile) == "" {
		return Result{}, errors.New("parameter file required")
	}

	name := c.binary
	var args []string
	if req.Ranks > 1 {
		name = c.mpirun
		args = []string{"-np", strconv.Itoa(req.Ranks), c.binary, req.ParameterFile}
	} else {
		args = []string{req.ParameterFile}
	}

	cmd := commandContext(ctx, name, args...) //nolint:gosec
	cmd.Dir = req.Dir

	tail := newTailWriter(4096)
	var sink io.Writer = tail
	var logFile *os.File
	if req.LogPath != "" {
		var err error
		logFile, err = os.Create(req.LogPath)
		if err != nil {
			return Result{}, stages.Wrap(stages.ErrExternalTool, stages.StageSimulate, "log", req.LogPath, err)
		}
		defer logFile.Close()
		sink = io.MultiWriter(logFile, tail)
	}
	cmd.Stdout = sink
	cmd.Stderr = sink

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, stages.Wrap(stages.ErrExternalTool, stages.StageSimulate, "start",
			fmt.Sprintf("launch %s", name), err)
	}

	err := cmd.Wait()
	result := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(started),
		LogPath:  req.LogPath,
	}
	if err != nil {
		detail := fmt.Sprintf("%s exited with status %d", name, result.ExitCode)
		if out := tail.String(); out != "" {
			detail += ": " + out
		}
		return result, stages.Wrap(stages.ErrExternalTool, stages.StageSimulate, "run", detail, err)
	}
	return result, nil
}

var _ Runner = (*CLI)(nil)

// tailWriter keeps the last max bytes written, for error messages.
type tailWriter struct {
	max int
	buf []byte
}

func newTailWriter(max int) *tailWriter {
	return &tailWriter{max: max}
}

func (t *tailWriter) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailWriter) String() string {
	return strings.TrimSpace(string(t.buf))
}
