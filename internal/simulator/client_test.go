package simulator

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"sofictl/internal/stages"
)

func fakeCommand(t *testing.T, script string, captured *[][]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append(*captured, append([]string{name}, args...))
		}
		return exec.CommandContext(ctx, "/bin/sh", "-c", script)
	}
	t.Cleanup(func() { commandContext = original })
}

func TestNewCLIOptions(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/sofi2d/bin/sofi2d"), WithMPIRun("mpiexec"))
	if cli.binary != "/opt/sofi2d/bin/sofi2d" {
		t.Fatalf("binary override not applied: %q", cli.binary)
	}
	if cli.mpirun != "mpiexec" {
		t.Fatalf("mpirun override not applied: %q", cli.mpirun)
	}
}

func TestRunRequiresParameterFile(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Run(context.Background(), Request{}); err == nil {
		t.Fatal("expected error when parameter file is empty")
	}
}

func TestRunSingleRankInvokesBinaryDirectly(t *testing.T) {
	var captured [][]string
	fakeCommand(t, "echo simulation done", &captured)

	cli := NewCLI()
	res, err := cli.Run(context.Background(), Request{ParameterFile: "sofi2d.json", Ranks: 1})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", res.ExitCode)
	}
	if len(captured) != 1 {
		t.Fatalf("expected one invocation, got %d", len(captured))
	}
	want := []string{"sofi2d", "sofi2d.json"}
	if strings.Join(captured[0], " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected command: %v", captured[0])
	}
}

func TestRunMultiRankUsesMPILauncher(t *testing.T) {
	var captured [][]string
	fakeCommand(t, "exit 0", &captured)

	cli := NewCLI()
	if _, err := cli.Run(context.Background(), Request{ParameterFile: "sofi2d.json", Ranks: 4}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := "mpirun -np 4 sofi2d sofi2d.json"
	if got := strings.Join(captured[0], " "); got != want {
		t.Fatalf("unexpected command: %q want %q", got, want)
	}
}

func TestRunNonZeroExitIsExternalToolError(t *testing.T) {
	fakeCommand(t, "echo boom >&2; exit 3", nil)

	cli := NewCLI()
	res, err := cli.Run(context.Background(), Request{ParameterFile: "sofi2d.json"})
	if !errors.Is(err, stages.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
	if !strings.Contains(err.Error(), "status 3") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error should carry status and output tail: %v", err)
	}
}

func TestRunCapturesOutputToLogFile(t *testing.T) {
	fakeCommand(t, "echo timestep 100; echo warn >&2", nil)

	logPath := filepath.Join(t.TempDir(), "sofi2d.log")
	cli := NewCLI()
	res, err := cli.Run(context.Background(), Request{ParameterFile: "sofi2d.json", LogPath: logPath})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.LogPath != logPath {
		t.Fatalf("unexpected log path %q", res.LogPath)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "timestep 100") || !strings.Contains(string(data), "warn") {
		t.Fatalf("log missing output: %q", string(data))
	}
}

func TestTailWriterKeepsTail(t *testing.T) {
	tw := newTailWriter(8)
	if _, err := tw.Write([]byte("0123456789abcdef")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if tw.String() != "89abcdef" {
		t.Fatalf("unexpected tail %q", tw.String())
	}
}
