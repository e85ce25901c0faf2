package downloader

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// runner abstracts a spawned downloader process so the supervisor can be
// tested against a scripted fake instead of a real yt-dlp binary.
type runner interface {
	// Start launches the process. A Start error means the executable
	// could not be spawned at all.
	Start() error
	// Stdout returns the process standard output stream. Valid after Start.
	Stdout() io.Reader
	// Stderr returns the process standard error stream. Valid after Start.
	Stderr() io.Reader
	// Wait blocks until exit and returns the exit code. A non-nil error
	// with code -1 means the process state could not be determined.
	Wait() (int, error)
}

// runnerFactory builds a runner for the given command line.
type runnerFactory func(name string, args ...string) runner

type execRunner struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

func newExecRunner(name string, args ...string) runner {
	return &execRunner{cmd: exec.Command(name, args...)}
}

func (r *execRunner) Start() error {
	stdout, err := r.cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := r.cmd.StderrPipe()
	if err != nil {
		return err
	}
	r.stdout = stdout
	r.stderr = stderr
	return r.cmd.Start()
}

func (r *execRunner) Stdout() io.Reader { return r.stdout }
func (r *execRunner) Stderr() io.Reader { return r.stderr }

func (r *execRunner) Wait() (int, error) {
	err := r.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// lookVersion runs "name --version" and returns its trimmed output. Used
// by the tool presence probe; kept here so the exec dependency stays in
// one file.
func lookVersion(ctx context.Context, name string) (string, error) {
	out, err := exec.CommandContext(ctx, name, "--version").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
