package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/domain"
	"github.com/clipvault/clipvault/internal/library"
	"github.com/clipvault/clipvault/internal/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRunner scripts a downloader process. The test writes stdout through
// a pipe so progress can be observed step by step.
type fakeRunner struct {
	stdoutR  *io.PipeReader
	stdoutW  *io.PipeWriter
	stderr   io.Reader
	exitCode int
	waitErr  error
	startErr error
	exited   chan struct{} // closed by the test before Wait may return
}

func newFakeRunner() *fakeRunner {
	r, w := io.Pipe()
	return &fakeRunner{
		stdoutR: r,
		stdoutW: w,
		stderr:  strings.NewReader(""),
		exited:  make(chan struct{}),
	}
}

func (f *fakeRunner) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	return nil
}

func (f *fakeRunner) Stdout() io.Reader { return f.stdoutR }
func (f *fakeRunner) Stderr() io.Reader { return f.stderr }

func (f *fakeRunner) Wait() (int, error) {
	<-f.exited
	return f.exitCode, f.waitErr
}

// exit closes stdout and releases Wait with the given exit code.
func (f *fakeRunner) exit(code int) {
	f.exitCode = code
	f.stdoutW.Close()
	close(f.exited)
}

type fixture struct {
	sup *Supervisor
	reg *registry.Registry
	lib *library.Library
	run *fakeRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := registry.New()
	lib := library.New(t.TempDir())
	run := newFakeRunner()

	sup := NewSupervisor(config.DownloaderConfig{
		Binary: "yt-dlp",
		Format: "best[ext=mp4]/best",
	}, reg, lib, testLogger())
	sup.newRunner = func(name string, args ...string) runner { return run }

	return &fixture{sup: sup, reg: reg, lib: lib, run: run}
}

// waitFor polls the registry until cond holds for the job, or fails.
func waitFor(t *testing.T, reg *registry.Registry, id domain.JobID, cond func(domain.Snapshot) bool) domain.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := reg.Get(id)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if cond(snap) {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	snap, _ := reg.Get(id)
	t.Fatalf("condition not reached, job = %+v", snap)
	return domain.Snapshot{}
}

func (fx *fixture) createOutputFile(t *testing.T, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(fx.lib.Dir(), name), []byte("video"), 0644); err != nil {
		t.Fatalf("write output file: %v", err)
	}
}

func TestSupervisor_ProgressSequenceToCompletion(t *testing.T) {
	fx := newFixture(t)
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)

	waitFor(t, fx.reg, job.JobID, func(s domain.Snapshot) bool {
		return s.Status == domain.JobStatusDownloading
	})

	io.WriteString(fx.run.stdoutW, "[download]  10% of 10MiB\n")
	waitFor(t, fx.reg, job.JobID, func(s domain.Snapshot) bool {
		return s.Status == domain.JobStatusDownloading && s.Progress == 10
	})

	io.WriteString(fx.run.stdoutW, "[download]  55% of 10MiB\n")
	waitFor(t, fx.reg, job.JobID, func(s domain.Snapshot) bool {
		return s.Status == domain.JobStatusDownloading && s.Progress == 55
	})

	fx.createOutputFile(t, "abc123_Test Video.mp4")
	fx.run.exit(0)
	fx.sup.Wait()

	snap, err := fx.reg.Get(job.JobID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if snap.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %q, want completed (error=%q)", snap.Status, snap.Error)
	}
	if snap.Progress != 100 {
		t.Errorf("progress = %v, want 100", snap.Progress)
	}
	if snap.FilePath != "/videos/abc123_Test Video.mp4" {
		t.Errorf("filePath = %q", snap.FilePath)
	}
}

func TestSupervisor_ProgressRegressionIgnored(t *testing.T) {
	fx := newFixture(t)
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)

	io.WriteString(fx.run.stdoutW, "[download]  55% of 10MiB\n")
	waitFor(t, fx.reg, job.JobID, func(s domain.Snapshot) bool { return s.Progress == 55 })

	// A spuriously lower value must not move the job backwards.
	io.WriteString(fx.run.stdoutW, "[download]  42.5% of 10MiB\n")
	io.WriteString(fx.run.stdoutW, "[download]  60% of 10MiB\n")
	snap := waitFor(t, fx.reg, job.JobID, func(s domain.Snapshot) bool { return s.Progress == 60 })

	if snap.Progress < 55 {
		t.Errorf("progress regressed to %v", snap.Progress)
	}

	fx.createOutputFile(t, "abc123_x.mp4")
	fx.run.exit(0)
	fx.sup.Wait()
}

func TestSupervisor_CarriageReturnProgress(t *testing.T) {
	fx := newFixture(t)
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)

	// yt-dlp builds that ignore --newline rewrite the progress line in
	// place with bare carriage returns and emit no \n until the phase
	// ends. Each \r must still deliver a progress update.
	io.WriteString(fx.run.stdoutW, "[download]  10.0% of 10.00MiB at 1.00MiB/s ETA 00:09\r")
	waitFor(t, fx.reg, job.JobID, func(s domain.Snapshot) bool { return s.Progress == 10 })

	io.WriteString(fx.run.stdoutW, "[download]  55.0% of 10.00MiB at 1.00MiB/s ETA 00:04\r")
	waitFor(t, fx.reg, job.JobID, func(s domain.Snapshot) bool { return s.Progress == 55 })

	fx.createOutputFile(t, "abc123_Test Video.mp4")
	fx.run.exit(0)
	fx.sup.Wait()

	snap, _ := fx.reg.Get(job.JobID)
	if snap.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %q, want completed (error=%q)", snap.Status, snap.Error)
	}
}

func TestSupervisor_LongCarriageReturnStream(t *testing.T) {
	fx := newFixture(t)
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)

	// Well past the default 64KB scanner token limit, with no newline
	// anywhere in the stream. The supervisor must keep consuming stdout
	// (a stalled reader would block the process on its next write) and
	// keep recording progress.
	written := make(chan struct{})
	go func() {
		defer close(written)
		for i := 0; i <= 2000; i++ {
			fmt.Fprintf(fx.run.stdoutW, "[download]  %5.1f%% of 10.00MiB at  1.00MiB/s ETA 00:09\r", float64(i)/20)
		}
	}()

	waitFor(t, fx.reg, job.JobID, func(s domain.Snapshot) bool { return s.Progress >= 99 })
	<-written

	fx.createOutputFile(t, "abc123_Test Video.mp4")
	fx.run.exit(0)
	fx.sup.Wait()

	snap, _ := fx.reg.Get(job.JobID)
	if snap.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %q, want completed (error=%q)", snap.Status, snap.Error)
	}
}

func TestSupervisor_Args(t *testing.T) {
	fx := newFixture(t)
	var gotArgs []string
	fx.sup.newRunner = func(name string, args ...string) runner {
		gotArgs = args
		return fx.run
	}
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)
	fx.run.exit(1)
	fx.sup.Wait()

	for _, want := range []string{"--no-playlist", "--newline", "best[ext=mp4]/best"} {
		found := false
		for _, a := range gotArgs {
			if a == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("args %v missing %q", gotArgs, want)
		}
	}
}

func TestSupervisor_UnparsedOutputTolerated(t *testing.T) {
	fx := newFixture(t)
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)

	io.WriteString(fx.run.stdoutW, "[youtube] abc123: Downloading webpage\n")
	io.WriteString(fx.run.stdoutW, "[youtube] abc123: Downloading player\n")

	fx.createOutputFile(t, "abc123_x.mp4")
	fx.run.exit(0)
	fx.sup.Wait()

	snap, _ := fx.reg.Get(job.JobID)
	if snap.Status != domain.JobStatusCompleted {
		t.Errorf("status = %q, silence must not fail the job", snap.Status)
	}
}

func TestSupervisor_NonzeroExit(t *testing.T) {
	fx := newFixture(t)
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)
	fx.run.exit(1)
	fx.sup.Wait()

	snap, _ := fx.reg.Get(job.JobID)
	if snap.Status != domain.JobStatusError {
		t.Fatalf("status = %q, want error", snap.Status)
	}
	if !strings.Contains(snap.Error, "exited with code 1") {
		t.Errorf("error = %q, want exit code embedded", snap.Error)
	}
}

func TestSupervisor_ExitZeroWithoutFile(t *testing.T) {
	fx := newFixture(t)
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)
	fx.run.exit(0) // success reported, but no file was written
	fx.sup.Wait()

	snap, _ := fx.reg.Get(job.JobID)
	if snap.Status != domain.JobStatusError {
		t.Fatalf("status = %q, want error, never completed", snap.Status)
	}
	if !strings.Contains(snap.Error, "not found") {
		t.Errorf("error = %q", snap.Error)
	}
}

func TestSupervisor_SpawnFailure(t *testing.T) {
	fx := newFixture(t)
	fx.run.startErr = errors.New("executable file not found in $PATH")
	job := fx.reg.Create("abc123", "Test Video")

	fx.sup.Start(job)

	snap, _ := fx.reg.Get(job.JobID)
	if snap.Status != domain.JobStatusError {
		t.Fatalf("status = %q, want error", snap.Status)
	}
	if !strings.Contains(snap.Error, "failed to start") {
		t.Errorf("error = %q", snap.Error)
	}
}

func TestSupervisor_Version_ToolMissing(t *testing.T) {
	reg := registry.New()
	lib := library.New(t.TempDir())
	sup := NewSupervisor(config.DownloaderConfig{
		Binary: "definitely-not-a-real-binary-name",
	}, reg, lib, testLogger())

	_, err := sup.Version(context.Background())
	if !errors.Is(err, domain.ErrToolMissing) {
		t.Errorf("err = %v, want ErrToolMissing", err)
	}
}
