package compose

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RunResult is the full transcript of one subprocess run. Operators read
// stdout/stderr verbatim; there is no automatic retry.
type RunResult struct {
	OK         bool      `json:"ok"`
	Command    string    `json:"command"`
	ReturnCode int       `json:"return_code"`
	Stdout     string    `json:"stdout"`
	Stderr     string    `json:"stderr"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMS int64     `json:"duration_ms"`
}

// Transcript renders a result as the plain-text block returned to the
// operator.
func (r RunResult) Transcript() string {
	var b strings.Builder
	fmt.Fprintf(&b, "$ %s\n", r.Command)
	fmt.Fprintf(&b, "exit=%d duration=%dms\n", r.ReturnCode, r.DurationMS)
	if r.Stdout != "" {
		b.WriteString("--- stdout ---\n")
		b.WriteString(r.Stdout)
		if !strings.HasSuffix(r.Stdout, "\n") {
			b.WriteByte('\n')
		}
	}
	if r.Stderr != "" {
		b.WriteString("--- stderr ---\n")
		b.WriteString(r.Stderr)
		if !strings.HasSuffix(r.Stderr, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Runner invokes docker compose against one compose file. Mutations of the
// stack happen only here.
type Runner struct {
	composePath string
	projectDir  string
	timeout     time.Duration
	log         *zap.Logger
}

func NewRunner(composePath, projectDir string, timeout time.Duration, logger *zap.Logger) *Runner {
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &Runner{composePath: composePath, projectDir: projectDir, timeout: timeout, log: logger}
}

// Up starts the stack detached.
func (r *Runner) Up(ctx context.Context) RunResult {
	return r.run(ctx, "compose", "-f", r.composePath, "up", "-d")
}

// Down stops and removes the stack.
func (r *Runner) Down(ctx context.Context) RunResult {
	return r.run(ctx, "compose", "-f", r.composePath, "down")
}

// Recreate forces fresh containers, picking up env and image changes.
func (r *Runner) Recreate(ctx context.Context) RunResult {
	return r.run(ctx, "compose", "-f", r.composePath, "up", "-d", "--force-recreate")
}

// RemoveImage drops a cached image so the next up pulls it again.
func (r *Runner) RemoveImage(ctx context.Context, ref string) RunResult {
	return r.run(ctx, "image", "rm", ref)
}

func (r *Runner) run(ctx context.Context, args ...string) RunResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Dir = r.projectDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	ended := time.Now()

	res := RunResult{
		Command:    "docker " + strings.Join(args, " "),
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		StartedAt:  started,
		EndedAt:    ended,
		DurationMS: ended.Sub(started).Milliseconds(),
	}

	switch e := err.(type) {
	case nil:
		res.OK = true
	case *exec.ExitError:
		res.ReturnCode = e.ExitCode()
	default:
		res.ReturnCode = -1
		if res.Stderr == "" {
			res.Stderr = err.Error()
		}
	}

	r.log.Info("compose command finished",
		zap.String("command", res.Command),
		zap.Int("return_code", res.ReturnCode),
		zap.Int64("duration_ms", res.DurationMS))
	return res
}
