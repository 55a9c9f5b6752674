// Package shell provides a shell-based executor for running build commands.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/zerr"

	"github.com/depstrap/depstrap/internal/core/domain"
	"github.com/depstrap/depstrap/internal/core/ports"
)

// Executor implements ports.Executor using os/exec and a PTY. Running the
// build tools under a PTY keeps their progress output intact.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new shell Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command and waits for it to exit.
func (e *Executor) Execute(
	ctx context.Context,
	command *domain.Command,
	env []string,
	stdout, stderr io.Writer,
) error {
	if len(command.Argv) == 0 {
		return nil
	}

	// The PTY merges stdout and stderr, so everything flows through the
	// stdout writer; stderr only matters for executors without a PTY.
	stdoutLog := &logWriter{logger: e.logger}
	finalStdout := io.MultiWriter(stdoutLog, stdout)

	name := command.Argv[0]
	args := command.Argv[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env)

	// Resolve the executable against the merged PATH, not the process PATH.
	executable := name
	if !filepath.IsAbs(name) && strings.Contains(name, string(os.PathSeparator)) {
		// Relative invocations like ./configure resolve against the working directory.
		executable = filepath.Join(command.Dir, name)
	} else if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // plan provided command

	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}

	if command.Dir != "" {
		cmd.Dir = command.Dir
	}

	cmd.Env = cmdEnv

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		defer func() { _ = stdoutLog.Close() }()

		// The PTY merges stdout and stderr into one stream.
		_, _ = io.Copy(finalStdout, ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone

	if waitErr != nil {
		var exitCode int
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
		return zerr.With(zerr.Wrap(waitErr, "command failed"), "exit_code", exitCode)
	}

	return nil
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		line := w.buf[:i]
		w.logLine(line)

		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := string(line)
	// PTYs may introduce \r. Remove it.
	msg = strings.TrimSuffix(msg, "\r")

	if w.logger != nil {
		w.logger.Info(msg)
	}
}

// allowListedEnvVars are the system environment variables that subprocesses
// may inherit. Everything else comes in through the explicit env argument,
// so a run never depends on ambient process state.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// resolveEnvironment merges the allow-listed system environment with the
// explicit pipeline environment. Pipeline entries win; a pipeline PATH is
// prepended to the system PATH rather than replacing it.
func resolveEnvironment(sysEnv, pipelineEnv []string) []string {
	envMap := filterSystemEnv(sysEnv)

	for _, entry := range pipelineEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
				continue
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

// lookPath searches for an executable in the directories named by the PATH
// entry of the given environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
