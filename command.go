package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandError reports a failed external invocation with everything needed
// to reproduce it by hand: the verbatim command line, the captured output
// and the exit code.
type CommandError struct {
	Command  []string
	Stdout   string
	Stderr   string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed: %v\nexit code %v\nstdout:\n%v\nstderr:\n%v",
		strings.Join(e.Command, " "), e.ExitCode, e.Stdout, e.Stderr)
}

// RunCommand executes a program synchronously and returns the captured
// stdout and stderr. The call blocks until the program exits; a hanging tool
// stalls the whole run. A non-zero exit becomes a *CommandError and aborts
// the batch, there is no retry at this layer.
func RunCommand(executable string, args []string, cwd string, env map[string]string) (string, string, error) {
	cmd := exec.Command(executable, args...)
	cmd.Dir = cwd
	if len(env) > 0 {
		cmd.Env = os.Environ()
		for key, value := range env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%v=%v", key, value))
		}
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", "", &CommandError{
				Command:  append([]string{executable}, args...),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: exitErr.ExitCode(),
			}
		}
		return "", "", fmt.Errorf("failed to execute %v: %w", executable, err)
	}
	return stdout.String(), stderr.String(), nil
}
