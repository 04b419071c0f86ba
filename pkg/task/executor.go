package task

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blairham/go-lint-staged/pkg/logging"
)

const waitDelay = 2 * time.Second

// Executor runs single shell commands for a task
type Executor struct {
	ctx    *Context
	logger zerolog.Logger
}

// NewExecutor creates a new command executor
func NewExecutor(ctx *Context) *Executor {
	if ctx == nil {
		ctx = &Context{}
	}
	return &Executor{ctx: ctx, logger: logging.GetLogger("executor")}
}

// Run executes command through the shell and captures its combined output
func (e *Executor) Run(ctx context.Context, command string) CommandResult {
	start := time.Now()
	result := CommandResult{Command: command}

	if strings.TrimSpace(command) == "" {
		result.Err = errors.New("empty command")
		result.ExitCode = 1
		return result
	}

	runCtx := ctx
	if e.ctx.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.ctx.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, e.shell(), "-c", command)
	cmd.Dir = e.ctx.RepoRoot
	cmd.Env = e.environment()
	// Children of the shell may keep the output pipe open after it is killed
	cmd.WaitDelay = waitDelay

	e.logger.Debug().Str("command", command).Str("dir", cmd.Dir).Msg("Running command")

	output, err := cmd.CombinedOutput()
	result.Output = string(output)
	result.Duration = time.Since(start)

	if err != nil {
		e.processError(runCtx, &result, err)
	}

	e.logger.Debug().
		Str("command", command).
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Msg("Command finished")

	return result
}

// processError fills exit code and error details from a failed execution
func (e *Executor) processError(ctx context.Context, result *CommandResult, execErr error) {
	var exitError *exec.ExitError
	if errors.As(execErr, &exitError) && exitError.ExitCode() > 0 {
		result.ExitCode = exitError.ExitCode()
	} else {
		result.ExitCode = 1
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.Timeout = true
		result.Err = fmt.Errorf("command timed out after %v", e.ctx.Timeout)
	case errors.Is(ctx.Err(), context.Canceled):
		result.Err = fmt.Errorf("command canceled: %w", context.Canceled)
	case errors.Is(execErr, exec.ErrNotFound) || os.IsNotExist(execErr):
		result.Err = fmt.Errorf("shell not found: %w", execErr)
	case exitError != nil:
		result.Err = fmt.Errorf("command failed with exit code %d", result.ExitCode)
	default:
		result.Err = fmt.Errorf("execution error: %w", execErr)
	}
}

func (e *Executor) shell() string {
	if e.ctx.Shell != "" {
		return e.ctx.Shell
	}
	return DefaultShell
}

// environment returns the process environment plus configured overrides and the lint-staged marker
func (e *Executor) environment() []string {
	env := os.Environ()
	for key, value := range e.ctx.Environment {
		env = append(env, key+"="+value)
	}
	return append(env, EnvMarker+"=1")
}
