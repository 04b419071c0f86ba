package task

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/blairham/go-lint-staged/pkg/logging"
)

// Runner executes a plan, one task per matched rule
type Runner struct {
	ctx      *Context
	executor *Executor
	logger   zerolog.Logger
}

// NewRunner creates a runner for the given run context
func NewRunner(ctx *Context) *Runner {
	if ctx == nil {
		ctx = &Context{}
	}
	return &Runner{
		ctx:      ctx,
		executor: NewExecutor(ctx),
		logger:   logging.GetLogger("runner"),
	}
}

// Run executes every task of the plan and returns their results in plan
// order. Tasks that never started because of fail-fast are marked skipped.
// The returned error is only set when the parent context was canceled.
func (r *Runner) Run(ctx context.Context, plan Plan) ([]Result, error) {
	start := time.Now()
	defer logging.LogDuration(r.logger, start, "run plan")

	var results []Result
	if r.ctx.Jobs <= 1 || len(plan) <= 1 {
		results = r.runSequential(ctx, plan)
	} else {
		results = r.runConcurrent(ctx, plan)
	}

	return results, ctx.Err()
}

func (r *Runner) runSequential(ctx context.Context, plan Plan) []Result {
	results := make([]Result, len(plan))
	stopped := false

	for i, t := range plan {
		if stopped || ctx.Err() != nil {
			results[i] = skipped(t)
			continue
		}

		results[i] = r.runTask(ctx, t)
		if r.ctx.FailFast && !results[i].Success {
			stopped = true
		}
	}

	return results
}

func (r *Runner) runConcurrent(ctx context.Context, plan Plan) []Result {
	results := make([]Result, len(plan))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := new(errgroup.Group)
	g.SetLimit(r.ctx.Jobs)

	for i, t := range plan {
		g.Go(func() error {
			if runCtx.Err() != nil {
				results[i] = skipped(t)
				return nil
			}

			results[i] = r.runTask(runCtx, t)
			if r.ctx.FailFast && !results[i].Success {
				cancel()
			}
			return nil
		})
	}

	// Workers never return errors; failures live in the results
	_ = g.Wait()

	return results
}

// runTask runs the commands of one task in order, stopping at the first failure
func (r *Runner) runTask(ctx context.Context, t Task) Result {
	start := time.Now()
	result := Result{Task: t, Success: true}

	r.logger.Info().
		Str("pattern", t.Pattern).
		Int("files", len(t.Files)).
		Int("commands", len(t.Commands)).
		Msg("Running task")

	for _, command := range t.Commands {
		cmdResult := r.executor.Run(ctx, command)
		result.Commands = append(result.Commands, cmdResult)
		if !cmdResult.Success() {
			result.Success = false
			r.logger.Warn().
				Str("pattern", t.Pattern).
				Str("command", command).
				Int("exit_code", cmdResult.ExitCode).
				Msg("Command failed")
			break
		}
	}

	result.Duration = time.Since(start)
	return result
}

func skipped(t Task) Result {
	return Result{Task: t, Skipped: true}
}
