package commands

// Common constants used across command implementations
const (
	// OptionsUsage is the usage suffix for commands without positional arguments
	OptionsUsage = "[OPTIONS]"

	// installUsage documents the run arguments install forwards to the hook
	installUsage = "[OPTIONS] [-- RUN_ARGS...]"

	hookTypePreCommit = "pre-commit"

	// shellSafe lists the characters hook arguments may hold unquoted
	shellSafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_=+./:@,%"

	// hookMarker identifies hook scripts written by install
	hookMarker = "# Generated by go-lint-staged"

	// emptyPlanMessage is printed when nothing matched
	emptyPlanMessage = "No staged files match any configured pattern."
)
