package git

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoUnstagedChanges is returned when there are no unstaged changes to stash.
var ErrNoUnstagedChanges = errors.New("no unstaged changes to stash")

// StashInfo holds information about a stashed set of changes
type StashInfo struct {
	PatchFile string
	Files     []string
}

// HasUnstagedChanges checks if there are any unstaged changes to tracked files
func (r *Repository) HasUnstagedChanges() (bool, error) {
	cmd := exec.Command("git", "diff", "--quiet", "--exit-code")
	cmd.Dir = r.Root
	err := cmd.Run()
	if err != nil {
		// Exit code 1 means there are differences
		var exitError *exec.ExitError
		if errors.As(err, &exitError) && exitError.ExitCode() == 1 {
			return true, nil
		}
		return false, fmt.Errorf("failed to check for unstaged changes: %w", err)
	}

	return false, nil
}

// GetUnstagedChangesFiles returns the list of tracked files with unstaged changes
func (r *Repository) GetUnstagedChangesFiles() ([]string, error) {
	cmd := exec.Command("git", "diff", "--name-only")
	cmd.Dir = r.Root
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get unstaged files: %w", err)
	}

	var files []string
	for line := range strings.SplitSeq(strings.TrimSpace(string(output)), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}

	return files, nil
}

// StashUnstagedChanges saves a patch of unstaged changes and resets those files
// to their staged content, so commands only see what is about to be committed
func (r *Repository) StashUnstagedChanges(cacheDir string) (*StashInfo, error) {
	hasChanges, err := r.HasUnstagedChanges()
	if err != nil {
		return nil, err
	}

	if !hasChanges {
		return nil, ErrNoUnstagedChanges
	}

	files, err := r.GetUnstagedChangesFiles()
	if err != nil {
		return nil, err
	}

	patchFile, err := r.createPatchFile(cacheDir)
	if err != nil {
		return nil, err
	}

	// Patch between index and working tree
	cmd := exec.Command("git", "diff", "--binary")
	cmd.Dir = r.Root
	patchContent, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to create patch: %w", err)
	}

	if err := os.WriteFile(patchFile, patchContent, 0o600); err != nil {
		r.removePatch(patchFile)
		return nil, fmt.Errorf("failed to write patch file: %w", err)
	}

	stash := &StashInfo{PatchFile: patchFile, Files: files}
	for _, file := range files {
		if err := r.checkoutFileFromIndex(file); err != nil {
			if restoreErr := r.RestoreFromStash(stash); restoreErr != nil {
				r.logger.Warn().Err(restoreErr).Msg("Failed to restore from stash")
			}
			return nil, fmt.Errorf("failed to reset %s to staged content: %w", file, err)
		}
	}

	r.logger.Info().Str("patch", patchFile).Int("files", len(files)).Msg("Stashed unstaged changes")
	return stash, nil
}

// checkoutFileFromIndex replaces the working tree copy of file with its staged content
func (r *Repository) checkoutFileFromIndex(file string) error {
	cmd := exec.Command("git", "checkout", "--", file)
	cmd.Dir = r.Root
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// CanApplyStash checks if a stash can be applied without conflicts
func (r *Repository) CanApplyStash(stash *StashInfo) (bool, error) {
	if stash == nil {
		return true, nil
	}

	cmd := exec.Command("git", "apply", "--check", stash.PatchFile)
	cmd.Dir = r.Root
	if err := cmd.Run(); err != nil {
		return false, nil //nolint:nilerr // a failed check means the patch conflicts
	}

	return true, nil
}

// ErrStashConflict is returned by RestoreFromStash when the hidden changes
// cannot be merged back. The patch file is kept.
var ErrStashConflict = errors.New("unstaged changes conflict with the working tree")

// RestoreFromStash applies the stashed changes back to the working directory
// and removes the patch file. A patch that no longer applies cleanly, usually
// because a command rewrote lines next to the hidden changes, is merged with
// git apply --3way. The index is left exactly as it was either way.
func (r *Repository) RestoreFromStash(stash *StashInfo) error {
	if stash == nil {
		return nil
	}

	canApply, err := r.CanApplyStash(stash)
	if err != nil {
		return err
	}

	if canApply {
		if output, err := r.git("apply", "--whitespace=nowarn", stash.PatchFile); err != nil {
			return fmt.Errorf("failed to restore stashed changes: %w: %s", err, output)
		}
	} else if err := r.applyThreeWay(stash); err != nil {
		return err
	}

	r.logger.Info().Str("patch", stash.PatchFile).Msg("Restored unstaged changes")
	r.removePatch(stash.PatchFile)

	return nil
}

// applyThreeWay merges the patch with --3way, which also writes the index,
// so the index is saved as a tree first and read back afterwards
func (r *Repository) applyThreeWay(stash *StashInfo) error {
	tree, err := r.git("write-tree")
	if err != nil {
		return fmt.Errorf("failed to save index: %w: %s", err, tree)
	}

	output, applyErr := r.git("apply", "--3way", "--whitespace=nowarn", stash.PatchFile)

	if out, err := r.git("read-tree", tree); err != nil {
		return fmt.Errorf("failed to restore index: %w: %s", err, out)
	}

	if applyErr != nil {
		// Drop conflict markers so the tree matches the index again
		args := append([]string{"checkout-index", "-f", "--"}, stash.Files...)
		if out, err := r.git(args...); err != nil {
			r.logger.Warn().Err(err).Str("output", out).Msg("Failed to reset conflicted files")
		}
		r.logger.Debug().Str("output", output).Msg("Three-way apply failed")
		return fmt.Errorf("%w: changes were kept in %s", ErrStashConflict, stash.PatchFile)
	}

	r.logger.Debug().Str("patch", stash.PatchFile).Msg("Restored unstaged changes with a three-way merge")
	return nil
}

// git runs a git command in the repository root and returns its trimmed combined output
func (r *Repository) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Root
	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

// ResetToStaged resets working directory to match staged content exactly
func (r *Repository) ResetToStaged() error {
	cmd := exec.Command("git", "checkout-index", "-a", "-f")
	cmd.Dir = r.Root
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to reset to staged content: %w", err)
	}

	return nil
}

// CleanupStash removes the stash patch file
func (r *Repository) CleanupStash(stash *StashInfo) {
	if stash != nil {
		r.removePatch(stash.PatchFile)
	}
}

func (r *Repository) removePatch(patchFile string) {
	if err := os.Remove(patchFile); err != nil && !os.IsNotExist(err) {
		r.logger.Warn().Err(err).Str("patch", patchFile).Msg("Failed to remove patch file")
	}
}

// createPatchFile generates a unique patch file name in the cache directory
func (r *Repository) createPatchFile(cacheDir string) (string, error) {
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	filename := fmt.Sprintf("patch%d-%x", time.Now().Unix(), randomBytes)
	return filepath.Join(cacheDir, filename), nil
}

// StashDir returns the directory patch files are written to. Each linked
// worktree gets its own.
func (r *Repository) StashDir() string {
	if r.stashDir == "" {
		return filepath.Join(r.Root, ".git", "lint-staged")
	}
	return r.stashDir
}
