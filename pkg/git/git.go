// Package git provides Git repository operations for lint-staged.
package git

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"

	"github.com/blairham/go-lint-staged/pkg/logging"
)

// Repository represents a git repository
type Repository struct {
	repo   *git.Repository
	logger zerolog.Logger
	Root   string
	// hooksDir and stashDir are resolved by git so linked worktrees and
	// core.hooksPath are honoured
	hooksDir string
	stashDir string
}

// NewRepository creates a new Repository instance
func NewRepository(path string) (*Repository, error) {
	root, err := FindGitRoot(path)
	if err != nil {
		return nil, err
	}

	// Linked worktrees keep HEAD and the index in their own git dir but share
	// refs and objects through commondir
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	return &Repository{
		Root:     root,
		repo:     repo,
		logger:   logging.GetLogger("git"),
		hooksDir: gitPath(root, "hooks"),
		stashDir: gitPath(root, "lint-staged"),
	}, nil
}

// gitPath resolves a path inside the git dir with git rev-parse --git-path.
// Relative results are joined to root. Without git it falls back to root/.git.
func gitPath(root, name string) string {
	cmd := exec.Command("git", "rev-parse", "--git-path", name)
	cmd.Dir = root
	output, err := cmd.Output()
	if err != nil {
		return filepath.Join(root, ".git", name)
	}

	resolved := strings.TrimSpace(string(output))
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(root, resolved)
	}
	return filepath.Clean(resolved)
}

// FindGitRoot finds the root of the git repository
func FindGitRoot(path string) (string, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		gitDir := filepath.Join(path, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			if info.IsDir() {
				return path, nil
			}
			// Worktrees and submodules use a .git file pointing at the real directory
			// #nosec G304 -- reading git metadata
			if content, err := os.ReadFile(gitDir); err == nil {
				if strings.HasPrefix(strings.TrimSpace(string(content)), "gitdir: ") {
					return path, nil
				}
			}
		}

		parent := filepath.Dir(path)
		if parent == path {
			return "", errors.New("not in a git repository")
		}
		path = parent
	}
}

// IsInRepository checks if we're in a git repository
func IsInRepository() bool {
	_, err := FindGitRoot("")
	return err == nil
}

func (r *Repository) status() (git.Status, error) {
	if r.repo == nil {
		return nil, errors.New("repository is not initialized")
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return status, nil
}

// GetStagedFiles returns the staged files that still exist (added, copied,
// modified or renamed), sorted the way git diff lists them
func (r *Repository) GetStagedFiles() ([]string, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}

	var files []string
	for file, fileStatus := range status {
		switch fileStatus.Staging {
		case git.Added, git.Modified, git.Copied, git.Renamed:
			files = append(files, file)
		}
	}
	slices.Sort(files)

	r.logger.Debug().Int("count", len(files)).Msg("Collected staged files")
	return files, nil
}

// GetChangedFiles returns files changed between two git references
func (r *Repository) GetChangedFiles(fromRef, toRef string) ([]string, error) {
	fromHash, err := r.resolveReference(fromRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reference %s: %w", fromRef, err)
	}

	toHash, err := r.resolveReference(toRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reference %s: %w", toRef, err)
	}

	fromCommit, err := r.repo.CommitObject(fromHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", fromRef, err)
	}

	toCommit, err := r.repo.CommitObject(toHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", toRef, err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for %s: %w", fromRef, err)
	}

	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for %s: %w", toRef, err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to get diff between %s and %s: %w", fromRef, toRef, err)
	}

	var files []string
	for _, change := range changes {
		// Deleted files have no destination name
		if change.To.Name != "" {
			files = append(files, change.To.Name)
		}
	}
	slices.Sort(files)

	return files, nil
}

// resolveReference resolves a git reference (branch, tag, commit hash) to a hash
func (r *Repository) resolveReference(ref string) (plumbing.Hash, error) {
	if resolvedRef, err := r.repo.ResolveRevision(plumbing.Revision(ref)); err == nil {
		return *resolvedRef, nil
	}

	if hash := plumbing.NewHash(ref); !hash.IsZero() {
		return hash, nil
	}

	return plumbing.ZeroHash, fmt.Errorf("unable to resolve reference: %s", ref)
}

// HasUnmergedFiles checks if there are unmerged files in the repository
func (r *Repository) HasUnmergedFiles() bool {
	status, err := r.status()
	if err != nil {
		return false
	}

	for _, fileStatus := range status {
		if fileStatus.Staging == git.UpdatedButUnmerged ||
			fileStatus.Worktree == git.UpdatedButUnmerged {
			return true
		}
	}
	return false
}

// GetModifiedFiles returns which of files differ between the index and the working tree
func (r *Repository) GetModifiedFiles(files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	status, err := r.status()
	if err != nil {
		return nil, err
	}

	var modified []string
	for _, file := range files {
		fileStatus, ok := status[filepath.ToSlash(file)]
		if ok && fileStatus.Worktree != git.Unmodified {
			modified = append(modified, file)
		}
	}
	return modified, nil
}

// AddFiles stages the given files
func (r *Repository) AddFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, files...)
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Root
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to stage files: %w: %s", err, strings.TrimSpace(string(output)))
	}

	r.logger.Debug().Strs("files", files).Msg("Re-staged modified files")
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD
func (r *Repository) HasStagedChanges() (bool, error) {
	cmd := exec.Command("git", "diff", "--cached", "--quiet", "--exit-code")
	cmd.Dir = r.Root
	err := cmd.Run()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) && exitError.ExitCode() == 1 {
			return true, nil
		}
		return false, fmt.Errorf("failed to check for staged changes: %w", err)
	}
	return false, nil
}

// HooksDir returns the directory git reads hooks from
func (r *Repository) HooksDir() string {
	if r.hooksDir == "" {
		return filepath.Join(r.Root, ".git", "hooks")
	}
	return r.hooksDir
}

// InstallHook installs a git hook
func (r *Repository) InstallHook(hookName, script string) error {
	hooksDir := r.HooksDir()
	if err := os.MkdirAll(hooksDir, 0o750); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hooksDir, hookName)
	if err := os.WriteFile(hookPath, []byte(script), 0o600); err != nil {
		return fmt.Errorf("failed to write hook file: %w", err)
	}

	// #nosec G302 - Hook scripts need to be executable
	if err := os.Chmod(hookPath, 0o700); err != nil {
		return fmt.Errorf("failed to make hook executable: %w", err)
	}

	return nil
}

// UninstallHook removes a git hook
func (r *Repository) UninstallHook(hookName string) error {
	hookPath := filepath.Join(r.HooksDir(), hookName)
	if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove hook: %w", err)
	}
	return nil
}

// HasHook checks if a hook is installed
func (r *Repository) HasHook(hookName string) bool {
	_, err := os.Stat(filepath.Join(r.HooksDir(), hookName))
	return err == nil
}

// ReadHook returns the contents of an installed hook
func (r *Repository) ReadHook(hookName string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.HooksDir(), hookName))
	if err != nil {
		return "", fmt.Errorf("failed to read hook: %w", err)
	}
	return string(data), nil
}
