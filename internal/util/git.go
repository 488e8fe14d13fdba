package util

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"namestat/internal/model/naming"
)

// GitInfo contains git repository information
type GitInfo struct {
	HeadCommitSHA string
	HeadCommitMsg string
	IsGitRepo     bool
}

// GetGitInfo retrieves HEAD information for a repository path. A directory that is not
// a git repository is not an error.
func GetGitInfo(ctx context.Context, repoPath string) (*GitInfo, error) {
	info := &GitInfo{}

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--git-dir")
	cmd.Dir = repoPath
	if err := cmd.Run(); err != nil {
		return info, nil
	}
	info.IsGitRepo = true

	cmd = exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD commit SHA: %w", err)
	}
	info.HeadCommitSHA = strings.TrimSpace(string(output))

	// Get HEAD commit message (first line)
	cmd = exec.CommandContext(ctx, "git", "log", "-1", "--pretty=%s")
	cmd.Dir = repoPath
	output, err = cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD commit message: %w", err)
	}
	info.HeadCommitMsg = strings.TrimSpace(string(output))

	return info, nil
}

// ValidateCloneTarget checks a clone request before any work starts
func ValidateCloneTarget(gitURL, targetPath string) error {
	if !strings.HasSuffix(gitURL, ".git") {
		return fmt.Errorf("%w: git url %q must end with .git", naming.ErrConfiguration, gitURL)
	}
	if targetPath == "" {
		return fmt.Errorf("%w: clone target path is required", naming.ErrConfiguration)
	}
	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("%w: directory %s exists", naming.ErrConfiguration, targetPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: cannot check %s: %v", naming.ErrConfiguration, targetPath, err)
	}
	return nil
}

// CloneRepository clones gitURL into targetPath, which must not exist yet
func CloneRepository(ctx context.Context, gitURL, targetPath string) error {
	if err := ValidateCloneTarget(gitURL, targetPath); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--quiet", "--", gitURL, targetPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: git clone %s: %v: %s", naming.ErrCloneFailure, gitURL, err, strings.TrimSpace(string(output)))
	}
	return nil
}
