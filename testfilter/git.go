package testfilter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// GitChangeLister computes the changed-file set from a local checkout with
// two git calls: merge-base, then diff. Kept as two invocations to stay
// Windows friendly.
type GitChangeLister struct {
	Dir string

	run func(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// NewGitChangeLister returns a lister operating on the checkout at dir.
// An empty dir means the current working directory.
func NewGitChangeLister(dir string) *GitChangeLister {
	return &GitChangeLister{Dir: dir, run: runGit}
}

func (g *GitChangeLister) ChangedFiles(ctx context.Context, baseBranch string) ([]string, error) {
	out, err := g.run(ctx, g.Dir, "merge-base", baseBranch, "HEAD")
	if err != nil {
		return nil, &VCSError{Op: "merge-base", Err: err}
	}
	base := strings.TrimSpace(string(out))
	if base == "" {
		return nil, &VCSError{Op: "merge-base", Err: fmt.Errorf("no merge base between %s and HEAD", baseBranch)}
	}

	out, err = g.run(ctx, g.Dir, "diff", base, "--name-only")
	if err != nil {
		return nil, &VCSError{Op: "diff", Err: err}
	}
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("git %s: %v: %s", strings.Join(args, " "), err, bytes.TrimSpace(exitErr.Stderr))
		}
		return nil, fmt.Errorf("git %s: %v", strings.Join(args, " "), err)
	}
	return out, nil
}
