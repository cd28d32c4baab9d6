package testfilter

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGitChangeLister(t *testing.T) {
	var calls [][]string
	lister := &GitChangeLister{
		Dir: "/repo",
		run: func(ctx context.Context, dir string, args ...string) ([]byte, error) {
			if dir != "/repo" {
				t.Errorf("expected commands to run in /repo, got %q", dir)
			}
			calls = append(calls, args)
			switch args[0] {
			case "merge-base":
				return []byte("abc123\n"), nil
			case "diff":
				return []byte("src/python/foo.py\nREADME.md\n\n"), nil
			}
			t.Fatalf("unexpected git command: %v", args)
			return nil, nil
		},
	}

	files, err := lister.ChangedFiles(context.Background(), "master")
	if err != nil {
		t.Fatalf("ChangedFiles failed: %v", err)
	}
	if got := strings.Join(files, ","); got != "src/python/foo.py,README.md" {
		t.Errorf("expected parsed file list, got %q", got)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 git calls, got %d", len(calls))
	}
	if got := strings.Join(calls[0], " "); got != "merge-base master HEAD" {
		t.Errorf("unexpected first git call: %q", got)
	}
	if got := strings.Join(calls[1], " "); got != "diff abc123 --name-only" {
		t.Errorf("unexpected second git call: %q", got)
	}
}

func TestGitChangeListerMergeBaseFailure(t *testing.T) {
	lister := &GitChangeLister{
		run: func(ctx context.Context, dir string, args ...string) ([]byte, error) {
			return nil, errors.New("fatal: not a valid object name nonexistent")
		},
	}

	_, err := lister.ChangedFiles(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("expected error for unresolvable base branch")
	}
	var vcsErr *VCSError
	if !errors.As(err, &vcsErr) {
		t.Fatalf("expected VCSError, got %T: %v", err, err)
	}
	if vcsErr.Op != "merge-base" {
		t.Errorf("expected merge-base op, got %q", vcsErr.Op)
	}
}

func TestGitChangeListerEmptyMergeBase(t *testing.T) {
	lister := &GitChangeLister{
		run: func(ctx context.Context, dir string, args ...string) ([]byte, error) {
			return []byte("\n"), nil
		},
	}

	if _, err := lister.ChangedFiles(context.Background(), "master"); err == nil {
		t.Fatal("expected error for empty merge-base output")
	}
}

func TestGitChangeListerDiffFailure(t *testing.T) {
	lister := &GitChangeLister{
		run: func(ctx context.Context, dir string, args ...string) ([]byte, error) {
			if args[0] == "merge-base" {
				return []byte("abc123\n"), nil
			}
			return nil, errors.New("diff failed")
		},
	}

	_, err := lister.ChangedFiles(context.Background(), "master")
	var vcsErr *VCSError
	if !errors.As(err, &vcsErr) || vcsErr.Op != "diff" {
		t.Fatalf("expected diff VCSError, got %v", err)
	}
}

func TestGitChangeListerNoChanges(t *testing.T) {
	lister := &GitChangeLister{
		run: func(ctx context.Context, dir string, args ...string) ([]byte, error) {
			if args[0] == "merge-base" {
				return []byte("abc123\n"), nil
			}
			return []byte(""), nil
		},
	}

	files, err := lister.ChangedFiles(context.Background(), "master")
	if err != nil {
		t.Fatalf("ChangedFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}
