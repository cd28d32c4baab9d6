package testfilter

import (
	"context"
	"fmt"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"
)

// pullRequestFilesLister is the slice of the GitHub API the lister needs,
// kept small to allow mocking.
type pullRequestFilesLister interface {
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

// GitHubChangeLister reads the changed-file list from the pull request
// itself instead of a local checkout. The pull request's base branch
// already fixes the merge base, so the baseBranch argument is ignored.
type GitHubChangeLister struct {
	pulls  pullRequestFilesLister
	owner  string
	repo   string
	number int
}

// NewGitHubChangeLister returns a lister for the given pull request.
func NewGitHubChangeLister(client *github.Client, owner, repo string, number int) *GitHubChangeLister {
	return &GitHubChangeLister{pulls: client.PullRequests, owner: owner, repo: repo, number: number}
}

func (g *GitHubChangeLister) ChangedFiles(ctx context.Context, _ string) ([]string, error) {
	var files []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := g.pulls.ListFiles(ctx, g.owner, g.repo, g.number, opts)
		if err != nil {
			return nil, &VCSError{Op: "list pull request files", Err: err}
		}
		for _, f := range page {
			files = append(files, f.GetFilename())
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}

// NewGitHubClient creates an authenticated GitHub client.
func NewGitHubClient(ctx context.Context, token string) (*github.Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN not provided")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts)), nil
}
