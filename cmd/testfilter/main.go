package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/mashuangwe/grpc/testfilter"
)

var Cmd = &cobra.Command{
	Use:  "testfilter",
	Long: "Filter a pull request's candidate test jobs down to the ones affected by the changed files",
	RunE: run,
}

var args struct {
	baseBranch string
	jobsPath   string
	rulesPath  string
	rulesURL   string
	repoDir    string
	githubRepo string
	githubPR   int
}

func init() {
	Cmd.Flags().StringVar(&args.baseBranch, "base-branch", "master", "Branch to diff against (merge base is computed from it)")
	Cmd.Flags().StringVar(&args.jobsPath, "jobs", "-", "Candidate job list as JSON or YAML; '-' reads JSON from stdin")
	Cmd.Flags().StringVar(&args.rulesPath, "rules", "", "Optional YAML rule table; defaults to the built-in table")
	Cmd.Flags().StringVar(&args.rulesURL, "rules-url", "", "Optional URL of a YAML rule table")
	Cmd.Flags().StringVar(&args.repoDir, "repo-dir", "", "Checkout to run git in (default: current directory)")
	Cmd.Flags().StringVar(&args.githubRepo, "github-repo", "", "owner/name; read changed files from the GitHub PR API instead of git")
	Cmd.Flags().IntVar(&args.githubPR, "github-pr", 0, "Pull request number, required with --github-repo")
}

func main() {
	klog.InitFlags(nil)

	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, argv []string) error {
	ctx := cmd.Context()

	cfg, err := loadRules()
	if err != nil {
		return err
	}

	jobs, err := readJobs(args.jobsPath)
	if err != nil {
		return err
	}

	lister, err := changeLister(cmd)
	if err != nil {
		return err
	}

	engine, err := testfilter.NewEngine(cfg, lister)
	if err != nil {
		return fmt.Errorf("invalid rule table: %v", err)
	}

	filtered, err := engine.FilterJobs(ctx, jobs, args.baseBranch)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "kept %d of %d candidate jobs\n", len(filtered), len(jobs))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(filtered)
}

func loadRules() (testfilter.Config, error) {
	switch {
	case args.rulesURL != "":
		return testfilter.LoadConfigFromURL(args.rulesURL)
	case args.rulesPath != "":
		return testfilter.LoadConfig(args.rulesPath)
	default:
		return testfilter.DefaultConfig(), nil
	}
}

func changeLister(cmd *cobra.Command) (testfilter.ChangeLister, error) {
	if args.githubRepo == "" {
		return testfilter.NewGitChangeLister(args.repoDir), nil
	}

	owner, repo, ok := strings.Cut(args.githubRepo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("--github-repo must be owner/name, got %q", args.githubRepo)
	}
	if args.githubPR <= 0 {
		return nil, fmt.Errorf("--github-pr is required with --github-repo, got %d", args.githubPR)
	}
	client, err := testfilter.NewGitHubClient(cmd.Context(), os.Getenv("GITHUB_TOKEN"))
	if err != nil {
		return nil, err
	}
	return testfilter.NewGitHubChangeLister(client, owner, repo, args.githubPR), nil
}

// readJobs loads the candidate job list produced by the matrix runner.
// The format is picked by extension; stdin is JSON.
func readJobs(path string) ([]testfilter.Job, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job list: %v", err)
	}

	var jobs []testfilter.Job
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(data, &jobs)
	} else {
		err = json.Unmarshal(data, &jobs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode job list: %v", err)
	}
	return jobs, nil
}
