package testfilter

import (
	"context"
	"strings"
	"testing"
)

// stubLister implements ChangeLister with a canned changed-file list.
type stubLister struct {
	files []string
	err   error
}

func (s *stubLister) ChangedFiles(ctx context.Context, baseBranch string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.files, nil
}

// matrixJobs returns a small cross-section of the matrix the runner would
// produce. Tests should pick the jobs they care about by name.
func matrixJobs() []Job {
	return []Job{
		{Name: "linux-opt-c++", Labels: []string{"linux", "opt", "c++"}},
		{Name: "linux-opt-python", Labels: []string{"linux", "opt", "python"}},
		{Name: "linux-dbg-ruby", Labels: []string{"linux", "dbg", "ruby"}},
		{Name: "macos-opt-objc", Labels: []string{"macos", "opt", "objc"}},
		{Name: "windows-opt-csharp", Labels: []string{"windows", "opt", "csharp"}},
		{Name: "windows-dbg-python", Labels: []string{"windows", "dbg", "python"}},
	}
}

func jobNames(jobs []Job) string {
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name
	}
	return strings.Join(names, ",")
}

func containsJob(jobs []Job, name string) bool {
	for _, j := range jobs {
		if j.Name == name {
			return true
		}
	}
	return false
}

// filterWith builds an engine over cfg and runs it against the given
// changed files and jobs.
func filterWith(t *testing.T, cfg Config, files []string, jobs []Job) []Job {
	t.Helper()
	engine, err := NewEngine(cfg, &stubLister{files: files})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	out, err := engine.FilterJobs(context.Background(), jobs, "master")
	if err != nil {
		t.Fatalf("FilterJobs failed: %v", err)
	}
	return out
}
