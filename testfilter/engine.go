// Package testfilter decides which candidate test jobs of a pull-request CI
// run can be skipped because no changed file is relevant to them.
package testfilter

import (
	"context"
	"regexp"

	"k8s.io/klog/v2"
)

// ChangeLister lists the relative paths of all files differing between the
// merge-base of baseBranch and the current head.
type ChangeLister interface {
	ChangedFiles(ctx context.Context, baseBranch string) ([]string, error)
}

// Engine filters candidate test jobs against the rule table. It holds no
// state besides the compiled table and is safe for concurrent use.
type Engine struct {
	suites   []*Suite
	combined *regexp.Regexp
	changes  ChangeLister
}

// NewEngine validates and compiles the rule table once. A malformed pattern
// or a rule referencing an undeclared suite is a configuration error.
func NewEngine(cfg Config, changes ChangeLister) (*Engine, error) {
	suites, combined, err := buildSuites(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{suites: suites, combined: combined, changes: changes}, nil
}

// FilterJobs returns the subset of jobs that still need to run given the
// files changed since the merge-base of baseBranch. The input slice is
// never mutated and order is preserved. Any changed file that matches no
// known pattern forces the full list: its effect on unmapped parts of the
// tree cannot be ruled out.
func (e *Engine) FilterJobs(ctx context.Context, jobs []Job, baseBranch string) ([]Job, error) {
	log := klog.FromContext(ctx)

	log.Info("finding file differences against merge base", "base", baseBranch)
	changed, err := e.changes.ChangedFiles(ctx, baseBranch)
	if err != nil {
		return nil, err
	}
	for _, f := range changed {
		log.Info("changed file", "path", f)
	}

	for _, f := range changed {
		if e.combined == nil || !e.combined.MatchString(f) {
			log.Info("changed file matches no known pattern, running all tests", "path", f)
			return append([]Job(nil), jobs...), nil
		}
	}

	skippable := e.skippableLabels(ctx, changed)
	return removeIrrelevant(jobs, skippable), nil
}

// skippableLabels collects the labels of every suite none of whose triggers
// matched a changed file. A suite with no triggers at all is vacuously
// skippable.
func (e *Engine) skippableLabels(ctx context.Context, changed []string) map[string]bool {
	log := klog.FromContext(ctx)
	skippable := make(map[string]bool)
	for _, s := range e.suites {
		if s.relevant(changed) {
			continue
		}
		for _, label := range s.labels {
			log.Info("filtering tests", "label", label)
			skippable[label] = true
		}
	}
	return skippable
}

// removeIrrelevant drops a job only when both its platform and its language
// label are skippable; either label alone keeps the job in the matrix.
// Sanitizer and other config-dimension jobs are untouched by design.
func removeIrrelevant(jobs []Job, skippable map[string]bool) []Job {
	kept := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if skippable[j.Platform()] && skippable[j.Language()] {
			continue
		}
		kept = append(kept, j)
	}
	return kept
}
