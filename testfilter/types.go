package testfilter

import "regexp"

// Suite groups test jobs that share platform/config/language labels and
// owns the file patterns whose changes make the group relevant. Suites are
// built once by the engine and never mutated afterwards.
type Suite struct {
	name     string
	labels   []string
	triggers []*regexp.Regexp
}

func (s *Suite) Name() string { return s.name }

// Labels returns a copy of the suite's label list.
func (s *Suite) Labels() []string {
	return append([]string(nil), s.labels...)
}

// relevant reports whether any of the suite's triggers match any changed file.
func (s *Suite) relevant(files []string) bool {
	for _, f := range files {
		for _, t := range s.triggers {
			if t.MatchString(f) {
				return true
			}
		}
	}
	return false
}

// Job is one candidate test job produced by the matrix runner. Everything
// about it is opaque to the filter except two of its labels.
type Job struct {
	Name   string   `json:"name" yaml:"name"`
	Labels []string `json:"labels" yaml:"labels"`
}

// Platform returns the job's platform label. The matrix runner emits labels
// as [platform, config, language, ...].
func (j Job) Platform() string {
	if len(j.Labels) < 1 {
		return ""
	}
	return j.Labels[0]
}

// Language returns the job's language label.
func (j Job) Language() string {
	if len(j.Labels) < 3 {
		return ""
	}
	return j.Labels[2]
}
