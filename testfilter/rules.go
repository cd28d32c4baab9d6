package testfilter

import (
	"fmt"
	"regexp"
	"strings"
)

// SuiteDef declares a suite and the labels its jobs carry.
type SuiteDef struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
}

// Rule associates one file-path pattern with the suites it is relevant to.
// Patterns are regular expressions anchored at the start of the relative
// path. An empty suite list means files matching the pattern never require
// any test run.
type Rule struct {
	Pattern string   `yaml:"pattern"`
	Suites  []string `yaml:"suites,omitempty"`
}

// Config is the rule table plus the suites it refers to. It is the de facto
// configuration surface of the filter.
type Config struct {
	Suites []SuiteDef `yaml:"suites"`
	Rules  []Rule     `yaml:"rules"`
}

// DefaultConfig returns the hand-maintained rule table for the gRPC source
// tree. Any changed file that matches none of these patterns triggers a
// full test run, so the table only needs to cover paths whose blast radius
// is known.
func DefaultConfig() Config {
	return Config{
		Suites: []SuiteDef{
			{Name: "sanity", Labels: []string{"sanity"}},
			{Name: "core", Labels: []string{"c"}},
			{Name: "cpp", Labels: []string{"c++"}},
			{Name: "csharp", Labels: []string{"csharp"}},
			{Name: "node", Labels: []string{"node"}},
			{Name: "objc", Labels: []string{"objc"}},
			{Name: "php", Labels: []string{"php", "php7"}},
			{Name: "python", Labels: []string{"python"}},
			{Name: "ruby", Labels: []string{"ruby"}},
			{Name: "linux", Labels: []string{"linux"}},
			{Name: "windows", Labels: []string{"windows"}},
			{Name: "macos", Labels: []string{"macos"}},
		},
		Rules: []Rule{
			{Pattern: `^doc/`},
			{Pattern: `^examples/`},
			{Pattern: `^include/grpc\+\+/`, Suites: []string{"cpp"}},
			{Pattern: `^summerofcode/`},
			{Pattern: `^src/cpp/`, Suites: []string{"cpp"}},
			{Pattern: `^src/csharp/`, Suites: []string{"csharp"}},
			{Pattern: `^src/node/`, Suites: []string{"node"}},
			{Pattern: `^src/objective\-c/`, Suites: []string{"objc"}},
			{Pattern: `^src/php/`, Suites: []string{"php"}},
			{Pattern: `^src/python/`, Suites: []string{"python"}},
			{Pattern: `^src/ruby/`, Suites: []string{"ruby"}},
			{Pattern: `^templates/`, Suites: []string{"sanity"}},
			{Pattern: `^test/core/`, Suites: []string{"core"}},
			{Pattern: `^test/cpp/`, Suites: []string{"cpp"}},
			{Pattern: `^test/distrib/cpp/`, Suites: []string{"cpp"}},
			{Pattern: `^test/distrib/csharp/`, Suites: []string{"csharp"}},
			{Pattern: `^test/distrib/node/`, Suites: []string{"node"}},
			{Pattern: `^test/distrib/php/`, Suites: []string{"php"}},
			{Pattern: `^test/distrib/python/`, Suites: []string{"python"}},
			{Pattern: `^test/distrib/ruby/`, Suites: []string{"ruby"}},
			{Pattern: `^vsprojects/`, Suites: []string{"windows"}},
			{Pattern: `binding\.gyp$`, Suites: []string{"node"}},
			{Pattern: `composer\.json$`, Suites: []string{"php"}},
			{Pattern: `config\.m4$`, Suites: []string{"php"}},
			{Pattern: `CONTRIBUTING\.md$`},
			{Pattern: `Gemfile$`, Suites: []string{"ruby"}},
			{Pattern: `grpc\.def$`, Suites: []string{"windows"}},
			{Pattern: `grpc\.gemspec$`, Suites: []string{"ruby"}},
			{Pattern: `gRPC\.podspec$`, Suites: []string{"objc"}},
			{Pattern: `gRPC\-Core\.podspec$`, Suites: []string{"objc"}},
			{Pattern: `gRPC\-ProtoRPC\.podspec$`, Suites: []string{"objc"}},
			{Pattern: `gRPC\-RxLibrary\.podspec$`, Suites: []string{"objc"}},
			{Pattern: `INSTALL\.md$`},
			{Pattern: `LICENSE$`},
			{Pattern: `MANIFEST\.md$`},
			{Pattern: `package\.json$`, Suites: []string{"php"}},
			{Pattern: `package\.xml$`, Suites: []string{"php"}},
			{Pattern: `PATENTS$`},
			{Pattern: `PYTHON\-MANIFEST\.in$`, Suites: []string{"python"}},
			{Pattern: `README\.md$`},
			{Pattern: `requirements\.txt$`, Suites: []string{"python"}},
			{Pattern: `setup\.cfg$`, Suites: []string{"python"}},
			{Pattern: `setup\.py$`, Suites: []string{"python"}},
		},
	}
}

// buildSuites folds the rule table into fully-formed suites: every suite's
// trigger set ends up as the union of all patterns that list it. It also
// builds the composite alternation of every pattern, used to detect changed
// files outside the known map. The returned values are never mutated again.
func buildSuites(cfg Config) ([]*Suite, *regexp.Regexp, error) {
	byName := make(map[string]*Suite, len(cfg.Suites))
	suites := make([]*Suite, 0, len(cfg.Suites))
	for _, def := range cfg.Suites {
		if def.Name == "" {
			return nil, nil, fmt.Errorf("suite with empty name")
		}
		if _, exists := byName[def.Name]; exists {
			return nil, nil, fmt.Errorf("duplicate suite %q", def.Name)
		}
		s := &Suite{name: def.Name, labels: append([]string(nil), def.Labels...)}
		byName[def.Name] = s
		suites = append(suites, s)
	}

	patterns := make([]string, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		// Anchor at the start of the relative path.
		re, err := regexp.Compile("^(?:" + rule.Pattern + ")")
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pattern %q: %v", rule.Pattern, err)
		}
		patterns = append(patterns, rule.Pattern)
		for _, name := range rule.Suites {
			s, ok := byName[name]
			if !ok {
				return nil, nil, fmt.Errorf("pattern %q references unknown suite %q", rule.Pattern, name)
			}
			s.triggers = append(s.triggers, re)
		}
	}

	if len(patterns) == 0 {
		// No known patterns: every changed file is unrecognized.
		return suites, nil, nil
	}
	combined, err := regexp.Compile("^(?:(" + strings.Join(patterns, ")|(") + "))")
	if err != nil {
		return nil, nil, fmt.Errorf("invalid combined pattern: %v", err)
	}
	return suites, combined, nil
}
