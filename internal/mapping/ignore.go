package mapping

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// matcher is a compiled ignore pattern.
type matcher interface {
	Match(string) bool
}

// compilePattern accepts a glob ("**/.obsidian", "*.tmp") or a regular
// expression wrapped in slashes ("/\.draft\.md$/").
func compilePattern(pattern string) (matcher, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	if len(pattern) > 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, pattern, err)
		}
		return regexMatcher{re}, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, pattern, err)
	}
	return g, nil
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (r regexMatcher) Match(s string) bool {
	return r.re.MatchString(s)
}

// ignoreRules holds the compiled patterns of one mapping.
type ignoreRules []matcher

func compileRules(patterns []string) (ignoreRules, error) {
	rules := make(ignoreRules, 0, len(patterns))
	for _, p := range patterns {
		m, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		rules = append(rules, m)
	}
	return rules, nil
}

// match tests rel (slash separated, relative to the mapping source), its
// base name and the absolute path, then the same forms of every ancestor
// directory up to the source.
func (r ignoreRules) match(rel, abs string) bool {
	if len(r) == 0 {
		return false
	}

	root := strings.TrimSuffix(abs, "/"+rel)
	candidates := []string{abs, rel, path.Base(rel)}
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		candidates = append(candidates, root+"/"+dir, dir, path.Base(dir))
	}

	for _, m := range r {
		for _, c := range candidates {
			if m.Match(c) {
				return true
			}
		}
	}
	return false
}
