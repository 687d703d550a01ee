package dupecheck

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ExcludeRuleKind identifies which part of a path an exclude rule applies to
type ExcludeRuleKind int

const (
	ExcludeDirName  ExcludeRuleKind = iota // any path segment equals the pattern
	ExcludeDirGlob                         // any path segment matches the glob
	ExcludePathGlob                        // the full absolute path matches the glob
	ExcludeFileName                        // final segment of a regular file equals the pattern
	ExcludeFileGlob                        // final segment of a regular file matches the glob
)

// ExcludeRule is an immutable exclusion predicate over paths
type ExcludeRule struct {
	Kind    ExcludeRuleKind
	Pattern string
}

// ExcludeList evaluates a set of exclude rules with OR semantics: any
// matching rule excludes the entry (and, for directories, its subtree)
type ExcludeList struct {
	rules []ExcludeRule
}

// NewExcludeList creates an exclude list, optionally seeded with the default
// rules (directory names ".git" and ".svn")
func NewExcludeList(withDefaults bool) *ExcludeList {
	el := &ExcludeList{}
	if withDefaults {
		// Defaults are plain names, never invalid globs
		el.rules = append(el.rules,
			ExcludeRule{Kind: ExcludeDirName, Pattern: ".git"},
			ExcludeRule{Kind: ExcludeDirName, Pattern: ".svn"})
	}
	return el
}

// Add appends a rule after validating its pattern. Glob patterns are
// checked up front so a malformed pattern aborts before scanning rather
// than silently matching nothing mid-run.
func (el *ExcludeList) Add(kind ExcludeRuleKind, pattern string) error {
	switch kind {
	case ExcludeDirGlob, ExcludePathGlob, ExcludeFileGlob:
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	case ExcludeDirName, ExcludeFileName:
		// Plain names need no validation
	default:
		return fmt.Errorf("unknown exclude rule kind %d", kind)
	}

	el.rules = append(el.rules, ExcludeRule{Kind: kind, Pattern: pattern})
	return nil
}

// AddDir excludes entries within directories named name
func (el *ExcludeList) AddDir(name string) error {
	return el.Add(ExcludeDirName, name)
}

// AddDirGlob excludes entries within directories matching the glob
func (el *ExcludeList) AddDirGlob(glob string) error {
	return el.Add(ExcludeDirGlob, glob)
}

// AddPathGlob excludes entries whose full path matches the glob
func (el *ExcludeList) AddPathGlob(glob string) error {
	return el.Add(ExcludePathGlob, glob)
}

// AddFile excludes regular files named name
func (el *ExcludeList) AddFile(name string) error {
	return el.Add(ExcludeFileName, name)
}

// AddFileGlob excludes regular files matching the glob
func (el *ExcludeList) AddFileGlob(glob string) error {
	return el.Add(ExcludeFileGlob, glob)
}

// Rules returns a copy of the current rule set
func (el *ExcludeList) Rules() []ExcludeRule {
	rules := make([]ExcludeRule, len(el.rules))
	copy(rules, el.rules)
	return rules
}

// Match reports whether absPath is excluded. isDir distinguishes directory
// entries from regular files: file-level rules only apply to files, while
// directory and path rules apply to both (a file inside an excluded
// directory carries the directory name as one of its segments).
func (el *ExcludeList) Match(absPath string, isDir bool) bool {
	if len(el.rules) == 0 {
		return false
	}

	base := filepath.Base(absPath)
	segments := strings.Split(absPath, string(filepath.Separator))

	for _, rule := range el.rules {
		// An empty pattern matches nothing; a misconfigured empty
		// argument must never exclude the entire tree.
		if rule.Pattern == "" {
			continue
		}

		switch rule.Kind {
		case ExcludeDirName:
			for _, seg := range segments {
				if seg == rule.Pattern {
					return true
				}
			}
		case ExcludeDirGlob:
			for _, seg := range segments {
				if ok, _ := filepath.Match(rule.Pattern, seg); ok {
					return true
				}
			}
		case ExcludePathGlob:
			if ok, _ := filepath.Match(rule.Pattern, absPath); ok {
				return true
			}
		case ExcludeFileName:
			if !isDir && base == rule.Pattern {
				return true
			}
		case ExcludeFileGlob:
			if !isDir {
				if ok, _ := filepath.Match(rule.Pattern, base); ok {
					return true
				}
			}
		}
	}

	return false
}
