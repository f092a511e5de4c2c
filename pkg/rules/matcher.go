package rules

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/errors"
)

// Match returns the first rule whose prefix occurs anywhere in p
func (t Table) Match(p string) (Rule, bool) {
	for _, r := range t {
		if strings.Contains(p, r.Prefix) {
			return r, true
		}
	}
	return Rule{}, false
}

// Apply removes the first occurrence of the prefix from p and joins the
// remainder onto Dest. The result is slash-separated and cleaned; a remainder
// that starts with a separator is taken relative to Dest.
func (r Rule) Apply(p string) string {
	rest := strings.TrimLeft(strings.Replace(p, r.Prefix, "", 1), "/")
	return path.Join(r.Dest, rest)
}

// Match returns the first exclusion contained in p
func (e Exclusions) Match(p string) (string, bool) {
	for _, s := range e {
		if strings.Contains(p, s) {
			return s, true
		}
	}
	return "", false
}

// Contains reports whether p contains any of the substrings
func (e Exclusions) Contains(p string) bool {
	_, ok := e.Match(p)
	return ok
}

// Resolve decides where an artifact goes without touching the filesystem.
// The order is: skip suffixes, exclusions, rules, then the artifact's own path.
func (l Layout) Resolve(artifact string) (Resolution, error) {
	p := filepath.ToSlash(artifact)
	res := Resolution{Source: artifact}

	for _, suffix := range l.SkipSuffixes {
		if strings.HasSuffix(p, suffix) {
			res.Status = StatusSkipped
			res.Reason = suffix
			return res, nil
		}
	}

	if s, ok := l.Exclude.Match(p); ok {
		res.Status = StatusExcluded
		res.Reason = s
		return res, nil
	}

	var rel string
	if r, ok := l.Rules.Match(p); ok {
		rule := r
		res.Rule = &rule
		rel = r.Apply(p)
	} else {
		if s, ok := l.UnmatchedExclude.Match(p); ok {
			res.Status = StatusDropped
			res.Reason = s
			return res, nil
		}
		// Absolute artifacts are re-rooted under the category root.
		rel = path.Clean(strings.TrimLeft(p, "/"))
	}

	if err := checkContained(rel); err != nil {
		return res, errors.Wrapf(err, errors.ErrInvalidInput,
			"artifact %s resolves outside the staging directory", artifact).
			WithDetail("path", artifact)
	}

	res.Status = StatusPlaced
	res.Dest = path.Join(l.Root, rel)
	return res, nil
}

func checkContained(rel string) error {
	switch {
	case rel == "" || rel == ".":
		return errors.New(errors.ErrInvalidInput, "destination is the root itself")
	case path.IsAbs(rel):
		return errors.Newf(errors.ErrInvalidInput, "destination %s is absolute", rel)
	case rel == ".." || strings.HasPrefix(rel, "../"):
		return errors.Newf(errors.ErrInvalidInput, "destination %s escapes the root", rel)
	}
	return nil
}

// Validate rejects rule tables that could place files outside the staging root
func (l Layout) Validate() error {
	if l.Root != "" {
		if err := checkContained(path.Clean(l.Root)); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid root %q", l.Root)
		}
	}
	for i, r := range l.Rules {
		if r.Prefix == "" {
			return errors.Newf(errors.ErrConfigValid, "rule %d has an empty prefix", i)
		}
		if r.Dest == "" {
			continue
		}
		if err := checkContained(path.Clean(r.Dest)); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "rule %d (%s) has invalid dest %q", i, r.Prefix, r.Dest)
		}
	}
	for i, s := range l.SkipSuffixes {
		if s == "" {
			return errors.Newf(errors.ErrConfigValid, "skip suffix %d is empty", i)
		}
	}
	for i, s := range l.Exclude {
		if s == "" {
			return errors.Newf(errors.ErrConfigValid, "exclusion %d is empty", i)
		}
	}
	for i, s := range l.UnmatchedExclude {
		if s == "" {
			return errors.Newf(errors.ErrConfigValid, "unmatched exclusion %d is empty", i)
		}
	}
	for i, m := range l.Moves {
		if m.From == "" || m.To == "" {
			return errors.Newf(errors.ErrConfigValid, "move %d needs both from and to", i)
		}
		for _, p := range []string{m.From, m.To} {
			if err := checkContained(path.Clean(p)); err != nil {
				return errors.Wrapf(err, errors.ErrConfigValid, "move %d has invalid path %q", i, p)
			}
		}
	}
	return nil
}
