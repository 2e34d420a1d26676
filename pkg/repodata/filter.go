package repodata

import (
	platforms "github.com/glorpus-work/repodex/pkg/platform"
)

// Filter selects records by optional per-column constraints. A field with
// one element is an equality match, with several a membership test, and an
// empty field applies no constraint. Every listed column applies
// independently of the others.
type Filter struct {
	Names        []string
	Channels     []string
	Versions     []string
	BuildNumbers []int64
	Platforms    []string

	// Native restricts Platforms to noarch plus the platform family of the
	// host operating system, overriding any explicit Platforms constraint.
	// An unrecognized host OS is a hard error.
	Native bool
}

// predicate resolves the filter into a single match function. Native
// platform resolution happens here, once, so an unsupported host fails the
// query before any rows are scanned.
func (f Filter) predicate() (func(Record) bool, error) {
	plats := f.Platforms
	if f.Native {
		native, err := platforms.Native()
		if err != nil {
			return nil, err
		}
		plats = []string{platforms.Noarch, native}
	}

	return func(r Record) bool {
		if !matchString(r.Name, f.Names) {
			return false
		}
		if !matchString(r.Channel, f.Channels) {
			return false
		}
		if !matchString(r.Version, f.Versions) {
			return false
		}
		if !matchInt(r.BuildNumber, f.BuildNumbers) {
			return false
		}
		return matchString(r.Platform, plats)
	}, nil
}

func matchString(value string, constraint []string) bool {
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if value == c {
			return true
		}
	}
	return false
}

func matchInt(value int64, constraint []int64) bool {
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if value == c {
			return true
		}
	}
	return false
}
