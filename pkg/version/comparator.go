// Package version provides the version-ordering capability used by the
// repodata index. Version strings are ordered per the ecosystem's version
// scheme, never lexically ("1.9" sorts before "1.10").
package version

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
)

// ErrMalformedVersion is returned when a version string cannot be ordered.
var ErrMalformedVersion = fmt.Errorf("malformed version")

// Comparator defines a total ordering over version strings.
type Comparator interface {
	// Compare returns -1, 0 or 1 if a sorts before, equal to or after b.
	// A version string with no valid ordering is a hard error, never a
	// silent fallback to lexical order.
	Compare(a, b string) (int, error)
}

// Default returns the standard comparator backed by hashicorp/go-version.
func Default() Comparator {
	return hashicorpComparator{}
}

type hashicorpComparator struct{}

func (hashicorpComparator) Compare(a, b string) (int, error) {
	va, err := goversion.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedVersion, a)
	}
	vb, err := goversion.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedVersion, b)
	}
	return va.Compare(vb), nil
}

// Max returns the largest of versions under cmp. It fails on an empty input
// or on any version the comparator cannot order.
func Max(cmp Comparator, versions []string) (string, error) {
	if len(versions) == 0 {
		return "", fmt.Errorf("%w: no versions given", ErrMalformedVersion)
	}
	best := versions[0]
	for _, v := range versions[1:] {
		order, err := cmp.Compare(v, best)
		if err != nil {
			return "", err
		}
		if order > 0 {
			best = v
		}
	}
	// Validate the first element too when it never got compared.
	if len(versions) == 1 {
		if _, err := cmp.Compare(best, best); err != nil {
			return "", err
		}
	}
	return best, nil
}
