package platform

import (
	"fmt"
	"runtime"
)

// ErrUnsupportedPlatform is returned when a platform family is outside the
// fixed recognized set.
var ErrUnsupportedPlatform = fmt.Errorf("unsupported platform")

// Subdir maps a platform family to the repository's physical subdirectory.
// The mapping is intentionally small and closed; it does not enumerate
// every architecture a channel could theoretically host.
func Subdir(platform string) (string, error) {
	switch platform {
	case Linux:
		return SubdirLinux, nil
	case OSX:
		return SubdirOSX, nil
	case Noarch:
		return SubdirNoarch, nil
	default:
		return "", fmt.Errorf("%w: %q (only linux, osx and noarch are supported)", ErrUnsupportedPlatform, platform)
	}
}

// Native returns the platform family of the host operating system.
func Native() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return Linux, nil
	case "darwin":
		return OSX, nil
	default:
		return "", fmt.Errorf("%w: running on %s", ErrUnsupportedPlatform, runtime.GOOS)
	}
}

// IsValid reports whether platform is one of the recognized families.
func IsValid(platform string) bool {
	switch platform {
	case Linux, OSX, Noarch:
		return true
	default:
		return false
	}
}
