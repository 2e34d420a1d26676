package platform

// Package platform provides constants and utilities for the platform
// families indexed from anaconda-style channels.

const (
	// Linux represents the 64-bit Linux platform family.
	Linux = "linux"
	// OSX represents the 64-bit macOS platform family.
	OSX = "osx"
	// Noarch represents architecture-independent packages.
	Noarch = "noarch"

	// SubdirLinux is the physical repository subdirectory for Linux.
	SubdirLinux = "linux-64"
	// SubdirOSX is the physical repository subdirectory for macOS.
	SubdirOSX = "osx-64"
	// SubdirNoarch is the physical repository subdirectory for noarch.
	SubdirNoarch = "noarch"
)

// Default returns the platform families loaded by default.
func Default() []string {
	return []string{Linux, OSX, Noarch}
}

// Valid returns a list of valid platform family values.
func Valid() []string {
	return []string{Linux, OSX, Noarch}
}
