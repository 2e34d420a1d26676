//go:generate mockgen -destination=./mocks/fetcher.go -package=mocks . Fetcher
package repodata

import (
	"context"
)

// Fetcher retrieves the parsed repodata document for one channel/platform
// combination.
type Fetcher interface {
	// Fetch resolves the document URL for the channel and platform family
	// and returns the parsed document. A non-success response status or an
	// unsupported platform is a hard error.
	Fetch(ctx context.Context, channel, platform string) (*Document, error)
}
