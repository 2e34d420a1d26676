package repodata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	platforms "github.com/glorpus-work/repodex/pkg/platform"
	"github.com/mholt/archives"
)

const (
	// channelBaseURL hosts the documents of ordinary channels.
	channelBaseURL = "https://conda.anaconda.org"

	// defaultsBaseURL hosts the documents of the vendor default channel.
	defaultsBaseURL = "https://repo.anaconda.com/pkgs/main"

	// DefaultsChannel is the reserved channel name resolved through
	// defaultsBaseURL.
	DefaultsChannel = "defaults"

	// CompressedSuffix is appended to the document URL when fetching
	// bz2-compressed repodata.
	CompressedSuffix = ".bz2"
)

// HTTPFetcher downloads repodata documents over HTTP.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	label        string
	compressed   bool
	channelBase  string
	defaultsBase string
}

// NewHTTPFetcher creates a new fetcher for repodata documents.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent:    "repodex/1.0",
		channelBase:  channelBaseURL,
		defaultsBase: defaultsBaseURL,
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func (f *HTTPFetcher) WithUserAgent(userAgent string) *HTTPFetcher {
	f.userAgent = userAgent
	return f
}

// WithLabel restricts ordinary channels to the given channel label.
// The defaults channel has no labels and ignores it.
func (f *HTTPFetcher) WithLabel(label string) *HTTPFetcher {
	f.label = label
	return f
}

// WithCompression makes the fetcher request bz2-compressed documents and
// decompress them transparently.
func (f *HTTPFetcher) WithCompression() *HTTPFetcher {
	f.compressed = true
	return f
}

// ResolveURL returns the document URL for a channel and platform family.
// It fails before any network I/O when the platform is not recognized.
func (f *HTTPFetcher) ResolveURL(channel, platform string) (string, error) {
	subdir, err := platforms.Subdir(platform)
	if err != nil {
		return "", err
	}

	var docURL string
	switch {
	case channel == DefaultsChannel:
		// caveat: this only gets defaults main, not 'free', 'r' or 'pro'
		docURL = fmt.Sprintf("%s/%s/repodata.json", f.defaultsBase, subdir)
	case f.label != "":
		docURL = fmt.Sprintf("%s/%s/label/%s/%s/repodata.json", f.channelBase, channel, f.label, subdir)
	default:
		docURL = fmt.Sprintf("%s/%s/%s/repodata.json", f.channelBase, channel, subdir)
	}

	if f.compressed {
		docURL += CompressedSuffix
	}
	return docURL, nil
}

// Fetch downloads and parses the repodata document for channel/platform.
func (f *HTTPFetcher) Fetch(ctx context.Context, channel, platform string) (*Document, error) {
	docURL, err := f.ResolveURL(channel, platform)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, http.NoBody)
	if err != nil {
		return nil, Wrapf(err, "failed to create request for %s", docURL)
	}

	req.Header.Set("User-Agent", f.userAgent)
	if !f.compressed {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, Wrapf(err, "failed to fetch %s", docURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s for %s", ErrFetchFailed, resp.Status, docURL)
	}

	var body io.Reader = resp.Body
	if f.compressed {
		rc, err := archives.Bz2{}.OpenReader(resp.Body)
		if err != nil {
			return nil, Wrapf(err, "failed to decompress %s", docURL)
		}
		defer func() { _ = rc.Close() }()
		body = rc
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, Wrapf(err, "failed to read response body from %s", docURL)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, Wrapf(err, "from %s", docURL)
	}
	return doc, nil
}
