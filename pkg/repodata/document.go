package repodata

import (
	"encoding/json"
	"fmt"
)

// Document is the parsed repodata.json for one channel/subdir combination.
//
// The schema version is indicated by the repodata_version key, with absence
// of that key indicating version 0. In version 0 the info block also carries
// platform, arch and default interpreter versions; in version 1 it only
// contains subdir. Version 1 added the removed list. The index only consumes
// info.subdir and packages; the rest is parsed so callers can inspect it.
type Document struct {
	Info            Info                   `json:"info"`
	Packages        map[string]PackageInfo `json:"packages"`
	RepodataVersion int                    `json:"repodata_version,omitempty"`
	Removed         []string               `json:"removed,omitempty"`
}

// Info is the document's own metadata block.
type Info struct {
	Subdir string `json:"subdir"`
}

// PackageInfo is one per-package metadata block. Only the fields retained by
// the index are decoded; dependency lists, arch and hash pins beyond the
// build string are dropped.
type PackageInfo struct {
	Build       string `json:"build"`
	BuildNumber int64  `json:"build_number"`
	Name        string `json:"name"`
	Version     string `json:"version"`
}

// ParseDocument parses a repodata document from JSON data.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentParse, err)
	}

	if doc.Packages == nil {
		return nil, fmt.Errorf("%w: missing packages key", ErrDocumentParse)
	}

	return &doc, nil
}
