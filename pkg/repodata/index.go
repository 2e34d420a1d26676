package repodata

import (
	"context"
	"sort"

	"github.com/glorpus-work/repodex/internal/logger"
	"github.com/glorpus-work/repodex/pkg/version"
)

// Index is the unified, frozen table of package records across all
// configured channels and platform families. It is built once, either from
// the network or from a cache file, and all queries read from memory only.
type Index struct {
	records []Record
	cmp     version.Comparator
}

// NewIndex creates an index over the given records.
func NewIndex(records []Record, cmp version.Comparator) *Index {
	if cmp == nil {
		cmp = version.Default()
	}
	return &Index{records: records, cmp: cmp}
}

// Build fetches one document per (channel, platform) pair, normalizes each
// into records and concatenates them into a new index. A single failed
// fetch aborts the whole build; there is no partial index.
func Build(ctx context.Context, fetcher Fetcher, channels, platforms []string, cmp version.Comparator) (*Index, error) {
	var records []Record
	for _, channel := range channels {
		for _, platform := range platforms {
			logger.Info("loading channel index", logger.Fields{
				"channel":  channel,
				"platform": platform,
			})
			doc, err := fetcher.Fetch(ctx, channel, platform)
			if err != nil {
				return nil, Wrapf(err, "building index for %s/%s", channel, platform)
			}
			records = append(records, recordsFromDocument(doc, channel, platform)...)
		}
	}
	return NewIndex(records, cmp), nil
}

// recordsFromDocument normalizes one fetched document into a record batch.
// Channel and platform are the requested pair; subdir is the document's own
// declared subdirectory, which may legitimately differ from the requested
// one.
func recordsFromDocument(doc *Document, channel, platform string) []Record {
	records := make([]Record, 0, len(doc.Packages))
	for _, pkg := range doc.Packages {
		records = append(records, Record{
			Build:       pkg.Build,
			BuildNumber: pkg.BuildNumber,
			Name:        pkg.Name,
			Version:     pkg.Version,
			Channel:     channel,
			Platform:    platform,
			Subdir:      doc.Info.Subdir,
		})
	}
	return records
}

// Len returns the number of records in the table.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Records returns the table rows. The returned slice must not be modified.
func (idx *Index) Records() []Record {
	return idx.records
}

// Versions returns the versions available for a package as a map from
// version to the sorted set of platform families it was observed on.
func (idx *Index) Versions(name string) map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, r := range idx.records {
		if r.Name != name {
			continue
		}
		if seen[r.Version] == nil {
			seen[r.Version] = make(map[string]bool)
		}
		seen[r.Version][r.Platform] = true
	}

	versions := make(map[string][]string, len(seen))
	for ver, platforms := range seen {
		versions[ver] = sortedKeys(platforms)
	}
	return versions
}

// Channels returns the sorted set of channels in which a package is
// available. An empty version or nil buildNumber means no constraint on
// that field.
func (idx *Index) Channels(name, ver string, buildNumber *int64) []string {
	channels := make(map[string]bool)
	for _, r := range idx.records {
		if r.Name != name {
			continue
		}
		if ver != "" && r.Version != ver {
			continue
		}
		if buildNumber != nil && r.BuildNumber != *buildNumber {
			continue
		}
		channels[r.Channel] = true
	}
	return sortedKeys(channels)
}

// LatestVersions returns the latest version of every package in a channel,
// ordered by the index's comparator. A version the comparator cannot parse
// fails the whole query; silently skipping it would produce a wrong latest.
func (idx *Index) LatestVersions(channel string) (map[string]string, error) {
	grouped := make(map[string][]string)
	for _, r := range idx.records {
		if r.Channel != channel {
			continue
		}
		grouped[r.Name] = append(grouped[r.Name], r.Version)
	}

	latest := make(map[string]string, len(grouped))
	for name, versions := range grouped {
		best, err := version.Max(idx.cmp, versions)
		if err != nil {
			return nil, Wrapf(err, "finding latest version of %s in %s", name, channel)
		}
		latest[name] = best
	}
	return latest, nil
}

// SelectColumn returns the value of one column for every record matching
// the filter.
func (idx *Index) SelectColumn(column string, filter Filter) ([]string, error) {
	rows, err := idx.Select([]string{column}, filter)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(rows))
	for i, row := range rows {
		values[i] = row[0]
	}
	return values, nil
}

// Select returns the requested columns for every record matching the
// filter, preserving column order.
func (idx *Index) Select(columns []string, filter Filter) ([][]string, error) {
	match, err := filter.predicate()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for _, r := range idx.records {
		if !match(r) {
			continue
		}
		row := make([]string, len(columns))
		for i, column := range columns {
			value, err := r.Column(column)
			if err != nil {
				return nil, err
			}
			row[i] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
