package repodata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// The cache file is tab-delimited text with a header row. The header names
// every retained column plus a leading unlabeled row-number column; the
// loader skips unlabeled columns. Presence of the file alone short-circuits
// network access on a later build; invalidation is the caller's
// responsibility.

// SaveTable persists records to a cache file at path.
func SaveTable(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return Wrapf(err, "cannot create cache file %s", path)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	writer.Comma = '\t'

	header := append([]string{""}, Columns()...)
	if err := writer.Write(header); err != nil {
		return Wrap(err, "failed to write cache header")
	}

	for i, r := range records {
		row := []string{
			strconv.Itoa(i),
			r.Build,
			strconv.FormatInt(r.BuildNumber, 10),
			r.Name,
			r.Version,
			r.Channel,
			r.Platform,
			r.Subdir,
		}
		if err := writer.Write(row); err != nil {
			return Wrap(err, "failed to write cache row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return Wrapf(err, "failed to flush cache file %s", path)
	}
	return nil
}

// LoadTable reads records back from a cache file at path. The column set is
// taken from the header row as written; it is not re-derived from upstream
// documents.
func LoadTable(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Wrapf(err, "cannot open cache file %s", path)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCacheInvalid, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header row", ErrCacheInvalid, path)
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		if name == "" {
			continue
		}
		columns[name] = i
	}
	for _, name := range Columns() {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrCacheInvalid, path, name)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(rows[0]) {
			return nil, fmt.Errorf("%w: %s: short row with %d fields", ErrCacheInvalid, path, len(row))
		}
		buildNumber, err := strconv.ParseInt(row[columns[ColumnBuildNumber]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad build_number %q", ErrCacheInvalid, path, row[columns[ColumnBuildNumber]])
		}
		records = append(records, Record{
			Build:       row[columns[ColumnBuild]],
			BuildNumber: buildNumber,
			Name:        row[columns[ColumnName]],
			Version:     row[columns[ColumnVersion]],
			Channel:     row[columns[ColumnChannel]],
			Platform:    row[columns[ColumnPlatform]],
			Subdir:      row[columns[ColumnSubdir]],
		})
	}
	return records, nil
}
