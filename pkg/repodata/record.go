package repodata

import (
	"fmt"
	"strconv"
)

// Column names of the record table.
const (
	ColumnBuild       = "build"
	ColumnBuildNumber = "build_number"
	ColumnName        = "name"
	ColumnVersion     = "version"
	ColumnChannel     = "channel"
	ColumnPlatform    = "platform"
	ColumnSubdir      = "subdir"
)

// Columns returns the table's column set in persistence order.
func Columns() []string {
	return []string{
		ColumnBuild,
		ColumnBuildNumber,
		ColumnName,
		ColumnVersion,
		ColumnChannel,
		ColumnPlatform,
		ColumnSubdir,
	}
}

// Record is one row of the unified table. Build, BuildNumber, Name and
// Version come from a per-package metadata block; Channel, Platform and
// Subdir are batch-level attributes stamped onto every record of one fetch.
type Record struct {
	Build       string
	BuildNumber int64
	Name        string
	Version     string
	Channel     string
	Platform    string
	Subdir      string
}

// Column returns the record's value for the named column, formatted as a
// string the way it is persisted.
func (r Record) Column(column string) (string, error) {
	switch column {
	case ColumnBuild:
		return r.Build, nil
	case ColumnBuildNumber:
		return strconv.FormatInt(r.BuildNumber, 10), nil
	case ColumnName:
		return r.Name, nil
	case ColumnVersion:
		return r.Version, nil
	case ColumnChannel:
		return r.Channel, nil
	case ColumnPlatform:
		return r.Platform, nil
	case ColumnSubdir:
		return r.Subdir, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
}
