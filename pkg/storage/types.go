package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoFacets is returned when a store holds no facet document yet.
var ErrNoFacets = errors.New("no facet definitions stored")

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromName picks the document format from a file extension, anything
// but .yaml and .yml is read as JSON with comments.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func tmpFileName(fileName string) string {
	return fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
}
