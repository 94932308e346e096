package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pfrederiksen/golfriket-clubs/internal/club"
)

// DefaultOutput is the file written when no output path is given
const DefaultOutput = "golf_clubs.csv"

// Header lists the column names shared by the tabular sinks
var Header = []string{"Club", "Latitude", "Longitude", "URL", "Address"}

// Sink persists an ordered list of clubs
type Sink interface {
	Write(ctx context.Context, clubs []*club.Club) error
}

// Format names a file output format
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatGeoJSON Format = "geojson"
)

// ParseFormat validates a format name. An empty name returns "".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatCSV, FormatXLSX, FormatGeoJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'csv', 'xlsx' or 'geojson')", name)
	}
}

// FormatForPath picks the format from the file extension, defaulting to CSV
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".geojson", ".json":
		return FormatGeoJSON
	default:
		return FormatCSV
	}
}

// NewFileSink creates the sink for path. An empty format is inferred from the
// extension.
func NewFileSink(path string, format Format) (Sink, error) {
	if path == "" {
		path = DefaultOutput
	}
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatForPath(path)
	}

	switch format {
	case FormatCSV:
		return NewCSVWriter(path), nil
	case FormatXLSX:
		return NewXLSXWriter(path), nil
	case FormatGeoJSON:
		return NewGeoJSONWriter(path), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// ExpandPath expands a leading ~/ to the user's home directory
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return path, nil
}

// ensureDir creates the parent directory of path if it doesn't exist
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// formatCoordinate renders v in the shortest form that parses back exactly
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// record returns the tabular row for c, in Header order
func record(c *club.Club) []string {
	return []string{
		c.Name,
		formatCoordinate(c.Latitude),
		formatCoordinate(c.Longitude),
		c.URL,
		c.Address,
	}
}

// MultiSink writes to each sink in turn and stops at the first error
type MultiSink []Sink

// Write implements Sink
func (m MultiSink) Write(ctx context.Context, clubs []*club.Club) error {
	for _, s := range m {
		if err := s.Write(ctx, clubs); err != nil {
			return err
		}
	}
	return nil
}
