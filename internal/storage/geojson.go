package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/pfrederiksen/golfriket-clubs/internal/club"
	"github.com/pfrederiksen/golfriket-clubs/internal/logger"
)

// GeoJSONWriter writes clubs as a FeatureCollection of points
type GeoJSONWriter struct {
	path string
}

// NewGeoJSONWriter creates a GeoJSONWriter for path
func NewGeoJSONWriter(path string) *GeoJSONWriter {
	return &GeoJSONWriter{path: path}
}

// FeatureCollection converts clubs to GeoJSON features, keeping their order
func FeatureCollection(clubs []*club.Club) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range clubs {
		f := geojson.NewFeature(c.Point())
		f.ID = c.ID
		f.Properties["name"] = c.Name
		f.Properties["url"] = c.URL
		f.Properties["address"] = c.Address
		f.Properties["address_found"] = c.AddressFound
		fc.Append(f)
	}
	return fc
}

// Write overwrites the file with the clubs' FeatureCollection
func (w *GeoJSONWriter) Write(ctx context.Context, clubs []*club.Club) error {
	logger.Info("Saving data", logger.Fields{"file": w.path, "format": FormatGeoJSON, "count": len(clubs)})

	if err := ensureDir(w.path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(FeatureCollection(clubs), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}

	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}
	return nil
}
