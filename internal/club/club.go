package club

import (
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// AddressNotFound is stored in Address when the detail page could not be fetched
const AddressNotFound = "Address not found"

// Club represents a golf club listed on golfriket.se
type Club struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Path         string  `json:"path"` // Relative path as found in the listing data
	URL          string  `json:"url"`
	Address      string  `json:"address"`
	AddressFound bool    `json:"address_found"`
}

// GenerateID creates a deterministic ID for a club based on its name and path
func GenerateID(name, path string) string {
	h := sha1.New()
	h.Write([]byte(strings.TrimSpace(name) + "|" + path))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a Club with ID and URL populated. The URL is the base URL and
// path concatenated as-is.
func New(name string, lat, lon float64, path, baseURL string) *Club {
	return &Club{
		ID:        GenerateID(name, path),
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Path:      path,
		URL:       baseURL + path,
	}
}

// SetAddress records the address scraped from the detail page
func (c *Club) SetAddress(address string) {
	c.Address = address
	c.AddressFound = true
}

// MarkAddressNotFound records that the detail page could not be fetched
func (c *Club) MarkAddressNotFound() {
	c.Address = AddressNotFound
	c.AddressFound = false
}

// Point returns the club's location as an orb.Point (lon, lat order)
func (c *Club) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}
