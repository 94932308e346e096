package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/golfriket-clubs/internal/club"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult summarises one scrape run
type OutputResult struct {
	ScrapedAt     time.Time    `json:"scraped_at"`
	ListingURL    string       `json:"listing_url"`
	Output        string       `json:"output"`
	ClubCount     int          `json:"club_count"`
	AddressFound  int          `json:"address_found"`
	AddressFailed int          `json:"address_failed"`
	Duration      string       `json:"duration"`
	Clubs         []*club.Club `json:"clubs,omitempty"`
}

// NewOutputResult counts address outcomes for clubs
func NewOutputResult(clubs []*club.Club, listingURL, output string, elapsed time.Duration) *OutputResult {
	result := &OutputResult{
		ScrapedAt:  time.Now().UTC(),
		ListingURL: listingURL,
		Output:     output,
		ClubCount:  len(clubs),
		Duration:   elapsed.Round(time.Millisecond).String(),
		Clubs:      clubs,
	}
	for _, c := range clubs {
		if c.AddressFound {
			result.AddressFound++
		} else {
			result.AddressFailed++
		}
	}
	return result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result, verbose)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON. Clubs are only listed when verbose.
func writeJSON(w io.Writer, result *OutputResult, verbose bool) error {
	out := *result
	if !verbose {
		out.Clubs = nil
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&out)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.ClubCount == 0 {
		fmt.Fprintf(w, "No clubs found at %s.\n", result.ListingURL)
		fmt.Fprintf(w, "Wrote empty table to %s\n", result.Output)
		return nil
	}

	if verbose {
		for i, c := range result.Clubs {
			fmt.Fprintf(w, "%3d. %s (%g, %g)\n", i+1, c.Name, c.Latitude, c.Longitude)
			fmt.Fprintf(w, "       URL: %s\n", c.URL)
			if c.Address != "" {
				fmt.Fprintf(w, "       Address: %s\n", c.Address)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Scraped %d clubs from %s in %s\n", result.ClubCount, result.ListingURL, result.Duration)
	fmt.Fprintf(w, "Addresses: %d fetched, %d not found\n", result.AddressFound, result.AddressFailed)
	fmt.Fprintf(w, "Saved to %s\n", result.Output)

	return nil
}
