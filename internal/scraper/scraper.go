package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/golfriket-clubs/internal/club"
	"github.com/pfrederiksen/golfriket-clubs/internal/fetch"
	"github.com/pfrederiksen/golfriket-clubs/internal/literal"
	"github.com/pfrederiksen/golfriket-clubs/internal/logger"
	"golang.org/x/net/html"
)

const (
	BaseURL     = "https://www.golfriket.se"
	ListingPath = "/golfklubbar/"

	// locationsMarker must appear in a script before the pattern is tried
	locationsMarker = "var locations ="

	// labelStyle identifies the label half of an address row on a detail page
	labelStyle = "float:left;width:80px"
)

// locationsPattern captures the shortest bracketed span up to the first "];"
var locationsPattern = regexp.MustCompile(`(?s)var\s+locations\s*=\s*(\[.*?\]);`)

var (
	// ErrTupleTooShort is returned when a locations entry has fewer than 5 elements
	ErrTupleTooShort = errors.New("location tuple too short")
	// ErrFieldType is returned when a locations entry holds a value of the wrong type
	ErrFieldType = errors.New("location tuple field has wrong type")
)

// Fetcher is the subset of fetch.Fetcher the scraper needs
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Scraper handles fetching and parsing the club listing and detail pages
type Scraper struct {
	fetcher    Fetcher
	baseURL    string
	listingURL string
}

// New creates a new Scraper. Empty URLs fall back to the golfriket.se defaults.
func New(fetcher Fetcher, baseURL, listingURL string) *Scraper {
	if fetcher == nil {
		fetcher = fetch.New(fetch.Timeout)
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	if listingURL == "" {
		listingURL = baseURL + ListingPath
	}
	return &Scraper{
		fetcher:    fetcher,
		baseURL:    baseURL,
		listingURL: listingURL,
	}
}

// ListingURL returns the URL of the listing page
func (s *Scraper) ListingURL() string {
	return s.listingURL
}

// Scrape fetches the listing, then every club's detail page, and returns the
// clubs in listing order. A nil slice and nil error mean the listing had no
// locations array, or an empty one.
func (s *Scraper) Scrape(ctx context.Context) ([]*club.Club, error) {
	tuples, err := s.FetchLocations(ctx)
	if err != nil {
		return nil, err
	}
	if len(tuples) == 0 {
		logger.Info("Could not find the locations array in the script", nil)
		return nil, nil
	}

	logger.Info("Found clubs in the script", logger.Fields{"count": len(tuples)})
	logger.SetGauge("clubs.total", float64(len(tuples)))

	clubs := make([]*club.Club, 0, len(tuples))
	for i, t := range tuples {
		c, err := Assemble(t, s.baseURL)
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
		logger.IncrCounter("clubs.found")

		s.FetchAddress(ctx, c)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetching address for %q: %w", c.Name, err)
		}
		clubs = append(clubs, c)
	}

	return clubs, nil
}

// FetchLocations fetches the listing page and returns the raw location tuples
func (s *Scraper) FetchLocations(ctx context.Context) ([]literal.Tuple, error) {
	logger.Info("Fetching main page", logger.Fields{"url": s.listingURL})

	start := time.Now()
	body, err := s.fetcher.Get(ctx, s.listingURL)
	logger.RecordTiming("fetch.listing", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}

	return parseLocations(bytes.NewReader(body))
}

// parseLocations finds the first script assigning the locations array and parses it
func parseLocations(r io.Reader) ([]literal.Tuple, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var (
		tuples []literal.Tuple
		found  bool
		perr   error
	)

	doc.Find("script").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := sel.Text()
		if text == "" || !strings.Contains(text, locationsMarker) {
			return true
		}

		match := locationsPattern.FindStringSubmatch(text)
		if match == nil {
			return true
		}

		tuples, perr = literal.ParseTuples(match[1])
		found = true
		return false
	})

	if perr != nil {
		return nil, fmt.Errorf("parsing locations array: %w", perr)
	}
	if !found {
		logger.Info("Locations array not found in scripts", nil)
		return nil, nil
	}

	logger.Debug("Extracted locations array from script", logger.Fields{"count": len(tuples)})
	return tuples, nil
}

// Assemble maps a location tuple to a Club. Positions 0, 1, 2 and 4 are
// name, latitude, longitude and relative path. Position 3 is ignored.
func Assemble(t literal.Tuple, baseURL string) (*club.Club, error) {
	if len(t) < 5 {
		return nil, fmt.Errorf("%w: got %d elements, need 5", ErrTupleTooShort, len(t))
	}

	name, ok := t[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: name is %T", ErrFieldType, t[0])
	}
	lat, ok := toFloat(t[1])
	if !ok {
		return nil, fmt.Errorf("%w: latitude is %T", ErrFieldType, t[1])
	}
	lon, ok := toFloat(t[2])
	if !ok {
		return nil, fmt.Errorf("%w: longitude is %T", ErrFieldType, t[2])
	}
	path, ok := t[4].(string)
	if !ok {
		return nil, fmt.Errorf("%w: path is %T", ErrFieldType, t[4])
	}

	return club.New(name, lat, lon, path, baseURL), nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// FetchAddress fetches the club's detail page and fills in its address.
// Failures are logged and recorded as club.AddressNotFound; they never
// propagate. A cancelled ctx leaves the club untouched.
func (s *Scraper) FetchAddress(ctx context.Context, c *club.Club) {
	logger.Info("Fetching address", logger.Fields{"club": c.Name, "url": c.URL})

	start := time.Now()
	body, err := s.fetcher.Get(ctx, c.URL)
	logger.RecordTiming("fetch.detail", time.Since(start))

	if err == nil {
		var address string
		address, err = ExtractAddress(bytes.NewReader(body))
		if err == nil {
			c.SetAddress(address)
			logger.IncrCounter("clubs.address_found")
			logger.Info("Address found", logger.Fields{"club": c.Name, "address": c.Address})
			return
		}
	}

	if ctx.Err() != nil {
		logger.Info("Address fetch cancelled", logger.Fields{"club": c.Name})
		return
	}

	c.MarkAddressNotFound()
	logger.IncrCounter("clubs.address_failed")
	logger.Warn("Failed to fetch address", logger.Fields{"club": c.Name, "url": c.URL}, err)
}

// ExtractAddress reads "label: value" pairs from a detail page. A label is a
// div whose style contains labelStyle; its value is the next sibling div.
// A page without labels yields "".
func ExtractAddress(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	var b strings.Builder
	doc.Find("div").Each(func(i int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if !strings.Contains(style, labelStyle) {
			return
		}

		key := strippedText(sel)
		value := ""
		if next := sel.NextAllFiltered("div").First(); next.Length() > 0 {
			value = strippedText(next)
		}
		fmt.Fprintf(&b, "%s: %s, ", key, value)
	})

	return strings.Trim(b.String(), ", "), nil
}

// strippedText joins the selection's text nodes after trimming each one, so
// "Post <b>nr</b>" reads "Postnr"
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}
