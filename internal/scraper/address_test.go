package scraper

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/pfrederiksen/golfriket-clubs/internal/club"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "single pair",
			html: `<div style="float:left;width:80px">Street</div><div>Main 1</div>`,
			want: "Street: Main 1",
		},
		{
			name: "multiple pairs in document order",
			html: `<div style="float:left;width:80px">Street</div><div>Main 1</div>
				<div style="float:left;width:80px">City</div><div>Ale</div>`,
			want: "Street: Main 1, City: Ale",
		},
		{
			name: "no labels yields empty string",
			html: `<div>Street</div><div>Main 1</div>`,
			want: "",
		},
		{
			name: "label without sibling div",
			html: `<div><div style="float:left;width:80px">Phone</div></div>`,
			want: "Phone:",
		},
		{
			name: "whitespace trimmed",
			html: `<div style="float:left;width:80px">  Street </div><div>
				Main 1
			</div>`,
			want: "Street: Main 1",
		},
		{
			name: "marker as part of longer style",
			html: `<div style="color:red;float:left;width:80px;margin:0">Zip</div><div>123 45</div>`,
			want: "Zip: 123 45",
		},
		{
			name: "spaced style does not match",
			html: `<div style="float: left; width: 80px">Street</div><div>Main 1</div>`,
			want: "",
		},
		{
			name: "non-div siblings skipped",
			html: `<div style="float:left;width:80px">Street</div><span>x</span><div>Main 1</div>`,
			want: "Street: Main 1",
		},
		{
			name: "inline children joined without whitespace",
			html: `<div style="float:left;width:80px">Post <b>nr</b></div><div>449 <i>51</i></div>`,
			want: "Postnr: 44951",
		},
		{
			name: "whitespace inside a text node kept",
			html: `<div style="float:left;width:80px">Adress</div><div>  Färdvägen 1  </div>`,
			want: "Adress: Färdvägen 1",
		},
		{
			name: "comments ignored",
			html: `<div style="float:left;width:80px">Ort<!-- city --></div><div>Ale</div>`,
			want: "Ort: Ale",
		},
		{
			name: "entities decoded",
			html: `<div style="float:left;width:80px">Namn</div><div>Bro &amp; Bålsta</div>`,
			want: "Namn: Bro & Bålsta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAddress(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("ExtractAddress() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractAddress_Fixture(t *testing.T) {
	got, err := ExtractAddress(openFixture(t, "club_detail.html"))
	if err != nil {
		t.Fatalf("ExtractAddress() error: %v", err)
	}

	want := "Adress: Färdvägen 1, Postnr: 449 51, Ort: Nödinge"
	if got != want {
		t.Errorf("ExtractAddress() = %q, want %q", got, want)
	}
}

type stubFetcher struct {
	pages map[string]string
	err   error
	calls []string
}

func (f *stubFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.pages[url]
	if !ok {
		return nil, errors.New("no such page")
	}
	return []byte(body), nil
}

func TestFetchAddress(t *testing.T) {
	tests := []struct {
		name      string
		fetcher   *stubFetcher
		wantAddr  string
		wantFound bool
	}{
		{
			name: "address found",
			fetcher: &stubFetcher{pages: map[string]string{
				"https://example.com/alpha": `<div style="float:left;width:80px">Street</div><div>Main 1</div>`,
			}},
			wantAddr:  "Street: Main 1",
			wantFound: true,
		},
		{
			name: "page without labels",
			fetcher: &stubFetcher{pages: map[string]string{
				"https://example.com/alpha": `<p>hello</p>`,
			}},
			wantAddr:  "",
			wantFound: true,
		},
		{
			name:      "network failure",
			fetcher:   &stubFetcher{err: errors.New("connection refused")},
			wantAddr:  club.AddressNotFound,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.fetcher, "https://example.com", "")
			c := club.New("Alpha Club", 59.1, 18.2, "/alpha", "https://example.com")

			s.FetchAddress(context.Background(), c)

			if c.Address != tt.wantAddr {
				t.Errorf("Address = %q, want %q", c.Address, tt.wantAddr)
			}
			if c.AddressFound != tt.wantFound {
				t.Errorf("AddressFound = %v, want %v", c.AddressFound, tt.wantFound)
			}
			if len(tt.fetcher.calls) != 1 || tt.fetcher.calls[0] != c.URL {
				t.Errorf("fetcher calls = %v, want [%s]", tt.fetcher.calls, c.URL)
			}
		})
	}
}

func TestScrape_SequentialOrder(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://example.com/golfklubbar/": `<script>var locations = [["A",1,2,0,"/a"],["B",3,4,0,"/b"],["C",5,6,0,"/c"]];</script>`,
		"https://example.com/a":            `<p></p>`,
		"https://example.com/b":            `<p></p>`,
		"https://example.com/c":            `<p></p>`,
	}}

	clubs, err := New(f, "https://example.com", "").Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape() error: %v", err)
	}
	if len(clubs) != 3 {
		t.Fatalf("Scrape() returned %d clubs, want 3", len(clubs))
	}

	want := []string{
		"https://example.com/golfklubbar/",
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}
	if strings.Join(f.calls, " ") != strings.Join(want, " ") {
		t.Errorf("fetch order = %v, want %v", f.calls, want)
	}
}

// cancellingFetcher cancels the run the first time a page other than the
// listing is requested
type cancellingFetcher struct {
	stubFetcher
	listingURL string
	cancel     context.CancelFunc
}

func (f *cancellingFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if url != f.listingURL {
		f.cancel()
		f.calls = append(f.calls, url)
		return nil, ctx.Err()
	}
	return f.stubFetcher.Get(ctx, url)
}

func TestScrape_CancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listingURL := "https://example.com/golfklubbar/"
	f := &cancellingFetcher{
		stubFetcher: stubFetcher{pages: map[string]string{
			listingURL: `<script>var locations = [["A",1,2,0,"/a"],["B",3,4,0,"/b"],["C",5,6,0,"/c"]];</script>`,
		}},
		listingURL: listingURL,
		cancel:     cancel,
	}

	clubs, err := New(f, "https://example.com", "").Scrape(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Scrape() error = %v, want context.Canceled", err)
	}
	if clubs != nil {
		t.Errorf("Scrape() returned %d clubs after cancellation, want nil", len(clubs))
	}

	want := []string{listingURL, "https://example.com/a"}
	if strings.Join(f.calls, " ") != strings.Join(want, " ") {
		t.Errorf("fetch calls = %v, want %v", f.calls, want)
	}
}

func TestFetchAddress_CancelledLeavesClubUntouched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(&stubFetcher{err: context.Canceled}, "https://example.com", "")
	c := club.New("Alpha Club", 59.1, 18.2, "/alpha", "https://example.com")

	s.FetchAddress(ctx, c)

	if c.Address != "" || c.AddressFound {
		t.Errorf("club after cancelled fetch = (%q, found=%v), want untouched", c.Address, c.AddressFound)
	}
}
