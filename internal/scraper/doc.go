// Package scraper provides HTTP fetching and HTML parsing for the golfriket.se club directory.
//
// The scraper fetches the public club listing page, finds the "locations" array
// assigned in one of its inline scripts and turns each entry into a club record.
// Each club's detail page is then fetched in turn and its address is read from
// the label/value div pairs the site lays out with a fixed-width float style.
package scraper
