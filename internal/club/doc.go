// Package club provides the record type for a scraped golf club.
//
// A Club is created from one tuple of the listing page's locations array and
// receives its address once, after the club's detail page has been fetched.
// Each club is assigned a deterministic SHA1-based ID generated from its name
// and relative page path so that sinks can key rows across runs.
package club
