// Package cli implements the command-line interface for golfriket-clubs.
//
// The cli package provides the Cobra-based root command. It resolves
// configuration, sets up logging, runs the scraper over the golfriket.se club
// directory, hands the clubs to the selected storage sinks and prints a run
// summary as text or JSON.
package cli
