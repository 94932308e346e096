package main

import "github.com/pfrederiksen/golfriket-clubs/internal/cli"

func main() {
	cli.Execute()
}
