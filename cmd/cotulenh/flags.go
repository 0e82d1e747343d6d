// flags.go - Command-line flag definitions
package main

import (
	"flag"
)

var (
	// Position input
	fenFlag   = flag.String("fen", "", "Starting position in FEN (default: initial position)")
	movesFlag = flag.String("moves", "", "Comma-separated moves to apply in long algebraic notation")

	// Actions
	legalFlag = flag.Bool("legal", false, "List the legal moves of the final position")
	perftFlag = flag.Int("perft", 0, "Count legal move sequences to the given depth")
	fenOut    = flag.Bool("output-fen", false, "Print the final position as FEN")
	noBoard   = flag.Bool("noboard", false, "Don't print the board diagram")

	// Diagnostics
	verbosity = flag.Int("v", 0, "Verbosity level (0 = warnings, 1 = info, 2 = debug)")
	version   = flag.Bool("version", false, "Print version and exit")
	help      = flag.Bool("h", false, "Show usage information")
)
