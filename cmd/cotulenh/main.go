// cotulenh is a command-line front end for the CoTuLenh rules engine:
// it sets up a position, applies moves, and reports legal moves, game
// state, and FEN output.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mnoyd/cotulenh-go/internal/engine"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}
	if *version {
		fmt.Printf("cotulenh version %s\n", programVersion)
		os.Exit(0)
	}

	logger := setupLogger()

	pos, err := setupPosition(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := applyMoves(pos); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *perftFlag > 0 {
		fmt.Printf("perft(%d) = %d\n", *perftFlag, engine.CountMoves(pos, *perftFlag))
		return
	}

	if !*noBoard {
		fmt.Print(pos)
	}
	if *legalFlag {
		printLegalMoves(pos)
	}
	if *fenOut {
		fmt.Println(pos.ToFEN())
	}
	reportGameState(pos)
}

// setupLogger builds a console logger at the level the -v flag selects.
func setupLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case *verbosity >= 2:
		level = zerolog.DebugLevel
	case *verbosity == 1:
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// setupPosition creates the starting position from the -fen flag, or the
// initial position when the flag is empty.
func setupPosition(logger zerolog.Logger) (*engine.Position, error) {
	if *fenFlag == "" {
		return engine.NewPosition().WithLogger(logger), nil
	}
	pos, err := engine.NewPositionFromFEN(*fenFlag)
	if err != nil {
		return nil, err
	}
	return pos.WithLogger(logger), nil
}

// applyMoves plays out the -moves list against the position.
func applyMoves(pos *engine.Position) error {
	if *movesFlag == "" {
		return nil
	}
	for _, text := range strings.Split(*movesFlag, ",") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		m, err := engine.ParseMove(pos, text)
		if err != nil {
			return err
		}
		if err := pos.ApplyMove(m); err != nil {
			return err
		}
	}
	return nil
}

func printLegalMoves(pos *engine.Position) {
	moves := pos.LegalMoves(engine.NoFilter)
	fmt.Printf("%d legal moves:\n", len(moves))
	for _, m := range moves {
		fmt.Printf("  %s\n", engine.FormatMove(m))
	}
}

func reportGameState(pos *engine.Position) {
	switch {
	case pos.IsCheckmate():
		fmt.Printf("%s is checkmated\n", pos.Turn())
	case pos.IsStalemate():
		fmt.Printf("%s is stalemated\n", pos.Turn())
	case pos.IsCheck():
		fmt.Printf("%s is in check\n", pos.Turn())
	}
	if pos.IsDraw() {
		fmt.Println("drawn position")
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: cotulenh [options]\n\n")
	fmt.Fprintf(os.Stderr, "A rules engine for CoTuLenh (Commander Chess).\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nMove notation:\n")
	fmt.Fprintf(os.Stderr, "  Tf6-g6   normal move      Tf6xg7   capture\n")
	fmt.Fprintf(os.Stderr, "  Af3_g5   stay capture     Fe4@g5   suicide capture\n")
	fmt.Fprintf(os.Stderr, "  T>g6     deploy from an active stack\n")
	fmt.Fprintf(os.Stderr, "  Tf6&g6   combination      T>&g6    recombination\n")
}
