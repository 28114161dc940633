// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/lgbarn/chess-rules-go/internal/config"
	"github.com/lgbarn/chess-rules-go/internal/output"
)

var (
	// Input and output
	outputFile = flag.String("o", "", "Output file (default: stdout)")
	configFile = flag.String("config", "", "YAML configuration file")

	// Report contents
	showFEN   = flag.Bool("fen", false, "Print the final position as FEN")
	showMoves = flag.Bool("moves", false, "Print the replayed moves")
	showDups  = flag.Bool("D", false, "Mark games whose final layout was already seen")

	// Game output instead of report lines
	pgnOutput    = flag.Bool("pgn", false, "Write replayed games as PGN")
	jsonOutput   = flag.Bool("J", false, "Write replayed games as a JSON array")
	moveFormat   = flag.String("W", "san", "Move notation for -pgn: san, lalg, halg, uci")
	lineLength   = flag.Int("w", 80, "Maximum PGN movetext line length")
	sevenTagOnly = flag.Bool("7", false, "Write only the seven tag roster")

	// Validation
	strictMode  = flag.Bool("strict", false, "Exit with status 1 if any game fails to replay")
	checkResult = flag.Bool("checkresult", false, "Report games whose declared result differs from the replay")

	// Logging
	logLevel = flag.String("loglevel", "", "Log level: debug, info, warn, error")

	// Other options
	quiet   = flag.Bool("s", false, "Silent mode (no summary count)")
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")

	// Performance options
	workers    = flag.Int("workers", 0, "Number of worker goroutines (0 = from config)")
	bufferSize = flag.Int("buffer", 0, "Job queue buffer size (0 = from config)")
)

// applyFlags applies command-line flags to the configuration.
func applyFlags(cfg *config.Config) {
	if *workers > 0 {
		cfg.Replay.Workers = *workers
	}
	if *bufferSize > 0 {
		cfg.Replay.BufferSize = *bufferSize
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
}

// gameWriter returns the writer selected by -pgn or -J, or nil for report lines.
func gameWriter(w io.Writer) (output.GameWriter, error) {
	switch {
	case *pgnOutput && *jsonOutput:
		return nil, fmt.Errorf("-pgn and -J are mutually exclusive")
	case *jsonOutput:
		return output.NewJSONWriter(w, *showFEN), nil
	case *pgnOutput:
		notation, err := output.ParseNotation(*moveFormat)
		if err != nil {
			return nil, err
		}
		return output.NewPGNWriter(w, output.Options{
			Notation:      notation,
			MaxLineLength: *lineLength,
			SevenTagOnly:  *sevenTagOnly,
		}), nil
	}
	return nil, nil
}
