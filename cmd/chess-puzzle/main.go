// chess-puzzle plays the built-in puzzles on the terminal. Moves are read
// one per line in SAN; "retry" restarts the puzzle and "quit" leaves.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/config"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/logging"
	"github.com/lgbarn/chess-rules-go/internal/puzzle"
)

const programVersion = "0.1.0"

var (
	configFile = flag.String("config", "", "YAML configuration file")
	listOnly   = flag.Bool("list", false, "List the built-in puzzles and exit")
	name       = flag.String("p", "", "Puzzle to play (default: the first)")
	mute       = flag.Bool("mute", false, "Do not print sound cues")
	symbols    = flag.Bool("symbols", false, "Print moves with piece symbols")
	logLevel   = flag.String("loglevel", "", "Log level: debug, info, warn, error")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("chess-puzzle version %s\n", programVersion)
		os.Exit(0)
	}

	catalog := puzzle.Builtin()
	if *listOnly {
		for _, n := range catalog.Names() {
			fmt.Println(n)
		}
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *mute {
		cfg.Engine.PlaySounds = false
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	logger := logging.New(cfg.Log.Options(), os.Stderr)
	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	p, err := pick(catalog, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	status, err := play(p, cfg.Engine, logger, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if status != puzzle.Solved {
		os.Exit(2)
	}
}

// pick returns the named puzzle, or the first one when name is empty.
func pick(c *puzzle.Catalog, name string) (puzzle.Puzzle, error) {
	if name == "" {
		names := c.Names()
		if len(names) == 0 {
			return puzzle.Puzzle{}, errors.ErrUnknownPuzzle
		}
		name = names[0]
	}
	return c.Get(name)
}

// console serialises output; the delayed checkmate cue arrives on a timer
// goroutine.
type console struct {
	mu  sync.Mutex
	out io.Writer
}

func (c *console) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// play runs one puzzle attempt reading moves from in until it is solved,
// failed, or the input ends.
func play(p puzzle.Puzzle, ec config.EngineConfig, logger *zap.Logger, in io.Reader, out io.Writer) (puzzle.Status, error) {
	con := &console{out: out}
	listener := engine.ListenerFuncs{
		OnMove: func(rec chess.MoveRecord) {
			con.printf("%d. %s\n", rec.Count, rec.Format(*symbols))
		},
		OnSound: func(kind engine.SoundKind) {
			con.printf("[%s]\n", kind)
		},
	}
	s, err := puzzle.NewSession(p, listener,
		puzzle.WithLogger(logger),
		puzzle.WithSounds(ec.PlaySounds),
		puzzle.WithEngineOptions(engine.WithCheckmateCueDelay(ec.CheckmateCueDelay)),
	)
	if err != nil {
		return puzzle.Playing, err
	}

	con.printf("%s: %s to move\n%s\n", p.Name, p.ToMove, s.Game().Board())
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		switch text {
		case "":
			continue
		case "quit":
			return s.Status(), nil
		case "retry":
			if err := s.Retry(); err != nil {
				return s.Status(), err
			}
			con.printf("%s\n", s.Game().Board())
			continue
		}

		status, err := s.PlaySAN(text)
		switch {
		case errors.Is(err, errors.ErrUnparsableMove), errors.Is(err, errors.ErrIllegalMove):
			con.printf("%v\n", err)
			continue
		case err != nil:
			return status, err
		}
		switch status {
		case puzzle.Solved:
			con.printf("solved\n")
			return status, nil
		case puzzle.Failed:
			con.printf("failed (type retry to start again)\n")
		}
	}
	return s.Status(), sc.Err()
}
