// chess-replay replays SAN movetext, one game per line, and reports how
// each game ended.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/config"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
	"github.com/lgbarn/chess-rules-go/internal/logging"
	"github.com/lgbarn/chess-rules-go/internal/worker"
)

const programVersion = "0.1.0"

// maxLineBytes bounds one movetext line.
const maxLineBytes = 1 << 20

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("chess-replay version %s\n", programVersion)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Options(), os.Stderr)
	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	out := setupOutputFile()
	if c, ok := out.(io.Closer); ok && out != os.Stdout {
		defer c.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs, err := collectJobs(flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	games, err := gameWriter(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rep := &reporter{
		out:         out,
		games:       games,
		showFEN:     *showFEN,
		showMoves:   *showMoves,
		showDups:    *showDups,
		checkResult: *checkResult,
		seen:        hashing.NewThreadSafeTable(),
	}
	outcomes := worker.Run(ctx, jobs, rep.process(worker.Replay(engine.WithLogger(logger))),
		worker.WithWorkers(cfg.Replay.Workers),
		worker.WithBufferSize(cfg.Replay.BufferSize),
	)
	failures := rep.report(outcomes)

	if !*quiet {
		reportStatistics(len(jobs), len(outcomes), failures)
	}
	if failures.ErrorOrNil() != nil {
		logger.Debug("replay failures", zap.Error(failures))
		if *strictMode {
			os.Exit(1)
		}
	}
}

// loadConfig reads -config if given, otherwise the defaults plus environment.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return nil, err
		}
	} else {
		cfg = config.NewConfig()
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return nil, err
		}
	}
	applyFlags(cfg)
	return cfg, cfg.Validate()
}

// setupOutputFile opens -o, or returns stdout.
func setupOutputFile() io.Writer {
	if *outputFile == "" {
		return os.Stdout
	}
	file, err := os.Create(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
	return file
}

// collectJobs reads every named file, or stdin when none are given.
func collectJobs(args []string, stdin io.Reader) ([]worker.Job, error) {
	if len(args) == 0 {
		return readJobs(stdin, "stdin", 0)
	}

	var jobs []worker.Job
	var errs *multierror.Error
	for _, filename := range args {
		file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		more, err := readJobs(file, filename, len(jobs))
		file.Close() //nolint:errcheck,gosec // read-only file
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		jobs = append(jobs, more...)
	}
	return jobs, errs.ErrorOrNil()
}

// readJobs turns each non-blank line not starting with '#' into a job.
// Indices continue from base.
func readJobs(r io.Reader, name string, base int) ([]worker.Job, error) {
	var jobs []worker.Job
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		jobs = append(jobs, worker.Job{
			Index:  base + len(jobs),
			Source: fmt.Sprintf("%s:%d", name, line),
			Text:   text,
		})
	}
	if err := sc.Err(); err != nil {
		return jobs, &errors.ParseError{Err: err, File: name, Line: line + 1}
	}
	return jobs, nil
}

// reportStatistics prints the final statistics to stderr.
func reportStatistics(total, replayed int, failures *multierror.Error) {
	failed := 0
	if failures != nil {
		failed = len(failures.Errors)
	}
	fmt.Fprintf(os.Stderr, "%d game(s) replayed out of %d, %d with errors.\n", replayed, total, failed)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chess-replay [options] [input-files...]\n\n")
	fmt.Fprintf(os.Stderr, "Replays SAN movetext (one game per line) and reports each result.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nOutput columns:\n")
	fmt.Fprintf(os.Stderr, "  source  file:line of the game\n")
	fmt.Fprintf(os.Stderr, "  score   1-0, 0-1, 1/2-1/2 or * if unfinished\n")
	fmt.Fprintf(os.Stderr, "  reason  how the game ended, if it did\n")
	fmt.Fprintf(os.Stderr, "  plies   number of moves replayed\n")
}
