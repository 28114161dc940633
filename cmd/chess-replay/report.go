package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/lgbarn/chess-rules-go/internal/hashing"
	"github.com/lgbarn/chess-rules-go/internal/output"
	"github.com/lgbarn/chess-rules-go/internal/worker"
)

// reporter prints one line per replayed game, or the games themselves
// when games is set.
type reporter struct {
	out         io.Writer
	games       output.GameWriter
	showFEN     bool
	showMoves   bool
	showDups    bool
	checkResult bool
	// seen counts final layouts; workers record into it concurrently.
	seen *hashing.ThreadSafeTable
}

// process wraps fn so every replayed layout is counted.
func (r *reporter) process(fn worker.ProcessFunc) worker.ProcessFunc {
	return func(ctx context.Context, job worker.Job) worker.Outcome {
		o := fn(ctx, job)
		if r.showDups && len(o.Result.Records) > 0 {
			r.seen.Record(o.Result.LayoutHash)
		}
		return o
	}
}

// report writes the outcomes in order and collects their errors.
func (r *reporter) report(outcomes []worker.Outcome) *multierror.Error {
	var errs *multierror.Error
	firstSeen := make(map[uint64]string)

	for _, o := range outcomes {
		if r.games != nil {
			if err := r.games.WriteGame(r.game(o)); err != nil {
				errs = multierror.Append(errs, err)
			}
		} else {
			fmt.Fprintln(r.out, r.line(o, firstSeen))
		}
		if o.Err != nil {
			errs = multierror.Append(errs, o.Err)
		}
		if r.checkResult {
			if err := declaredMismatch(o); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	if r.games != nil {
		if err := r.games.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

// game converts an outcome for the game writer. Failed replays keep the
// moves that were played and note the failure in a ReplayError tag.
func (r *reporter) game(o worker.Outcome) *output.Game {
	g := output.FromReplay(o.Job.Source, o.Result)
	if o.Err != nil {
		g.Tags["ReplayError"] = o.Err.Error()
	}
	if r.checkResult && o.Result.Declared != "" {
		g.Tags["Declared"] = o.Result.Declared
	}
	if r.showFEN {
		g.Tags["FinalFEN"] = o.Result.FEN
	}
	return g
}

func (r *reporter) line(o worker.Outcome, firstSeen map[uint64]string) string {
	res := o.Result
	fields := []string{o.Job.Source, res.Score()}
	if res.Over {
		fields = append(fields, res.Outcome.Result.String())
	}
	fields = append(fields, fmt.Sprintf("plies=%d", len(res.Records)))

	if r.showDups && len(res.Records) > 0 && r.seen.Count(res.LayoutHash) > 1 {
		if first, ok := firstSeen[res.LayoutHash]; ok {
			fields = append(fields, "duplicate-of="+first)
		} else {
			firstSeen[res.LayoutHash] = o.Job.Source
		}
	}
	if r.checkResult {
		if err := declaredMismatch(o); err != nil {
			fields = append(fields, "declared="+res.Declared)
		}
	}
	if r.showFEN {
		fields = append(fields, "fen="+res.FEN)
	}
	if r.showMoves {
		sans := make([]string, len(res.Records))
		for i, rec := range res.Records {
			sans[i] = rec.Format(false)
		}
		fields = append(fields, "moves="+strings.Join(sans, " "))
	}
	if o.Err != nil {
		fields = append(fields, "error="+o.Err.Error())
	}
	return strings.Join(fields, "\t")
}

// declaredMismatch reports a finished game whose declared result disagrees
// with the replay. Unfinished replays are not checked: resignations and
// agreed draws leave no trace in the moves.
func declaredMismatch(o worker.Outcome) error {
	res := o.Result
	if o.Err != nil || !res.Over || res.Declared == "" || res.Declared == "*" {
		return nil
	}
	if res.Declared != res.Score() {
		return fmt.Errorf("%s: declared %s, replayed %s", o.Job.Source, res.Declared, res.Score())
	}
	return nil
}
