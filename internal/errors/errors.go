// Package errors provides sentinel errors and error types for the chess engine
// and the services built on it. It defines common error conditions and structured
// error types that preserve context while allowing error inspection with
// errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidSquare indicates a coordinate outside the 8x8 board.
	ErrInvalidSquare = errors.New("square out of range")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrUnparsableMove indicates move text that resolves to no unique piece.
	ErrUnparsableMove = errors.New("unparsable move")

	// ErrGameOver indicates a move submitted after the game ended.
	ErrGameOver = errors.New("game is over")

	// ErrMissingKing indicates a board without a King for one colour.
	ErrMissingKing = errors.New("king missing from board")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMatchNotFound indicates an unknown or finished match.
	ErrMatchNotFound = errors.New("match not found")

	// ErrNotParticipant indicates a client acting on a match it is not playing.
	ErrNotParticipant = errors.New("client is not a participant")

	// ErrNotYourTurn indicates a move from the side not to move.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrAlreadyQueued indicates a client joining the queue twice.
	ErrAlreadyQueued = errors.New("client already queued")

	// ErrUnknownPuzzle indicates a puzzle name missing from the catalog.
	ErrUnknownPuzzle = errors.New("unknown puzzle")
)

// MoveError wraps a rejected move with match and ply context.
type MoveError struct {
	Err      error  // The underlying error
	MatchID  string // Match the move was submitted to (if any)
	Ply      int    // 1-based ply the move would have been (0 if unknown)
	MoveText string // The submitted move text
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string

	if e.MatchID != "" {
		parts = append(parts, "match "+e.MatchID)
	}
	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}

	context := strings.Join(parts, ", ")
	if e.Err == nil {
		return context
	}
	if context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", context, e.Err)
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the MoveError wrapper.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing error with file location context.
// It's used for config files, puzzle catalogs and replay input.
type ParseError struct {
	Err  error  // The underlying error
	File string // Source file name
	Line int    // Line number (1-based)
	Got  string // What was found
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.File != "" {
		loc := e.File
		if e.Line > 0 {
			loc += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, loc)
	} else if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}
	if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %q", e.Got))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}
	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
