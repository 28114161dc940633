package output

import (
	"io"
	"sync"
)

// GameWriter is the interface for writing games to output.
// Different implementations handle different output formats (PGN, JSON, etc.).
type GameWriter interface {
	// WriteGame writes a single game to the output.
	WriteGame(g *Game) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close closes the writer and releases any resources.
	// For batch writers (like JSON), this also writes any pending output.
	Close() error
}

// PGNWriter writes games in PGN format.
type PGNWriter struct {
	mu   sync.Mutex
	w    io.Writer
	opts Options
}

// NewPGNWriter creates a new PGN writer.
func NewPGNWriter(w io.Writer, opts Options) *PGNWriter {
	return &PGNWriter{w: w, opts: opts}
}

// WriteGame writes a game in PGN format.
func (pw *PGNWriter) WriteGame(g *Game) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	WritePGN(pw.w, g, pw.opts)
	return nil
}

// Flush flushes the PGN writer (no-op for PGN as it writes immediately).
func (pw *PGNWriter) Flush() error {
	return nil
}

// Close closes the PGN writer.
func (pw *PGNWriter) Close() error {
	return nil
}

// JSONWriter writes games in JSON format.
// It buffers games and writes them as a JSON array on Close or Flush.
type JSONWriter struct {
	mu      sync.Mutex
	w       io.Writer
	withFEN bool
	games   []*JSONGame
	single  bool // If true, write each game immediately instead of batching
}

// NewJSONWriter creates a new JSON writer.
// By default, it batches games and writes them as an array on Close().
func NewJSONWriter(w io.Writer, withFEN bool) *JSONWriter {
	return &JSONWriter{w: w, withFEN: withFEN}
}

// NewJSONWriterSingle creates a JSON writer that writes each game immediately.
func NewJSONWriterSingle(w io.Writer, withFEN bool) *JSONWriter {
	return &JSONWriter{w: w, withFEN: withFEN, single: true}
}

// WriteGame buffers a game for JSON output (or writes immediately in single mode).
func (jw *JSONWriter) WriteGame(g *Game) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	jg := GameToJSON(g, jw.withFEN)
	if jw.single {
		return encodeJSON(jw.w, jg)
	}
	jw.games = append(jw.games, jg)
	return nil
}

// Flush writes all buffered games as a JSON array.
func (jw *JSONWriter) Flush() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.single || len(jw.games) == 0 {
		return nil
	}
	err := encodeJSON(jw.w, &JSONOutput{Games: jw.games})

	// Clear buffer after writing
	jw.games = nil
	return err
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}
