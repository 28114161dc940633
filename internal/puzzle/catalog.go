// Package puzzle provides the built-in puzzle catalog and a Session that
// checks a player's moves against a puzzle's solution.
package puzzle

import (
	_ "embed"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/errors"
)

//go:embed catalog.yaml
var builtin []byte

// Puzzle is a starting layout, the side to move and the expected line.
// Solution alternates the solver's moves and the scripted replies, in
// plain SAN, starting with the solver.
type Puzzle struct {
	Name     string       `yaml:"name"`
	ToMove   chess.Colour `yaml:"to_move"`
	Solution []string     `yaml:"solution"`
	Pieces   []string     `yaml:"pieces"`
}

// Layout parses the puzzle's pieces.
func (p Puzzle) Layout() ([]*chess.Piece, error) {
	return chess.ParseLayout(p.Pieces)
}

// Catalog is an ordered, name-indexed set of puzzles.
type Catalog struct {
	puzzles []Puzzle
	byName  map[string]int
}

type catalogFile struct {
	Puzzles []Puzzle `yaml:"puzzles"`
}

// Builtin returns the catalog compiled into the binary.
func Builtin() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a YAML catalog and checks every layout.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, pkgerrors.WithStack(&errors.ParseError{Err: err, File: "catalog"})
	}
	c := &Catalog{byName: make(map[string]int, len(file.Puzzles))}
	for _, p := range file.Puzzles {
		if err := c.add(p); err != nil {
			return nil, pkgerrors.WithStack(err)
		}
	}
	return c, nil
}

func (c *Catalog) add(p Puzzle) error {
	if p.Name == "" {
		return fmt.Errorf("puzzle %d has no name", len(c.puzzles)+1)
	}
	if _, dup := c.byName[p.Name]; dup {
		return fmt.Errorf("puzzle %q listed twice", p.Name)
	}
	if len(p.Solution) == 0 {
		return fmt.Errorf("puzzle %q has no solution", p.Name)
	}
	if _, err := p.Layout(); err != nil {
		return errors.Wrapf(err, "puzzle %q", p.Name)
	}
	c.byName[p.Name] = len(c.puzzles)
	c.puzzles = append(c.puzzles, p)
	return nil
}

// Get looks a puzzle up by name.
func (c *Catalog) Get(name string) (Puzzle, error) {
	i, ok := c.byName[name]
	if !ok {
		return Puzzle{}, fmt.Errorf("%q: %w", name, errors.ErrUnknownPuzzle)
	}
	return c.puzzles[i], nil
}

// Names lists the puzzles in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.puzzles))
	for i, p := range c.puzzles {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of puzzles.
func (c *Catalog) Len() int {
	return len(c.puzzles)
}
