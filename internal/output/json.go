package output

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// JSONGame represents a game in JSON format.
type JSONGame struct {
	Tags        map[string]string `json:"tags"`
	Moves       []JSONMove        `json:"moves,omitempty"`
	Result      string            `json:"result"`
	Termination string            `json:"termination,omitempty"`
	PlyCount    int               `json:"plyCount"`
	FinalFEN    string            `json:"finalFEN,omitempty"`
}

// JSONMove represents a move in JSON format.
type JSONMove struct {
	MoveNumber int          `json:"moveNumber"`
	Color      chess.Colour `json:"color"`
	SAN        string       `json:"san"`
	UCI        string       `json:"uci"`
	Piece      string       `json:"piece"`
	Capture    bool         `json:"capture,omitempty"`
	Promotion  string       `json:"promotion,omitempty"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// GameToJSON converts a game to JSON form. withFEN adds the final position.
func GameToJSON(g *Game, withFEN bool) *JSONGame {
	jg := &JSONGame{
		Tags:        copyTags(g.Tags),
		Result:      g.Result,
		Termination: g.Termination,
		PlyCount:    len(g.Records),
	}
	if jg.Result == "" {
		jg.Result = "*"
	}
	for i, rec := range g.Records {
		jm := JSONMove{
			MoveNumber: moveNumber(g.Records, i),
			Color:      rec.Colour(),
			SAN:        rec.Format(false),
			UCI:        rec.UCI(),
			Piece:      strings.ToLower(rec.Piece.Kind.String()),
			Capture:    rec.Capture,
		}
		if rec.Promotion != chess.NoKind {
			jm.Promotion = strings.ToLower(rec.Promotion.String())
		}
		jg.Moves = append(jg.Moves, jm)
	}
	if withFEN {
		jg.FinalFEN = g.FinalFEN
	}
	return jg
}

// copyTags copies game tags and ensures seven tag roster has values.
func copyTags(tags map[string]string) map[string]string {
	result := make(map[string]string, len(tags)+len(SevenTagRoster))
	for k, v := range tags {
		result[k] = v
	}
	for _, tag := range SevenTagRoster {
		if _, ok := result[tag]; !ok {
			result[tag] = "?"
		}
	}
	return result
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
