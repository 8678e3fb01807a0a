// Opening book: position -> move, keyed on the first three FEN fields
// (placement, side to move, castling rights).

package book

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/samber/lo"
)

//go:embed openings.json
var seed []byte

// A named line of play in SAN, e.g. "e4 e5 Nf3"
type Line struct {
	Name  string `json:"name"`
	Moves string `json:"moves"`
}

type file struct {
	Lines     []Line            `json:"lines,omitempty"`
	Positions map[string]string `json:"positions,omitempty"`
}

type Book struct {
	moves map[string]string // key -> uci
}

func New() *Book {
	return &Book{moves: make(map[string]string)}
}

// Default is the built-in book.
func Default() (*Book, error) {
	return Load(bytes.NewReader(seed))
}

// Load reads a book in JSON. Lines are replayed first, so explicit
// positions override them.
func Load(r io.Reader) (*Book, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("book: decode: %w", err)
	}
	b := New()
	for _, line := range f.Lines {
		if err := b.AddLine(line); err != nil {
			return nil, err
		}
	}
	for key, uci := range f.Positions {
		if _, err := dragon.ParseMove(uci); err != nil {
			return nil, fmt.Errorf("book: bad move %q for %q: %w", uci, key, err)
		}
		b.moves[Key(key)] = uci
	}
	return b, nil
}

// AddLine replays a SAN line from the start position. Each position on the
// line maps to the move played from it unless the book already has one.
func (b *Book) AddLine(line Line) error {
	game := chess.NewGame()
	for i, san := range strings.Fields(line.Moves) {
		before := game.Position()
		if err := game.MoveStr(san); err != nil {
			return fmt.Errorf("book: %s: move %d %q: %w", line.Name, i+1, san, err)
		}
		moves := game.Moves()
		uci := chess.UCINotation{}.Encode(before, moves[len(moves)-1])

		key := Key(before.String())
		if _, ok := b.moves[key]; !ok {
			b.moves[key] = uci
		}
	}
	return nil
}

// Add records a move for a position given as FEN or fingerprint.
func (b *Book) Add(fen string, uci string) {
	b.moves[Key(fen)] = uci
}

// Lookup returns the book move for a position. The caller checks legality.
func (b *Book) Lookup(fingerprint string) (dragon.Move, bool) {
	uci, ok := b.moves[Key(fingerprint)]
	if !ok {
		return 0, false
	}
	m, err := dragon.ParseMove(uci)
	if err != nil {
		return 0, false
	}
	return m, true
}

func (b *Book) Len() int { return len(b.moves) }

// WriteJSON writes the book as explicit positions, sorted by key.
func (b *Book) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(file{Positions: lo.Assign(b.moves)})
}

// Key trims a FEN or fingerprint to placement, side to move and castling.
func Key(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}
