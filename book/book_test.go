package book

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clanpj/abchess/engine"
	"github.com/clanpj/abchess/position"
)

func mustDefault(t *testing.T) *Book {
	t.Helper()
	b, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func lookupUCI(t *testing.T, b *Book, pos *position.Position) string {
	t.Helper()
	m, ok := b.Lookup(pos.Fingerprint())
	if !ok {
		t.Fatalf("no book move for %s", pos.Fingerprint())
	}
	return position.MoveString(m)
}

func play(t *testing.T, ucis ...string) *position.Position {
	t.Helper()
	pos := position.New()
	for _, uci := range ucis {
		m, err := pos.ParseMove(uci)
		if err != nil {
			t.Fatal(err)
		}
		if err := pos.Apply(m); err != nil {
			t.Fatal(err)
		}
	}
	return pos
}

func TestDefaultBook(t *testing.T) {
	b := mustDefault(t)
	if b.Len() < 50 {
		t.Errorf("expected a few dozen positions, got %d", b.Len())
	}

	// The first line through a position wins
	if got := lookupUCI(t, b, position.New()); got != "e2e4" {
		t.Errorf("expected e2e4 from the start, got %s", got)
	}
	if got := lookupUCI(t, b, play(t, "e2e4", "e7e5", "g1f3")); got != "b8c6" {
		t.Errorf("expected b8c6, got %s", got)
	}
	// Castling is written as a king move
	if got := lookupUCI(t, b, play(t, "e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5a4", "g8f6")); got != "e1g1" {
		t.Errorf("expected e1g1, got %s", got)
	}

	if _, ok := b.Lookup(play(t, "h2h4").Fingerprint()); ok {
		t.Errorf("expected no book move after h2h4")
	}
}

func TestDefaultBookMovesAreLegal(t *testing.T) {
	b := mustDefault(t)
	for key, uci := range b.moves {
		pos, err := position.FromFen(key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if _, err := pos.ParseMove(uci); err != nil {
			t.Errorf("%s: %v", key, err)
		}
	}
}

func TestLoadPositionsOverrideLines(t *testing.T) {
	src := `{
		"lines": [{"name": "Kings pawn", "moves": "e4 e5"}],
		"positions": {"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1": "d2d4"}
	}`
	b, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if got := lookupUCI(t, b, position.New()); got != "d2d4" {
		t.Errorf("expected d2d4, got %s", got)
	}
	if got := lookupUCI(t, b, play(t, "e2e4")); got != "e7e5" {
		t.Errorf("expected e7e5, got %s", got)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	for _, src := range []string{
		`not json`,
		`{"lines": [{"name": "bad", "moves": "e4 Ke7 Qh5 Ke6 Qxe6"}]}`,
		`{"positions": {"8/8/8/8/8/8/8/8 w - -": "zz"}}`,
	} {
		if _, err := Load(strings.NewReader(src)); err == nil {
			t.Errorf("expected an error for %s", src)
		}
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	b := mustDefault(t)
	var buf bytes.Buffer
	if err := b.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	again, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if again.Len() != b.Len() {
		t.Errorf("expected %d positions, got %d", b.Len(), again.Len())
	}
	for key, uci := range b.moves {
		if again.moves[key] != uci {
			t.Errorf("%s: expected %s, got %s", key, uci, again.moves[key])
		}
	}
}

func firstLegal(_ context.Context, fen string) (string, error) {
	pos, err := position.FromFen(fen)
	if err != nil {
		return "", err
	}
	return position.MoveString(pos.LegalMoves()[0]), nil
}

func TestGenerate(t *testing.T) {
	b := New()
	if err := Generate(context.Background(), b, 2, firstLegal, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	// Start position plus one per white reply
	if b.Len() != 21 {
		t.Errorf("expected 21 positions, got %d", b.Len())
	}
	for key, uci := range b.moves {
		pos, err := position.FromFen(key)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := pos.ParseMove(uci); err != nil {
			t.Errorf("%s: %v", key, err)
		}
	}
}

func TestGenerateSkipsFailedPosition(t *testing.T) {
	afterE4 := Key(play(t, "e2e4").ToFen())
	gen := func(ctx context.Context, fen string) (string, error) {
		if Key(fen) == afterE4 {
			return "", errors.New("no move")
		}
		return firstLegal(ctx, fen)
	}

	b := New()
	if err := Generate(context.Background(), b, 3, gen, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.moves[afterE4]; ok {
		t.Errorf("expected no entry for the failed position")
	}
	// The failed position's subtree is dropped, the rest of the book is kept
	if _, ok := b.moves[Key(play(t, "e2e4", "b8a6").ToFen())]; ok {
		t.Errorf("expected the failed position's replies to be skipped")
	}
	if _, ok := b.moves[Key(play(t, "d2d4").ToFen())]; !ok {
		t.Errorf("expected an entry after d2d4")
	}
	if _, ok := b.moves[Key(position.Startpos)]; !ok {
		t.Errorf("expected an entry for the start position")
	}
}

func TestGenerateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Generate(ctx, New(), 3, firstLegal, zerolog.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerateWithEngine(t *testing.T) {
	e := engine.NewEngine()
	params := engine.DefaultSearchParams()
	params.Depth = 1
	gen := func(_ context.Context, fen string) (string, error) {
		pos, err := position.FromFen(fen)
		if err != nil {
			return "", err
		}
		m, err := e.GenerateMove(pos, params)
		return position.MoveString(m), err
	}

	b := New()
	if err := Generate(context.Background(), b, 1, gen, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 1 {
		t.Fatalf("expected one position, got %d", b.Len())
	}

	// The engine plays the book move it was given
	res, err := engine.NewEngine(engine.WithBook(b)).Search(position.New(), params)
	if err != nil {
		t.Fatal(err)
	}
	if !res.FromBook || position.MoveString(res.Move) != b.moves[Key(position.Startpos)] {
		t.Errorf("expected the generated book move, got %s (book %v)", position.MoveString(res.Move), res.FromBook)
	}
}
