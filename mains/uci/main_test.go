package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func run(t *testing.T, input string) []string {
	t.Helper()
	var out bytes.Buffer
	d := newUciDriver(&out, zerolog.Nop())
	d.loop(strings.NewReader(input))
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func last(lines []string) string { return lines[len(lines)-1] }

func TestHandshake(t *testing.T) {
	lines := run(t, "uci\nisready\n")
	if lines[len(lines)-2] != "uciok" || last(lines) != "readyok" {
		t.Errorf("unexpected handshake: %q", lines)
	}
}

func TestGoFindsMate(t *testing.T) {
	lines := run(t, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 2\nquit\n")
	if last(lines) != "bestmove a1a8" {
		t.Errorf("expected bestmove a1a8, got %q", lines)
	}
	if !strings.Contains(lines[len(lines)-2], "score cp 32767") {
		t.Errorf("expected a mate score, got %q", lines[len(lines)-2])
	}
}

func TestPositionWithMoves(t *testing.T) {
	// Kxb2 is the only legal move
	lines := run(t, "position fen k7/8/8/8/8/8/1q6/K7 w - - 0 1\ngo depth 1\n")
	if last(lines) != "bestmove a1b2" {
		t.Errorf("expected bestmove a1b2, got %q", lines)
	}

	lines = run(t, "position startpos moves e2e4 e7e5\nsetoption name depth value 1\ngo\n")
	if !strings.HasPrefix(last(lines), "bestmove ") || last(lines) == "bestmove 0000" {
		t.Errorf("expected a move, got %q", lines)
	}
}

func TestCheckmatedSideResigns(t *testing.T) {
	lines := run(t, "position fen rnbqkbnr/ppppp2p/8/5ppQ/4PP2/8/PPPP2PP/RNB1KBNR b KQkq - 1 3\ngo depth 2\n")
	if last(lines) != "bestmove 0000" {
		t.Errorf("expected resignation, got %q", lines)
	}
}

func TestBadCommandsReport(t *testing.T) {
	lines := run(t, "position moves e2e4\nsetoption name bogus value 1\nflibble\n")
	if len(lines) != 3 {
		t.Fatalf("expected three reports, got %q", lines)
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "info string") {
			t.Errorf("expected an info string, got %q", l)
		}
	}
}

func TestAllowedTime(t *testing.T) {
	if got := allowedTimeMs(16000, 0); got != 1000 {
		t.Errorf("expected 1000ms, got %d", got)
	}
	if got := allowedTimeMs(10, 50); got != 50 {
		t.Errorf("expected the increment, got %d", got)
	}
}
