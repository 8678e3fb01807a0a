// Board state for the search, backed by dragontoothmg.
// The search borrows a Position exclusively and mutates it in place with
// paired Apply/Undo calls.

package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
)

const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const NoMove dragon.Move = 0

var ErrIllegalMove = errors.New("position: move is not legal here")
var ErrNothingToUndo = errors.New("position: nothing to undo")

type Position struct {
	board dragon.Board

	// One entry per Apply/ApplyNull, popped by Undo
	undos []func()

	// Legal moves of the current board, generated lazily
	moves      []dragon.Move
	movesValid bool
}

// New returns the standard starting position.
func New() *Position {
	p, _ := FromFen(Startpos)
	return p
}

// FromFen parses a FEN string. Missing clock fields default to "0 1".
func FromFen(fen string) (p *Position, err error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 || len(fields) > 6 {
		return nil, fmt.Errorf("position: malformed fen %q", fen)
	}
	if fields[1] != "w" && fields[1] != "b" {
		return nil, fmt.Errorf("position: bad side to move in fen %q", fen)
	}
	if strings.Count(fields[0], "/") != 7 {
		return nil, fmt.Errorf("position: bad placement in fen %q", fen)
	}
	defaults := []string{"", "", "-", "-", "0", "1"}
	for len(fields) < 6 {
		fields = append(fields, defaults[len(fields)])
	}

	// dragontoothmg panics on garbage rather than returning an error
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("position: cannot parse fen %q: %v", fen, r)
		}
	}()

	return &Position{board: dragon.ParseFen(strings.Join(fields, " "))}, nil
}

// LegalMoves returns the legal moves in generation order.
// The slice is shared with the position and must not be modified.
func (p *Position) LegalMoves() []dragon.Move {
	if !p.movesValid {
		p.moves = p.board.GenerateLegalMoves()
		p.movesValid = true
	}
	return p.moves
}

func (p *Position) isLegal(m dragon.Move) bool {
	for _, legal := range p.LegalMoves() {
		if legal == m {
			return true
		}
	}
	return false
}

// Apply makes a legal move. Anything outside the legal move list is rejected
// and leaves the position untouched.
func (p *Position) Apply(m dragon.Move) error {
	if m == NoMove || !p.isLegal(m) {
		return fmt.Errorf("%w: %s in %s", ErrIllegalMove, MoveString(m), p.ToFen())
	}
	p.undos = append(p.undos, p.board.Apply(m))
	p.movesValid = false
	return nil
}

// ApplyNull passes the turn: the side to move flips and any en-passant
// square is cleared.
func (p *Position) ApplyNull() error {
	fields := strings.Fields(p.board.ToFen())
	if len(fields) != 6 {
		return fmt.Errorf("position: unexpected fen %q", p.board.ToFen())
	}
	halfmove, _ := strconv.Atoi(fields[4])
	fullmove, _ := strconv.Atoi(fields[5])
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
		fullmove++
	}
	fields[3] = "-"
	fields[4] = strconv.Itoa(halfmove + 1)
	fields[5] = strconv.Itoa(fullmove)

	passed, err := FromFen(strings.Join(fields, " "))
	if err != nil {
		return err
	}

	saved := p.board
	p.board = passed.board
	p.undos = append(p.undos, func() { p.board = saved })
	p.movesValid = false
	return nil
}

// Undo reverts the most recent Apply or ApplyNull.
func (p *Position) Undo() {
	n := len(p.undos)
	if n == 0 {
		panic(ErrNothingToUndo)
	}
	unapply := p.undos[n-1]
	p.undos = p.undos[:n-1]
	unapply()
	p.movesValid = false
}

// Depth of the undo stack
func (p *Position) Applied() int { return len(p.undos) }

// IsTerminal is true on checkmate or stalemate.
func (p *Position) IsTerminal() bool { return len(p.LegalMoves()) == 0 }

func (p *Position) InCheck() bool { return p.board.OurKingInCheck() }

func (p *Position) WhiteToMove() bool { return p.board.Wtomove }

// Ply counts half-moves from the start of the game, derived from the
// full-move number.
func (p *Position) Ply() int {
	ply := (int(p.board.Fullmoveno) - 1) * 2
	if !p.board.Wtomove {
		ply++
	}
	return ply
}

func (p *Position) HalfmoveClock() int { return int(p.board.Halfmoveclock) }

// Fingerprint identifies the position exactly: placement, side to move,
// castling rights and en-passant square. Move counters are left out so that
// transpositions from different move orders match.
func (p *Position) Fingerprint() string {
	fields := strings.Fields(p.board.ToFen())
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// Hash is the dragontoothmg Zobrist key. It may collide; Fingerprint does not.
func (p *Position) Hash() uint64 { return p.board.Hash() }

func (p *Position) ToFen() string { return p.board.ToFen() }

func (p *Position) Bitboards() (*dragon.Bitboards, *dragon.Bitboards) {
	return &p.board.White, &p.board.Black
}

// ParseMove finds the legal move with the given UCI spelling.
func (p *Position) ParseMove(uci string) (dragon.Move, error) {
	uci = strings.ToLower(strings.TrimSpace(uci))
	for _, m := range p.LegalMoves() {
		if MoveString(m) == uci {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, uci, p.ToFen())
}

// Clone copies the board but not the undo history.
func (p *Position) Clone() *Position {
	return &Position{board: p.board}
}

func MoveString(m dragon.Move) string {
	if m == NoMove {
		return "0000"
	}
	return m.String()
}
