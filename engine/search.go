package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog"

	"github.com/clanpj/abchess/position"
)

// Engine picks moves for one side of one game. The store carries the PV and
// the game's search time from one decision to the next. Not safe for
// concurrent use.
type Engine struct {
	store *SearchStore
	eval  Evaluator
	book  OpeningBook
	log   zerolog.Logger
}

type Option func(*Engine)

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithEvaluator(eval Evaluator) Option {
	return func(e *Engine) { e.eval = eval }
}

// WithBook enables opening book moves below SearchParams.BookPlies.
func WithBook(book OpeningBook) Option {
	return func(e *Engine) { e.book = book }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		store: NewSearchStore(),
		eval:  MaterialEvaluator{},
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Store() *SearchStore { return e.store }

type Result struct {
	Move     dragon.Move
	Score    EvalCp // from the perspective of the side to move
	Depth    int    // deepest completed iteration
	PV       []dragon.Move
	FromBook bool
	Elapsed  time.Duration
	Stats    SearchStatsT
}

// GenerateMove returns the move to play in pos.
func (e *Engine) GenerateMove(pos Position, params SearchParams) (dragon.Move, error) {
	res, err := e.Search(pos, params)
	return res.Move, err
}

// Search plays from the book if it can, otherwise searches pos by iterative
// deepening within the time budget. pos is restored before returning.
func (e *Engine) Search(pos Position, params SearchParams) (Result, error) {
	if move, ok := e.bookMove(pos, params); ok {
		e.log.Debug().Str("move", position.MoveString(move)).Int("ply", pos.Ply()).Msg("book-move")
		return Result{Move: move, FromBook: true}, nil
	}

	e.store.StartTurn()
	defer e.store.EndTurn()

	return e.deepen(pos, params)
}

// Book moves are only trusted if they are legal here
func (e *Engine) bookMove(pos Position, params SearchParams) (dragon.Move, bool) {
	if e.book == nil || pos.Ply() >= params.BookPlies {
		return NoMove, false
	}
	move, ok := e.book.Lookup(pos.Fingerprint())
	if !ok {
		return NoMove, false
	}
	if !slices.Contains(pos.LegalMoves(), move) {
		e.log.Warn().Str("move", position.MoveString(move)).Str("position", pos.Fingerprint()).Msg("illegal-book-move")
		return NoMove, false
	}
	return move, true
}

// Iterative deepening from depth 1 up to the target depth. The clock must
// already be armed.
func (e *Engine) deepen(pos Position, params SearchParams) (Result, error) {
	st := e.store
	s := newSearcher(pos, params, st, e.eval, e.log)
	target := targetDepth(params, st.totalSearchTime)

	res := Result{Move: NoMove}

	for depth := MinDepth; depth <= target; depth++ {
		if res.Move != NoMove {
			timedOut, err := st.timedOut(params.MaxTime)
			if err != nil {
				return res, err
			}
			if timedOut {
				break
			}
		}

		st.currDepth = depth
		move, eval, err := s.negAlphaBeta(depth, params.MaxDepth, 0, YourCheckMateEval, MyCheckMateEval, true)
		if err != nil {
			if s.skippable(err) {
				e.log.Warn().Err(err).Int("depth", depth).Msg("depth-failed")
				continue
			}
			return res, fmt.Errorf("engine: search at depth %d: %w", depth, err)
		}
		// An iteration cut short by the deadline still yields a move, but
		// doesn't count as a completed depth
		timedOut, err := st.timedOut(params.MaxTime)
		if err != nil {
			return res, err
		}
		if move != NoMove {
			res.Move, res.Score = move, eval
			if !timedOut {
				res.Depth = depth
			}
		}

		st.RefreshPV(pos)

		if params.DebugPrint >= 1 {
			elapsed, _ := st.Elapsed()
			e.log.Info().
				Int("depth", depth).
				Int("score", int(eval)).
				Uint64("nodes", st.stats.Nodes).
				Dur("elapsed", elapsed).
				Str("pv", pvString(st.pv)).
				Msg("depth-complete")
		}

		// Deeper search can't improve on a forced mate
		if res.Move != NoMove && isMateEval(res.Score) {
			break
		}
	}

	elapsed, err := st.Elapsed()
	if err != nil {
		return res, err
	}
	st.RefreshPV(pos)
	res.PV = slices.Clone(st.pv)
	res.Elapsed = elapsed
	res.Stats = st.stats

	if params.DebugPrint >= 1 {
		st.stats.Dump(e.log, res.Depth)
	}

	if res.Move == NoMove {
		return res, ErrNoMoveGenerated
	}
	return res, nil
}

// True iff the error leaves the caller free to fall back to a random move
func IsRecoverable(err error) bool {
	return err != nil && !errors.Is(err, ErrNoStartTime)
}
