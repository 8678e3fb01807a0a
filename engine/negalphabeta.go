package engine

import (
	"errors"
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog"

	"github.com/clanpj/abchess/position"
)

// One decision's search over a borrowed position
type searcher struct {
	pos    Position
	params SearchParams
	store  *SearchStore
	eval   Evaluator
	log    zerolog.Logger
	stats  *SearchStatsT
}

func newSearcher(pos Position, params SearchParams, store *SearchStore, eval Evaluator, log zerolog.Logger) *searcher {
	return &searcher{pos: pos, params: params, store: store, eval: eval, log: log, stats: &store.stats}
}

func (s *searcher) timedOut() (bool, error) {
	return s.store.timedOut(s.params.MaxTime)
}

// A failed sub-search is skipped with handle_errors, except for a missing clock
func (s *searcher) skippable(err error) bool {
	return s.params.HandleErrors && !errors.Is(err, ErrNoStartTime)
}

// Try the null-move heuristic. Returns true on a fail-high, in which case
// the node scores beta.
func (s *searcher) nullMoveCut(depthToGo int, maxDepth int, depthFromRoot int, beta EvalCp, allowNull bool) (bool, error) {
	r := s.params.NullMoveReduction
	// A mate-valued beta can't fail high on a non-mate eval, and -beta+1 would overflow
	if depthFromRoot == 0 || depthToGo < 4 || r <= 0 || !allowNull || isMateEval(beta) || s.pos.InCheck() {
		return false, nil
	}

	if err := s.pos.ApplyNull(); err != nil {
		if s.skippable(err) {
			return false, nil
		}
		return false, fmt.Errorf("null move: %w", err)
	}
	_, eval, err := s.negAlphaBeta(depthToGo-1-r, maxDepth-1, depthFromRoot+1, -beta, -beta+1, false)
	s.pos.Undo()
	if err != nil {
		if s.skippable(err) {
			s.stats.SkippedErrors++
			return false, nil
		}
		return false, err
	}

	eval = -eval // back to our perspective
	return eval >= beta && !isMateEval(eval), nil
}

// Narrow the window from a TT hit at least as deep as this node.
// Returns true if the stored eval answers the node outright.
func (s *searcher) probeTT(depthToGo int, alpha EvalCp, beta EvalCp) (dragon.Move, EvalCp, EvalCp, EvalCp, bool) {
	entry, isHit := s.store.tt.Get(s.pos)
	if !isHit || entry.depthToGo < depthToGo {
		return NoMove, alpha, beta, 0, false
	}
	s.stats.TTHits++

	switch entry.evalType {
	case TTEvalExact:
		s.stats.TTTrueEvals++
		return entry.bestMove, alpha, beta, entry.eval, true
	case TTEvalLowerBound:
		alpha = max(alpha, entry.eval)
		if alpha >= beta {
			s.stats.TTBetaCuts++
			return entry.bestMove, alpha, beta, entry.eval, true
		}
	case TTEvalUpperBound:
		beta = min(beta, entry.eval)
		if alpha >= beta {
			s.stats.TTAlphaCuts++
			return entry.bestMove, alpha, beta, entry.eval, true
		}
	}
	return NoMove, alpha, beta, 0, false
}

func (s *searcher) updateTT(depthToGo int, origAlpha EvalCp, origBeta EvalCp, bestEval EvalCp, bestMove dragon.Move) {
	evalType := TTEvalExact
	if bestEval <= origAlpha {
		evalType = TTEvalUpperBound
	} else if origBeta <= bestEval {
		evalType = TTEvalLowerBound
	}
	s.store.tt.Put(s.pos, bestEval, bestMove, depthToGo, evalType)
}

// Return the best move and its eval from the perspective of the side to
// move. maxDepth is the hard recursion ceiling; depthToGo may be held back
// through forced lines but maxDepth always shrinks.
func (s *searcher) negAlphaBeta(depthToGo int, maxDepth int, depthFromRoot int, alpha EvalCp, beta EvalCp, allowNull bool) (dragon.Move, EvalCp, error) {
	timedOut, err := s.timedOut()
	if err != nil {
		return NoMove, 0, err
	}

	s.stats.Nodes++

	// Out of time - score this node as a leaf and let the parent bail
	if depthFromRoot > 0 && timedOut {
		s.stats.Timeouts++
		return NoMove, negaEval(s.eval, s.pos), nil
	}

	if depthToGo <= 0 || maxDepth <= 0 || s.pos.IsTerminal() {
		s.stats.Leafs++
		if s.pos.IsTerminal() {
			s.stats.Mates++
		}
		return NoMove, negaEval(s.eval, s.pos), nil
	}

	// Remember this to check whether our final eval is a lower or upper bound - for TT
	origAlpha, origBeta := alpha, beta

	ttMove, alpha, beta, ttEval, ttIsCut := s.probeTT(depthToGo, alpha, beta)
	if ttIsCut {
		return ttMove, ttEval, nil
	}

	isNullCut, err := s.nullMoveCut(depthToGo, maxDepth, depthFromRoot, beta, allowNull)
	if err != nil {
		return NoMove, 0, err
	}
	if isNullCut {
		s.stats.NullMoveCuts++
		return NoMove, beta, nil
	}

	s.stats.NonLeafs++
	if depthFromRoot < MaxDepthStats {
		s.stats.NonLeafsAt[depthFromRoot]++
	}

	moves := orderMoves(s.pos, s.pos.LegalMoves(), s.store)

	// Forced line - don't use up depth
	childDepthToGo := depthToGo - 1
	if len(moves) <= 3 {
		childDepthToGo = depthToGo
		s.stats.Extensions++
	}

	bestMove := NoMove
	bestEval := YourCheckMateEval
	nChildren := 0

	for _, move := range moves {
		if bestMove != NoMove {
			if timedOut, err = s.timedOut(); err != nil {
				return NoMove, 0, err
			} else if timedOut {
				break
			}
		}

		if err := s.pos.Apply(move); err != nil {
			if s.skippable(err) {
				s.stats.SkippedErrors++
				continue
			}
			return NoMove, 0, fmt.Errorf("apply %s: %w", position.MoveString(move), err)
		}
		_, eval, err := s.negAlphaBeta(childDepthToGo, maxDepth-1, depthFromRoot+1, -beta, -alpha, true)
		s.pos.Undo()

		if err != nil {
			if s.skippable(err) {
				s.stats.SkippedErrors++
				continue
			}
			return NoMove, 0, err
		}
		eval = -eval // back to our perspective
		nChildren++

		// Don't let a truncated sub-search displace a move we already have
		if bestMove != NoMove {
			if timedOut, err = s.timedOut(); err != nil {
				return NoMove, 0, err
			} else if timedOut {
				break
			}
		}

		if depthFromRoot == 0 && s.params.DebugPrint >= 2 {
			s.log.Info().Int("depth", depthToGo).Str("move", position.MoveString(move)).Int("eval", int(eval)).Msg("root-move")
		}

		if bestMove == NoMove || eval > bestEval {
			bestEval, bestMove = eval, move
		}
		if alpha < bestEval {
			alpha = bestEval
		}
		if alpha >= beta {
			s.stats.CutNodes++
			if nChildren == 1 {
				s.stats.FirstChildCuts++
			}
			break
		}
	}

	if bestMove == NoMove {
		// Every candidate failed and was skipped
		return NoMove, 0, fmt.Errorf("%w: all %d candidates failed", ErrNoMoveGenerated, len(moves))
	}

	if timedOut, err = s.timedOut(); err != nil {
		return NoMove, 0, err
	}
	if !timedOut {
		s.updateTT(depthToGo, origAlpha, origBeta, bestEval, bestMove)
	}

	return bestMove, bestEval, nil
}
