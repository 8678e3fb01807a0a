// Self-play matches between two engine configurations. Games run
// concurrently, one engine pair per game; a single search is never shared.

package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/clanpj/abchess/engine"
	"github.com/clanpj/abchess/position"
)

type Player struct {
	Name   string
	Params engine.SearchParams
	Book   engine.OpeningBook // optional
}

type Config struct {
	Games    int
	MaxPlies int    // adjudicate a draw after this many plies; 0 plays on
	Parallel int    // games in flight; 0 means no limit
	StartFen string // defaults to the standard start position
}

type GameResult struct {
	ID        string
	White     string
	Black     string
	Winner    string // empty on a draw
	Outcome   chess.Outcome
	Method    chess.Method
	Moves     []string // uci
	Fallbacks int      // random moves played after a failed search
	Elapsed   time.Duration
}

type Summary struct {
	Games []GameResult
	Wins  map[string]int
	Draws int
}

// Play runs cfg.Games games between a and b, alternating colours with a
// white in the first game.
func Play(ctx context.Context, a Player, b Player, cfg Config, log zerolog.Logger) (Summary, error) {
	startFen := cfg.StartFen
	if startFen == "" {
		startFen = position.Startpos
	}

	results := make([]GameResult, cfg.Games)
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Parallel > 0 {
		g.SetLimit(cfg.Parallel)
	}
	for i := 0; i < cfg.Games; i++ {
		i := i
		white, black := a, b
		if i%2 == 1 {
			white, black = b, a
		}
		g.Go(func() error {
			res, err := playGame(ctx, white, black, startFen, cfg.MaxPlies, log)
			if err != nil {
				return fmt.Errorf("arena: game %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Games: results,
		Wins: map[string]int{
			a.Name: lo.CountBy(results, func(r GameResult) bool { return r.Winner == a.Name }),
			b.Name: lo.CountBy(results, func(r GameResult) bool { return r.Winner == b.Name }),
		},
		Draws: lo.CountBy(results, func(r GameResult) bool { return r.Outcome == chess.Draw }),
	}
	log.Info().Int("games", cfg.Games).Int(a.Name, summary.Wins[a.Name]).Int(b.Name, summary.Wins[b.Name]).Int("draws", summary.Draws).Msg("match-complete")
	return summary, nil
}

func newEngine(p Player, log zerolog.Logger) *engine.Engine {
	opts := []engine.Option{engine.WithLogger(log.With().Str("player", p.Name).Logger())}
	if p.Book != nil {
		opts = append(opts, engine.WithBook(p.Book))
	}
	return engine.NewEngine(opts...)
}

// Draws a player may claim rather than wait for
var claimableDraws = []chess.Method{chess.ThreefoldRepetition, chess.FiftyMoveRule}

func playGame(ctx context.Context, white Player, black Player, startFen string, maxPlies int, log zerolog.Logger) (GameResult, error) {
	res := GameResult{ID: uuid.NewString(), White: white.Name, Black: black.Name}
	log = log.With().Str("game", res.ID).Logger()
	start := time.Now()

	fenOpt, err := chess.FEN(startFen)
	if err != nil {
		return res, err
	}
	game := chess.NewGame(fenOpt)
	pos, err := position.FromFen(startFen)
	if err != nil {
		return res, err
	}
	engines := map[chess.Color]*engine.Engine{
		chess.White: newEngine(white, log),
		chess.Black: newEngine(black, log),
	}
	params := map[chess.Color]engine.SearchParams{
		chess.White: white.Params,
		chess.Black: black.Params,
	}

	for game.Outcome() == chess.NoOutcome {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if maxPlies > 0 && len(res.Moves) >= maxPlies {
			if err := game.Draw(chess.DrawOffer); err != nil {
				return res, err
			}
			break
		}

		turn := game.Position().Turn()
		m, err := engines[turn].GenerateMove(pos, params[turn])
		if err != nil {
			if !engine.IsRecoverable(err) {
				return res, err
			}
			log.Warn().Err(err).Str("position", pos.ToFen()).Msg("search-failed")
			if m, err = engine.RandomMove(pos); err != nil {
				game.Resign(turn)
				break
			}
			res.Fallbacks++
		}

		uci := position.MoveString(m)
		move, err := chess.UCINotation{}.Decode(game.Position(), uci)
		if err != nil {
			return res, fmt.Errorf("move %s in %s: %w", uci, game.Position(), err)
		}
		if err := game.Move(move); err != nil {
			return res, fmt.Errorf("move %s in %s: %w", uci, game.Position(), err)
		}
		if err := pos.Apply(m); err != nil {
			return res, err
		}
		res.Moves = append(res.Moves, uci)

		for _, method := range game.EligibleDraws() {
			if lo.Contains(claimableDraws, method) {
				if err := game.Draw(method); err != nil {
					return res, err
				}
				break
			}
		}
	}

	res.Outcome, res.Method = game.Outcome(), game.Method()
	switch res.Outcome {
	case chess.WhiteWon:
		res.Winner = white.Name
	case chess.BlackWon:
		res.Winner = black.Name
	}
	res.Elapsed = time.Since(start)

	log.Info().
		Str("white", white.Name).
		Str("black", black.Name).
		Str("outcome", string(res.Outcome)).
		Str("method", res.Method.String()).
		Int("plies", len(res.Moves)).
		Int("fallbacks", res.Fallbacks).
		Dur("elapsed", res.Elapsed).
		Msg("game-complete")
	return res, nil
}
