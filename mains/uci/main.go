// Line-based UCI driver. Protocol goes to stdout, logs to stderr.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clanpj/abchess/book"
	"github.com/clanpj/abchess/engine"
	"github.com/clanpj/abchess/position"
)

var VersionString = "0.1 abchess " + runtime.GOOS + "-" + runtime.GOARCH

func main() {
	useBook := flag.Bool("book", true, "play from the built-in opening book")
	bookFile := flag.String("book-file", "", "opening book JSON (overrides the built-in book)")
	logLevel := flag.String("log-level", "info", "zerolog level for stderr logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(*logLevel); err == nil {
		log = log.Level(level)
	}

	opts := []engine.Option{engine.WithLogger(log)}
	if *useBook {
		b, err := loadBook(*bookFile)
		if err != nil {
			log.Fatal().Err(err).Msg("book")
		}
		opts = append(opts, engine.WithBook(b))
	}

	d := newUciDriver(os.Stdout, log, opts...)
	d.loop(os.Stdin)
}

func loadBook(path string) (*book.Book, error) {
	if path == "" {
		return book.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return book.Load(f)
}

type uciDriver struct {
	out    io.Writer
	log    zerolog.Logger
	opts   []engine.Option
	eng    *engine.Engine
	pos    *position.Position
	params engine.SearchParams
}

func newUciDriver(out io.Writer, log zerolog.Logger, opts ...engine.Option) *uciDriver {
	return &uciDriver{
		out:    out,
		log:    log,
		opts:   opts,
		eng:    engine.NewEngine(opts...),
		pos:    position.New(),
		params: engine.DefaultSearchParams(),
	}
}

func (d *uciDriver) println(a ...any) { fmt.Fprintln(d.out, a...) }

func (d *uciDriver) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			def := engine.DefaultSearchParams()
			d.println("id name abchess", VersionString)
			d.println("id author Clan PJ")
			d.println("option name depth type spin default", def.Depth, "min 1 max 64")
			d.println("option name max_depth type spin default", def.MaxDepth, "min 1 max 128")
			d.println("option name null_move_reduction type spin default", def.NullMoveReduction, "min 0 max 8")
			d.println("option name debug_print type spin default", def.DebugPrint, "min 0 max 2")
			d.println("option name max_time type spin default", def.MaxTime.Milliseconds(), "min 0 max 3600000")
			d.println("option name total_time type spin default", def.TotalTime.Milliseconds(), "min 0 max 86400000")
			d.println("option name handle_errors type check default", def.HandleErrors)
			d.println("option name book_plies type spin default", def.BookPlies, "min 0 max 100")
			d.println("uciok")
		case "isready":
			d.println("readyok")
		case "ucinewgame":
			// New PV and game clock
			d.eng = engine.NewEngine(d.opts...)
			d.pos = position.New()
		case "quit":
			return
		case "setoption":
			if len(tokens) != 5 || tokens[1] != "name" || tokens[3] != "value" {
				d.println("info string Malformed setoption command")
				continue
			}
			if err := d.params.SetOption(tokens[2], tokens[4]); err != nil {
				d.println("info string", err)
				continue
			}
			d.log.Debug().Str("name", tokens[2]).Str("value", tokens[4]).Msg("setoption")
		case "position":
			if err := d.position(tokens[1:]); err != nil {
				d.println("info string", err)
			}
		case "go":
			d.goSearch(tokens[1:])
		default:
			d.println("info string Unknown command:", line)
		}
	}
}

// position [startpos | fen <fen>] [moves <m1> ... <mn>]
func (d *uciDriver) position(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("Malformed position command")
	}

	movesAt := len(tokens)
	for i, tok := range tokens {
		if strings.ToLower(tok) == "moves" {
			movesAt = i
			break
		}
	}

	var pos *position.Position
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		pos = position.New()
	case "fen":
		var err error
		if pos, err = position.FromFen(strings.Join(tokens[1:movesAt], " ")); err != nil {
			return err
		}
	default:
		return fmt.Errorf("Invalid position subcommand %s", tokens[0])
	}

	if movesAt < len(tokens) {
		for _, uci := range tokens[movesAt+1:] {
			m, err := pos.ParseMove(uci)
			if err != nil {
				return err
			}
			if err := pos.Apply(m); err != nil {
				return err
			}
		}
	}
	d.pos = pos.Clone()
	return nil
}

// go [depth <n>] [movetime <ms>] [wtime <ms> btime <ms> winc <ms> binc <ms>]
func (d *uciDriver) goSearch(tokens []string) {
	params := d.params
	var wtime, btime, winc, binc int
	for i := 0; i < len(tokens); i++ {
		opt := strings.ToLower(tokens[i])
		if opt == "infinite" {
			continue
		}
		if i+1 >= len(tokens) {
			d.println("info string Malformed go command option", opt)
			break
		}
		n, err := strconv.Atoi(tokens[i+1])
		if err != nil {
			d.println("info string Malformed go command option; could not convert", opt)
			i++
			continue
		}
		i++
		switch opt {
		case "depth":
			params.Depth = max(n, engine.MinDepth)
		case "movetime":
			params.MaxTime = time.Duration(n) * time.Millisecond
		case "wtime":
			wtime = n
		case "btime":
			btime = n
		case "winc":
			winc = n
		case "binc":
			binc = n
		default:
			d.println("info string Unknown go subcommand", opt)
		}
	}

	if wtime != 0 && btime != 0 { // If times are specified
		ourtime, ourinc := wtime, winc
		if !d.pos.WhiteToMove() {
			ourtime, ourinc = btime, binc
		}
		params.MaxTime = time.Duration(allowedTimeMs(ourtime, ourinc)) * time.Millisecond
	}

	d.println("bestmove", d.search(params))
}

// Simple strategy - use 1/16th of the remaining time
func allowedTimeMs(ourtimeMs int, ourincMs int) int {
	result := ourtimeMs / 16
	if result <= 0 {
		return ourincMs
	}
	return result
}

// Returns the move to announce; 0000 resigns.
func (d *uciDriver) search(params engine.SearchParams) string {
	res, err := d.eng.Search(d.pos, params)
	if err != nil {
		if !engine.IsRecoverable(err) {
			d.log.Fatal().Err(err).Msg("search")
		}
		d.log.Warn().Err(err).Str("position", d.pos.ToFen()).Msg("search-failed")
		m, err := engine.RandomMove(d.pos)
		if err != nil {
			d.log.Info().Err(err).Msg("resign")
			return position.MoveString(position.NoMove)
		}
		return position.MoveString(m)
	}

	if !res.FromBook {
		pv := make([]string, len(res.PV))
		for i, m := range res.PV {
			pv[i] = position.MoveString(m)
		}
		d.println("info depth", res.Depth, "score", scoreString(res.Score), "nodes", res.Stats.Nodes, "time", res.Elapsed.Milliseconds(), "pv", strings.Join(pv, " "))
	}
	return position.MoveString(res.Move)
}

// Mate scores carry no distance, so they go out as saturated centipawns
func scoreString(eval engine.EvalCp) string {
	return fmt.Sprintf("cp %d", eval)
}
