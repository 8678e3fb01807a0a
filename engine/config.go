package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
)

const MinDepth = 1
const NoMove dragon.Move = 0

// Node count reported per depth is kept in a fixed array
const MaxDepthStats = 32

// Nominal values
const DefaultDepth = 6
const DefaultMaxDepth = 20
const DefaultNullMoveReduction = 2
const DefaultMaxTime = 5 * time.Second
const DefaultBookPlies = 10

// Configuration of one decision. Passed by value so a search never sees
// options change under it.
type SearchParams struct {
	Depth             int           // iterative deepening target
	MaxDepth          int           // hard recursion ceiling, independent of forced-line extension
	NullMoveReduction int           // 0 disables null-move pruning
	DebugPrint        int           // 0 silent, 1 per depth, 2 per root move
	MaxTime           time.Duration // budget for this call
	TotalTime         time.Duration // whole-game budget; 0 disables depth scaling
	HandleErrors      bool          // skip failing candidates instead of failing the decision
	BookPlies         int           // consult the opening book below this ply
}

func DefaultSearchParams() SearchParams {
	return SearchParams{
		Depth:             DefaultDepth,
		MaxDepth:          DefaultMaxDepth,
		NullMoveReduction: DefaultNullMoveReduction,
		MaxTime:           DefaultMaxTime,
		BookPlies:         DefaultBookPlies,
	}
}

// SetOption sets a parameter by its option name. Times are in milliseconds.
func (p *SearchParams) SetOption(name string, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "depth":
		return setInt(&p.Depth, name, value, MinDepth)
	case "max_depth":
		return setInt(&p.MaxDepth, name, value, MinDepth)
	case "null_move_reduction":
		return setInt(&p.NullMoveReduction, name, value, 0)
	case "debug_print":
		return setInt(&p.DebugPrint, name, value, 0)
	case "book_plies":
		return setInt(&p.BookPlies, name, value, 0)
	case "max_time":
		return setMillis(&p.MaxTime, name, value)
	case "total_time":
		return setMillis(&p.TotalTime, name, value)
	case "handle_errors":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("engine: option %s: %w", name, err)
		}
		p.HandleErrors = b
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownOption, name)
}

func setInt(dst *int, name string, value string, min int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("engine: option %s: %w", name, err)
	}
	if n < min {
		return fmt.Errorf("engine: option %s must be at least %d, got %d", name, min, n)
	}
	*dst = n
	return nil
}

func setMillis(dst *time.Duration, name string, value string) error {
	var ms int
	if err := setInt(&ms, name, value, 0); err != nil {
		return err
	}
	*dst = time.Duration(ms) * time.Millisecond
	return nil
}
