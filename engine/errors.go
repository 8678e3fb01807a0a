package engine

import "errors"

// The search clock was never armed - always fatal
var ErrNoStartTime = errors.New("engine: search clock was not started")

// The decision produced no candidate move
var ErrNoMoveGenerated = errors.New("engine: no move generated")

// No legal move for the random fallback
var ErrNoValidMoves = errors.New("engine: no valid moves")

var ErrUnknownOption = errors.New("engine: unknown option")
