// Package search implements principal-variation alpha-beta search over a board.Board: move
// ordering, pruning, quiescence, and the Lazy-SMP worker/shared-state split used to run several
// search threads against one transposition table. Iterative deepening and time management live in
// the searchctl subpackage.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
)

// PV is the principal variation found by a search to some depth: the move sequence, its score
// from the root side-to-move's perspective, and bookkeeping for UCI info output.
type PV struct {
	Depth    int // plies searched from the root
	SelDepth int // deepest ply reached by quiescence/extensions
	Moves    []board.Move
	Score    board.Score
	Nodes    uint64
	Time     time.Duration
	Hashfull int    // transposition table occupancy, per mille
	TBHits   uint64 // tablebase oracle probes resolved during the search
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v seldepth=%v score=%v nodes=%v time=%v hashfull=%v tbhits=%v pv=%v",
		p.Depth, p.SelDepth, p.Score, p.Nodes, p.Time, p.Hashfull, p.TBHits, formatMoves(p.Moves))
}

// BestMove returns the first move of the principal variation, if any.
func (p PV) BestMove() (board.Move, bool) {
	if len(p.Moves) == 0 {
		return board.NullMove, false
	}
	return p.Moves[0], true
}

func formatMoves(moves []board.Move) string {
	s := make([]string, len(moves))
	for i, m := range moves {
		s[i] = m.String()
	}
	return strings.Join(s, " ")
}
