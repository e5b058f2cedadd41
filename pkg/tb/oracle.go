// Package tb defines the endgame tablebase oracle hook used by search to shortcut known-result
// positions once the board has thinned out. This module does not ship a tablebase reader: Oracle
// is the seam a Syzygy (or similar) probe would plug into.
package tb

import "github.com/corvidchess/corvid/pkg/board"

// WDL is a win/draw/loss verdict from a tablebase probe, from the perspective of the side to
// move.
type WDL int8

const (
	Loss WDL = iota - 1
	Draw
	Win
)

// Oracle probes known-result endgame positions. Implementations must be safe for concurrent use
// by multiple search workers.
type Oracle interface {
	// Probe returns the tablebase verdict for b, if b's material falls within the oracle's
	// coverage (piece count, promoted pieces, etc.).
	Probe(b *board.Board) (WDL, bool)

	// MaxPieces returns the largest total piece count (including kings) the oracle covers. Search
	// uses this to skip probing positions it already knows are out of range.
	MaxPieces() int
}

// NopOracle never has an answer. It is the default oracle when no tablebase path is configured.
type NopOracle struct{}

func (NopOracle) Probe(b *board.Board) (WDL, bool) { return Draw, false }
func (NopOracle) MaxPieces() int                    { return 0 }
