package eval

import (
	"sort"

	"github.com/corvidchess/corvid/pkg/board"
)

// SEEGain is the result of a static exchange evaluation for a single capture.
type SEEGain struct {
	Move board.Move
	Gain board.Score
}

// RankCapturesBySEE evaluates each capturing move's static exchange outcome and returns them
// sorted best-gain-first, for use in quiescence search move ordering and bad-capture pruning.
func RankCapturesBySEE(b *board.Board, moves []board.Move) []SEEGain {
	ret := make([]SEEGain, len(moves))
	for i, m := range moves {
		ret[i] = SEEGain{Move: m, Gain: b.StaticExchangeEval(m)}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Gain > ret[j].Gain
	})
	return ret
}

// NonLosingCaptures filters a SEE-ranked capture list down to those that do not lose material,
// i.e. gain >= 0, which quiescence search should always consider.
func NonLosingCaptures(ranked []SEEGain) []board.Move {
	var ret []board.Move
	for _, g := range ranked {
		if g.Gain < board.ZeroScore {
			break
		}
		ret = append(ret, g.Move)
	}
	return ret
}
