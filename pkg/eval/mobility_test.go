package eval_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateRewardsRookOnOpenFile(t *testing.T) {
	open := mustDecode(t, "4k3/8/8/8/8/8/6PP/R3K3 w - - 0 1")
	closed := mustDecode(t, "4k3/8/8/8/8/8/PP6/R3K3 w - - 0 1")

	// The open-file rook is worth strictly more than a blocked-in rook of equal material.
	assert.Greater(t, int(eval.Evaluate(open)), int(eval.Evaluate(closed)))
}

func TestFindPinsDetectsRookPin(t *testing.T) {
	// Black rook on e8 pins the white knight on e2 against the white king on e1.
	b := mustDecode(t, "k3r3/8/8/8/8/8/4N3/4K3 w - - 0 1")
	pins := eval.FindPins(b, board.White)

	assert.Len(t, pins, 1)
	assert.Equal(t, board.E2, pins[0].Pinned)
	assert.Equal(t, board.E1, pins[0].Target)
	assert.Equal(t, board.E8, pins[0].Attacker)
}

func TestFindPinsEmptyWhenNoPinPresent(t *testing.T) {
	b := mustDecode(t, fen.Initial)
	assert.Empty(t, eval.FindPins(b, board.White))
}
