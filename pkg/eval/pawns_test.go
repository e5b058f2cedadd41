package eval_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestEvaluatePenalizesDoubledPawns(t *testing.T) {
	doubled := mustDecode(t, "4k3/8/8/8/8/4P3/4P3/4K3 w - - 0 1")
	healthy := mustDecode(t, "4k3/8/8/8/8/5P2/4P3/4K3 w - - 0 1")

	assert.Greater(t, int(eval.Evaluate(healthy)), int(eval.Evaluate(doubled)))
}

func TestEvaluatePenalizesIsolatedPawn(t *testing.T) {
	// Same pawn count on both sides (two pawns each), differing only in whether they sit on
	// adjacent files.
	isolatedPair := mustDecode(t, "4k3/8/8/8/8/8/2P1P3/4K3 w - - 0 1")
	connectedPair := mustDecode(t, "4k3/8/8/8/8/8/2PP4/4K3 w - - 0 1")

	assert.Greater(t, int(eval.Evaluate(connectedPair)), int(eval.Evaluate(isolatedPair)))
}

func TestEvaluateRewardsAdvancedPassedPawn(t *testing.T) {
	advanced := mustDecode(t, "4k3/4P3/8/8/8/8/8/4K3 w - - 0 1")
	rear := mustDecode(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")

	assert.Greater(t, int(eval.Evaluate(advanced)), int(eval.Evaluate(rear)))
}
