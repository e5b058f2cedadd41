package eval_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateRewardsKingPawnShield(t *testing.T) {
	sheltered := mustDecode(t, "r3kb1r/8/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	exposed := mustDecode(t, "r3kb1r/8/8/8/8/8/PPP2PPP/R3K2R w KQkq - 0 1")

	assert.Greater(t, int(eval.Evaluate(sheltered)), int(eval.Evaluate(exposed)))
}
