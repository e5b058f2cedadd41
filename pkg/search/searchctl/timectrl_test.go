package searchctl_test

import (
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/stretchr/testify/assert"
)

func TestTimeControlLimitsSplitsRemainderAcrossAssumedMoves(t *testing.T) {
	tc := searchctl.TimeControl{White: 40 * time.Second, Black: 40 * time.Second}

	soft, hard := tc.Limits(board.White)
	assert.Greater(t, soft, time.Duration(0))
	assert.Equal(t, 3*soft, hard)
	assert.Less(t, hard, tc.White) // never plan to spend the entire remaining clock on one move
}

func TestTimeControlLimitsRespectsMovesToGo(t *testing.T) {
	fewMovesLeft := searchctl.TimeControl{White: 40 * time.Second, Moves: 2}
	manyMovesLeft := searchctl.TimeControl{White: 40 * time.Second, Moves: 38}

	softFew, _ := fewMovesLeft.Limits(board.White)
	softMany, _ := manyMovesLeft.Limits(board.White)
	assert.Greater(t, softFew, softMany)
}

func TestTimeControlUsesPerSideRemainder(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 6 * time.Second}

	whiteSoft, _ := tc.Limits(board.White)
	blackSoft, _ := tc.Limits(board.Black)
	assert.Greater(t, whiteSoft, blackSoft)
}
