package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl represents UCI time control information: remaining clock per side, plus the number
// of moves left in the current time period (0 means the rest of the game).
type TimeControl struct {
	White, Black time.Duration
	Moves        int
}

// Limits returns a soft and hard deadline for the side to move. After the soft limit, the
// iterative deepening loop should not start a new, deeper iteration; the hard limit is a
// hard cutoff enforced regardless of search progress.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder := t.White
	if c == board.Black {
		remainder = t.Black
	}

	// Assume 40 moves left to the end of the game if nothing else is known. Budget roughly
	// 1/(2*moves) of the remainder as the soft limit, and 3x that as the hard limit.
	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft := remainder / (2 * moves)
	hard := 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// EnforceTimeControl schedules a hard Halt at the hard time limit, if a TimeControl is set, and
// returns the soft limit the iterative deepening loop should respect. The returned panicExtend
// func widens both limits once, the first time it is called, for the iterative deepening loop to
// invoke when an iteration's score drops sharply from the previous one ("we're about to lose
// something, worth buying more time to look harder before committing to a move").
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (soft time.Duration, panicExtend func() time.Duration, ok bool) {
	c, has := tc.V()
	if !has {
		return 0, func() time.Duration { return 0 }, false
	}

	soft, hard := c.Limits(turn)
	timer := time.AfterFunc(hard, func() {
		h.Halt()
	})
	go func() {
		<-ctx.Done()
		timer.Stop()
	}()

	panicked := false
	panicExtend = func() time.Duration {
		if panicked {
			return soft
		}
		panicked = true
		soft *= 2
		timer.Reset(hard)
		logw.Debugf(ctx, "panic extension: score dropped sharply, doubling soft limit to %v", soft)
		return soft
	}

	logw.Debugf(ctx, "time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, panicExtend, true
}
