// Package searchctl wraps pkg/search with iterative deepening, time management, and Lazy-SMP
// multi-worker fan-out: the pieces an engine front end needs on top of a single fixed-depth
// search call.
package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options; the engine may change these per search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
	// Workers is the number of Lazy-SMP search threads to run. Zero or one means single-threaded.
	Workers int
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	if o.Workers > 1 {
		ret = append(ret, fmt.Sprintf("workers=%v", o.Workers))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages iterative-deepening searches against a shared transposition table.
type Launcher interface {
	// Launch starts a new search from b. It expects an exclusive (forked) board and returns a PV
	// channel reporting each completed iteration; the channel is closed once the search halts.
	Launch(ctx context.Context, shared *search.Shared, b *board.Board, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the engine stop a running search and retrieve its best result so far.
type Handle interface {
	// Halt stops the search, if running, and returns the deepest completed PV. Idempotent.
	Halt() search.PV
}
