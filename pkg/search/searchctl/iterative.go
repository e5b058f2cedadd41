package searchctl

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"golang.org/x/sync/errgroup"
)

// Iterative is a search harness that repeatedly calls Root at increasing depth until halted by
// Handle.Halt, a depth limit, a time control, or a found forced mate. When Options.Workers is
// greater than one, each iteration fans out across that many Lazy-SMP threads sharing one
// transposition table: thread 0's result is authoritative and reported, the rest exist only to
// help populate the shared table with entries the authoritative search can reuse.
type Iterative struct {
	Root search.Searcher
}

func (it Iterative) Launch(ctx context.Context, shared *search.Shared, b *board.Board, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init:   iox.NewAsyncCloser(),
		quit:   iox.NewAsyncCloser(),
		shared: shared,
	}
	go h.process(ctx, it.Root, shared, b, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser
	shared     *search.Shared

	pv search.PV
	mu sync.Mutex
}

type workerResult struct {
	nodes uint64
	score board.Score
	pv    []board.Move
	err   error
}

func (h *handle) process(ctx context.Context, root search.Searcher, shared *search.Shared, b *board.Board, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	shared.TT.NewSearch()
	soft, panicExtend, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	workers := opt.Workers
	if workers < 1 {
		workers = 1
	}
	boards := make([]*board.Board, workers)
	boards[0] = b
	for i := 1; i < workers; i++ {
		boards[i] = b.Clone()
	}

	depth := 1
	var prevScore board.Score
	havePrevScore := false
	searchStart := time.Now()
	for !h.quit.IsClosed() {
		start := time.Now()

		results := make([]workerResult, workers)
		g, gctx := errgroup.WithContext(wctx)
		for i := 0; i < workers; i++ {
			i := i
			g.Go(func() error {
				nodes, score, pv, err := root.Search(gctx, shared, boards[i], depth+helperDepthJitter(i))
				results[i] = workerResult{nodes: nodes, score: score, pv: pv, err: err}
				return nil
			})
		}
		_ = g.Wait()

		main := results[0]
		if main.err != nil {
			if errors.Is(main.err, search.ErrHalted) {
				return
			}
			logw.Errorf(ctx, "search failed on %v at depth=%v: %v", b, depth, main.err)
			return
		}

		// Panic extension: a sharp score drop from the previous iteration means the position likely
		// just turned bad and is worth the extra time to search past, rather than committing to a
		// shallower line that hasn't seen the problem yet. Never mate-to-mate, since those swings are
		// expected as the mate distance is refined, not a sign anything went wrong.
		if useSoft && havePrevScore && !main.score.IsMate() && !prevScore.IsMate() {
			if drop := int(prevScore) - int(main.score); drop >= panicScoreDropMargin {
				soft = panicExtend()
			}
		}
		prevScore, havePrevScore = main.score, true

		pv := search.PV{
			Depth:    depth,
			Nodes:    shared.Nodes.Load(),
			Score:    main.score,
			Moves:    main.pv,
			Time:     time.Since(start),
			Hashfull: shared.TT.Hashfull(),
			TBHits:   shared.TBHits.Load(),
		}

		logw.Debugf(ctx, "searched %v: %v", b, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if main.score.IsMate() && absInt(main.score.MateIn()) <= depth {
			return // halt: forced mate found within full-width search. Exact result.
		}
		if useSoft && soft < time.Since(searchStart) {
			return // halt: exceeded soft time limit. Do not start new search.
		}
		depth++
	}
}

// panicScoreDropMargin is how far (in centipawns) an iteration's score must fall from the
// previous iteration's before the time manager grants a one-time panic extension.
const panicScoreDropMargin = 80

// helperDepthJitter spreads Lazy-SMP helper threads across nearby depths rather than having every
// thread search the exact same tree, which otherwise wastes most of their work duplicating
// thread 0's move ordering decisions.
func helperDepthJitter(worker int) int {
	return worker % 2
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.shared.Stop.Store(true)
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
