package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/corvidchess/corvid/pkg/tb"
	"github.com/corvidchess/corvid/pkg/tt"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are search creation options, settable via UCI setoption and overridden per search by
// explicit go-command parameters.
type Options struct {
	Depth    uint  // search depth limit. 0 == no limit.
	Hash     uint  // transposition table size in MB. 0 == a minimal table.
	Threads  int   // Lazy-SMP worker count. 0 == 1.
	Noise    uint  // evaluation noise, in centipawns.
	Contempt int16 // draw bias, in centipawns: a draw scores +Contempt for the side whose move reached it.
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%vMB, threads=%v, noise=%vcp, contempt=%vcp}",
		o.Depth, o.Hash, o.Threads, o.Noise, o.Contempt)
}

// Engine encapsulates game-playing logic: the current position, the transposition table, and the
// active search, if any. Safe for concurrent use by the UCI/console front ends.
type Engine struct {
	name, author string

	launcher searchctl.Launcher
	zt       *board.ZobristTable
	seed     int64
	opts     Options

	b       *board.Board
	table   *tt.Table
	history *search.History
	oracle  tb.Oracle
	active  searchctl.Handle
	mu      sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets the default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithZobrist configures the engine to use the given random seed instead of the default of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithOracle configures the endgame tablebase oracle to consult during search.
func WithOracle(oracle tb.Oracle) Option {
	return func(e *Engine) { e.oracle = oracle }
}

const minHashMB = 1

// New constructs an engine that searches with root. Resets to the standard starting position.
func New(ctx context.Context, name, author string, root search.Searcher, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		launcher: searchctl.Iterative{Root: root},
		opts:     Options{Hash: 16, Threads: 1},
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)
	if e.oracle == nil {
		e.oracle = tb.NopOracle{}
	}

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetThreads(threads int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Threads = threads
}

func (e *Engine) SetNoise(centipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Noise = centipawns
}

func (e *Engine) SetContempt(centipawns int16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Contempt = centipawns
}

// SetHash resizes the transposition table to the given size in MB. Takes effect immediately.
func (e *Engine) SetHash(ctx context.Context, sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = sizeMB
	if e.table != nil {
		e.table.Resize(ctx, uint64(hashMB(sizeMB))<<20)
	}
}

func hashMB(sizeMB uint) uint {
	if sizeMB < minHashMB {
		return minHashMB
	}
	return sizeMB
}

// Board returns a fork of the current position, safe for the caller to make/unmake on.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Clone()
}

// Position returns the current position in FEN.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fen.Encode(e.b)
}

// Reset resets the engine to the position given in FEN.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "reset %v, opts=%v", position, e.opts)

	e.haltSearchIfActiveLocked(ctx)

	b, err := fen.Decode(e.zt, position)
	if err != nil {
		return err
	}
	e.b = b
	e.table = tt.New(ctx, uint64(hashMB(e.opts.Hash))<<20)
	if e.history == nil {
		e.history = search.NewHistory()
	}

	logw.Infof(ctx, "new board: %v", e.b)
	return nil
}

// NewGame signals the start of a new game to the engine: the history heuristic (persisted across
// searches within a game so move ordering keeps improving as the game goes on) is halved rather
// than cleared outright, so a "ucinewgame" immediately followed by a "position" resetting to the
// same opening does not throw away every bit of ordering signal at once.
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Halve()
}

// Move applies a move in coordinate notation (e.g. "e2e4", "e7e8q"), usually an opponent move.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	m, err := e.b.ParseUserMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}
	if !e.b.PushMove(m) {
		return fmt.Errorf("illegal move: %v", m)
	}

	logw.Infof(ctx, "move %v: %v", m, e.b)
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "takeback %v", m)
	return nil
}

// Analyze starts a search of the current position. Only one search may be active at a time.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}
	if opt.Workers == 0 {
		opt.Workers = e.opts.Threads
	}

	logw.Infof(ctx, "analyze %v, opt=%v", e.b, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	evaluator := e.evaluatorLocked()
	shared := search.NewShared(e.table, evaluator, e.oracle)
	shared.Contempt = board.Score(e.opts.Contempt)
	shared.History = e.history
	handle, out := e.launcher.Launch(ctx, shared, e.b.Clone(), opt)
	e.active = handle
	return out, nil
}

func (e *Engine) evaluatorLocked() eval.Evaluator {
	base := eval.Evaluator(eval.Default{})
	if e.opts.Noise > 0 {
		base = eval.NewRandom(base, int(e.opts.Noise), e.seed)
	}
	return base
}

// Halt halts the active search and returns its best principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "halt")

	pv, ok := e.haltSearchIfActiveLocked(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActiveLocked(ctx context.Context) (search.PV, bool) {
	if e.active == nil {
		return search.PV{}, false
	}
	pv := e.active.Halt()
	logw.Infof(ctx, "search %v halted: %v", e.b, pv)
	e.active = nil
	return pv, true
}
