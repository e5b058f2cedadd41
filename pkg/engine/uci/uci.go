// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Option is a UCI driver option.
type Option func(*options)

type options struct {
	useBook bool
	book    engine.Book
	rand    *rand.Rand
}

// UseBook instructs the driver to use the given opening book.
func UseBook(book engine.Book, seed int64) Option {
	return func(opt *options) {
		opt.useBook = true
		opt.book = book
		opt.rand = rand.New(rand.NewSource(seed))
	}
}

// Driver implements a UCI driver for an engine. It is activated once "uci" is received.
type Driver struct {
	e   *engine.Engine
	opt options

	out chan<- string

	active       atomic.Bool    // a "go" is outstanding and bestmove has not yet been sent
	ponder       chan search.PV // intermediate search information
	lastPosition string         // last "position" line, for incremental move application

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	var opt options
	for _, fn := range opts {
		fn(&opt)
	}

	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		opt:    opt,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	d.out <- "option name Hash type spin default 16 min 1 max 65536"
	d.out <- "option name Threads type spin default 1 min 1 max 512"
	d.out <- "option name Ponder type check default false"
	d.out <- "option name MultiPV type spin default 1 min 1 max 1"
	d.out <- "option name SyzygyPath type string default <empty>"
	d.out <- "option name Move Overhead type spin default 0 min 0 max 5000"
	d.out <- "option name Contempt type spin default 0 min -100 max 100"
	if d.opt.book != nil {
		d.out <- fmt.Sprintf("option name OwnBook type check default %v", d.opt.useBook)
	}

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "input stream broken, exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 || parts[0] == "" {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				d.out <- "readyok"

			case "debug":
				// debug [on|off]: not implemented; the driver always logs via logw regardless.

			case "setoption":
				d.handleSetOption(ctx, args)

			case "register":
				// No registration required.

			case "ucinewgame":
				d.ensureInactive(ctx)
				d.lastPosition = ""
				d.e.NewGame()

			case "position":
				if !d.handlePosition(ctx, line, args) {
					return
				}

			case "go":
				if !d.handleGo(ctx, line, args) {
					return
				}

			case "stop":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// The opponent played the move we were pondering on; continue the same search.

			case "quit":
				return

			default:
				logw.Warningf(ctx, "unknown command %q: %v", cmd, args)
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "driver closed")
			return
		}
	}
}

func (d *Driver) handleSetOption(ctx context.Context, args []string) {
	// "setoption name <id> [value <x>]" -- <id> may itself contain spaces, so split on the
	// literal "name"/"value" tokens rather than assuming fixed argument positions.
	joined := strings.Join(args, " ")
	nameIdx := strings.Index(joined, "name ")
	if nameIdx < 0 {
		return
	}
	rest := joined[nameIdx+len("name "):]

	name, value := rest, ""
	if valueIdx := strings.Index(rest, " value "); valueIdx >= 0 {
		name = rest[:valueIdx]
		value = rest[valueIdx+len(" value "):]
	}

	switch name {
	case "OwnBook":
		d.opt.useBook, _ = strconv.ParseBool(value)
	case "Hash":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			d.e.SetHash(ctx, uint(n))
		}
	case "Threads":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			d.e.SetThreads(n)
		}
	case "Contempt":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetContempt(int16(n))
		}
	case "Ponder", "MultiPV", "SyzygyPath", "Move Overhead", "MoveOverhead":
		// Advertised for GUI compatibility; no behavioral effect yet.
		logw.Debugf(ctx, "setoption %v = %v acknowledged, not yet acted on", name, value)
	default:
		logw.Warningf(ctx, "unknown option %q", name)
	}
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) bool {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				logw.Errorf(ctx, "invalid position move %q: %v: %v", arg, line, err)
				d.lastPosition = ""
				return true
			}
		}
		d.lastPosition = line
		return true
	}

	position := fen.Initial
	if len(args) >= 7 && args[0] == "fen" {
		position = strings.Join(args[1:7], " ")
	}

	if err := d.e.Reset(ctx, position); err != nil {
		logw.Errorf(ctx, "invalid position: %v", line)
		d.lastPosition = ""
		return true
	}

	move := false
	for _, arg := range args {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			logw.Errorf(ctx, "invalid position move %q: %v: %v", arg, line, err)
			d.lastPosition = ""
			return true
		}
	}
	d.lastPosition = line
	return true
}

func (d *Driver) handleGo(ctx context.Context, line string, args []string) bool {
	d.ensureInactive(ctx)

	var opt searchctl.Options
	var tc searchctl.TimeControl
	hasTimeControl := false
	infinite := false
	timeout := time.Duration(0)

	for i := 0; i < len(args); i++ {
		cmd := args[i]
		switch cmd {
		case "wtime", "btime", "movestogo", "depth", "movetime":
			i++
			if i == len(args) {
				logw.Errorf(ctx, "no argument for %v: %v", cmd, line)
				return true
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "invalid argument for %v: %v", line, err)
				return true
			}

			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(uint(n))
			case "wtime":
				hasTimeControl = true
				tc.White = time.Millisecond * time.Duration(n)
			case "btime":
				hasTimeControl = true
				tc.Black = time.Millisecond * time.Duration(n)
			case "movestogo":
				hasTimeControl = true
				tc.Moves = n
			case "movetime":
				timeout = time.Millisecond * time.Duration(n)
			}

		case "infinite":
			infinite = true

		default:
			// searchmoves/ponder/nodes/mate: silently ignored.
		}
	}
	if hasTimeControl {
		opt.TimeControl = lang.Some(tc)
	}

	if d.opt.useBook && d.opt.book != nil {
		moves, err := d.opt.book.Find(ctx, d.e.Position())
		if err != nil {
			logw.Errorf(ctx, "failed to find book move for %v: %v", d.e.Position(), err)
			return false
		}
		if len(moves) > 0 {
			winner := moves[d.opt.rand.Intn(len(moves))]
			pv := search.PV{Moves: []board.Move{winner}}
			d.active.Store(true)
			d.searchCompleted(ctx, pv)
			return true
		}
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "analyze failed: %v", err)
		return false
	}
	d.active.Store(true)

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite {
			d.searchCompleted(ctx, last)
		}
	}()

	if timeout > 0 {
		time.AfterFunc(timeout, func() {
			_, _ = d.e.Halt(ctx)
		})
	}
	return true
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if !d.active.CAS(true, false) {
		return // stale or duplicate result
	}

	if len(pv.Moves) > 0 {
		d.out <- printPV(pv)
		d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
	} else {
		// No PV: position was checkmate or stalemate already. Send the null move.
		d.out <- "bestmove 0000"
	}
}

func printPV(pv search.PV) string {
	// "info depth 2 multipv 1 score cp 214 nodes 2124 time 1242 nps 1710 hashfull 3 pv e2e4 e7e5 g1f3"
	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if pv.SelDepth > 0 {
		parts = append(parts, fmt.Sprintf("seldepth %v", pv.SelDepth))
	}
	// MultiPV is advertised fixed at 1 (see the "option name MultiPV" line above), so every info
	// line reports line 1 rather than tracking a real multi-PV rank.
	parts = append(parts, "multipv 1")
	if pv.Score.IsMate() {
		parts = append(parts, fmt.Sprintf("score mate %v", pv.Score.MateIn()))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	parts = append(parts, fmt.Sprintf("hashfull %v", pv.Hashfull))
	if pv.TBHits > 0 {
		parts = append(parts, fmt.Sprintf("tbhits %v", pv.TBHits))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv")
		parts = append(parts, formatMoves(pv.Moves))
	}

	return strings.Join(parts, " ")
}

func formatMoves(moves []board.Move) string {
	s := make([]string, len(moves))
	for i, m := range moves {
		s[i] = m.String()
	}
	return strings.Join(s, " ")
}
