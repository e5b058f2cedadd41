package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/corvidchess/corvid/pkg/tt"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterativeStopsAtDepthLimit(t *testing.T) {
	zt := board.NewZobristTable(1)
	b, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	shared := search.NewShared(tt.New(context.Background(), 1<<20), eval.Default{}, nil)
	it := searchctl.Iterative{Root: search.PVS{}}

	handle, out := it.Launch(context.Background(), shared, b, searchctl.Options{
		DepthLimit: lang.Some(uint(3)),
	})

	var last search.PV
	for pv := range out {
		last = pv
		assert.LessOrEqual(t, last.Depth, 3)
	}

	final := handle.Halt()
	assert.Equal(t, 3, last.Depth)
	assert.Equal(t, last.Score, final.Score)
}

func TestIterativeHaltStopsAnInProgressSearch(t *testing.T) {
	zt := board.NewZobristTable(1)
	b, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	shared := search.NewShared(tt.New(context.Background(), 1<<20), eval.Default{}, nil)
	it := searchctl.Iterative{Root: search.PVS{}}

	handle, out := it.Launch(context.Background(), shared, b, searchctl.Options{
		DepthLimit: lang.Some(uint(64)),
	})

	// Let at least one iteration complete, then halt; the search must stop promptly rather than
	// run all the way to depth 64.
	<-out
	done := make(chan struct{})
	go func() {
		handle.Halt()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Halt did not return promptly")
	}

	for range out {
		// drain until the launcher closes the channel.
	}
}

func TestIterativeFansOutAcrossWorkersSharingOneTable(t *testing.T) {
	zt := board.NewZobristTable(1)
	b, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	shared := search.NewShared(tt.New(context.Background(), 1<<20), eval.Default{}, nil)
	it := searchctl.Iterative{Root: search.PVS{}}

	handle, out := it.Launch(context.Background(), shared, b, searchctl.Options{
		DepthLimit: lang.Some(uint(3)),
		Workers:    4,
	})

	var last search.PV
	for pv := range out {
		last = pv
	}
	handle.Halt()

	assert.Equal(t, 3, last.Depth)
	assert.NotEmpty(t, last.Moves)
}
