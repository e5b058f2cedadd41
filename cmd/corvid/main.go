// Corvid is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/engine/console"
	"github.com/corvidchess/corvid/pkg/engine/uci"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/seekerror/logw"
)

var (
	hash    = flag.Uint("hash", 16, "transposition table size, in MB")
	threads = flag.Int("threads", 1, "number of Lazy-SMP search workers")
	noise   = flag.Uint("noise", 0, "evaluation noise, in centipawns (zero if deterministic)")
	seed    = flag.Int64("seed", 0, "Zobrist hashing random seed")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: corvid [options]

Corvid is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "corvid", "corvidchess", search.PVS{},
		engine.WithOptions(engine.Options{Hash: *hash, Threads: *threads, Noise: *noise}),
		engine.WithZobrist(*seed),
	)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "protocol not supported")
	}
}
