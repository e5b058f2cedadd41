// Package tt implements the shared transposition table: a fixed-size array of two-entry
// buckets with generation-based aging, probed and stored without locks from multiple search
// workers.
package tt

import (
	"context"
	"math/bits"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// NodeKind classifies how a stored score bounds the true value of a position.
type NodeKind uint8

const (
	// NoneKind marks an empty or invalidated slot.
	NoneKind NodeKind = iota
	// PVKind is an exact score: the true value of the position.
	PVKind
	// CutKind is a lower bound: the search failed high (beta cutoff) at this score.
	CutKind
	// AllKind is an upper bound: every move failed low (no move reached alpha).
	AllKind
)

func (k NodeKind) String() string {
	switch k {
	case PVKind:
		return "PV"
	case CutKind:
		return "Cut"
	case AllKind:
		return "All"
	default:
		return "None"
	}
}

// Entry is a single transposition table record, as returned by Probe.
type Entry struct {
	Score board.Score
	Move  board.Move
	Kind  NodeKind
	Depth int
}

const entrySize = 16 // bytes: one key word + one data word, both uint64.
const bucketWidth = 2 // entries per bucket.

// slot is one lockless-hashed entry: keyXorData holds hash^data, so a probe recomputing
// keyXorData^data and comparing against the candidate hash fails automatically if either word
// was torn by a concurrent write (see store and Probe).
type slot struct {
	keyXorData atomic.Uint64
	data       atomic.Uint64
}

type bucket [bucketWidth]slot

// Table is a lock-free, two-way-bucket transposition table.
type Table struct {
	buckets []bucket
	mask    uint64
	gen     atomic.Uint32
}

// New allocates a table sized to the largest power-of-two bucket count fitting within size
// bytes.
func New(ctx context.Context, size uint64) *Table {
	n := numBuckets(size)
	logw.Infof(ctx, "Allocating %vMB TT with %v buckets (%v entries)", size>>20, n, n*bucketWidth)

	return &Table{
		buckets: make([]bucket, n),
		mask:    n - 1,
	}
}

func numBuckets(size uint64) uint64 {
	perBucket := uint64(bucketWidth * entrySize)
	if size < perBucket {
		return 1
	}
	n := size / perBucket
	return uint64(1) << (63 - bits.LeadingZeros64(n))
}

// Resize reallocates the table to the largest power-of-two bucket count fitting within size
// bytes, discarding all prior contents.
func (t *Table) Resize(ctx context.Context, size uint64) {
	n := numBuckets(size)
	logw.Infof(ctx, "Resizing TT to %vMB with %v buckets (%v entries)", size>>20, n, n*bucketWidth)

	t.buckets = make([]bucket, n)
	t.mask = n - 1
}

// Clear empties every slot without reallocating, and resets the generation counter.
func (t *Table) Clear() {
	for i := range t.buckets {
		t.buckets[i] = bucket{}
	}
	t.gen.Store(0)
}

// NewSearch advances the generation counter, so entries from prior searches rank lower when
// Store picks a slot to evict: their depth is discounted by how many generations old they are.
func (t *Table) NewSearch() {
	t.gen.Add(1)
}

// SizeBytes returns the table's total allocation size in bytes.
func (t *Table) SizeBytes() uint64 {
	return uint64(len(t.buckets)) * bucketWidth * entrySize
}

// Probe returns the entry for hash, adjusting any mate score to be relative to ply (the
// distance of the current node from the search root), if present. A torn or absent entry
// reports ok=false.
func (t *Table) Probe(hash board.ZobristHash, ply int) (Entry, bool) {
	idx := uint64(hash) & t.mask
	b := &t.buckets[idx]

	for i := 0; i < bucketWidth; i++ {
		kx := b[i].keyXorData.Load()
		d := b[i].data.Load()
		if kx^d != uint64(hash) {
			continue
		}
		e := unpack(d)
		if e.Kind == NoneKind {
			continue
		}
		e.Score = scoreFromTT(e.Score, ply)
		return e, true
	}
	return Entry{}, false
}

// Store records an entry for hash, converting a mate score from root-relative (as search
// produces it) to relative to this node before packing it. depth is the remaining search depth at which the score was computed; kind
// and move describe the result at that depth.
func (t *Table) Store(hash board.ZobristHash, depth int, score board.Score, kind NodeKind, move board.Move, ply int) {
	idx := uint64(hash) & t.mask
	b := &t.buckets[idx]

	gen := uint8(t.gen.Load())
	fresh := Entry{Score: scoreToTT(score, ply), Move: move, Kind: kind, Depth: depth}

	// Same-key slot takes priority: overwrite it if the incoming data is at least as deep (or a
	// PV/exact result), otherwise leave the existing, deeper entry alone and store nothing.
	for i := 0; i < bucketWidth; i++ {
		kx := b[i].keyXorData.Load()
		d := b[i].data.Load()
		if kx^d != uint64(hash) {
			continue
		}
		if depth >= unpack(d).Depth || kind == PVKind {
			store(&b[i], fresh, gen, hash)
		}
		return
	}

	// No same-key slot: prefer an empty one, else evict whichever slot has the lowest
	// (depth - age-distance), the one least worth keeping.
	victim, victimScore := 0, 1<<30
	for i := 0; i < bucketWidth; i++ {
		kx := b[i].keyXorData.Load()
		d := b[i].data.Load()
		if kx == 0 && d == 0 {
			victim = i
			victimScore = -1 << 30
			break
		}

		age := int(ageDistance(gen, ageOf(d)))
		replaceScore := unpack(d).Depth - age
		if replaceScore < victimScore {
			victim, victimScore = i, replaceScore
		}
	}

	store(&b[victim], fresh, gen, hash)
}

func store(s *slot, e Entry, gen uint8, hash board.ZobristHash) {
	data := pack(e, gen)
	s.data.Store(data)
	s.keyXorData.Store(data ^ uint64(hash))
}

// Hashfull estimates table fill as a permille (0..1000), sampled over the first 1000 buckets
// (or all buckets, if fewer).
func (t *Table) Hashfull() int {
	n := len(t.buckets)
	if n > 1000 {
		n = 1000
	}
	if n == 0 {
		return 0
	}

	used := 0
	for i := 0; i < n; i++ {
		for j := 0; j < bucketWidth; j++ {
			kx := t.buckets[i][j].keyXorData.Load()
			d := t.buckets[i][j].data.Load()
			if kx != 0 || d != 0 {
				used++
			}
		}
	}
	return used * 1000 / (n * bucketWidth)
}

// pack folds an Entry and generation into the 64-bit data word: score(16) | move(16) | kind(8)
// | generation(8) | depth(8) | 8 bits unused.
func pack(e Entry, gen uint8) uint64 {
	return uint64(uint16(e.Score)) |
		uint64(uint16(e.Move))<<16 |
		uint64(e.Kind)<<32 |
		uint64(gen)<<40 |
		uint64(uint8(e.Depth))<<48
}

func unpack(data uint64) Entry {
	return Entry{
		Score: board.Score(int16(uint16(data))),
		Move:  board.Move(uint16(data >> 16)),
		Kind:  NodeKind(uint8(data >> 32)),
		Depth: int(uint8(data >> 48)),
	}
}

func ageOf(data uint64) uint8 {
	return uint8(data >> 40)
}

// ageDistance returns how many generations old stale is relative to current, wrapping around
// the 8-bit counter.
func ageDistance(current, stale uint8) uint8 {
	return current - stale
}

// scoreToTT converts a root-relative score (as produced by search, where a mate score counts
// plies from the root) into one relative to the node at ply ("mate in N from here"), suitable
// for caching: a position is reached via many different paths, so a cached mate distance must
// not depend on which path led here.
func scoreToTT(score board.Score, ply int) board.Score {
	if score.IsMate() {
		if score > 0 {
			return score + board.Score(ply)
		}
		return score - board.Score(ply)
	}
	return score
}

// scoreFromTT reverses scoreToTT, turning a cached node-relative mate score back into a
// root-relative one for the probing node's distance from the root.
func scoreFromTT(score board.Score, ply int) board.Score {
	if score.IsMate() {
		if score > 0 {
			return score - board.Score(ply)
		}
		return score + board.Score(ply)
	}
	return score
}
