package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
)

// Book represents an opening book.
type Book interface {
	// Find returns a list, potentially empty, of moves known for the given position. Once an
	// empty list is returned for a game, the book should not be consulted again that game.
	Find(ctx context.Context, fen string) ([]board.Move, error)
}

// Line is a sequence of moves in coordinate notation, e.g. []string{"e2e4", "d7d5"}.
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook never has a recommendation.
var NoBook Book = &book{moves: map[string][]board.Move{}}

// NewBook builds an opening book from a set of lines, replaying each against the starting
// position to validate it and key it by the resulting position.
func NewBook(zt *board.ZobristTable, lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}

	for _, line := range lines {
		key := fen.Initial
		for _, str := range line {
			b, err := fen.Decode(zt, key)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line, err)
			}

			next, err := b.ParseUserMove(str)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: move %v not legal: %w", line, str, err)
			}
			if !b.PushMove(next) {
				return nil, fmt.Errorf("invalid line %q: move %v not legal", line, str)
			}

			k := fenKey(key)
			if m[k] == nil {
				m[k] = map[board.Move]bool{}
			}
			m[k][next] = true

			key = fen.Encode(b)
		}
	}

	dedup := map[string][]board.Move{}
	for k, v := range m {
		var list []board.Move
		for move := range v {
			list = append(list, move)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].String() < list[j].String() })
		dedup[k] = list
	}
	return &book{moves: dedup}, nil
}

type book struct {
	moves map[string][]board.Move // cropped fen -> moves
}

func (b *book) Find(ctx context.Context, pos string) ([]board.Move, error) {
	return b.moves[fenKey(pos)], nil
}

// fenKey crops a FEN string down to its first 4 fields (placement, turn, castling, en passant),
// ignoring halfmove/fullmove counters so transposed move orders share a book entry.
func fenKey(pos string) string {
	parts := strings.Split(pos, " ")
	if len(parts) < 4 {
		return pos
	}
	return strings.Join(parts[:4], " ")
}
