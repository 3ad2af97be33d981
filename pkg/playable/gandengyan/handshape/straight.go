package handshape

import (
	"gandengyan-server/pkg/deck"
)

// MinStraightLength is the fewest cards a straight can have
const MinStraightLength = 3

// a straight window never starts below 3 and never runs past the ace
const (
	straightFloor   = deck.LowestValue
	straightCeiling = deck.AceValue
)

// straightStarts returns, lowest first, every window start a straight of length n
// can take given its non-joker cards. The remaining n-len(normals) cards are jokers
// that fill whatever positions of the window the normal cards leave open.
func straightStarts(normals []*deck.Card, n int) []int {
	jokers := n - len(normals)
	values := make(map[int]bool, len(normals))
	for _, card := range normals {
		// 2 can never be part of a straight, not even through a joker
		if card.Rank == deck.Two || card.IsJoker() {
			return nil
		}

		if values[card.Value] {
			return nil
		}

		values[card.Value] = true
	}

	var starts []int
	for start := straightFloor; start+n-1 <= straightCeiling; start++ {
		end := start + n - 1

		covered := 0
		for v := range values {
			if v >= start && v <= end {
				covered++
			}
		}

		if covered != len(values) {
			continue
		}

		if n-covered <= jokers {
			starts = append(starts, start)
		}
	}

	return starts
}

// resolveStraight returns the lowest window start of the straight that is
// strictly greater than above
func resolveStraight(cards []*deck.Card, above int) (int, bool) {
	_, normals := splitJokers(cards)
	for _, start := range straightStarts(normals, len(cards)) {
		if start > above {
			return start, true
		}
	}

	return 0, false
}
