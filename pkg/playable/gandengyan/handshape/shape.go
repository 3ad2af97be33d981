package handshape

import (
	"gandengyan-server/pkg/deck"
)

// Shape is the classification of a set of cards
type Shape string

// shape constants
// None is not a shape, it marks a set of cards that cannot be played
const (
	None      Shape = ""
	Single    Shape = "single"
	Pair      Shape = "pair"
	Straight  Shape = "straight"
	Triple    Shape = "triple"
	Quadruple Shape = "quadruple"
	JokerBomb Shape = "joker_bomb"
)

// IsBomb returns true for the shapes that can be played on any other shape
func (s Shape) IsBomb() bool {
	return s.bombTier() > 0
}

func (s Shape) bombTier() int {
	switch s {
	case Triple:
		return 1
	case Quadruple:
		return 2
	case JokerBomb:
		return 3
	default:
		return 0
	}
}

// Combination is a classified set of cards
// Value is what the combination is compared by: the card value of a single, the rank value
// of a pair, triple or quadruple, and the effective starting value of a straight
type Combination struct {
	Shape Shape        `json:"shape"`
	Cards []*deck.Card `json:"cards"`
	Value int          `json:"value"`
}

// Classify returns the shape of the cards, or None if the cards cannot be played
func Classify(cards []*deck.Card) Shape {
	c, err := Analyze(cards)
	if err != nil {
		return None
	}

	return c.Shape
}

// Analyze classifies the cards as an opening play
// A straight is valued by the lowest window its cards can fill
func Analyze(cards []*deck.Card) (*Combination, error) {
	if len(cards) == 0 || hasDuplicates(cards) {
		return nil, ErrInvalidShape
	}

	jokers, normals := splitJokers(cards)
	combination := func(shape Shape, value int) (*Combination, error) {
		return &Combination{
			Shape: shape,
			Cards: append([]*deck.Card{}, cards...),
			Value: value,
		}, nil
	}

	n := len(cards)
	switch {
	case n == 1:
		return combination(Single, cards[0].Value)
	case n == 2 && len(jokers) == 2:
		return combination(JokerBomb, deck.BigJokerValue)
	case n == 2:
		if value, ok := groupValue(normals); ok {
			return combination(Pair, value)
		}
	case n == 3 || n == 4:
		if value, ok := groupValue(normals); ok {
			if n == 3 {
				return combination(Triple, value)
			}

			return combination(Quadruple, value)
		}
	}

	if n >= MinStraightLength {
		if starts := straightStarts(normals, n); len(starts) > 0 {
			return combination(Straight, starts[0])
		}
	}

	return nil, ErrInvalidShape
}

// groupValue returns the shared rank value of the non-joker cards
// The jokers substitute for whatever cards are missing from the group. A group made
// entirely of jokers is valued as the big joker
func groupValue(normals []*deck.Card) (int, bool) {
	if len(normals) == 0 {
		return deck.BigJokerValue, true
	}

	for _, card := range normals[1:] {
		if card.Rank != normals[0].Rank {
			return 0, false
		}
	}

	return normals[0].Value, true
}

func splitJokers(cards []*deck.Card) (jokers, normals []*deck.Card) {
	for _, card := range cards {
		if card.IsJoker() {
			jokers = append(jokers, card)
		} else {
			normals = append(normals, card)
		}
	}

	return jokers, normals
}

func hasDuplicates(cards []*deck.Card) bool {
	seen := make(map[string]bool, len(cards))
	for _, card := range cards {
		if card == nil || seen[card.ID] {
			return true
		}

		seen[card.ID] = true
	}

	return false
}
