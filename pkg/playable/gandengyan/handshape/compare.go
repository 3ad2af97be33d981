package handshape

import (
	"gandengyan-server/pkg/deck"
)

// Beat checks whether the cards can be played on top of target
// If target is nil the cards are an opening play and only need a legal shape.
// On success the returned combination carries the value the cards were resolved
// to, which is what the next play has to beat.
func Beat(cards []*deck.Card, target *Combination) (*Combination, error) {
	c, err := Analyze(cards)
	if err != nil {
		return nil, err
	}

	if target == nil {
		return c, nil
	}

	isBomb := c.Shape.IsBomb()
	targetIsBomb := target.Shape.IsBomb()

	switch {
	case isBomb && !targetIsBomb:
		return c, nil
	case !isBomb && targetIsBomb:
		return nil, ErrBombRequired
	case isBomb:
		return beatBomb(c, target)
	}

	if c.Shape != target.Shape {
		return nil, ErrShapeMismatch
	}

	switch c.Shape {
	case Single:
		if target.Cards[0].Rank == deck.Two && !c.Cards[0].IsJoker() {
			return nil, ErrTwoNeedsJoker
		}

		if c.Value <= target.Value {
			return nil, ErrTooSmall
		}
	case Pair:
		if c.Value <= target.Value {
			return nil, ErrTooSmall
		}
	case Straight:
		if len(c.Cards) != len(target.Cards) {
			return nil, ErrLengthMismatch
		}

		start, ok := resolveStraight(c.Cards, target.Value)
		if !ok {
			return nil, ErrTooSmall
		}

		c.Value = start
	default:
		// every non-bomb shape is handled above
		return nil, ErrShapeMismatch
	}

	return c, nil
}

func beatBomb(c, target *Combination) (*Combination, error) {
	tier := c.Shape.bombTier()
	targetTier := target.Shape.bombTier()

	if tier > targetTier {
		return c, nil
	}

	// nothing beats a joker bomb, not even the other one
	if tier < targetTier || c.Shape == JokerBomb || c.Value <= target.Value {
		return nil, ErrTooSmall
	}

	return c, nil
}
