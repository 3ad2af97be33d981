package gandengyan

import (
	"gandengyan-server/pkg/deck"
)

// Player is an individual seated in the room
// The hand is owned by the session, only copies ever leave it
type Player struct {
	ID           string
	Name         string
	hand         deck.Hand
	wantsRematch bool
}

// NewPlayer returns a new player
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
		hand: make(deck.Hand, 0, HandSize+1),
	}
}

// Hand returns a shallow clone of the player's hand
func (p *Player) Hand() []*deck.Card {
	return append([]*deck.Card{}, p.hand...)
}

// CardCount returns the number of cards in the player's hand
func (p *Player) CardCount() int {
	return len(p.hand)
}

// WantsRematch returns true if the player asked for another game
func (p *Player) WantsRematch() bool {
	return p.wantsRematch
}

func (p *Player) addCards(cards ...*deck.Card) {
	p.hand = append(p.hand, cards...)
	p.hand.Sort()
}

// resolveCards looks up each requested card in the hand by ID
// The returned cards are the hand's own values, never the caller's
func (p *Player) resolveCards(cards []*deck.Card) ([]*deck.Card, error) {
	resolved := make([]*deck.Card, len(cards))
	for i, card := range cards {
		if card == nil {
			return nil, ErrCardNotInHand
		}

		idx := p.hand.IndexOf(card)
		if idx < 0 {
			return nil, ErrCardNotInHand
		}

		resolved[i] = p.hand[idx]
	}

	return resolved, nil
}

func (p *Player) removeCards(cards []*deck.Card) {
	for _, card := range cards {
		p.hand.Discard(card)
	}
}

// lowestCard returns the lowest value card in the hand
func (p *Player) lowestCard() *deck.Card {
	return p.hand.FirstCard()
}

func (p *Player) clearHand() []*deck.Card {
	cards := p.hand
	p.hand = make(deck.Hand, 0, HandSize+1)
	return cards
}
