package deck

import (
	"errors"

	"gandengyan-server/internal/rng"
)

// Size is the number of cards in a full deck
const Size = 54

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents the draw pile
type Deck struct {
	Cards []*Card `json:"cards"`
	gen   rng.Generator
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New(gen rng.Generator) *Deck {
	if gen == nil {
		gen = rng.Crypto{}
	}

	return &Deck{
		Cards: Cards(),
		gen:   gen,
	}
}

// Cards returns the 54 cards of a deck in a stable order:
// the 52 suited cards suit by suit from 3 up to 2, followed by the small and big joker
func Cards() []*Card {
	cards := make([]*Card, 0, Size)
	for _, suit := range suits {
		for _, rank := range suitedRanks {
			cards = append(cards, mustCard(suit, rank))
		}
	}

	return append(cards, mustCard(Joker, SmallJoker), mustCard(Joker, BigJoker))
}

// Shuffle will rebuild the full deck and shuffle it
func (d *Deck) Shuffle() {
	d.Cards = Cards()
	d.shuffle(d.Cards)
}

// ShuffleDiscards will replace the existing deck with the cards specified
// The discards slice is not modified
func (d *Deck) ShuffleDiscards(discards []*Card) {
	cards := make([]*Card, len(discards))
	copy(cards, discards)
	d.shuffle(cards)

	d.Cards = cards
}

// Fisher–Yates
func (d *Deck) shuffle(cards []*Card) {
	for j := len(cards) - 1; j > 0; j-- {
		i := d.gen.Intn(j + 1)

		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) <= 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

// Empty removes every card from the deck
func (d *Deck) Empty() {
	d.Cards = []*Card{}
}
