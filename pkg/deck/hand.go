package deck

import (
	"sort"
)

// Hand represents a collection of cards
// Sorting a hand orders it from the lowest value to the highest, ties broken by card ID
type Hand []*Card

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	if h[i].Value != h[j].Value {
		return h[i].Value < h[j].Value
	}

	return h[i].ID < h[j].ID
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Sort sorts the hand in place
func (h Hand) Sort() {
	sort.Sort(h)
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(card *Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card *Card) bool {
	return h.IndexOf(card) >= 0
}

// IndexOf returns the position of the card in the hand, or -1
func (h Hand) IndexOf(card *Card) int {
	for i, c := range h {
		if c.Equal(card) {
			return i
		}
	}

	return -1
}

// Discard will remove the specified card
// Returns false if the card was not in the hand
func (h *Hand) Discard(card *Card) bool {
	i := h.IndexOf(card)
	if i < 0 {
		return false
	}

	newHand := make(Hand, 0, len(*h)-1)
	newHand = append(newHand, (*h)[:i]...)
	newHand = append(newHand, (*h)[i+1:]...)

	*h = newHand
	return true
}

// FirstCard returns the first card in the hand or nil if the cards are empty
func (h Hand) FirstCard() *Card {
	if len(h) == 0 {
		return nil
	}

	return h[0]
}

// LastCard returns the last card in the hand or nil if the cards are empty
func (h Hand) LastCard() *Card {
	n := len(h)
	if n == 0 {
		return nil
	}

	return h[n-1]
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
