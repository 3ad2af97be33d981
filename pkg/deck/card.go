package deck

import (
	"fmt"
	"regexp"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
	Joker    Suit = "joker"
)

// Rank represents the face of a card
type Rank string

// rank constants
const (
	Three      Rank = "3"
	Four       Rank = "4"
	Five       Rank = "5"
	Six        Rank = "6"
	Seven      Rank = "7"
	Eight      Rank = "8"
	Nine       Rank = "9"
	Ten        Rank = "10"
	Jack       Rank = "J"
	Queen      Rank = "Q"
	King       Rank = "K"
	Ace        Rank = "A"
	Two        Rank = "2"
	SmallJoker Rank = "small_joker"
	BigJoker   Rank = "big_joker"
)

// values of the named ranks
// 3 is the lowest card, 2 is the highest number card, and the jokers top everything
const (
	LowestValue     = 3
	AceValue        = 14
	TwoValue        = 15
	SmallJokerValue = 16
	BigJokerValue   = 17
)

// suitedRanks is every rank found in the four suits, from lowest to highest
var suitedRanks = []Rank{Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace, Two}

var suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var rankValues = map[Rank]int{
	Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9, Ten: 10,
	Jack: 11, Queen: 12, King: 13, Ace: AceValue, Two: TwoValue,
	SmallJoker: SmallJokerValue, BigJoker: BigJokerValue,
}

var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
	Spades:   "♠",
}

// Card is an individual playing card
// Cards are immutable once created
type Card struct {
	ID      string `json:"id"`
	Suit    Suit   `json:"suit"`
	Rank    Rank   `json:"rank"`
	Value   int    `json:"value"`
	Display string `json:"display"`
}

// NewCard returns the card with the given suit and rank
// Jokers must use the Joker suit, all other ranks must use one of the four suits
func NewCard(suit Suit, rank Rank) (*Card, error) {
	value, ok := rankValues[rank]
	if !ok {
		return nil, fmt.Errorf("unknown rank: %s", rank)
	}

	isJokerRank := rank == SmallJoker || rank == BigJoker
	if isJokerRank != (suit == Joker) {
		return nil, fmt.Errorf("rank %s cannot have suit %s", rank, suit)
	}

	switch rank {
	case SmallJoker:
		return &Card{ID: "joker_small", Suit: Joker, Rank: rank, Value: value, Display: "SJ"}, nil
	case BigJoker:
		return &Card{ID: "joker_big", Suit: Joker, Rank: rank, Value: value, Display: "BJ"}, nil
	}

	symbol, ok := suitSymbols[suit]
	if !ok {
		return nil, fmt.Errorf("unknown suit: %s", suit)
	}

	return &Card{
		ID:      fmt.Sprintf("%s_%s", suit, rank),
		Suit:    suit,
		Rank:    rank,
		Value:   value,
		Display: string(rank) + symbol,
	}, nil
}

func mustCard(suit Suit, rank Rank) *Card {
	card, err := NewCard(suit, rank)
	if err != nil {
		panic(err)
	}

	return card
}

func (c *Card) String() string {
	return c.Display
}

// Equal returns true if both values are the same physical card
func (c *Card) Equal(card *Card) bool {
	return card != nil && c.ID == card.ID
}

// IsJoker returns true for the small and big joker
func (c *Card) IsJoker() bool {
	return c.Rank == SmallJoker || c.Rank == BigJoker
}

// IsSpecial returns true if the card is a 2 or a joker
func (c *Card) IsSpecial() bool {
	return c.Rank == Two || c.IsJoker()
}

// ValueOf returns the value of a rank, or 0 if the rank is unknown
func ValueOf(rank Rank) int {
	return rankValues[rank]
}

var cardRx = regexp.MustCompile(`(?i)^(?:(10|[3-9jqka2])([cdhs])|([sb])j)\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <rank><suit> where rank is one of 3–10, J, Q, K, A, 2
// and suit in [cdhs], or "sj" / "bj" for the small and big joker
func CardFromString(s string) *Card {
	if s == "" {
		return nil
	}

	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	if match[3] != "" {
		if strings.ToLower(match[3]) == "s" {
			return mustCard(Joker, SmallJoker)
		}

		return mustCard(Joker, BigJoker)
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	default:
		// should never be hit due to the regexp
		panic("unknown suit")
	}

	return mustCard(suit, Rank(strings.ToUpper(match[1])))
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) []*Card {
	if s == "" {
		return []*Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]*Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(strings.TrimSpace(card))
	}

	return cards
}

// CardToString converts a card (Ace of Clubs) to a string (Ac)
func CardToString(card *Card) string {
	if card == nil {
		return ""
	}

	switch card.Rank {
	case SmallJoker:
		return "sj"
	case BigJoker:
		return "bj"
	}

	return fmt.Sprintf("%s%c", card.Rank, card.Suit[0])
}

// CardsToString will convert a slice of cards to a string in the format of 3c,4h,10s,...
func CardsToString(cards []*Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
