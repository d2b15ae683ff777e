package domain

import "math/rand"

// DeckSize is the number of cards in a full pack.
const DeckSize = 52

// NewDeck returns an unshuffled 52-card deck, suit by suit, Ace to King.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck permutes the deck in place with Fisher–Yates using rng.
func ShuffleDeck(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// NewShuffledDeck returns a full deck shuffled deterministically from seed.
func NewShuffledDeck(seed int64) []Card {
	deck := NewDeck()
	ShuffleDeck(deck, rand.New(rand.NewSource(seed)))
	return deck
}
