package domain

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestNewDeckHasEveryIdentityOnce(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}
	if err := checkPack(deck); err != nil {
		t.Fatalf("checkPack() = %v", err)
	}
	for _, c := range deck {
		if c.FaceUp {
			t.Fatalf("%s is face-up in a new deck", c)
		}
	}
}

func TestNewShuffledDeckIsDeterministic(t *testing.T) {
	a := NewShuffledDeck(42)
	b := NewShuffledDeck(42)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different decks")
	}
	if reflect.DeepEqual(a, NewShuffledDeck(43)) {
		t.Fatalf("different seeds produced the same deck")
	}
	if reflect.DeepEqual(a, NewDeck()) {
		t.Fatalf("shuffled deck is still in factory order")
	}
}

func TestShuffleDeckIsPermutation(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		deck := NewDeck()
		ShuffleDeck(deck, rand.New(rand.NewSource(seed)))
		if err := checkPack(deck); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
	}
}

func TestCardNames(t *testing.T) {
	tests := []struct {
		card  Card
		name  string
		asset string
	}{
		{card: Card{Suit: Spades, Rank: Ace, FaceUp: true}, name: "aceofspades", asset: "aceofspades"},
		{card: Card{Suit: Hearts, Rank: Ten, FaceUp: true}, name: "tenofhearts", asset: "tenofhearts"},
		{card: Card{Suit: Diamonds, Rank: Queen}, name: "queenofdiamonds", asset: CardBackAsset},
		{card: Card{Suit: Clubs, Rank: King, FaceUp: true}, name: "kingofclubs", asset: "kingofclubs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := tt.card.Asset(); got != tt.asset {
				t.Errorf("Asset() = %q, want %q", got, tt.asset)
			}
		})
	}
}

func TestSuitColor(t *testing.T) {
	want := map[Suit]Color{Clubs: Black, Diamonds: Red, Hearts: Red, Spades: Black}
	for s, c := range want {
		if got := s.Color(); got != c {
			t.Errorf("%s.Color() = %v, want %v", s, got, c)
		}
	}
}
