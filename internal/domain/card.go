package domain

import "fmt"

// Suit is one of the four French suits.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists every suit in deck-building order.
var Suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

var suitNames = [...]string{"club", "diamond", "heart", "spade"}

func (s Suit) String() string {
	if s < Clubs || s > Spades {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// Color reports the suit color.
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

// Rank is a card value, Ace (1) through King (13).
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankNames = [...]string{"", "ace", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "jack", "queen", "king"}

func (r Rank) String() string {
	if r < Ace || r > King {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// Color is the derived red/black color of a suit.
type Color int

const (
	Black Color = iota
	Red
)

// CardBackAsset is the asset key renderers use for any face-down card.
const CardBackAsset = "cardback"

// Card is a single playing card. Suit and Rank form its identity; FaceUp is the only
// state that changes while the card moves between piles.
type Card struct {
	Suit   Suit
	Rank   Rank
	FaceUp bool
}

// Color returns the card color.
func (c Card) Color() Color {
	return c.Suit.Color()
}

// Same reports whether both cards share an identity, ignoring FaceUp.
func (c Card) Same(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Name is the identity-derived asset key, e.g. "queenofhearts".
func (c Card) Name() string {
	return c.Rank.String() + "of" + c.Suit.String() + "s"
}

// Asset returns the key a renderer should draw for the card in its current state.
func (c Card) Asset() string {
	if !c.FaceUp {
		return CardBackAsset
	}
	return c.Name()
}

func (c Card) String() string {
	return c.Name()
}

// id packs the identity into 0..51 for set lookups.
func (c Card) id() int {
	return int(c.Suit)*13 + int(c.Rank) - 1
}

func (c Card) valid() bool {
	return c.Suit >= Clubs && c.Suit <= Spades && c.Rank >= Ace && c.Rank <= King
}
