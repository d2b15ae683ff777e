package domain

import "fmt"

// PileKind tags a pile with its access rules.
type PileKind int

const (
	// PileStock is the face-down draw pile.
	PileStock PileKind = iota
	// PileWaste receives cards drawn from the stock, face-up.
	PileWaste
	// PileTableau is one of the seven playing columns.
	PileTableau
	// PileFoundation is one of the four Ace-to-King suit piles.
	PileFoundation
)

const (
	TableauCount    = 7
	FoundationCount = 4
)

var pileKindNames = [...]string{"stock", "waste", "tableau", "foundation"}

func (k PileKind) String() string {
	if k < PileStock || k > PileFoundation {
		return fmt.Sprintf("PileKind(%d)", int(k))
	}
	return pileKindNames[k]
}

// PileRef addresses a pile on the table. Index is only meaningful for tableau and
// foundation piles.
type PileRef struct {
	Kind  PileKind
	Index int
}

func (r PileRef) String() string {
	switch r.Kind {
	case PileTableau, PileFoundation:
		return fmt.Sprintf("%s[%d]", r.Kind, r.Index)
	default:
		return r.Kind.String()
	}
}

// Pile is an ordered run of cards; the top is the last element.
type Pile struct {
	Kind  PileKind
	Cards []Card
}

// Len returns the number of cards in the pile.
func (p *Pile) Len() int {
	return len(p.Cards)
}

// Empty reports whether the pile has no cards.
func (p *Pile) Empty() bool {
	return len(p.Cards) == 0
}

// Top returns a pointer to the top card, or nil when the pile is empty.
func (p *Pile) Top() *Card {
	if len(p.Cards) == 0 {
		return nil
	}
	return &p.Cards[len(p.Cards)-1]
}

// Push places cards on top in order. Waste and foundation cards are always face-up.
func (p *Pile) Push(cards ...Card) {
	for _, c := range cards {
		switch p.Kind {
		case PileWaste, PileFoundation:
			c.FaceUp = true
		case PileStock:
			c.FaceUp = false
		}
		p.Cards = append(p.Cards, c)
	}
}

// Pop removes and returns the top card. ok is false when the pile is empty.
func (p *Pile) Pop() (card Card, ok bool) {
	if len(p.Cards) == 0 {
		return Card{}, false
	}
	card = p.Cards[len(p.Cards)-1]
	p.Cards = p.Cards[:len(p.Cards)-1]
	return card, true
}

// TakeFrom removes and returns the cards from index i to the top.
func (p *Pile) TakeFrom(i int) []Card {
	if i < 0 || i >= len(p.Cards) {
		return nil
	}
	run := append([]Card(nil), p.Cards[i:]...)
	p.Cards = p.Cards[:i]
	return run
}

// RevealTop turns the top card face-up. It reports whether a card was flipped.
func (p *Pile) RevealTop() bool {
	top := p.Top()
	if top == nil || top.FaceUp {
		return false
	}
	top.FaceUp = true
	return true
}

// Index returns the position of the card with the same identity, or -1.
func (p *Pile) Index(card Card) int {
	for i, c := range p.Cards {
		if c.Same(card) {
			return i
		}
	}
	return -1
}
