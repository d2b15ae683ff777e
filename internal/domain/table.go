package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDeck   = errors.New("deck is not a full 52-card pack")
	ErrInvalidTarget = errors.New("click target out of range")
	ErrConservation  = errors.New("table invariant violated")
)

// Notice is a non-fatal, user-visible condition raised by the last click.
type Notice string

const (
	NoticeNone        Notice = ""
	NoticeInvalidMove Notice = "invalid_move"
)

// Selection is the single active selection group: a run taken from Source starting at
// Start and reaching the pile's top.
type Selection struct {
	Source PileRef
	Start  int
	Cards  []Card
}

// Contains reports whether card is part of the selected run.
func (s *Selection) Contains(card Card) bool {
	if s == nil {
		return false
	}
	for _, c := range s.Cards {
		if c.Same(card) {
			return true
		}
	}
	return false
}

// Table owns every pile of one Klondike game.
type Table struct {
	Seed        int64
	Stock       Pile
	Waste       Pile
	Tableau     [TableauCount]Pile
	Foundations [FoundationCount]Pile

	// Selection is nil when nothing is selected.
	Selection *Selection
	Notice    Notice
	Won       bool
}

// NewTable deals a fresh game from a deck shuffled with seed.
func NewTable(seed int64) *Table {
	t, err := Deal(NewShuffledDeck(seed))
	if err != nil {
		// A freshly built deck is always a full pack.
		panic(err)
	}
	t.Seed = seed
	return t
}

// Deal lays out the deck: column i takes i+1 cards popped from the end of the deck, the
// remaining 24 cards become the stock in deck order, and each column's top is revealed.
func Deal(deck []Card) (*Table, error) {
	if err := checkPack(deck); err != nil {
		return nil, err
	}

	t := &Table{
		Stock: Pile{Kind: PileStock},
		Waste: Pile{Kind: PileWaste},
	}
	for i := range t.Foundations {
		t.Foundations[i] = Pile{Kind: PileFoundation}
	}

	rest := len(deck)
	for i := range t.Tableau {
		col := Pile{Kind: PileTableau, Cards: make([]Card, 0, i+1)}
		for j := 0; j <= i; j++ {
			rest--
			c := deck[rest]
			c.FaceUp = false
			col.Cards = append(col.Cards, c)
		}
		t.Tableau[i] = col
	}
	t.Stock.Push(deck[:rest]...)
	t.RevealTops()
	return t, nil
}

func checkPack(cards []Card) error {
	if len(cards) != DeckSize {
		return fmt.Errorf("%w: %d cards", ErrInvalidDeck, len(cards))
	}
	var seen [DeckSize]bool
	for _, c := range cards {
		if !c.valid() {
			return fmt.Errorf("%w: bad card %d/%d", ErrInvalidDeck, c.Suit, c.Rank)
		}
		if seen[c.id()] {
			return fmt.Errorf("%w: duplicate %s", ErrInvalidDeck, c.Name())
		}
		seen[c.id()] = true
	}
	return nil
}

// Pile resolves a reference to the pile it names.
func (t *Table) Pile(ref PileRef) (*Pile, error) {
	switch ref.Kind {
	case PileStock:
		return &t.Stock, nil
	case PileWaste:
		return &t.Waste, nil
	case PileTableau:
		if ref.Index < 0 || ref.Index >= TableauCount {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, ref)
		}
		return &t.Tableau[ref.Index], nil
	case PileFoundation:
		if ref.Index < 0 || ref.Index >= FoundationCount {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, ref)
		}
		return &t.Foundations[ref.Index], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, ref)
}

// RevealTops flips the top card of every tableau column face-up and returns the
// cards that were flipped.
func (t *Table) RevealTops() []Card {
	var revealed []Card
	for i := range t.Tableau {
		if t.Tableau[i].RevealTop() {
			revealed = append(revealed, *t.Tableau[i].Top())
		}
	}
	return revealed
}

// ClearSelection drops the active selection, if any.
func (t *Table) ClearSelection() {
	t.Selection = nil
}

// Select makes the run from start to the top of ref the active selection.
func (t *Table) Select(ref PileRef, start int) error {
	p, err := t.Pile(ref)
	if err != nil {
		return err
	}
	if start < 0 || start >= p.Len() {
		return fmt.Errorf("%w: %s card %d", ErrInvalidTarget, ref, start)
	}
	t.Selection = &Selection{
		Source: ref,
		Start:  start,
		Cards:  append([]Card(nil), p.Cards[start:]...),
	}
	return nil
}

// MoveSelection relocates the selected run onto dest in order and clears the selection.
func (t *Table) MoveSelection(dest PileRef) error {
	sel := t.Selection
	if sel == nil {
		return nil
	}
	src, err := t.Pile(sel.Source)
	if err != nil {
		return err
	}
	dst, err := t.Pile(dest)
	if err != nil {
		return err
	}
	run := src.TakeFrom(sel.Start)
	dst.Push(run...)
	t.Selection = nil
	return nil
}

// FoundationsFull reports whether the table is in the won configuration.
func (t *Table) FoundationsFull() bool {
	return IsGameWon(t.Foundations[:])
}

// CardCount returns the number of cards across all piles.
func (t *Table) CardCount() int {
	n := t.Stock.Len() + t.Waste.Len()
	for i := range t.Tableau {
		n += t.Tableau[i].Len()
	}
	for i := range t.Foundations {
		n += t.Foundations[i].Len()
	}
	return n
}

// Validate checks the conservation invariant and the face-up rules of every pile.
func (t *Table) Validate() error {
	all := make([]Card, 0, DeckSize)
	all = append(all, t.Stock.Cards...)
	all = append(all, t.Waste.Cards...)
	for i := range t.Tableau {
		all = append(all, t.Tableau[i].Cards...)
	}
	for i := range t.Foundations {
		all = append(all, t.Foundations[i].Cards...)
	}
	if err := checkPack(all); err != nil {
		return fmt.Errorf("%w: %v", ErrConservation, err)
	}

	for _, c := range t.Stock.Cards {
		if c.FaceUp {
			return fmt.Errorf("%w: face-up %s in stock", ErrConservation, c.Name())
		}
	}
	for _, c := range t.Waste.Cards {
		if !c.FaceUp {
			return fmt.Errorf("%w: face-down %s in waste", ErrConservation, c.Name())
		}
	}
	for i := range t.Tableau {
		col := t.Tableau[i].Cards
		faceUp := false
		for _, c := range col {
			if faceUp && !c.FaceUp {
				return fmt.Errorf("%w: face-down %s above a face-up card in tableau[%d]", ErrConservation, c.Name(), i)
			}
			faceUp = faceUp || c.FaceUp
		}
		if len(col) > 0 && !col[len(col)-1].FaceUp {
			return fmt.Errorf("%w: hidden top in tableau[%d]", ErrConservation, i)
		}
	}
	return nil
}
