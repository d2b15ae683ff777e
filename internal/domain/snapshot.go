package domain

// CardView is the render-ready state of one card.
type CardView struct {
	Suit     Suit
	Rank     Rank
	FaceUp   bool
	Selected bool
	Asset    string
}

// Snapshot is a read-only copy of a table, detached from its piles.
type Snapshot struct {
	Seed        int64
	Stock       []CardView
	Waste       []CardView
	Tableau     [TableauCount][]CardView
	Foundations [FoundationCount][]CardView
	// SelectedName is the asset name of the first selected card, empty when idle.
	SelectedName string
	Notice       Notice
	Won          bool
}

// Snapshot copies the table into a view the presentation layer can keep.
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		Seed:   t.Seed,
		Stock:  t.viewPile(PileRef{Kind: PileStock}),
		Waste:  t.viewPile(PileRef{Kind: PileWaste}),
		Notice: t.Notice,
		Won:    t.Won,
	}
	for i := range t.Tableau {
		s.Tableau[i] = t.viewPile(PileRef{Kind: PileTableau, Index: i})
	}
	for i := range t.Foundations {
		s.Foundations[i] = t.viewPile(PileRef{Kind: PileFoundation, Index: i})
	}
	if t.Selection != nil && len(t.Selection.Cards) > 0 {
		s.SelectedName = t.Selection.Cards[0].Name()
	}
	return s
}

func (t *Table) viewPile(ref PileRef) []CardView {
	p, err := t.Pile(ref)
	if err != nil {
		return nil
	}
	sel := t.Selection
	if sel != nil && sel.Source != ref {
		sel = nil
	}
	out := make([]CardView, len(p.Cards))
	for i, c := range p.Cards {
		out[i] = CardView{
			Suit:     c.Suit,
			Rank:     c.Rank,
			FaceUp:   c.FaceUp,
			Selected: sel != nil && i >= sel.Start,
			Asset:    c.Asset(),
		}
	}
	return out
}
