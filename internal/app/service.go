package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"klondike/internal/domain"
)

// Service is the interaction state machine for a Klondike table. It holds no table state
// of its own: the selection lives on the table, and every click is applied to completion
// before the next one is read.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var ErrNoGame = errors.New("no game in progress")

// StartGame deals a new table from a seed drawn from the service rng.
func (s *Service) StartGame() (*domain.Table, []Event) {
	return s.StartGameWithSeed(s.rng.Int63())
}

// StartGameWithSeed deals a new table whose shuffle is fully determined by seed.
func (s *Service) StartGameWithSeed(seed int64) (*domain.Table, []Event) {
	table := domain.NewTable(seed)
	return table, []Event{{Kind: EventGameStarted, Payload: GameStartedPayload{Seed: seed}}}
}

// ClickStock draws the stock's top card onto the waste, or turns the whole waste back
// over into the stock when the stock is empty. Any selection is dropped.
func (s *Service) ClickStock(table *domain.Table) ([]Event, error) {
	if table == nil {
		return nil, ErrNoGame
	}
	table.Notice = domain.NoticeNone
	events := deselect(table)

	if card, ok := table.Stock.Pop(); ok {
		table.Waste.Push(card)
		return append(events, Event{Kind: EventStockDrawn, Payload: StockDrawnPayload{Card: *table.Waste.Top()}}), nil
	}

	// Popping the waste onto the stock puts the waste top at the stock bottom, so the
	// next pass draws in the same order as the last one.
	n := 0
	for {
		card, ok := table.Waste.Pop()
		if !ok {
			break
		}
		table.Stock.Push(card)
		n++
	}
	if n > 0 {
		events = append(events, Event{Kind: EventStockRecycled, Payload: StockRecycledPayload{Count: n}})
	}
	return events, nil
}

// ClickWaste toggles selection of the waste's top card.
func (s *Service) ClickWaste(table *domain.Table) ([]Event, error) {
	if table == nil {
		return nil, ErrNoGame
	}
	table.Notice = domain.NoticeNone

	top := table.Waste.Top()
	if top == nil || table.Selection.Contains(*top) {
		return deselect(table), nil
	}

	events := deselect(table)
	return append(events, selectRun(table, domain.PileRef{Kind: domain.PileWaste}, table.Waste.Len()-1)...), nil
}

// ClickTableau handles a click on card index card of a tableau column. card is ignored
// when the column is empty; ports pass EmptyPile for that case.
func (s *Service) ClickTableau(table *domain.Table, column, card int) ([]Event, error) {
	if table == nil {
		return nil, ErrNoGame
	}
	ref := domain.PileRef{Kind: domain.PileTableau, Index: column}
	col, err := table.Pile(ref)
	if err != nil {
		return nil, err
	}
	if !col.Empty() && (card < 0 || card >= col.Len()) {
		return nil, fmt.Errorf("%w: %s card %d", domain.ErrInvalidTarget, ref, card)
	}
	table.Notice = domain.NoticeNone

	var clicked *domain.Card
	if !col.Empty() {
		clicked = &col.Cards[card]
		if !clicked.FaceUp {
			// Face-down cards are not interactive.
			return deselect(table), nil
		}
	}

	if table.Selection == nil {
		if clicked == nil {
			return nil, nil
		}
		return selectRun(table, ref, card), nil
	}

	if clicked != nil && table.Selection.Contains(*clicked) {
		return deselect(table), nil
	}
	onTop := clicked == nil || card == col.Len()-1
	if onTop && domain.IsValidTableauMove(col.Top(), table.Selection.Cards[0]) {
		return move(table, ref)
	}
	return reject(table, ref), nil
}

// ClickFoundation handles a click on a foundation pile.
func (s *Service) ClickFoundation(table *domain.Table, index int) ([]Event, error) {
	if table == nil {
		return nil, ErrNoGame
	}
	ref := domain.PileRef{Kind: domain.PileFoundation, Index: index}
	f, err := table.Pile(ref)
	if err != nil {
		return nil, err
	}
	table.Notice = domain.NoticeNone

	if table.Selection == nil {
		if f.Empty() {
			return nil, nil
		}
		return selectRun(table, ref, f.Len()-1), nil
	}

	if top := f.Top(); top != nil && table.Selection.Contains(*top) {
		return deselect(table), nil
	}
	// Foundations take one card at a time.
	if len(table.Selection.Cards) == 1 && domain.IsValidFoundationMove(f.Top(), table.Selection.Cards[0]) {
		return move(table, ref)
	}
	return reject(table, ref), nil
}

// ClickBackground handles a click that hit no pile: it only drops the selection.
func (s *Service) ClickBackground(table *domain.Table) ([]Event, error) {
	if table == nil {
		return nil, ErrNoGame
	}
	table.Notice = domain.NoticeNone
	return deselect(table), nil
}

func deselect(table *domain.Table) []Event {
	if table.Selection == nil {
		return nil
	}
	table.ClearSelection()
	return []Event{{Kind: EventDeselected}}
}

func selectRun(table *domain.Table, ref domain.PileRef, start int) []Event {
	if err := table.Select(ref, start); err != nil {
		return nil
	}
	return []Event{{
		Kind:    EventSelected,
		Payload: SelectedPayload{Source: ref, Cards: table.Selection.Cards},
	}}
}

func move(table *domain.Table, dest domain.PileRef) ([]Event, error) {
	sel := table.Selection
	if err := table.MoveSelection(dest); err != nil {
		return nil, err
	}

	events := []Event{{
		Kind:    EventCardsMoved,
		Payload: CardsMovedPayload{From: sel.Source, To: dest, Cards: sel.Cards},
	}}
	for _, c := range table.RevealTops() {
		events = append(events, Event{Kind: EventCardRevealed, Payload: CardRevealedPayload{Card: c}})
	}

	wasWon := table.Won
	table.Won = table.FoundationsFull()
	if table.Won && !wasWon {
		events = append(events, Event{Kind: EventGameWon})
	}
	return events, nil
}

func reject(table *domain.Table, target domain.PileRef) []Event {
	card := table.Selection.Cards[0]
	table.ClearSelection()
	table.Notice = domain.NoticeInvalidMove
	return []Event{{
		Kind:    EventInvalidMove,
		Payload: InvalidMovePayload{Target: target, Card: card},
	}}
}
