package app

import "klondike/internal/domain"

// EventKind identifies emitted table events for dispatch by a port.
type EventKind string

const (
	EventGameStarted   EventKind = "game_started"
	EventStockDrawn    EventKind = "stock_drawn"
	EventStockRecycled EventKind = "stock_recycled"
	EventSelected      EventKind = "selected"
	EventDeselected    EventKind = "deselected"
	EventCardsMoved    EventKind = "cards_moved"
	EventCardRevealed  EventKind = "card_revealed"
	EventInvalidMove   EventKind = "invalid_move"
	EventGameWon       EventKind = "game_won"
)

// Event is an app event describing one observable table change.
type Event struct {
	Kind    EventKind
	Payload any
}

type GameStartedPayload struct {
	Seed int64
}

type StockDrawnPayload struct {
	Card domain.Card
}

type StockRecycledPayload struct {
	Count int
}

type SelectedPayload struct {
	Source domain.PileRef
	Cards  []domain.Card
}

type CardsMovedPayload struct {
	From  domain.PileRef
	To    domain.PileRef
	Cards []domain.Card
}

type CardRevealedPayload struct {
	Card domain.Card
}

type InvalidMovePayload struct {
	Target domain.PileRef
	Card   domain.Card
}
