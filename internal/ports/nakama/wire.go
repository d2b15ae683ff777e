package nakama

import (
	"klondike/internal/domain"
	"klondike/internal/notice"
)

// CardMsg is one card as sent to clients. Suit and Rank are omitted for hidden cards.
type CardMsg struct {
	Suit     string `json:"suit,omitempty"`
	Rank     int    `json:"rank,omitempty"`
	FaceUp   bool   `json:"face_up"`
	Selected bool   `json:"selected,omitempty"`
	Asset    string `json:"asset"`
}

// TableSnapshotEvent is the full render state of the table (OpTableSnapshot).
type TableSnapshotEvent struct {
	Seed        int64       `json:"seed"`
	Stock       []CardMsg   `json:"stock"`
	Waste       []CardMsg   `json:"waste"`
	Tableau     [][]CardMsg `json:"tableau"`
	Foundations [][]CardMsg `json:"foundations"`
	Selected    string      `json:"selected"`
	Notice      string      `json:"notice,omitempty"`
	Won         bool        `json:"won"`
	Locale      string      `json:"locale"`
}

// NoticeEvent carries a localized, non-fatal notice (OpNotice).
type NoticeEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameWonEvent is sent once when the last card reaches the foundations (OpGameWon).
type GameWonEvent struct {
	Seed    int64  `json:"seed"`
	Message string `json:"message"`
}

// GameErrorEvent reports a rejected or malformed request (OpGameError).
type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewGameRequest is the optional payload of OpNewGame.
type NewGameRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

// TableauClickRequest is the payload of OpTableauClicked. Card is omitted when the
// click landed on an empty column.
type TableauClickRequest struct {
	Column int  `json:"column"`
	Card   *int `json:"card,omitempty"`
}

// FoundationClickRequest is the payload of OpFoundationClicked.
type FoundationClickRequest struct {
	Foundation int `json:"foundation"`
}

func snapshotToWire(s domain.Snapshot, printer *notice.Printer, hideFaceDown bool) TableSnapshotEvent {
	out := TableSnapshotEvent{
		Seed:        s.Seed,
		Stock:       cardsToWire(s.Stock, hideFaceDown),
		Waste:       cardsToWire(s.Waste, hideFaceDown),
		Tableau:     make([][]CardMsg, len(s.Tableau)),
		Foundations: make([][]CardMsg, len(s.Foundations)),
		Selected:    printer.SelectionLabel(s.SelectedName),
		Notice:      printer.Notice(s.Notice),
		Won:         s.Won,
		Locale:      printer.Locale(),
	}
	for i, col := range s.Tableau {
		out.Tableau[i] = cardsToWire(col, hideFaceDown)
	}
	for i, f := range s.Foundations {
		out.Foundations[i] = cardsToWire(f, hideFaceDown)
	}
	return out
}

func cardsToWire(cards []domain.CardView, hideFaceDown bool) []CardMsg {
	out := make([]CardMsg, 0, len(cards))
	for _, c := range cards {
		msg := CardMsg{FaceUp: c.FaceUp, Selected: c.Selected, Asset: c.Asset}
		if c.FaceUp || !hideFaceDown {
			msg.Suit = c.Suit.String()
			msg.Rank = int(c.Rank)
		}
		out = append(out, msg)
	}
	return out
}
