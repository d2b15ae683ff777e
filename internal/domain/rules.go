package domain

// IsValidTableauMove reports whether moving may be placed on a tableau column whose top
// card is dest (nil for an empty column). Columns build down in alternating colors and
// only a King may start an empty column.
func IsValidTableauMove(dest *Card, moving Card) bool {
	if dest == nil {
		return moving.Rank == King
	}
	if dest.Color() == moving.Color() {
		return false
	}
	return dest.Rank == moving.Rank+1
}

// IsValidFoundationMove reports whether moving may be placed on a foundation whose top card
// is dest (nil for an empty foundation). Foundations build up by suit from the Ace.
func IsValidFoundationMove(dest *Card, moving Card) bool {
	if dest == nil {
		return moving.Rank == Ace
	}
	if dest.Suit != moving.Suit {
		return false
	}
	return dest.Rank == moving.Rank-1
}

// IsGameWon reports whether every foundation holds a full suit.
func IsGameWon(foundations []Pile) bool {
	if len(foundations) != FoundationCount {
		return false
	}
	for i := range foundations {
		if foundations[i].Len() != int(King) {
			return false
		}
	}
	return true
}
