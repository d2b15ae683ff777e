package ports

import "context"

// AccountPort reads and updates the account details the game needs about its player.
type AccountPort interface {
	// LangTag returns the account's preferred language tag, e.g. "en" or "sl-SI".
	// An empty tag with a nil error means the account has no preference.
	LangTag(ctx context.Context, userID string) (string, error)
	// UpdateProfile sets the display name and language tag of an account.
	UpdateProfile(ctx context.Context, userID, displayName, langTag string) error
}
