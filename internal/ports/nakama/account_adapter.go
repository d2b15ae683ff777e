package nakama

import (
	"context"
	"fmt"

	"klondike/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
)

// accountStore is the subset of runtime.NakamaModule the adapter uses.
type accountStore interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
	AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error
}

// NakamaAccountAdapter implements ports.AccountPort using Nakama's account API.
type NakamaAccountAdapter struct {
	nk accountStore
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk accountStore) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// LangTag returns the lang tag stored on the user's Nakama account.
func (a *NakamaAccountAdapter) LangTag(ctx context.Context, userID string) (string, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get account: %w", err)
	}
	return account.GetUser().GetLangTag(), nil
}

// UpdateProfile updates display name and lang tag, leaving the username untouched.
func (a *NakamaAccountAdapter) UpdateProfile(ctx context.Context, userID, displayName, langTag string) error {
	return a.nk.AccountUpdateId(ctx, userID, "", nil, displayName, "", "", langTag, "")
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
