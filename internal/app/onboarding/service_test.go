package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"
)

type profileCall struct {
	userID      string
	displayName string
	langTag     string
}

type fakeAccountPort struct {
	updateErr error
	calls     []profileCall
}

func (f *fakeAccountPort) LangTag(ctx context.Context, userID string) (string, error) {
	return "", nil
}

func (f *fakeAccountPort) UpdateProfile(ctx context.Context, userID, displayName, langTag string) error {
	f.calls = append(f.calls, profileCall{userID: userID, displayName: displayName, langTag: langTag})
	return f.updateErr
}

var friendlyName = regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d{4}$`)

func TestOnboardNewUser_SetsProfile(t *testing.T) {
	tests := []struct {
		name          string
		requestedLang string
		defaultLocale string
		wantLang      string
	}{
		{name: "HintWins", requestedLang: "sl-SI", defaultLocale: "en-US", wantLang: "sl"},
		{name: "NoHintUsesDefault", requestedLang: "", defaultLocale: "sl", wantLang: "sl"},
		{name: "UnsupportedFallsBack", requestedLang: "xx-invalid-!", defaultLocale: "", wantLang: "en-US"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			accounts := &fakeAccountPort{}
			service := NewService(accounts, test.defaultLocale, rand.New(rand.NewSource(1)))

			result, err := service.OnboardNewUser(context.Background(), "user-1", test.requestedLang)
			if err != nil {
				t.Fatalf("OnboardNewUser returned error: %v", err)
			}
			if len(accounts.calls) != 1 {
				t.Fatalf("Expected 1 profile update, got %d", len(accounts.calls))
			}
			call := accounts.calls[0]
			if call.userID != "user-1" {
				t.Fatalf("Expected update for user-1, got %s", call.userID)
			}
			if call.langTag != test.wantLang || result.LangTag != test.wantLang {
				t.Fatalf("Expected lang tag %s, got call=%s result=%s", test.wantLang, call.langTag, result.LangTag)
			}
			if !friendlyName.MatchString(call.displayName) {
				t.Fatalf("Unexpected display name %q", call.displayName)
			}
		})
	}
}

func TestOnboardNewUser_DeterministicWithSeededRng(t *testing.T) {
	first, _ := NewService(&fakeAccountPort{}, "en-US", rand.New(rand.NewSource(7))).OnboardNewUser(context.Background(), "u", "")
	second, _ := NewService(&fakeAccountPort{}, "en-US", rand.New(rand.NewSource(7))).OnboardNewUser(context.Background(), "u", "")
	if first.DisplayName != second.DisplayName {
		t.Fatalf("Expected identical names for identical seeds, got %s and %s", first.DisplayName, second.DisplayName)
	}
}

func TestOnboardNewUser_UpdateFailure(t *testing.T) {
	updateErr := errors.New("update failed")
	accounts := &fakeAccountPort{updateErr: updateErr}
	service := NewService(accounts, "en-US", rand.New(rand.NewSource(1)))

	_, err := service.OnboardNewUser(context.Background(), "user-1", "")
	if !errors.Is(err, updateErr) {
		t.Fatalf("Expected wrapped update error, got %v", err)
	}
}

func TestOnboardNewUser_NotConfigured(t *testing.T) {
	service := NewService(nil, "en-US", nil)
	if _, err := service.OnboardNewUser(context.Background(), "user-1", ""); err == nil {
		t.Fatal("Expected error for missing account port")
	}
}
