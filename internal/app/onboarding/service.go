package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"klondike/internal/notice"
	"klondike/internal/ports"
)

// Result describes the profile written for a new account.
type Result struct {
	DisplayName string
	LangTag     string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts      ports.AccountPort
	defaultLocale string
	rng           *rand.Rand
}

// NewService constructs an onboarding service. accounts must be non-nil; rng may be nil
// to use a time-seeded default.
func NewService(accounts ports.AccountPort, defaultLocale string, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts:      accounts,
		defaultLocale: defaultLocale,
		rng:           rng,
	}
}

// OnboardNewUser gives a newly created account a friendly display name and a lang tag the
// notice catalog supports. requestedLang is the client's hint and may be empty.
func (s *Service) OnboardNewUser(ctx context.Context, userID, requestedLang string) (Result, error) {
	if s.accounts == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{
		DisplayName: s.generateFriendlyName(),
		LangTag:     notice.NewPrinter(requestedLang, s.defaultLocale).Locale(),
	}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.LangTag); err != nil {
		return result, fmt.Errorf("failed to update profile: %w", err)
	}
	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Patient", "Lucky", "Steady", "Clever", "Quiet", "Calm", "Careful", "Witty", "Sly", "Bold"}
	nouns := []string{"Ace", "King", "Queen", "Jack", "Joker", "Dealer", "Shuffler", "Knave", "Spade", "Heart"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
