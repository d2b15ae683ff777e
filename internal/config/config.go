package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// GameConfig holds the tunables of the Klondike match handler.
type GameConfig struct {
	// TickRate is the Nakama match tick rate (1..60).
	TickRate int `yaml:"tick_rate" env:"klondike_tick_rate"`
	// IdleTimeoutSeconds terminates a match that has had no presence for this long.
	IdleTimeoutSeconds int `yaml:"idle_timeout_seconds" env:"klondike_idle_timeout_sec"`
	// DefaultLocale is used for notices when the player has no usable lang tag.
	DefaultLocale string `yaml:"default_locale" env:"klondike_default_locale"`
	// FixedSeed deals every game from the same shuffle when non-zero.
	FixedSeed int64 `yaml:"fixed_seed" env:"klondike_fixed_seed"`
	// HideFaceDown strips suit and rank from face-down cards on the wire.
	HideFaceDown bool `yaml:"hide_face_down" env:"klondike_hide_face_down"`
}

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		TickRate:           5,
		IdleTimeoutSeconds: 60,
		DefaultLocale:      "en-US",
		HideFaceDown:       true,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. A missing file is not an
// error and leaves the defaults in place.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := load(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the defaults before a successful load.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

func load(path string) (GameConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return GameConfig{}, fmt.Errorf("failed to read game config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults. Unknown keys are rejected.
func Parse(data []byte) (GameConfig, error) {
	c := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

// WithEnv overlays Nakama runtime environment values onto c.
func (c GameConfig) WithEnv(environ map[string]string) (GameConfig, error) {
	if len(environ) == 0 {
		return c, nil
	}
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return GameConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

func (c GameConfig) validate() error {
	if c.TickRate < 1 || c.TickRate > 60 {
		return fmt.Errorf("tick_rate must be within 1..60, got %d", c.TickRate)
	}
	if c.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("idle_timeout_seconds must not be negative, got %d", c.IdleTimeoutSeconds)
	}
	return nil
}
