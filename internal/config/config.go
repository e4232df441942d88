package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// TimingConfig holds the time-boxed budgets the turn/phase engine consults
// (spec §4.5 "Timed rounds"). Every field has a sane default so the engine
// runs correctly even when no config file is loaded.
type TimingConfig struct {
	TurnTimeout        time.Duration `json:"turn_timeout_seconds"`
	RoundBudget        time.Duration `json:"round_budget_seconds"`
	SameRankWindow     time.Duration `json:"same_rank_window_seconds"`
	SpecialCardWindow  time.Duration `json:"special_card_window_seconds"`
	TimedRoundsEnabled bool          `json:"timed_rounds_enabled"`
}

// DefaultTimingConfig matches the defaults named in spec §4.5.
var DefaultTimingConfig = TimingConfig{
	TurnTimeout:        30 * time.Second,
	RoundBudget:        300 * time.Second,
	SameRankWindow:     5 * time.Second,
	SpecialCardWindow:  10 * time.Second,
	TimedRoundsEnabled: true,
}

// jsonTimingConfig is the on-disk shape: seconds as plain integers rather
// than time.Duration's nanosecond encoding.
type jsonTimingConfig struct {
	TurnTimeoutSeconds       int64 `json:"turn_timeout_seconds"`
	RoundBudgetSeconds       int64 `json:"round_budget_seconds"`
	SameRankWindowSeconds    int64 `json:"same_rank_window_seconds"`
	SpecialCardWindowSeconds int64 `json:"special_card_window_seconds"`
	TimedRoundsEnabled       bool  `json:"timed_rounds_enabled"`
}

var (
	cfg      *TimingConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadTimingConfig loads the timing configuration from the given path. The
// load happens at most once per process; subsequent calls are no-ops that
// return the original error, if any.
func LoadTimingConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("config: failed to read timing config: %w", err)
			return
		}

		var j jsonTimingConfig
		if err := json.Unmarshal(data, &j); err != nil {
			loadErr = fmt.Errorf("config: failed to unmarshal timing config: %w", err)
			return
		}

		c := DefaultTimingConfig
		if j.TurnTimeoutSeconds > 0 {
			c.TurnTimeout = time.Duration(j.TurnTimeoutSeconds) * time.Second
		}
		if j.RoundBudgetSeconds > 0 {
			c.RoundBudget = time.Duration(j.RoundBudgetSeconds) * time.Second
		}
		if j.SameRankWindowSeconds > 0 {
			c.SameRankWindow = time.Duration(j.SameRankWindowSeconds) * time.Second
		}
		if j.SpecialCardWindowSeconds > 0 {
			c.SpecialCardWindow = time.Duration(j.SpecialCardWindowSeconds) * time.Second
		}
		c.TimedRoundsEnabled = j.TimedRoundsEnabled
		cfg = &c
	})
	return loadErr
}

// Get returns the global timing configuration, falling back to
// DefaultTimingConfig if nothing has been loaded.
func Get() TimingConfig {
	if cfg == nil {
		return DefaultTimingConfig
	}
	return *cfg
}
