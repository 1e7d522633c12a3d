package app

import (
	"fmt"

	"answerdb/pkg/config"
)

// validateConfig checks the effective config early so startup fails fast
// with a clear message instead of a mid-request surprise.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.Addr == "" {
		return fmt.Errorf("listen address is empty")
	}
	if eff.DBPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if eff.Config.Provider.Endpoint == "" {
		return fmt.Errorf("provider.endpoint is required")
	}
	if eff.Config.Provider.Model == "" {
		return fmt.Errorf("provider.model is required")
	}
	if eff.Config.Cache.PromoteThreshold < 0 {
		return fmt.Errorf("cache.promote_threshold must not be negative")
	}
	if _, err := eff.Config.Validate.MaxAnswerBytes(); err != nil {
		return err
	}
	return nil
}
