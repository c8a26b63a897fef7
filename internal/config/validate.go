package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Translator.MaxAttempts < 1 {
		return fmt.Errorf("translator.max_attempts must be >= 1 (got %d)", c.Translator.MaxAttempts)
	}
	if c.Translator.AttemptTimeout <= 0 {
		return fmt.Errorf("translator.attempt_timeout must be > 0 (got %v)", c.Translator.AttemptTimeout)
	}
	if c.Translator.BaseURL == "" {
		return fmt.Errorf("translator.base_url must not be empty")
	}

	if c.Retention.Days < 1 {
		return fmt.Errorf("retention.days must be >= 1 (got %d)", c.Retention.Days)
	}
	if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
		return fmt.Errorf("retention.schedule: %w", err)
	}

	if c.Highlight.MaxTextNodes < 1 {
		return fmt.Errorf("highlight.max_text_nodes must be >= 1 (got %d)", c.Highlight.MaxTextNodes)
	}

	return nil
}
