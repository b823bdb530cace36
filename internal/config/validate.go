package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key must be set")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must be set")
	}
	if c.LLM.CallTimeout <= 0 {
		return fmt.Errorf("llm.call_timeout must be > 0 (got %v)", c.LLM.CallTimeout)
	}

	if err := c.Generation.validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	return nil
}

func (g *GenerationConfig) validate() error {
	if g.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", g.MaxRetries)
	}
	if g.VocabSample <= 0 {
		return fmt.Errorf("vocab_sample must be > 0 (got %d)", g.VocabSample)
	}
	if g.ImportWorkers <= 0 {
		return fmt.Errorf("import_workers must be > 0 (got %d)", g.ImportWorkers)
	}
	if g.ItemTimeout <= 0 {
		return fmt.Errorf("item_timeout must be > 0 (got %v)", g.ItemTimeout)
	}
	return nil
}
