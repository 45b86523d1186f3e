package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the assembled configuration. Struct tags cover field-level
// constraints; the cross-field checks below cover what tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Credential.Mode == "static" && c.Credential.StaticToken == "" {
		return fmt.Errorf("credential.static_token is required when credential.mode is %q", "static")
	}

	if c.Observability.Metrics.Enabled && c.Observability.Metrics.Path == "" {
		return fmt.Errorf("observability.metrics.path is required when metrics are enabled")
	}

	return nil
}
