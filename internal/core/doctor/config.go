package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/wingman/internal/core/config"
)

// ConfigCheck runs deep validation on the loaded configuration.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

// NewConfigCheck creates a new config check.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	err := c.cfg.ValidateDeep(c.path)
	if err == nil {
		result.add("config", StatusPass, c.path)
		result.add("user_id", StatusPass, c.cfg.UserID)
		return result
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		result.add("config", StatusFail, err.Error())
		return result
	}
	for _, fe := range fieldErrs {
		result.add(fe.Field, StatusFail, fe.Err.Error())
	}
	return result
}
