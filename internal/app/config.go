package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config contains global runtime configuration.
type Config struct {
	StateDir       string        `validate:"required"`
	LookupPaths    []string      `validate:"min=1,dive,required"`
	Registry       string        `validate:"required_unless=NoUpdateCheck true"`
	NoUpdateCheck  bool
	UpdateInterval time.Duration `validate:"gte=0"`
	LogLevel       string        `validate:"omitempty,oneof=debug info warn error"`
	Timeout        time.Duration `validate:"gt=0"`
}

// fieldErrors maps a failing Config field to the message shown to the user.
var fieldErrors = map[string]string{
	"StateDir":       "state directory cannot be empty",
	"LookupPaths":    "at least one lookup path is required",
	"Registry":       "registry cannot be empty when update checks are enabled",
	"UpdateInterval": "update interval cannot be negative",
	"LogLevel":       "log level must be one of debug, info, warn or error",
	"Timeout":        "timeout must be positive",
}

var validate = validator.New()

// ConfigFromViper reads Config from Viper-bound flags/env without validating
// it, so callers can fill in defaults first.
func ConfigFromViper() Config {
	return Config{
		StateDir:       viper.GetString("state_dir"),
		LookupPaths:    viper.GetStringSlice("lookup_paths"),
		Registry:       viper.GetString("registry"),
		NoUpdateCheck:  viper.GetBool("no_update_check"),
		UpdateInterval: viper.GetDuration("update_interval"),
		LogLevel:       viper.GetString("log_level"),
		Timeout:        viper.GetDuration("timeout"),
	}
}

// LoadConfigFromViper builds Config from Viper-bound flags/env.
func LoadConfigFromViper() (Config, error) {
	cfg := ConfigFromViper()
	return cfg, cfg.Validate()
}

// Validate returns error if configuration is invalid.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation failed: %w", err)
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldErrors[fe.StructField()]
		if !ok {
			msg = fe.Error()
		}
		errs = append(errs, errors.New(msg))
	}
	return errors.Join(errs...)
}
