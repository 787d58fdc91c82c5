package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that every value the current environment requires is
// present. Development is permissive; everything else needs credentials set
// explicitly.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}

	if GetEnvironment() != Development {
		if cfg.DBUser == "" {
			errors = append(errors, "DB_USER is required")
		}
		if cfg.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD is required")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}
