// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfigVar names the environment variable that points at an optional
// deployment configuration file.
const EnvConfigVar = "CAPTCHA_API_CONFIG"

// Environment holds the process environment consulted during bootstrap.
type Environment struct {
	// ConfigPath is the path of the deployment configuration file.
	// Env: CAPTCHA_API_CONFIG
	ConfigPath string `env:"CAPTCHA_API_CONFIG,required,notEmpty"`
}

// parseEnv populates cfg from environment variables using the caarlos0/env
// library.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
