// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	envstruct "code.cloudfoundry.org/go-envstruct"
)

// Config is the environment configuration of starlabel.
type Config struct {
	LogLevel string `env:"STARLABEL_LOG_LEVEL, report"`
	ShowEnv  bool   `env:"STARLABEL_SHOW_ENV, report"`
	Report   bool   `env:"STARLABEL_REPORT"`
}

// LoadConfig creates a Config from environment variables.
func LoadConfig() (*Config, error) {
	c := Config{
		LogLevel: "warn",
	}

	if err := envstruct.Load(&c); err != nil {
		return nil, err
	}

	return &c, nil
}
