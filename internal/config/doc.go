// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for termfolio.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - TerminalConfig: theme, start mode and auto-play typing speed
//   - RevealConfig: visibility threshold, bottom margin and parallax tuning
//   - ServerConfig, SSHConfig: outer surfaces
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TERMFOLIO_*, PORT), including a local .env file
//   - ~/.termfolio/config.toml
//   - ~/.termfolio/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctrl := reveal.NewController(sections, reveal.Options{Config: cfg.RevealSettings()})
package config
