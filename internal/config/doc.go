// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatnotes.
//
// # Configuration Sources
//
// Configuration is loaded from multiple sources in order of precedence:
//  1. Environment variables (CHATNOTES_*)
//  2. ~/.chatnotes/config.toml
//  3. ~/.chatnotes/config.json
//  4. Built-in defaults
//
// # Example config.toml
//
//	[storage]
//	backend = "sqlite"
//	path = "/home/me/.chatnotes/chatnotes.db"
//
//	[export]
//	output_dir = "~/notes"
//	timezone = "Europe/Berlin"
//
//	[log]
//	level = "info"
//
// # Usage
//
//	cfg, err := config.Load()
//	kv, err := storage.Open(cfg.Storage)
package config
