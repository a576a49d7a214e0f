// Package config loads and validates the sofictl TOML configuration.
//
// Configuration resolution order: explicit --config path, then
// ~/.config/sofictl/config.toml, then ./sofictl.toml, then built-in
// defaults when no file exists.
package config
