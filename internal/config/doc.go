// Package config loads, normalizes, and validates Scrutiny's TOML
// configuration.
//
// Load resolves the config path (explicit flag, ~/.config/scrutiny/config.toml,
// or ./scrutiny.toml), layers the file over Default(), expands ~ in every path
// field, and validates the result so later stages can assume a usable config.
// CreateSample writes the embedded sample_config.toml for `scrutiny config
// init`.
//
// Validation errors name the offending key and, where possible, the command
// that fixes it.
package config
