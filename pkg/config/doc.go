// Package config handles configuration management for omarchy-setup.
// Configuration is layered with koanf: the embedded defaults, then the user
// config file (TOML or YAML), then OMARCHY_SETUP_* environment variables.
package config
