// Package config loads, validates, and normalizes the worker configuration.
//
// Configuration is a single TOML file (default ~/.config/dubber/config.toml)
// decoded over repository defaults. Credentials may additionally be supplied
// through DUBBER_-prefixed environment variables, which take precedence over
// file values so secrets can stay out of the config file.
package config
