// Package config loads, normalizes, and validates stagecrate configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: decoder limits, logging options, and the inspection
// catalog location. Always obtain settings through this package so
// downstream code receives sanitized paths and validated limits.
package config
