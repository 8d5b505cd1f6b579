// Package config holds the export configuration and its validation.
//
// The configuration is a single flat struct populated from CLI flags and,
// for credentials and base URLs, optionally from a YAML configuration file.
// It is passed through the application via dependency injection rather than
// global state.
package config
