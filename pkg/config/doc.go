// Package config provides configuration loading, validation, and defaults
// for the VenTY relay gateway.
//
// Configuration is loaded from a YAML file, merged with default values, and
// optionally overridden by VENTY_* environment variables. The provider
// catalog (the set of upstream LLM endpoints the router selects among) is
// part of the configuration file and is validated at load time: an empty
// model list or a missing credential is a fatal configuration error, never
// a per-request condition.
package config
