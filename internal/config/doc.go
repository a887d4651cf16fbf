// Package config loads process configuration from environment variables and
// the upstream source definitions from a YAML file.
package config
