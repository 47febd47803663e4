// Package config loads and validates application configuration from the
// environment, with optional .env file support for local development.
package config
