// Package config loads server settings from the environment.
//
// A .env file in the working directory is honoured when present, matching
// the usual local development setup. Microsoft credentials are the primary
// configuration; GitHub and Google providers are optional and only enabled
// when their client IDs are set.
package config
