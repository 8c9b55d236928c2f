// Package config loads the arbor.json project configuration used by
// the arbor CLI.
//
// Every field has a sensible default; a missing file is not an error.
// Environment variables (ARBOR_ADDR, ARBOR_LOG_LEVEL) override file
// values, and command-line flags override both.
package config
