// Package settings loads the daemon's TOML settings file.
//
// The settings file configures the daemon itself (listen address, access
// policy, location of the administered document). It is separate from the
// proxy configuration document the admin API mutates; that one lives in
// package config.
//
// Example:
//
//	[api]
//	bind_address = "127.0.0.1:8080"
//	allow_public = false
//
//	[proxy]
//	config_path = "/etc/tilemux/tilemux.yaml"
//
//	[log]
//	verbose = false
//
// All sections and keys are optional. Load never fails on a missing file;
// defaults cover everything and command-line flags override.
package settings
