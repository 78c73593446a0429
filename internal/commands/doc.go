// Package commands implements the tilemux subcommands.
//
// Each subcommand implements the Runner interface and is dispatched by
// name from main:
//
//	serve  - run the admin HTTP API
//	check  - validate the proxy configuration document and exit
//
// Global flags (settings file path, verbosity) arrive through AppContext;
// each command parses its own flags with a flag.FlagSet. Values from the
// settings file are defaults, command-line flags override them.
package commands
