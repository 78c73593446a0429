package commands

import (
	"github.com/tilemux/tilemux/internal/config"
	"github.com/tilemux/tilemux/internal/log"
	"github.com/tilemux/tilemux/internal/settings"
)

// Runner is the interface all subcommands implement.
type Runner interface {
	// Init initializes the command with arguments
	Init(args []string, ctx *AppContext) error
	// Run executes the command
	Run() error
	// Name returns the command name
	Name() string
}

// AppContext carries the global flags into each subcommand.
type AppContext struct {
	SettingsPath string
	Verbose      bool
}

// loadSettings reads the daemon settings and applies its log level.
func loadSettings(ctx *AppContext) (*settings.Settings, error) {
	s, err := settings.Load(ctx.SettingsPath)
	if err != nil {
		return nil, err
	}

	if s.Verbose() {
		log.SetVerbose(true)
	}
	return s, nil
}

// loadDocument parses the proxy configuration document at path.
func loadDocument(path string) (*config.Document, error) {
	return config.ParseFile(path)
}
