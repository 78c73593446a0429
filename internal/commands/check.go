package commands

import (
	"flag"
	"fmt"

	"github.com/tilemux/tilemux/internal/log"
	"github.com/tilemux/tilemux/internal/topology"
)

// CheckCommand validates a configuration document without serving it.
type CheckCommand struct {
	fs *flag.FlagSet

	configPath string
}

// CreateCheckCommand creates a new check command.
func CreateCheckCommand() Runner {
	return &CheckCommand{}
}

// Name returns the command name.
func (c *CheckCommand) Name() string {
	return "check"
}

// Init initializes the check command with arguments.
func (c *CheckCommand) Init(args []string, ctx *AppContext) error {
	c.fs = flag.NewFlagSet("check", flag.ExitOnError)
	c.fs.StringVar(&c.configPath, "proxy-config", "", "Path to the proxy configuration document (overrides settings)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	s, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if c.configPath == "" {
		c.configPath = s.ProxyConfigPath()
	}

	return nil
}

// Run loads, validates, and instantiates the document once. Warnings are
// logged; blocking findings or a failed build make the command fail.
func (c *CheckCommand) Run() error {
	doc, err := loadDocument(c.configPath)
	if err != nil {
		return err
	}

	findings := doc.Validate()
	for _, warning := range findings.Informal() {
		log.Warnf("%s", warning.String())
	}
	if blocking := findings.Blocking(); len(blocking) > 0 {
		return blocking
	}

	topo, err := topology.Build(doc)
	if err != nil {
		return fmt.Errorf("failed to instantiate configuration: %w", err)
	}

	log.Infof("Configuration %s is valid: %d layer(s), %d cache(s), %d source(s), %d grid(s)",
		c.configPath, len(topo.Layers), len(topo.Caches), len(topo.Sources), len(topo.Grids))
	return nil
}
