package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tilemux/tilemux/internal/api"
	"github.com/tilemux/tilemux/internal/log"
	"github.com/tilemux/tilemux/internal/settings"
)

// ServeCommand runs the admin HTTP API.
type ServeCommand struct {
	fs *flag.FlagSet

	settings *settings.Settings

	// Command-specific flags
	bindAddr   string
	configPath string
}

// CreateServeCommand creates a new serve command.
func CreateServeCommand() Runner {
	return &ServeCommand{}
}

// Name returns the command name.
func (c *ServeCommand) Name() string {
	return "serve"
}

// Init initializes the serve command with arguments.
func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.fs = flag.NewFlagSet("serve", flag.ExitOnError)
	c.fs.StringVar(&c.bindAddr, "bind", "", "Address to bind the admin API (overrides settings)")
	c.fs.StringVar(&c.configPath, "proxy-config", "", "Path to the proxy configuration document (overrides settings)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	s, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	c.settings = s

	// Flags override the settings file
	if c.bindAddr == "" {
		c.bindAddr = s.BindAddress()
	}
	if c.configPath == "" {
		c.configPath = s.ProxyConfigPath()
	}

	if _, err := os.Stat(c.configPath); err != nil {
		return fmt.Errorf("proxy configuration not found: %s", c.configPath)
	}

	return nil
}

// Run starts the admin API server and blocks until shutdown.
func (c *ServeCommand) Run() error {
	// Fail fast on a document the API could never serve
	if _, err := loadDocument(c.configPath); err != nil {
		return err
	}
	log.Infof("Serving configuration %s", c.configPath)

	if c.settings.PrivateOnly() {
		log.Infof("Access restricted to private subnets only")
	}

	server := api.NewServer(c.configPath, c.bindAddr, api.RouterOptions{
		PrivateOnly: c.settings.PrivateOnly(),
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serverErrors:
		if err != nil {
			return err
		}

	case sig := <-shutdown:
		log.Infof("Received signal %v, shutting down...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			log.Errorf("Error during server shutdown: %v", err)
			if err := server.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		log.Infof("Server stopped gracefully")
	}

	return nil
}
