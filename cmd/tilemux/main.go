package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tilemux/tilemux/internal/commands"
	"github.com/tilemux/tilemux/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	// Define global flags
	flag.StringVar(&ctx.SettingsPath, "config", "/etc/tilemux/settings.toml", "Path to the daemon settings file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable verbose logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tilemux - admin API for tile proxy configurations\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [command options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the admin HTTP API\n")
		fmt.Fprintf(os.Stderr, "  check                   Validate the proxy configuration document and exit\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	cmds := []commands.Runner{
		commands.CreateServeCommand(),
		commands.CreateCheckCommand(),
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}
			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}
			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s (run with no arguments for usage)", subcommand)
}
