package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeforest/pkg/buildinfo"
	"github.com/matzehuels/nodeforest/pkg/config"
	"github.com/matzehuels/nodeforest/pkg/repository"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the configuration is loaded from --config (or
// the default locations), the environment and the --storage flag, and the
// log level is set from the config or --verbose.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "nodeforest keeps a forest of named nodes consistent",
		Long: `nodeforest stores a forest of named nodes and moves them between parents
without ever creating a cycle. It serves the forest over HTTP, renders it
in the terminal, and exports it as JSON, YAML or Graphviz diagrams.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $NODEFOREST_CONFIG or ~/.config/nodeforest/config.toml)")
	flags.StringVar(&c.storage, "storage", "", fmt.Sprintf("storage backend %v", repository.Backends()))
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.shellCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig layers flags over the loaded configuration.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.storage != "" {
		if !slices.Contains(repository.Backends(), c.storage) {
			return fmt.Errorf("--storage: %w: %q", repository.ErrUnknownBackend, c.storage)
		}
		cfg.Storage.Backend = c.storage
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.cfg = cfg
	return nil
}
