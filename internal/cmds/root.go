// Package cmds wires the xpq subcommands.
package cmds

import (
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fraugster/xpq/internal/config"
	"github.com/fraugster/xpq/internal/output"
)

var formatList = strings.Join(output.Formats(), ", ")

var rootCmd = &cobra.Command{
	Use:           "xpq",
	Short:         "xpq is a tool to inspect parquet data files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath *string

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "", "Path to the config file (default $HOME/"+config.DefaultFileName+")")
}

// loadConfig loads the explicitly named config file, or the implicit one
// from the home directory. Only an explicitly named file is allowed to fail
// the command.
func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.Load(*configPath)
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		log.Printf("Ignoring config file: %q", err)
		return config.Default(), nil
	}
	return cfg, nil
}

// resolveFormat loads the config and picks the output format: the flag when
// given, the configured default otherwise.
func resolveFormat(flag string) (output.Format, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", nil, err
	}

	name := flag
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return "", nil, err
	}
	return format, cfg, nil
}

// Execute try to find and execute the command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute command: %q", err)
	}
}
