package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCommand() *cobra.Command {
	var flagValues Config
	var configPath string

	cmd := &cobra.Command{
		Use:           "prec [flags] FILE" + SourceExtension,
		Short:         "Compile C with classes",
		Long:          "prec rewrites the classes, methods and constructors of a PreC file into plain C, and compiles the result",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := DefaultConfig()

			if configPath == "" {
				if wd, err := os.Getwd(); err == nil {
					configPath = FindConfig(wd)
				}
			}
			if configPath != "" {
				if err := LoadConfig(configPath, &cfg); err != nil {
					return err
				}
			}
			cfg.Override(cmd.Flags(), flagValues)

			if cfg.Verbose {
				log.SetLevel(log.DebugLevel)
			}
			if configPath != "" {
				log.WithField("config", configPath).Debug("Loaded config")
			}

			return Build(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
		},
	}

	flagValues.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", "", "config file, defaults to prec.yaml, prec.yml or prec.toml in the working directory")
	return cmd
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("Failed to build")
		os.Exit(1)
	}
}
