// Command schoolsd runs the school directory HTTP API.
//
//	schoolsd serve     start the HTTP server (default)
//	schoolsd migrate   create or update the SQL schema and exit
//
// Configuration is read from the environment; a .env file in the working
// directory is loaded first when present.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-school-directory/internal/config"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("schoolsd failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "schoolsd",
		Short:         "School directory API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			setupLogging(cfg)
			return nil
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schools table and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cfg)
		},
	}

	root.AddCommand(serve, migrate)
	root.RunE = serve.RunE

	return root
}
