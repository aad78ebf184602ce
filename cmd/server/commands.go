package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/captcha-api/internal/app"
	"github.com/MKhiriev/captcha-api/internal/config"
	"github.com/MKhiriev/captcha-api/internal/server"
	"github.com/MKhiriev/captcha-api/internal/store"
	"github.com/MKhiriev/captcha-api/internal/workers"
	"github.com/MKhiriev/captcha-api/migrations"
	"github.com/MKhiriev/captcha-api/models"
)

var errTasksDisabled = errors.New("background tasks are disabled, set USE_CELERY = True")

type rootFlags struct {
	noEnvConfig bool
	rootPath    string
	embedded    bool
}

func newRootCmd(info models.AppBuildInfo) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "captcha-api",
		Short:         "Captcha REST API service",
		Long:          "Captcha REST API service. Without a subcommand the HTTP server is started.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, info)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&flags.noEnvConfig, "no-env-config", false,
		"Ignore the file named by "+config.EnvConfigVar)
	rootCmd.PersistentFlags().StringVar(&flags.rootPath, "root", "",
		"Application root holding the migrations directory (default: working directory)")

	rootCmd.AddCommand(newServeCmd(flags, info))
	rootCmd.AddCommand(newWorkerCmd(flags, info))
	rootCmd.AddCommand(newMigrateCmd(flags, info))

	return rootCmd
}

func newApp(flags *rootFlags, info models.AppBuildInfo) (*app.App, error) {
	return app.New(
		app.WithEnvConfig(!flags.noEnvConfig),
		app.WithRootPath(flags.rootPath),
		app.WithBuildInfo(info),
	)
}

func newServeCmd(flags *rootFlags, info models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, info)
		},
	}
}

func runServe(cmd *cobra.Command, flags *rootFlags, info models.AppBuildInfo) error {
	a, err := newApp(flags, info)
	if err != nil {
		return err
	}
	defer a.Close()

	srvCfg, err := config.ServerFrom(a.Config)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(a.Handler(), srvCfg, a.Logger)
	if err != nil {
		return err
	}

	return srv.RunServer(cmd.Context())
}

func newWorkerCmd(flags *rootFlags, info models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume and run background tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, info)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Tasks == nil {
				return errTasksDisabled
			}

			w, err := a.Tasks.Worker()
			if err != nil {
				return err
			}

			return workers.New(w).Run(cmd.Context())
		},
	}
}

func newMigrateCmd(flags *rootFlags, info models.AppBuildInfo) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}
	migrateCmd.PersistentFlags().BoolVar(&flags.embedded, "embedded", false,
		"Use the migrations compiled into the binary instead of <root>/migrations")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, info)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := migrator(a, flags).Up(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", n)
			return err
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, info)
			if err != nil {
				return err
			}
			defer a.Close()

			if err = migrator(a, flags).Down(cmd.Context()); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "rolled back 1 migration")
			return err
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, info)
			if err != nil {
				return err
			}
			defer a.Close()

			statuses, err := migrator(a, flags).Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, st := range statuses {
				state := "pending"
				if st.Applied {
					state = "applied"
				}
				if _, err = fmt.Fprintf(out, "%-6d %-8s %s\n", st.Version, state, filepath.Base(st.Path)); err != nil {
					return err
				}
			}
			return nil
		},
	})

	return migrateCmd
}

func migrator(a *app.App, flags *rootFlags) *store.Migrator {
	if flags.embedded {
		return store.NewMigratorFS(a.DB, migrations.FS, a.Logger)
	}
	return a.Migrator
}
