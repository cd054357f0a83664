package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stekc/myTimeAPI/internal/observability"
	"github.com/stekc/myTimeAPI/internal/profile"
)

var (
	configFile string
	v          = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "mytime",
	Short: "Employee schedule API, shift notifications and open shift watcher",
	Long: `mytime reads an employee's schedule from the employer workforce API and
serves derived views (next shift, weekly summary, next day off) over HTTP.
It can also push a schedule digest and announce newly posted open shifts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with a context canceled on SIGINT or SIGTERM.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	cancel()
	if err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	profile.SetDefaults(v)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "path to a config file (toml, yaml or json)")
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	flags.String("addr", "", "address of server")
	flags.Int("port", 8000, "port of server")
	flags.String("data", "", "data directory")
	flags.String("driver", "sqlite", `seen shift database driver, "sqlite" or "postgres"`)
	flags.String("dsn", "", "database source name")
	flags.String("timezone", "Local", "IANA timezone schedule dates are read in")
	flags.String("employee-id", "", "employee id")
	flags.String("store-number", "", "home store number")
	flags.String("credential-backend", "file", `credential storage, "file" or "keyring"`)
	flags.String("token-command", "", "command that prints a fresh Authorization header")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn", "timezone", "employee-id", "store-number", "credential-backend", "token-command"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// loadProfile reads, validates and logs the configuration, and installs the default logger.
func loadProfile() (*profile.Profile, error) {
	p, err := profile.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	p.Version = version

	slog.SetDefault(observability.NewLogger(os.Stderr, p.IsDev()))
	if err := p.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("profile loaded", "mode", p.Mode, "data", p.Data, "driver", p.Driver, "timezone", p.Timezone)
	return p, nil
}
