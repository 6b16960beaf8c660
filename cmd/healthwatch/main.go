package main

import (
	"log/slog"
	"os"

	"github.com/melih/healthwatch/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := logging.Configure(logging.LevelInfo); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := rootCmd().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	envFile    string
	debug      bool
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "healthwatch",
		Short:         "Watch Docker container health and notify on changes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML or JSON config file")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Path to a .env file loaded before reading the environment")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.AddCommand(checkCmd(&flags), stateCmd(&flags))
	return cmd
}

func checkCmd(flags *globalFlags) *cobra.Command {
	var baseline bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single health check cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), *flags, baseline, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&baseline, "baseline", true, "Notify every container's state instead of only changes")
	return cmd
}

func stateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the persisted container state snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printState(cmd.Context(), *flags, cmd.OutOrStdout())
		},
	}
}
