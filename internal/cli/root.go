// Package cli wires the demo's packages into the hts-contract-demo command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/shared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const commandName = "hts-contract-demo"

type app struct {
	viper     *viper.Viper
	stdout    io.Writer
	stderr    io.Writer
	logger    *zap.Logger
	newLedger ledgerFactory
}

func newApp(stdout io.Writer, stderr io.Writer) *app {
	return &app{
		viper:     newViper(),
		stdout:    stdout,
		stderr:    stderr,
		logger:    zap.NewNop(),
		newLedger: newHederaLedger,
	}
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	return newRootCommand(newApp(stdout, stderr))
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           commandName,
		Short:         "Hand a token's supply key to a contract and drive it through mint, burn, associate and transfer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.PersistentFlags()
	flags.String(keyConfig, "", "YAML file with run parameters")
	flags.String(keyEnvFile, "", "dotenv file with account credentials, loaded before the working directory walk")
	flags.String(keyLogLevel, defaultLogLevel, "log level (debug, info, warn, error)")
	flags.String(keyLogFormat, logFormatConsole, "log format (console, logfmt, json)")
	bindFlags(a.viper, flags, keyConfig, keyEnvFile, keyLogLevel, keyLogFormat)

	cmd.AddCommand(newRunCommand(a))
	cmd.AddCommand(newInspectCommand(a))
	cmd.AddCommand(newVersionCommand(a))
	return cmd
}

func (a *app) setup() error {
	envFile := a.viper.GetString(keyEnvFile)
	loaded := 0
	if envFile != "" {
		var err error
		if loaded, err = shared.LoadDotEnvFile(envFile); err != nil {
			return err
		}
	}

	if err := readConfigFile(a.viper, a.viper.GetString(keyConfig)); err != nil {
		return err
	}

	logger, err := newLogger(a.viper.GetString(keyLogLevel), a.viper.GetString(keyLogFormat), a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	if envFile != "" {
		a.logger.Debug("env file loaded", zap.String("path", envFile), zap.Int("variables", loaded))
	}
	return nil
}

// Execute runs the command line and returns the process exit code. SIGINT and
// SIGTERM cancel the run between steps.
func Execute(args []string, stdout io.Writer, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(stdout, stderr)
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	_ = a.logger.Sync()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
