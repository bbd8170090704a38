package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/ledger"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/mirror"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/orchestrator"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runFlagKeys = []string{
	keyBytecode,
	keyNetwork,
	keyOutput,
	keyMetricsFile,
	keyBalanceSource,
	keyMirrorURL,
	keyMirrorSettleDelay,
	keyMaxChunks,
	keyGas,
}

// ledgerFactory connects a Ledger for the run. The returned func releases it.
type ledgerFactory func(settings runSettings, accounts shared.Accounts, logger *zap.Logger) (ledger.Ledger, func(), error)

func newRunCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create the token, deploy the supply contract and exercise it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(a.viper, cmd.Flags(), runFlagKeys...)
			return a.run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String(keyBytecode, defaultBytecodePath, "contract bytecode as hex text, optionally brotli-compressed (.br)")
	flags.String(keyNetwork, "", "hedera network (mainnet, testnet, previewnet); defaults to HEDERA_NETWORK")
	flags.String(keyOutput, outputText, "report format (text, json)")
	flags.String(keyMetricsFile, "", "write step metrics in prometheus text format to this file")
	flags.String(keyBalanceSource, string(ledger.BalanceSourceMirror), "where token balances are read (mirror, network)")
	flags.String(keyMirrorURL, "", "mirror node base URL; defaults to the network's public mirror")
	flags.Duration(keyMirrorSettleDelay, ledger.DefaultMirrorSettleDelay, "wait before reading balances from the mirror node")
	flags.Uint64(keyMaxChunks, orchestrator.DefaultMaxChunks, "maximum number of file append chunks")
	flags.Uint64(keyGas, orchestrator.DefaultGas, "gas for contract create and execute")
	return cmd
}

func (a *app) run(ctx context.Context) error {
	settings, err := loadRunSettings(a.viper)
	if err != nil {
		return err
	}

	accounts, err := shared.AccountsFromEnv()
	if err != nil {
		return err
	}
	if settings.Network != "" {
		network, err := shared.NormalizeNetwork(settings.Network)
		if err != nil {
			return err
		}
		accounts.Network = network
	}

	ledgerClient, release, err := a.newLedger(settings, accounts, a.logger)
	if err != nil {
		return err
	}
	defer release()

	progress := a.stdout
	if settings.Output == outputJSON {
		progress = a.stderr
	}

	runner, err := orchestrator.New(
		ledgerClient,
		accounts,
		orchestrator.FileBytecode(settings.Bytecode),
		settings.Run,
		orchestrator.WithLogger(a.logger),
		orchestrator.WithOutput(progress),
	)
	if err != nil {
		return err
	}

	report, runErr := runner.Run(ctx)

	if settings.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(settings.MetricsFile, runner.Gatherer()); err != nil {
			a.logger.Warn("failed to write metrics file", zap.String("path", settings.MetricsFile), zap.Error(err))
		}
	}

	if err := writeReport(a.stdout, settings.Output, report); err != nil {
		return err
	}

	if runErr != nil {
		for _, created := range report.Created() {
			fmt.Fprintf(a.stderr, "- Left on the network: %s\n", created)
		}
		return runErr
	}
	return nil
}

func writeReport(out io.Writer, format string, report orchestrator.Report) error {
	if format == outputJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	}

	if !report.Succeeded() {
		return nil
	}
	fmt.Fprintf(out, "\nRun complete on %s\n", report.Network)
	fmt.Fprintf(out, "  token:     %s (%s)\n", report.TokenID, report.TokenAddress)
	fmt.Fprintf(out, "  contract:  %s (%s)\n", report.ContractID, report.ContractAddress)
	fmt.Fprintf(out, "  bytecode:  %s, %d bytes\n", report.BytecodeCID, report.BytecodeSize)
	fmt.Fprintf(out, "  supply:    %d -> %d -> %d\n", report.Supply.Initial, report.Supply.AfterMint, report.Supply.AfterBurn)
	return nil
}

func newHederaLedger(settings runSettings, accounts shared.Accounts, logger *zap.Logger) (ledger.Ledger, func(), error) {
	client, err := shared.NewHederaClientWithOptions(accounts.Network, settings.Client)
	if err != nil {
		return nil, nil, err
	}
	client.SetOperator(accounts.Operator.ID, accounts.Operator.Key)
	release := func() { _ = client.Close() }

	var mirrorClient *mirror.Client
	if settings.BalanceSource == ledger.BalanceSourceMirror {
		mirrorClient, err = mirror.NewClient(mirror.Config{Network: accounts.Network, BaseURL: settings.MirrorURL})
		if err != nil {
			release()
			return nil, nil, err
		}
	}

	hederaLedger, err := ledger.NewHederaLedger(ledger.Config{
		Client:            client,
		Mirror:            mirrorClient,
		BalanceSource:     settings.BalanceSource,
		MirrorSettleDelay: settings.MirrorSettleDelay,
		Logger:            logger,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return hederaLedger, release, nil
}
