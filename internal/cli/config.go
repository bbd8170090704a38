package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/ledger"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/orchestrator"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/shared"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "HTS_DEMO"

const (
	keyConfig    = "config"
	keyEnvFile   = "env-file"
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"

	keyBytecode          = "bytecode"
	keyNetwork           = "network"
	keyOutput            = "output"
	keyMetricsFile       = "metrics-file"
	keyBalanceSource     = "balance-source"
	keyMirrorURL         = "mirror-url"
	keyMirrorSettleDelay = "mirror-settle-delay"
	keyMaxTransactionFee = "max-transaction-fee"
	keyMaxQueryPayment   = "max-query-payment"
	keyMaxChunks         = "max-chunks"
	keyGas               = "gas"

	keyTokenName          = "token-name"
	keyTokenSymbol        = "token-symbol"
	keyTokenDecimals      = "token-decimals"
	keyTokenInitialSupply = "initial-supply"

	keyFunctionMint      = "functions.mint"
	keyFunctionBurn      = "functions.burn"
	keyFunctionAssociate = "functions.associate"
	keyFunctionTransfer  = "functions.transfer"

	keyAmountMint     = "amounts.mint"
	keyAmountBurn     = "amounts.burn"
	keyAmountTransfer = "amounts.transfer"

	keyToken       = "token"
	keyContract    = "contract"
	keyAccount     = "account"
	keyTransaction = "transaction"
)

const (
	defaultBytecodePath = "./contract.bin"
	defaultLogLevel     = "info"
	outputText          = "text"
	outputJSON          = "json"
)

// newViper returns a viper instance reading HTS_DEMO_* environment variables,
// with dots and dashes in keys mapped to underscores.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := orchestrator.DefaultConfig()
	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetDefault(keyLogFormat, logFormatConsole)
	v.SetDefault(keyBytecode, defaultBytecodePath)
	v.SetDefault(keyOutput, outputText)
	v.SetDefault(keyBalanceSource, string(ledger.BalanceSourceMirror))
	v.SetDefault(keyMirrorSettleDelay, ledger.DefaultMirrorSettleDelay)
	v.SetDefault(keyMaxTransactionFee, shared.DefaultMaxTransactionFeeHbar)
	v.SetDefault(keyMaxQueryPayment, shared.DefaultMaxQueryPaymentHbar)
	v.SetDefault(keyMaxChunks, defaults.MaxChunks)
	v.SetDefault(keyGas, defaults.Gas)
	v.SetDefault(keyTokenName, defaults.TokenName)
	v.SetDefault(keyTokenSymbol, defaults.TokenSymbol)
	v.SetDefault(keyTokenDecimals, defaults.Decimals)
	v.SetDefault(keyTokenInitialSupply, defaults.InitialSupply)
	v.SetDefault(keyFunctionMint, defaults.MintFunction)
	v.SetDefault(keyFunctionBurn, defaults.BurnFunction)
	v.SetDefault(keyFunctionAssociate, defaults.AssociateFunction)
	v.SetDefault(keyFunctionTransfer, defaults.TransferFunction)
	v.SetDefault(keyAmountMint, defaults.MintAmount)
	v.SetDefault(keyAmountBurn, defaults.BurnAmount)
	v.SetDefault(keyAmountTransfer, defaults.TransferAmount)
	return v
}

// bindFlags binds each key to the flag of the same name. Commands bind their
// own flags when they run, so keys shared between commands resolve to the
// flags of the command being executed.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func readConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

type runSettings struct {
	Bytecode          string
	Network           string
	Output            string
	MetricsFile       string
	BalanceSource     ledger.BalanceSource
	MirrorURL         string
	MirrorSettleDelay time.Duration
	Client            shared.ClientOptions
	Run               orchestrator.Config
}

func loadRunSettings(v *viper.Viper) (runSettings, error) {
	output, err := parseOutput(v.GetString(keyOutput))
	if err != nil {
		return runSettings{}, err
	}
	source, err := ledger.ParseBalanceSource(v.GetString(keyBalanceSource))
	if err != nil {
		return runSettings{}, err
	}

	settings := runSettings{
		Bytecode:          strings.TrimSpace(v.GetString(keyBytecode)),
		Network:           strings.TrimSpace(v.GetString(keyNetwork)),
		Output:            output,
		MetricsFile:       strings.TrimSpace(v.GetString(keyMetricsFile)),
		BalanceSource:     source,
		MirrorURL:         strings.TrimSpace(v.GetString(keyMirrorURL)),
		MirrorSettleDelay: v.GetDuration(keyMirrorSettleDelay),
		Client: shared.ClientOptions{
			MaxTransactionFeeHbar: v.GetFloat64(keyMaxTransactionFee),
			MaxQueryPaymentHbar:   v.GetFloat64(keyMaxQueryPayment),
		},
		Run: orchestrator.Config{
			TokenName:         v.GetString(keyTokenName),
			TokenSymbol:       v.GetString(keyTokenSymbol),
			Decimals:          v.GetUint(keyTokenDecimals),
			InitialSupply:     v.GetUint64(keyTokenInitialSupply),
			MaxChunks:         v.GetUint64(keyMaxChunks),
			Gas:               v.GetUint64(keyGas),
			MintFunction:      v.GetString(keyFunctionMint),
			BurnFunction:      v.GetString(keyFunctionBurn),
			AssociateFunction: v.GetString(keyFunctionAssociate),
			TransferFunction:  v.GetString(keyFunctionTransfer),
			MintAmount:        v.GetUint64(keyAmountMint),
			BurnAmount:        v.GetUint64(keyAmountBurn),
			TransferAmount:    v.GetUint64(keyAmountTransfer),
		},
	}
	if settings.Bytecode == "" {
		return runSettings{}, fmt.Errorf("bytecode path is required")
	}
	if err := settings.Run.Validate(); err != nil {
		return runSettings{}, fmt.Errorf("invalid run configuration: %w", err)
	}
	return settings, nil
}

func parseOutput(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", outputText:
		return outputText, nil
	case outputJSON:
		return outputJSON, nil
	default:
		return "", fmt.Errorf("unsupported output %q (expected %s or %s)", raw, outputText, outputJSON)
	}
}
