package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/ledger"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/orchestrator"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var credentialEnv = []string{
	"OPERATOR_ID", "OPERATOR_KEY",
	"HEDERA_OPERATOR_ID", "HEDERA_ACCOUNT_ID",
	"HEDERA_OPERATOR_KEY", "HEDERA_PRIVATE_KEY",
	"TREASURY_ID", "TREASURY_KEY",
	"RECEIVER_ID", "RECEIVER_KEY",
	"HEDERA_NETWORK", "NETWORK",
}

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, key := range credentialEnv {
		t.Setenv(key, "")
	}
}

func setCredentials(t *testing.T) {
	t.Helper()
	clearCredentials(t)
	roles := map[string]string{"OPERATOR": "0.0.1001", "TREASURY": "0.0.1002", "RECEIVER": "0.0.1003"}
	for role, id := range roles {
		key, err := hedera.PrivateKeyGenerateEd25519()
		require.NoError(t, err)
		t.Setenv(role+"_ID", id)
		t.Setenv(role+"_KEY", key.String())
	}
}

func execute(t *testing.T, a *app, args ...string) error {
	t.Helper()
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func newTestApp() (*app, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return newApp(stdout, stderr), stdout, stderr
}

// rejectingLedger fails every submission with the given status.
type rejectingLedger struct {
	status string
	calls  int
}

func (l *rejectingLedger) reject(operation ledger.Operation) (ledger.Receipt, error) {
	l.calls++
	return ledger.Receipt{Operation: operation, Status: l.status}, &ledger.StatusError{Operation: operation, Status: l.status}
}

func (l *rejectingLedger) CreateToken(context.Context, ledger.TokenCreateParams) (ledger.Receipt, error) {
	return l.reject(ledger.OperationTokenCreate)
}

func (l *rejectingLedger) CreateFile(context.Context, ledger.FileCreateParams) (ledger.Receipt, error) {
	return l.reject(ledger.OperationFileCreate)
}

func (l *rejectingLedger) AppendFile(context.Context, ledger.FileAppendParams) (ledger.Receipt, error) {
	return l.reject(ledger.OperationFileAppend)
}

func (l *rejectingLedger) CreateContract(context.Context, ledger.ContractCreateParams) (ledger.Receipt, error) {
	return l.reject(ledger.OperationContractCreate)
}

func (l *rejectingLedger) ExecuteContract(context.Context, ledger.ContractExecuteParams) (ledger.Receipt, error) {
	return l.reject(ledger.OperationContractExecute)
}

func (l *rejectingLedger) UpdateTokenSupplyKey(context.Context, ledger.TokenSupplyKeyUpdateParams) (ledger.Receipt, error) {
	return l.reject(ledger.OperationTokenUpdate)
}

func (l *rejectingLedger) TokenInfo(context.Context, hedera.TokenID) (ledger.TokenInfo, error) {
	l.calls++
	return ledger.TokenInfo{}, errors.New("unexpected token info query")
}

func (l *rejectingLedger) TokenBalances(context.Context, hedera.TokenID, ...hedera.AccountID) (ledger.Balances, error) {
	l.calls++
	return nil, errors.New("unexpected balance query")
}

func writeBytecode(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.bin")
	require.NoError(t, os.WriteFile(path, []byte("0x608060405234801561001057600080fd5b50\n"), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	a, stdout, _ := newTestApp()

	require.NoError(t, execute(t, a, "version"))
	assert.True(t, strings.HasPrefix(stdout.String(), "hts-contract-demo dev "))
}

func TestExecuteReturnsExitCode(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	assert.Equal(t, 0, Execute([]string{"version"}, stdout, stderr))
	assert.Equal(t, 1, Execute([]string{"inspect"}, stdout, stderr))
	assert.Contains(t, stderr.String(), "Error: at least one of --token")
}

func TestRunFailsFastWithoutCredentials(t *testing.T) {
	clearCredentials(t)
	a, _, _ := newTestApp()
	a.newLedger = func(runSettings, shared.Accounts, *zap.Logger) (ledger.Ledger, func(), error) {
		t.Fatal("ledger must not be created without credentials")
		return nil, nil, nil
	}

	err := execute(t, a, "run", "--bytecode", writeBytecode(t))

	var missing *shared.MissingEnvError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "OPERATOR_ID", missing.Key)
}

func TestRunRejectsUnknownOutput(t *testing.T) {
	setCredentials(t)
	a, _, _ := newTestApp()

	err := execute(t, a, "run", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output")
}

func TestRunReportsFailureAndWritesMetrics(t *testing.T) {
	setCredentials(t)
	stub := &rejectingLedger{status: "INSUFFICIENT_PAYER_BALANCE"}
	var gotSettings runSettings
	var gotAccounts shared.Accounts

	a, stdout, stderr := newTestApp()
	a.newLedger = func(settings runSettings, accounts shared.Accounts, _ *zap.Logger) (ledger.Ledger, func(), error) {
		gotSettings = settings
		gotAccounts = accounts
		return stub, func() {}, nil
	}
	metricsFile := filepath.Join(t.TempDir(), "demo.prom")

	err := execute(t, a,
		"run",
		"--bytecode", writeBytecode(t),
		"--network", "previewnet",
		"--gas", "500000",
		"--output", "json",
		"--metrics-file", metricsFile,
		"--log-format", "logfmt",
	)

	var statusErr *ledger.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "INSUFFICIENT_PAYER_BALANCE", statusErr.Status)
	var stepErr *orchestrator.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, orchestrator.StepCreateToken, stepErr.Step)
	assert.Equal(t, 1, stub.calls)

	assert.Equal(t, shared.NetworkPreviewnet, gotAccounts.Network)
	assert.Equal(t, "0.0.1002", gotAccounts.Treasury.ID.String())
	assert.Equal(t, uint64(500000), gotSettings.Run.Gas)
	assert.Equal(t, ledger.BalanceSourceMirror, gotSettings.BalanceSource)

	var report orchestrator.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, shared.NetworkPreviewnet, report.Network)
	require.Len(t, report.Steps, 14)
	assert.Equal(t, "success", report.Steps[0].Outcome)
	assert.Equal(t, "failure", report.Steps[1].Outcome)
	assert.True(t, strings.HasPrefix(report.BytecodeCID, "bafkrei"))

	assert.Contains(t, stderr.String(), "- Done reading bytecode")
	assert.Contains(t, stderr.String(), "msg=\"step failed\"")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `hts_demo_steps_total{outcome="failure",step="create-token"} 1`)
	assert.Contains(t, string(metrics), `hts_demo_steps_total{outcome="skipped",step="query-balances"} 1`)
}

func TestLoadRunSettingsLayers(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(strings.Join([]string{
		"token-name: SupplyToken",
		"token-symbol: SUP",
		"initial-supply: 500",
		"gas: 1000000",
		"functions:",
		"  mint: mint",
		"amounts:",
		"  transfer: 25",
		"",
	}, "\n")), 0o600))
	t.Setenv("HTS_DEMO_GAS", "2000000")
	t.Setenv("HTS_DEMO_BALANCE_SOURCE", "network")

	v := newViper()
	require.NoError(t, readConfigFile(v, configPath))

	settings, err := loadRunSettings(v)
	require.NoError(t, err)

	assert.Equal(t, "SupplyToken", settings.Run.TokenName)
	assert.Equal(t, "SUP", settings.Run.TokenSymbol)
	assert.Equal(t, uint64(500), settings.Run.InitialSupply)
	assert.Equal(t, uint64(2000000), settings.Run.Gas)
	assert.Equal(t, "mint", settings.Run.MintFunction)
	assert.Equal(t, orchestrator.DefaultBurnFunction, settings.Run.BurnFunction)
	assert.Equal(t, uint64(25), settings.Run.TransferAmount)
	assert.Equal(t, uint64(orchestrator.DefaultMaxChunks), settings.Run.MaxChunks)
	assert.Equal(t, ledger.BalanceSourceNetwork, settings.BalanceSource)
	assert.Equal(t, ledger.DefaultMirrorSettleDelay, settings.MirrorSettleDelay)
	assert.Equal(t, shared.DefaultMaxTransactionFeeHbar, settings.Client.MaxTransactionFeeHbar)
	assert.Equal(t, "./contract.bin", settings.Bytecode)
	assert.Equal(t, outputText, settings.Output)
}

func TestLoadRunSettingsRejectsInvalidConfig(t *testing.T) {
	t.Setenv("HTS_DEMO_AMOUNTS_BURN", "1000")

	_, err := loadRunSettings(newViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "burn amount")
}

func TestReadConfigFileMissing(t *testing.T) {
	err := readConfigFile(newViper(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.NoError(t, readConfigFile(newViper(), ""))
}

func TestInspectPrintsMirrorState(t *testing.T) {
	clearCredentials(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/tokens/0.0.5001":
			_, _ = w.Write([]byte(`{"token_id":"0.0.5001","name":"MyToken","symbol":"MT","decimals":"0","total_supply":"100","treasury_account_id":"0.0.1002","supply_key":{"_type":"ProtobufEncoded","key":"0a0518c9271"}}`))
		case "/api/v1/accounts/0.0.1002/tokens":
			_, _ = w.Write([]byte(`{"tokens":[{"token_id":"0.0.5001","balance":0}],"links":{"next":null}}`))
		case "/api/v1/accounts/0.0.1003/tokens":
			_, _ = w.Write([]byte(`{"tokens":[{"token_id":"0.0.5001","balance":100}],"links":{"next":null}}`))
		case "/api/v1/accounts/0.0.1002":
			_, _ = w.Write([]byte(`{"account":"0.0.1002","evm_address":"0x00000000000000000000000000000000000003ea","key":{"_type":"ED25519","key":"aa11"},"memo":""}`))
		case "/api/v1/accounts/0.0.1003":
			_, _ = w.Write([]byte(`{"account":"0.0.1003","evm_address":"0x00000000000000000000000000000000000003eb","key":{"_type":"ECDSA_SECP256K1","key":"bb22"},"memo":"receiver"}`))
		case "/api/v1/contracts/0.0.5003":
			_, _ = w.Write([]byte(`{"contract_id":"0.0.5003","evm_address":"0x000000000000000000000000000000000000138b","file_id":"0.0.5002"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	a, stdout, _ := newTestApp()
	err := execute(t, a,
		"inspect",
		"--mirror-url", server.URL,
		"--token", "0.0.5001",
		"--account", "0.0.1002,0.0.1003",
		"--contract", "0.0.5003",
	)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "Token 0.0.5001: MyToken (MT)")
	assert.Contains(t, output, "total supply: 100")
	assert.Contains(t, output, "supply key:   ProtobufEncoded 0a0518c9271")
	assert.Contains(t, output, "0.0.1002: 0")
	assert.Contains(t, output, "0.0.1003: 100")
	assert.Contains(t, output, "Account 0.0.1002")
	assert.Contains(t, output, "evm address:  0x00000000000000000000000000000000000003ea")
	assert.Contains(t, output, "key:          ED25519 aa11")
	assert.Contains(t, output, "key:          ECDSA_SECP256K1 bb22")
	assert.Contains(t, output, "memo:         receiver")
	assert.Contains(t, output, "Contract 0.0.5003")
	assert.Contains(t, output, "bytecode file: 0.0.5002")
}

func TestInspectJSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/transactions/0.0.1001-1700000000-000000001" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"transactions":[{"transaction_id":"0.0.1001-1700000000-000000001","name":"CONTRACTCALL","result":"SUCCESS","token_transfers":[{"token_id":"0.0.5001","account":"0.0.1003","amount":100}]}]}`))
	}))
	defer server.Close()

	a, stdout, _ := newTestApp()
	err := execute(t, a,
		"inspect",
		"--mirror-url", server.URL,
		"--transaction", "0.0.1001@1700000000.000000001",
		"--output", "json",
	)
	require.NoError(t, err)

	var decoded struct {
		Transaction struct {
			Result         string `json:"result"`
			TokenTransfers []struct {
				Amount int64 `json:"amount"`
			} `json:"token_transfers"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, "SUCCESS", decoded.Transaction.Result)
	require.Len(t, decoded.Transaction.TokenTransfers, 1)
	assert.Equal(t, int64(100), decoded.Transaction.TokenTransfers[0].Amount)
}

func TestInspectAccountsWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/api/v1/accounts/0.0.1003" {
			t.Errorf("unexpected mirror request: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"account":"0.0.1003","evm_address":"0x00000000000000000000000000000000000003eb","key":{"_type":"ED25519","key":"cc33"}}`))
	}))
	defer server.Close()

	a, stdout, _ := newTestApp()
	err := execute(t, a,
		"inspect",
		"--mirror-url", server.URL,
		"--account", "0.0.1003",
		"--output", "json",
	)
	require.NoError(t, err)

	var decoded struct {
		Balances []json.RawMessage `json:"balances"`
		Accounts []struct {
			Account    string         `json:"account"`
			EVMAddress string         `json:"evm_address"`
			Key        map[string]any `json:"key"`
		} `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Empty(t, decoded.Balances)
	require.Len(t, decoded.Accounts, 1)
	assert.Equal(t, "0.0.1003", decoded.Accounts[0].Account)
	assert.Equal(t, "0x00000000000000000000000000000000000003eb", decoded.Accounts[0].EVMAddress)
	assert.Equal(t, "cc33", decoded.Accounts[0].Key["key"])
}

func TestInspectValidation(t *testing.T) {
	a, _, _ := newTestApp()
	err := execute(t, a, "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of")

	a, _, _ = newTestApp()
	err = execute(t, a, "inspect", "--token", "0.0.5001", "--network", "devnet")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	logger, err := newLogger("debug", "logfmt", &out)
	require.NoError(t, err)
	logger.Info("hello", zap.String("step", "mint"))
	assert.Contains(t, out.String(), "level=info")
	assert.Contains(t, out.String(), "msg=hello")
	assert.Contains(t, out.String(), "step=mint")

	out.Reset()
	logger, err = newLogger("warn", "console", &out)
	require.NoError(t, err)
	logger.Info("suppressed")
	logger.Warn("shown")
	assert.NotContains(t, out.String(), "suppressed")
	assert.Contains(t, out.String(), "WARN")

	_, err = newLogger("loud", "console", &out)
	assert.Error(t, err)
	_, err = newLogger("info", "xml", &out)
	assert.Error(t, err)
}
