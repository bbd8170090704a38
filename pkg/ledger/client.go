package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/mirror"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"
)

type BalanceSource string

const (
	// BalanceSourceMirror reads token balances from the mirror node REST API.
	BalanceSourceMirror BalanceSource = "mirror"
	// BalanceSourceNetwork reads token balances with a consensus node
	// AccountBalanceQuery.
	BalanceSourceNetwork BalanceSource = "network"
)

// DefaultMirrorSettleDelay gives the mirror node time to import the last
// transfer before balances are read.
const DefaultMirrorSettleDelay = 5 * time.Second

type Config struct {
	Client            *hedera.Client
	Mirror            *mirror.Client
	BalanceSource     BalanceSource
	MirrorSettleDelay time.Duration
	Logger            *zap.Logger
}

// HederaLedger implements Ledger with the Hedera Go SDK.
type HederaLedger struct {
	client            *hedera.Client
	mirror            *mirror.Client
	balanceSource     BalanceSource
	mirrorSettleDelay time.Duration
	logger            *zap.Logger
}

var _ Ledger = (*HederaLedger)(nil)

func NewHederaLedger(config Config) (*HederaLedger, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("hedera client is required")
	}
	if config.Client.GetOperatorAccountID().Account == 0 {
		return nil, fmt.Errorf("hedera client operator is not set")
	}

	source, err := ParseBalanceSource(string(config.BalanceSource))
	if err != nil {
		return nil, err
	}
	if source == BalanceSourceMirror && config.Mirror == nil {
		return nil, fmt.Errorf("mirror client is required for %s balances", BalanceSourceMirror)
	}

	settleDelay := config.MirrorSettleDelay
	if settleDelay < 0 {
		settleDelay = 0
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HederaLedger{
		client:            config.Client,
		mirror:            config.Mirror,
		balanceSource:     source,
		mirrorSettleDelay: settleDelay,
		logger:            logger.Named("ledger"),
	}, nil
}

// ParseBalanceSource validates a balance source name. Empty means mirror.
func ParseBalanceSource(raw string) (BalanceSource, error) {
	switch BalanceSource(strings.ToLower(strings.TrimSpace(raw))) {
	case "", BalanceSourceMirror:
		return BalanceSourceMirror, nil
	case BalanceSourceNetwork:
		return BalanceSourceNetwork, nil
	default:
		return "", fmt.Errorf("unsupported balance source %q", raw)
	}
}

func (l *HederaLedger) CreateToken(ctx context.Context, params TokenCreateParams) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	transaction, err := BuildTokenCreateTx(params)
	if err != nil {
		return Receipt{}, err
	}
	frozen, err := transaction.FreezeWith(l.client)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to freeze token create transaction: %w", err)
	}
	for _, signer := range params.Signers {
		frozen = frozen.Sign(signer)
	}

	response, err := frozen.Execute(l.client)
	receipt, err := l.settle(OperationTokenCreate, response, err)
	if err != nil {
		return receipt, err
	}
	if receipt.TokenID == nil {
		return receipt, fmt.Errorf("%s: %w", OperationTokenCreate, ErrMissingReceiptField)
	}
	return receipt, nil
}

func (l *HederaLedger) CreateFile(ctx context.Context, params FileCreateParams) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	transaction, err := BuildFileCreateTx(params)
	if err != nil {
		return Receipt{}, err
	}
	frozen, err := transaction.FreezeWith(l.client)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to freeze file create transaction: %w", err)
	}
	for _, signer := range params.Signers {
		frozen = frozen.Sign(signer)
	}

	response, err := frozen.Execute(l.client)
	receipt, err := l.settle(OperationFileCreate, response, err)
	if err != nil {
		return receipt, err
	}
	if receipt.FileID == nil {
		return receipt, fmt.Errorf("%s: %w", OperationFileCreate, ErrMissingReceiptField)
	}
	return receipt, nil
}

func (l *HederaLedger) AppendFile(ctx context.Context, params FileAppendParams) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	transaction, err := BuildFileAppendTx(params)
	if err != nil {
		return Receipt{}, err
	}
	frozen, err := transaction.FreezeWith(l.client)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to freeze file append transaction: %w", err)
	}
	for _, signer := range params.Signers {
		frozen = frozen.Sign(signer)
	}

	l.logger.Debug("appending file contents",
		zap.String("file", params.FileID.String()),
		zap.Int("bytes", len(params.Contents)),
		zap.Int("chunks", ChunkCount(len(params.Contents), params.ChunkSize)),
	)

	response, err := frozen.Execute(l.client)
	return l.settle(OperationFileAppend, response, err)
}

func (l *HederaLedger) CreateContract(ctx context.Context, params ContractCreateParams) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	transaction, err := BuildContractCreateTx(params)
	if err != nil {
		return Receipt{}, err
	}
	frozen, err := transaction.FreezeWith(l.client)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to freeze contract create transaction: %w", err)
	}
	for _, signer := range params.Signers {
		frozen = frozen.Sign(signer)
	}

	response, err := frozen.Execute(l.client)
	receipt, err := l.settle(OperationContractCreate, response, err)
	if err != nil {
		return receipt, err
	}
	if receipt.ContractID == nil {
		return receipt, fmt.Errorf("%s: %w", OperationContractCreate, ErrMissingReceiptField)
	}
	return receipt, nil
}

func (l *HederaLedger) ExecuteContract(ctx context.Context, params ContractExecuteParams) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	transaction, err := BuildContractExecuteTx(params)
	if err != nil {
		return Receipt{}, err
	}
	frozen, err := transaction.FreezeWith(l.client)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to freeze contract execute transaction: %w", err)
	}
	for _, signer := range params.Signers {
		frozen = frozen.Sign(signer)
	}

	l.logger.Debug("executing contract function",
		zap.String("contract", params.ContractID.String()),
		zap.String("function", params.Call.Signature()),
	)

	response, err := frozen.Execute(l.client)
	return l.settle(OperationContractExecute, response, err)
}

func (l *HederaLedger) UpdateTokenSupplyKey(ctx context.Context, params TokenSupplyKeyUpdateParams) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	transaction, err := BuildTokenSupplyKeyUpdateTx(params)
	if err != nil {
		return Receipt{}, err
	}
	frozen, err := transaction.FreezeWith(l.client)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to freeze token update transaction: %w", err)
	}
	for _, signer := range params.Signers {
		frozen = frozen.Sign(signer)
	}

	response, err := frozen.Execute(l.client)
	return l.settle(OperationTokenUpdate, response, err)
}

func (l *HederaLedger) TokenInfo(ctx context.Context, tokenID hedera.TokenID) (TokenInfo, error) {
	if err := ctx.Err(); err != nil {
		return TokenInfo{}, err
	}

	info, err := hedera.NewTokenInfoQuery().
		SetTokenID(tokenID).
		Execute(l.client)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("failed to query token info for %s: %w", tokenID, err)
	}

	supplyKey := ""
	if info.SupplyKey != nil {
		supplyKey = info.SupplyKey.String()
	}

	return TokenInfo{
		TokenID:     info.TokenID,
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		TotalSupply: info.TotalSupply,
		Treasury:    info.Treasury,
		SupplyKey:   supplyKey,
	}, nil
}

func (l *HederaLedger) TokenBalances(
	ctx context.Context,
	tokenID hedera.TokenID,
	accounts ...hedera.AccountID,
) (Balances, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.balanceSource == BalanceSourceNetwork {
		return l.networkBalances(tokenID, accounts)
	}
	return l.mirrorBalances(ctx, tokenID, accounts)
}

func (l *HederaLedger) networkBalances(tokenID hedera.TokenID, accounts []hedera.AccountID) (Balances, error) {
	balances := make(Balances, len(accounts))
	for _, account := range accounts {
		balance, err := hedera.NewAccountBalanceQuery().
			SetAccountID(account).
			Execute(l.client)
		if err != nil {
			return nil, fmt.Errorf("failed to query balance for %s: %w", account, err)
		}
		balances[account.String()] = balance.Tokens.Get(tokenID)
	}
	return balances, nil
}

func (l *HederaLedger) mirrorBalances(
	ctx context.Context,
	tokenID hedera.TokenID,
	accounts []hedera.AccountID,
) (Balances, error) {
	if l.mirrorSettleDelay > 0 {
		timer := time.NewTimer(l.mirrorSettleDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	balances := make(Balances, len(accounts))
	for _, account := range accounts {
		holding, err := l.mirror.GetAccountTokenBalance(ctx, account.String(), tokenID.String())
		if err != nil {
			return nil, fmt.Errorf("failed to read mirror balance for %s: %w", account, err)
		}
		balances[account.String()] = holding.Balance
	}
	return balances, nil
}

// settle resolves an executed transaction to a Receipt, turning precheck and
// receipt status failures into *StatusError.
func (l *HederaLedger) settle(
	operation Operation,
	response hedera.TransactionResponse,
	executeErr error,
) (Receipt, error) {
	result := Receipt{Operation: operation}

	if executeErr != nil {
		var precheck hedera.ErrHederaPreCheckStatus
		if errors.As(executeErr, &precheck) {
			result.Status = precheck.Status.String()
			result.TransactionID = precheck.TxID.String()
			return result, &StatusError{
				Operation:     operation,
				Status:        result.Status,
				TransactionID: result.TransactionID,
				Precheck:      true,
			}
		}
		return result, fmt.Errorf("failed to execute %s transaction: %w", operation, executeErr)
	}

	result.TransactionID = response.TransactionID.String()

	receipt, err := response.GetReceipt(l.client)
	if err != nil {
		var rejected hedera.ErrHederaReceiptStatus
		if errors.As(err, &rejected) {
			result.Status = rejected.Status.String()
			return result, &StatusError{
				Operation:     operation,
				Status:        result.Status,
				TransactionID: result.TransactionID,
			}
		}
		return result, fmt.Errorf("failed to get %s receipt: %w", operation, err)
	}

	result.Status = receipt.Status.String()
	result.TokenID = receipt.TokenID
	result.FileID = receipt.FileID
	result.ContractID = receipt.ContractID

	l.logger.Debug("transaction settled",
		zap.String("operation", string(operation)),
		zap.String("transaction", result.TransactionID),
		zap.String("status", result.Status),
	)

	if !result.Succeeded() {
		return result, &StatusError{
			Operation:     operation,
			Status:        result.Status,
			TransactionID: result.TransactionID,
		}
	}
	return result, nil
}
