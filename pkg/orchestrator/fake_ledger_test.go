package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/ledger"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	callTokenInfo     = "token info"
	callTokenBalances = "token balances"
)

type fakeToken struct {
	id         hedera.TokenID
	supply     uint64
	supplyKey  hedera.Key
	treasury   hedera.AccountID
	balances   map[string]uint64
	associated map[string]bool
}

type fakeContract struct {
	id    hedera.ContractID
	file  hedera.FileID
	token *fakeToken
}

// fakeLedger keeps token, file and contract state in memory and records every
// call. Calls are labelled by operation, or by function name for contract
// executes.
type fakeLedger struct {
	nextNum int64
	known   []shared.Account

	tokens    map[string]*fakeToken
	files     map[string][]byte
	contracts map[string]*fakeContract

	calls            []string
	tokenCreates     []ledger.TokenCreateParams
	fileAppends      []ledger.FileAppendParams
	contractCreates  []ledger.ContractCreateParams
	executes         []ledger.ContractExecuteParams
	supplyKeyUpdates []ledger.TokenSupplyKeyUpdateParams
	infoQueries      []hedera.TokenID
	balanceQueries   []hedera.TokenID

	// balancesBeforeTransfer snapshots balances as the transfer function runs.
	balancesBeforeTransfer map[string]uint64

	failStatus      map[string]string
	failErr         map[string]error
	ignoreKeyUpdate bool
}

func newFakeLedger(accounts shared.Accounts) *fakeLedger {
	return &fakeLedger{
		nextNum:    5000,
		known:      []shared.Account{accounts.Operator, accounts.Treasury, accounts.Receiver},
		tokens:     map[string]*fakeToken{},
		files:      map[string][]byte{},
		contracts:  map[string]*fakeContract{},
		failStatus: map[string]string{},
		failErr:    map[string]error{},
	}
}

var _ ledger.Ledger = (*fakeLedger)(nil)

func (f *fakeLedger) num() int64 {
	f.nextNum++
	return f.nextNum
}

func (f *fakeLedger) begin(label string, operation ledger.Operation) (ledger.Receipt, error) {
	f.calls = append(f.calls, label)
	receipt := ledger.Receipt{
		Operation:     operation,
		Status:        ledger.StatusSuccess,
		TransactionID: fmt.Sprintf("0.0.1001@1700000000.%09d", len(f.calls)),
	}
	if err, ok := f.failErr[label]; ok {
		return ledger.Receipt{Operation: operation}, err
	}
	if status, ok := f.failStatus[label]; ok {
		return f.reject(receipt, status)
	}
	return receipt, nil
}

func (f *fakeLedger) reject(receipt ledger.Receipt, status string) (ledger.Receipt, error) {
	receipt.Status = status
	return receipt, &ledger.StatusError{
		Operation:     receipt.Operation,
		Status:        status,
		TransactionID: receipt.TransactionID,
	}
}

func (f *fakeLedger) CreateToken(_ context.Context, params ledger.TokenCreateParams) (ledger.Receipt, error) {
	f.tokenCreates = append(f.tokenCreates, params)
	receipt, err := f.begin(string(ledger.OperationTokenCreate), ledger.OperationTokenCreate)
	if err != nil {
		return receipt, err
	}

	tokenID := hedera.TokenID{Token: uint64(f.num())}
	f.tokens[tokenID.String()] = &fakeToken{
		id:         tokenID,
		supply:     params.InitialSupply,
		supplyKey:  params.SupplyKey,
		treasury:   params.Treasury,
		balances:   map[string]uint64{params.Treasury.String(): params.InitialSupply},
		associated: map[string]bool{params.Treasury.String(): true},
	}
	receipt.TokenID = &tokenID
	return receipt, nil
}

func (f *fakeLedger) CreateFile(_ context.Context, params ledger.FileCreateParams) (ledger.Receipt, error) {
	receipt, err := f.begin(string(ledger.OperationFileCreate), ledger.OperationFileCreate)
	if err != nil {
		return receipt, err
	}

	fileID := hedera.FileID{File: uint64(f.num())}
	f.files[fileID.String()] = append([]byte(nil), params.Contents...)
	receipt.FileID = &fileID
	return receipt, nil
}

func (f *fakeLedger) AppendFile(_ context.Context, params ledger.FileAppendParams) (ledger.Receipt, error) {
	f.fileAppends = append(f.fileAppends, params)
	receipt, err := f.begin(string(ledger.OperationFileAppend), ledger.OperationFileAppend)
	if err != nil {
		return receipt, err
	}

	contents, ok := f.files[params.FileID.String()]
	if !ok {
		return f.reject(receipt, "INVALID_FILE_ID")
	}
	if err := ledger.CheckChunks(len(params.Contents), params.ChunkSize, params.MaxChunks); err != nil {
		return receipt, err
	}
	f.files[params.FileID.String()] = append(contents, params.Contents...)
	return receipt, nil
}

func (f *fakeLedger) CreateContract(_ context.Context, params ledger.ContractCreateParams) (ledger.Receipt, error) {
	f.contractCreates = append(f.contractCreates, params)
	receipt, err := f.begin(string(ledger.OperationContractCreate), ledger.OperationContractCreate)
	if err != nil {
		return receipt, err
	}

	contents, ok := f.files[params.BytecodeFileID.String()]
	if !ok || len(contents) == 0 {
		return f.reject(receipt, "CONTRACT_FILE_EMPTY")
	}
	if len(params.ConstructorArgs) != 1 || params.ConstructorArgs[0].Kind != ledger.ArgAddress {
		return f.reject(receipt, "CONTRACT_REVERT_EXECUTED")
	}
	token := f.tokenByAddress(params.ConstructorArgs[0].Address)
	if token == nil {
		return f.reject(receipt, "CONTRACT_REVERT_EXECUTED")
	}

	contractID := hedera.ContractID{Contract: uint64(f.num())}
	f.contracts[contractID.String()] = &fakeContract{id: contractID, file: params.BytecodeFileID, token: token}
	receipt.ContractID = &contractID
	return receipt, nil
}

func (f *fakeLedger) ExecuteContract(_ context.Context, params ledger.ContractExecuteParams) (ledger.Receipt, error) {
	f.executes = append(f.executes, params)
	receipt, err := f.begin(params.Call.Name, ledger.OperationContractExecute)
	if err != nil {
		return receipt, err
	}

	contract, ok := f.contracts[params.ContractID.String()]
	if !ok {
		return f.reject(receipt, "INVALID_CONTRACT_ID")
	}
	token := contract.token
	controlsSupply := token.supplyKey != nil && token.supplyKey.String() == contract.id.String()
	args := params.Call.Args

	switch params.Call.Name {
	case DefaultMintFunction:
		if !controlsSupply {
			return f.reject(receipt, "CONTRACT_REVERT_EXECUTED")
		}
		token.supply += args[0].Uint64
		token.balances[token.treasury.String()] += args[0].Uint64
	case DefaultBurnFunction:
		if !controlsSupply {
			return f.reject(receipt, "CONTRACT_REVERT_EXECUTED")
		}
		if token.balances[token.treasury.String()] < args[0].Uint64 {
			return f.reject(receipt, "INSUFFICIENT_TOKEN_BALANCE")
		}
		token.supply -= args[0].Uint64
		token.balances[token.treasury.String()] -= args[0].Uint64
	case DefaultAssociateFunction:
		account := f.accountByAddress(args[0].Address)
		if account == nil {
			return f.reject(receipt, "INVALID_ACCOUNT_ID")
		}
		if !signedBy(params.Signers, account.Key) {
			return f.reject(receipt, "INVALID_SIGNATURE")
		}
		token.associated[account.ID.String()] = true
	case DefaultTransferFunction:
		from := f.accountByAddress(args[0].Address)
		to := f.accountByAddress(args[1].Address)
		amount := args[2].Uint64
		if from == nil || to == nil {
			return f.reject(receipt, "INVALID_ACCOUNT_ID")
		}
		if !signedBy(params.Signers, from.Key) {
			return f.reject(receipt, "INVALID_SIGNATURE")
		}
		if !token.associated[to.ID.String()] {
			return f.reject(receipt, "TOKEN_NOT_ASSOCIATED_TO_ACCOUNT")
		}
		if token.balances[from.ID.String()] < amount {
			return f.reject(receipt, "INSUFFICIENT_TOKEN_BALANCE")
		}
		f.balancesBeforeTransfer = map[string]uint64{
			from.ID.String(): token.balances[from.ID.String()],
			to.ID.String():   token.balances[to.ID.String()],
		}
		token.balances[from.ID.String()] -= amount
		token.balances[to.ID.String()] += amount
	default:
		return f.reject(receipt, "CONTRACT_REVERT_EXECUTED")
	}
	return receipt, nil
}

func (f *fakeLedger) UpdateTokenSupplyKey(_ context.Context, params ledger.TokenSupplyKeyUpdateParams) (ledger.Receipt, error) {
	f.supplyKeyUpdates = append(f.supplyKeyUpdates, params)
	receipt, err := f.begin(string(ledger.OperationTokenUpdate), ledger.OperationTokenUpdate)
	if err != nil {
		return receipt, err
	}

	token, ok := f.tokens[params.TokenID.String()]
	if !ok {
		return f.reject(receipt, "INVALID_TOKEN_ID")
	}
	if !f.ignoreKeyUpdate {
		token.supplyKey = params.SupplyKey
	}
	return receipt, nil
}

func (f *fakeLedger) TokenInfo(_ context.Context, tokenID hedera.TokenID) (ledger.TokenInfo, error) {
	f.infoQueries = append(f.infoQueries, tokenID)
	if _, err := f.begin(callTokenInfo, ""); err != nil {
		return ledger.TokenInfo{}, err
	}

	token, ok := f.tokens[tokenID.String()]
	if !ok {
		return ledger.TokenInfo{}, fmt.Errorf("token %s not found", tokenID)
	}
	supplyKey := ""
	if token.supplyKey != nil {
		supplyKey = token.supplyKey.String()
	}
	return ledger.TokenInfo{
		TokenID:     token.id,
		Name:        f.tokenCreates[0].Name,
		Symbol:      f.tokenCreates[0].Symbol,
		TotalSupply: token.supply,
		Treasury:    token.treasury,
		SupplyKey:   supplyKey,
	}, nil
}

func (f *fakeLedger) TokenBalances(_ context.Context, tokenID hedera.TokenID, accounts ...hedera.AccountID) (ledger.Balances, error) {
	f.balanceQueries = append(f.balanceQueries, tokenID)
	if _, err := f.begin(callTokenBalances, ""); err != nil {
		return nil, err
	}

	token, ok := f.tokens[tokenID.String()]
	if !ok {
		return nil, fmt.Errorf("token %s not found", tokenID)
	}
	balances := make(ledger.Balances, len(accounts))
	for _, account := range accounts {
		balances[account.String()] = token.balances[account.String()]
	}
	return balances, nil
}

func (f *fakeLedger) tokenByAddress(address string) *fakeToken {
	for _, token := range f.tokens {
		if strings.EqualFold(token.id.ToSolidityAddress(), address) {
			return token
		}
	}
	return nil
}

func (f *fakeLedger) accountByAddress(address string) *shared.Account {
	for index := range f.known {
		if strings.EqualFold(f.known[index].SolidityAddress(), address) {
			return &f.known[index]
		}
	}
	return nil
}

func signedBy(signers []hedera.PrivateKey, key hedera.PrivateKey) bool {
	for _, signer := range signers {
		if signer.String() == key.String() {
			return true
		}
	}
	return false
}
