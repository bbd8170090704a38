package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// BuildTokenCreateTx builds a fungible token create transaction.
func BuildTokenCreateTx(params TokenCreateParams) (*hedera.TokenCreateTransaction, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("token name is required")
	}
	symbol := strings.TrimSpace(params.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("token symbol is required")
	}
	if params.Treasury.Account == 0 {
		return nil, fmt.Errorf("treasury account is required")
	}

	transaction := hedera.NewTokenCreateTransaction().
		SetTokenName(name).
		SetTokenSymbol(symbol).
		SetDecimals(params.Decimals).
		SetInitialSupply(params.InitialSupply).
		SetTreasuryAccountID(params.Treasury)

	if params.AdminKey != nil {
		transaction.SetAdminKey(params.AdminKey)
	}
	if params.SupplyKey != nil {
		transaction.SetSupplyKey(params.SupplyKey)
	}
	if strings.TrimSpace(params.Memo) != "" {
		transaction.SetTransactionMemo(params.Memo)
	}

	return transaction, nil
}

// BuildFileCreateTx builds a file create transaction owned by params.Keys.
func BuildFileCreateTx(params FileCreateParams) (*hedera.FileCreateTransaction, error) {
	if len(params.Keys) == 0 {
		return nil, fmt.Errorf("at least one file key is required")
	}

	transaction := hedera.NewFileCreateTransaction().
		SetKeys(params.Keys...).
		SetContents(params.Contents)

	if strings.TrimSpace(params.Memo) != "" {
		transaction.SetMemo(params.Memo)
	}

	return transaction, nil
}

// BuildFileAppendTx builds a chunked file append transaction. It fails
// locally when the content does not fit in MaxChunks chunks.
func BuildFileAppendTx(params FileAppendParams) (*hedera.FileAppendTransaction, error) {
	if params.FileID.File == 0 {
		return nil, fmt.Errorf("file ID is required")
	}
	if len(params.Contents) == 0 {
		return nil, fmt.Errorf("file append contents are required")
	}

	chunkSize := params.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if err := CheckChunks(len(params.Contents), chunkSize, params.MaxChunks); err != nil {
		return nil, err
	}

	transaction := hedera.NewFileAppendTransaction().
		SetFileID(params.FileID).
		SetContents(params.Contents).
		SetMaxChunkSize(chunkSize)

	if params.MaxChunks > 0 {
		transaction.SetMaxChunks(params.MaxChunks)
	}

	return transaction, nil
}

// BuildContractCreateTx builds a contract create transaction that reads its
// bytecode from a file.
func BuildContractCreateTx(params ContractCreateParams) (*hedera.ContractCreateTransaction, error) {
	if params.BytecodeFileID.File == 0 {
		return nil, fmt.Errorf("bytecode file ID is required")
	}
	if params.Gas == 0 {
		return nil, fmt.Errorf("gas is required")
	}

	constructorParameters, err := BuildFunctionParameters(params.ConstructorArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor parameters: %w", err)
	}

	transaction := hedera.NewContractCreateTransaction().
		SetBytecodeFileID(params.BytecodeFileID).
		SetGas(params.Gas).
		SetConstructorParameters(constructorParameters)

	if params.AdminKey != nil {
		transaction.SetAdminKey(params.AdminKey)
	}
	if strings.TrimSpace(params.Memo) != "" {
		transaction.SetContractMemo(params.Memo)
	}

	return transaction, nil
}

// BuildContractExecuteTx builds a contract call transaction.
func BuildContractExecuteTx(params ContractExecuteParams) (*hedera.ContractExecuteTransaction, error) {
	if params.ContractID.Contract == 0 {
		return nil, fmt.Errorf("contract ID is required")
	}
	if strings.TrimSpace(params.Call.Name) == "" {
		return nil, fmt.Errorf("contract function name is required")
	}
	if params.Gas == 0 {
		return nil, fmt.Errorf("gas is required")
	}

	functionParameters, err := BuildFunctionParameters(params.Call.Args)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters for %s: %w", params.Call.Name, err)
	}

	return hedera.NewContractExecuteTransaction().
		SetContractID(params.ContractID).
		SetGas(params.Gas).
		SetFunction(strings.TrimSpace(params.Call.Name), functionParameters), nil
}

// BuildTokenSupplyKeyUpdateTx builds a token update that replaces only the
// supply key.
func BuildTokenSupplyKeyUpdateTx(params TokenSupplyKeyUpdateParams) (*hedera.TokenUpdateTransaction, error) {
	if params.TokenID.Token == 0 {
		return nil, fmt.Errorf("token ID is required")
	}
	if params.SupplyKey == nil {
		return nil, fmt.Errorf("supply key is required")
	}

	return hedera.NewTokenUpdateTransaction().
		SetTokenID(params.TokenID).
		SetSupplyKey(params.SupplyKey), nil
}

// BuildFunctionParameters encodes typed arguments in order.
func BuildFunctionParameters(args []Arg) (*hedera.ContractFunctionParameters, error) {
	parameters := hedera.NewContractFunctionParameters()
	for index, arg := range args {
		switch arg.Kind {
		case ArgAddress:
			address, err := solidityAddress(arg.Address)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", index, err)
			}
			if _, err := parameters.AddAddress(address); err != nil {
				return nil, fmt.Errorf("argument %d: %w", index, err)
			}
		case ArgUint64:
			parameters.AddUint64(arg.Uint64)
		default:
			return nil, fmt.Errorf("argument %d: unsupported kind %q", index, arg.Kind)
		}
	}
	return parameters, nil
}

// solidityAddress normalizes a 20-byte hex address. The SDK accepts
// malformed input without error, so it is checked here.
func solidityAddress(raw string) (string, error) {
	address := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(address) != 40 {
		return "", fmt.Errorf("address %q must be 40 hex characters", raw)
	}
	if _, err := hex.DecodeString(address); err != nil {
		return "", fmt.Errorf("address %q is not hex: %w", raw, err)
	}
	return address, nil
}
