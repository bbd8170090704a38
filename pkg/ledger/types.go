package ledger

import (
	"fmt"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// StatusSuccess is the receipt status of a transaction that reached consensus
// and was applied.
const StatusSuccess = "SUCCESS"

type Operation string

const (
	OperationTokenCreate     Operation = "token create"
	OperationFileCreate      Operation = "file create"
	OperationFileAppend      Operation = "file append"
	OperationContractCreate  Operation = "contract create"
	OperationContractExecute Operation = "contract execute"
	OperationTokenUpdate     Operation = "token update"
)

type TokenCreateParams struct {
	Name          string
	Symbol        string
	Decimals      uint
	InitialSupply uint64
	Treasury      hedera.AccountID
	AdminKey      hedera.Key
	SupplyKey     hedera.Key
	Memo          string
	Signers       []hedera.PrivateKey
}

type FileCreateParams struct {
	Keys     []hedera.Key
	Contents []byte
	Memo     string
	Signers  []hedera.PrivateKey
}

type FileAppendParams struct {
	FileID    hedera.FileID
	Contents  []byte
	MaxChunks uint64
	ChunkSize int
	Signers   []hedera.PrivateKey
}

type ContractCreateParams struct {
	BytecodeFileID  hedera.FileID
	Gas             uint64
	ConstructorArgs []Arg
	AdminKey        hedera.Key
	Memo            string
	Signers         []hedera.PrivateKey
}

type ContractExecuteParams struct {
	ContractID hedera.ContractID
	Gas        uint64
	Call       FunctionCall
	Signers    []hedera.PrivateKey
}

type TokenSupplyKeyUpdateParams struct {
	TokenID   hedera.TokenID
	SupplyKey hedera.Key
	Signers   []hedera.PrivateKey
}

// Receipt is the finalized outcome of one submission. Only the identifier
// matching the operation is set.
type Receipt struct {
	Operation     Operation
	Status        string
	TransactionID string
	TokenID       *hedera.TokenID
	FileID        *hedera.FileID
	ContractID    *hedera.ContractID
}

// Succeeded reports whether the receipt carries the SUCCESS status.
func (r Receipt) Succeeded() bool {
	return r.Status == StatusSuccess
}

// TokenInfo is a snapshot of a token as returned by a token info query.
// SupplyKey is the rendered key, empty when the token has none.
type TokenInfo struct {
	TokenID     hedera.TokenID
	Name        string
	Symbol      string
	Decimals    uint32
	TotalSupply uint64
	Treasury    hedera.AccountID
	SupplyKey   string
}

// Balances maps an account ID string to the token units it holds.
type Balances map[string]uint64

// Of returns the balance recorded for account, zero when absent.
func (b Balances) Of(account hedera.AccountID) uint64 {
	return b[account.String()]
}

type ArgKind string

const (
	ArgAddress ArgKind = "address"
	ArgUint64  ArgKind = "uint64"
)

// Arg is one typed contract function argument.
type Arg struct {
	Kind    ArgKind
	Address string
	Uint64  uint64
}

func AddressArg(address string) Arg {
	return Arg{Kind: ArgAddress, Address: address}
}

func Uint64Arg(value uint64) Arg {
	return Arg{Kind: ArgUint64, Uint64: value}
}

func (a Arg) String() string {
	switch a.Kind {
	case ArgAddress:
		return "address(" + a.Address + ")"
	case ArgUint64:
		return fmt.Sprintf("uint64(%d)", a.Uint64)
	default:
		return fmt.Sprintf("%s(?)", a.Kind)
	}
}

// FunctionCall names a contract function and its arguments in ABI order.
type FunctionCall struct {
	Name string
	Args []Arg
}

// Signature renders the call as name(type,...), matching the ABI selector input.
func (c FunctionCall) Signature() string {
	signature := c.Name + "("
	for index, arg := range c.Args {
		if index > 0 {
			signature += ","
		}
		signature += string(arg.Kind)
	}
	return signature + ")"
}
