package orchestrator

import (
	"fmt"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/artifact"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/ledger"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// State carries the identifiers and observations threaded from one step to
// the next.
type State struct {
	Bytecode artifact.Bytecode

	TokenID    *hedera.TokenID
	FileID     *hedera.FileID
	ContractID *hedera.ContractID

	// FileRetired is set once contract create has consumed FileID.
	FileRetired bool

	InitialSupply    uint64
	SupplyAfterMint  uint64
	SupplyAfterBurn  uint64
	SupplyKeyBefore  string
	SupplyKeyAfter   string
	Balances         ledger.Balances
	TransactionIDs   map[string]string
	AppendStatus     string
	DelegationStatus string
}

func newState() *State {
	return &State{TransactionIDs: map[string]string{}}
}

func (s *State) requireToken() (hedera.TokenID, error) {
	if s.TokenID == nil {
		return hedera.TokenID{}, fmt.Errorf("token ID: %w", ErrMissingIdentifier)
	}
	return *s.TokenID, nil
}

// requireFile returns the bytecode file while it has not yet been consumed.
func (s *State) requireFile() (hedera.FileID, error) {
	if s.FileID == nil {
		return hedera.FileID{}, fmt.Errorf("file ID: %w", ErrMissingIdentifier)
	}
	if s.FileRetired {
		return hedera.FileID{}, fmt.Errorf("file %s was already used for contract create: %w", s.FileID, ErrMissingIdentifier)
	}
	return *s.FileID, nil
}

func (s *State) requireContract() (hedera.ContractID, error) {
	if s.ContractID == nil {
		return hedera.ContractID{}, fmt.Errorf("contract ID: %w", ErrMissingIdentifier)
	}
	return *s.ContractID, nil
}

func (s *State) record(step string, receipt ledger.Receipt) {
	if receipt.TransactionID != "" {
		s.TransactionIDs[step] = receipt.TransactionID
	}
}
