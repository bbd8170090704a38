package orchestrator

import (
	"time"
)

// StepResult is the outcome of one pipeline step.
type StepResult struct {
	Name     string        `json:"name"`
	Outcome  string        `json:"outcome"`
	Duration time.Duration `json:"durationNs"`
	Error    string        `json:"error,omitempty"`
}

type SupplyHistory struct {
	Initial   uint64 `json:"initial"`
	AfterMint uint64 `json:"afterMint"`
	AfterBurn uint64 `json:"afterBurn"`
}

// Report summarizes a run. On failure it still lists whatever was created
// before the failing step.
type Report struct {
	Network string `json:"network"`

	TokenID         string `json:"tokenId,omitempty"`
	TokenAddress    string `json:"tokenSolidityAddress,omitempty"`
	FileID          string `json:"fileId,omitempty"`
	ContractID      string `json:"contractId,omitempty"`
	ContractAddress string `json:"contractSolidityAddress,omitempty"`

	BytecodeCID  string `json:"bytecodeCid,omitempty"`
	BytecodeSize int    `json:"bytecodeSize,omitempty"`

	Supply          SupplyHistory     `json:"supply"`
	SupplyKeyBefore string            `json:"supplyKeyBefore,omitempty"`
	SupplyKeyAfter  string            `json:"supplyKeyAfter,omitempty"`
	Balances        map[string]uint64 `json:"balances,omitempty"`
	Transactions    map[string]string `json:"transactions,omitempty"`

	Steps []StepResult `json:"steps"`
}

// Created lists the ledger entities the run left on the network, as
// "kind id" pairs in creation order.
func (r Report) Created() []string {
	created := make([]string, 0, 3)
	if r.TokenID != "" {
		created = append(created, "token "+r.TokenID)
	}
	if r.FileID != "" {
		created = append(created, "file "+r.FileID)
	}
	if r.ContractID != "" {
		created = append(created, "contract "+r.ContractID)
	}
	return created
}

// Succeeded reports whether every step ran and succeeded.
func (r Report) Succeeded() bool {
	if len(r.Steps) == 0 {
		return false
	}
	for _, step := range r.Steps {
		if step.Outcome != outcomeSuccess {
			return false
		}
	}
	return true
}

func buildReport(network string, state *State, steps []StepResult) Report {
	report := Report{
		Network:      network,
		BytecodeCID:  state.Bytecode.CID,
		BytecodeSize: state.Bytecode.Size(),
		Supply: SupplyHistory{
			Initial:   state.InitialSupply,
			AfterMint: state.SupplyAfterMint,
			AfterBurn: state.SupplyAfterBurn,
		},
		SupplyKeyBefore: state.SupplyKeyBefore,
		SupplyKeyAfter:  state.SupplyKeyAfter,
		Steps:           steps,
	}
	if state.TokenID != nil {
		report.TokenID = state.TokenID.String()
		report.TokenAddress = state.TokenID.ToSolidityAddress()
	}
	if state.FileID != nil {
		report.FileID = state.FileID.String()
	}
	if state.ContractID != nil {
		report.ContractID = state.ContractID.String()
		report.ContractAddress = state.ContractID.ToSolidityAddress()
	}
	if len(state.Balances) > 0 {
		report.Balances = map[string]uint64(state.Balances)
	}
	if len(state.TransactionIDs) > 0 {
		report.Transactions = state.TransactionIDs
	}
	return report
}
