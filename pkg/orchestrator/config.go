package orchestrator

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultTokenName         = "MyToken"
	DefaultTokenSymbol       = "MT"
	DefaultInitialSupply     = 100
	DefaultMaxChunks         = 10
	DefaultGas               = 3_000_000
	DefaultAmount            = 100
	DefaultMintFunction      = "mintToken"
	DefaultBurnFunction      = "burnToken"
	DefaultAssociateFunction = "tokenAssociate"
	DefaultTransferFunction  = "tokenTransfer"

	// MaxTokenSupply is the largest total supply a fungible token can reach.
	MaxTokenSupply uint64 = math.MaxInt64
)

// Config holds the run parameters. Credentials are not part of it; they come
// from shared.Accounts.
type Config struct {
	TokenName     string `json:"tokenName"`
	TokenSymbol   string `json:"tokenSymbol"`
	Decimals      uint   `json:"decimals"`
	InitialSupply uint64 `json:"initialSupply"`

	MaxChunks uint64 `json:"maxChunks"`
	Gas       uint64 `json:"gas"`

	MintFunction      string `json:"mintFunction"`
	BurnFunction      string `json:"burnFunction"`
	AssociateFunction string `json:"associateFunction"`
	TransferFunction  string `json:"transferFunction"`

	MintAmount     uint64 `json:"mintAmount"`
	BurnAmount     uint64 `json:"burnAmount"`
	TransferAmount uint64 `json:"transferAmount"`
}

// DefaultConfig returns the parameters of the reference run.
func DefaultConfig() Config {
	return Config{
		TokenName:         DefaultTokenName,
		TokenSymbol:       DefaultTokenSymbol,
		Decimals:          0,
		InitialSupply:     DefaultInitialSupply,
		MaxChunks:         DefaultMaxChunks,
		Gas:               DefaultGas,
		MintFunction:      DefaultMintFunction,
		BurnFunction:      DefaultBurnFunction,
		AssociateFunction: DefaultAssociateFunction,
		TransferFunction:  DefaultTransferFunction,
		MintAmount:        DefaultAmount,
		BurnAmount:        DefaultAmount,
		TransferAmount:    DefaultAmount,
	}
}

// Validate checks that every parameter the steps depend on is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TokenName) == "" {
		return fmt.Errorf("token name is required")
	}
	if strings.TrimSpace(c.TokenSymbol) == "" {
		return fmt.Errorf("token symbol is required")
	}
	if c.Gas == 0 {
		return fmt.Errorf("gas must be greater than zero")
	}
	functions := []struct {
		role string
		name string
	}{
		{role: "mint", name: c.MintFunction},
		{role: "burn", name: c.BurnFunction},
		{role: "associate", name: c.AssociateFunction},
		{role: "transfer", name: c.TransferFunction},
	}
	for _, function := range functions {
		if strings.TrimSpace(function.name) == "" {
			return fmt.Errorf("%s function name is required", function.role)
		}
	}
	amounts := []struct {
		name  string
		value uint64
	}{
		{name: "initial supply", value: c.InitialSupply},
		{name: "mint amount", value: c.MintAmount},
		{name: "burn amount", value: c.BurnAmount},
		{name: "transfer amount", value: c.TransferAmount},
	}
	for _, amount := range amounts {
		if amount.value > MaxTokenSupply {
			return fmt.Errorf("%s %d exceeds the maximum token supply %d", amount.name, amount.value, MaxTokenSupply)
		}
	}
	if c.MintAmount > MaxTokenSupply-c.InitialSupply {
		return fmt.Errorf("mint amount %d would raise the supply above the maximum %d", c.MintAmount, MaxTokenSupply)
	}
	if c.BurnAmount > c.InitialSupply+c.MintAmount {
		return fmt.Errorf("burn amount %d exceeds the supply available after mint (%d)", c.BurnAmount, c.InitialSupply+c.MintAmount)
	}
	if c.TransferAmount > c.InitialSupply+c.MintAmount-c.BurnAmount {
		return fmt.Errorf("transfer amount %d exceeds the treasury supply after burn", c.TransferAmount)
	}
	return nil
}
