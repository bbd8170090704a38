// Package hts_contract_demo_go hands control of a Hedera token's supply to a
// smart contract and drives the token through that contract.
//
// A run creates a fungible token, uploads contract bytecode with file create
// and append, deploys the contract with the token's Solidity address, sets the
// contract as the token's supply key and then calls the contract to mint,
// burn, associate the receiver and transfer. Token supply and balances are
// queried between the steps.
//
// # Packages
//
//   - pkg/orchestrator: the ordered step pipeline and its report
//   - pkg/ledger: the Ledger interface and its Hedera SDK implementation
//   - pkg/mirror: mirror node REST lookups
//   - pkg/artifact: bytecode loading and fingerprinting
//   - pkg/shared: network clients and account credentials
//
// # Running
//
//	go run ./cmd/hts-contract-demo run --bytecode ./contract.bin
package hts_contract_demo_go
