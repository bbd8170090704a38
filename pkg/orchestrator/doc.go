// Package orchestrator runs the token supply demo: it creates a fungible token,
// stages contract bytecode in a ledger file, deploys the contract, hands the
// token's supply key to it and drives mint, burn, associate and transfer
// through contract calls, checking supply and balances along the way.
//
// Steps run strictly in order and the run stops at the first failure. Nothing
// created before the failure is cleaned up.
package orchestrator
