// Package ledger is the boundary between the demo and the Hedera network.
//
// The Ledger interface lists every submission and query the demo performs.
// HederaLedger implements it on top of the Hedera Go SDK: each submission
// is built by a pure Build*Tx function, frozen with the client, signed by
// every key in the request's Signers, executed, and resolved to a Receipt.
// A receipt whose status is not SUCCESS is returned together with a
// *StatusError so callers can stop without inspecting the receipt.
package ledger
