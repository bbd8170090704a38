// Package mirror is a small client for the Hedera mirror node REST API. The
// demo uses it to read token and contract records and token balances after
// the consensus nodes have finalized the transactions that changed them.
//
// Learn more about the mirror node: https://docs.hedera.com
package mirror
