// Package shared holds the pieces every other package in the demo needs:
// network name normalization, Hedera client construction with fee ceilings,
// and loading of the operator, treasury and receiver credentials.
//
// # Environment Variables
//
// Credentials are read from the process environment after the nearest .env
// file (walking up from the working directory) has been loaded. Variables
// already set are never overridden by the file.
//
//	OPERATOR_ID, OPERATOR_KEY   (fallbacks HEDERA_OPERATOR_ID / HEDERA_ACCOUNT_ID,
//	                             HEDERA_OPERATOR_KEY / HEDERA_PRIVATE_KEY)
//	TREASURY_ID, TREASURY_KEY
//	RECEIVER_ID, RECEIVER_KEY
//	HEDERA_NETWORK or NETWORK   (mainnet, testnet, previewnet; default testnet)
package shared
