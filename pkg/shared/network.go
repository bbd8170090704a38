package shared

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	NetworkMainnet    = "mainnet"
	NetworkTestnet    = "testnet"
	NetworkPreviewnet = "previewnet"
)

// Fee ceilings applied to every client unless overridden.
const (
	DefaultMaxTransactionFeeHbar = 0.75
	DefaultMaxQueryPaymentHbar   = 0.01
)

// ClientOptions tunes the Hedera client built by NewHederaClient.
type ClientOptions struct {
	MaxTransactionFeeHbar float64
	MaxQueryPaymentHbar   float64
}

// NormalizeNetwork lowercases and validates a network name. Empty means testnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkTestnet, nil
	}

	switch normalized {
	case NetworkMainnet, NetworkTestnet, NetworkPreviewnet:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// NewHederaClient creates a client for the named network with the default fee ceilings.
func NewHederaClient(network string) (*hedera.Client, error) {
	return NewHederaClientWithOptions(network, ClientOptions{})
}

// NewHederaClientWithOptions creates a client for the named network. Zero fee
// options fall back to the package defaults.
func NewHederaClientWithOptions(network string, options ClientOptions) (*hedera.Client, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return nil, err
	}

	var client *hedera.Client
	switch normalized {
	case NetworkMainnet:
		client = hedera.ClientForMainnet()
	case NetworkPreviewnet:
		client = hedera.ClientForPreviewnet()
	default:
		client = hedera.ClientForTestnet()
	}

	maxFee := options.MaxTransactionFeeHbar
	if maxFee <= 0 {
		maxFee = DefaultMaxTransactionFeeHbar
	}
	maxQuery := options.MaxQueryPaymentHbar
	if maxQuery <= 0 {
		maxQuery = DefaultMaxQueryPaymentHbar
	}

	if err := client.SetDefaultMaxTransactionFee(hedera.NewHbar(maxFee)); err != nil {
		return nil, fmt.Errorf("failed to set max transaction fee: %w", err)
	}
	if err := client.SetDefaultMaxQueryPayment(hedera.NewHbar(maxQuery)); err != nil {
		return nil, fmt.Errorf("failed to set max query payment: %w", err)
	}

	return client, nil
}
