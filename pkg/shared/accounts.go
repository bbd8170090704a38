package shared

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// Account pairs a ledger account with the private key that signs for it.
type Account struct {
	ID  hedera.AccountID
	Key hedera.PrivateKey
}

// PublicKey returns the public half of the account key.
func (a Account) PublicKey() hedera.PublicKey {
	return a.Key.PublicKey()
}

// SolidityAddress returns the long-zero EVM address of the account.
func (a Account) SolidityAddress() string {
	return a.ID.ToSolidityAddress()
}

// Accounts holds the three roles the demo signs with. It is built once at
// startup and never rotated.
type Accounts struct {
	Network  string
	Operator Account
	Treasury Account
	Receiver Account
}

// Environment variable names per role, in lookup order.
var (
	operatorIDKeys  = []string{"OPERATOR_ID", "HEDERA_OPERATOR_ID", "HEDERA_ACCOUNT_ID"}
	operatorKeyKeys = []string{"OPERATOR_KEY", "HEDERA_OPERATOR_KEY", "HEDERA_PRIVATE_KEY"}
	treasuryIDKeys  = []string{"TREASURY_ID"}
	treasuryKeyKeys = []string{"TREASURY_KEY"}
	receiverIDKeys  = []string{"RECEIVER_ID"}
	receiverKeyKeys = []string{"RECEIVER_KEY"}
	networkKeys     = []string{"HEDERA_NETWORK", "NETWORK"}
)

// MissingEnvError reports a required environment variable that is unset or blank.
type MissingEnvError struct {
	Key string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("%s is required", e.Key)
}

// AccountsFromEnv loads operator, treasury and receiver credentials from the
// process environment, after loading a .env file if one is found.
func AccountsFromEnv() (Accounts, error) {
	loadDotEnvIfPresent()

	network, err := NormalizeNetwork(firstNonEmptyEnv(networkKeys...))
	if err != nil {
		return Accounts{}, err
	}

	operator, err := accountFromEnv("operator", operatorIDKeys, operatorKeyKeys)
	if err != nil {
		return Accounts{}, err
	}
	treasury, err := accountFromEnv("treasury", treasuryIDKeys, treasuryKeyKeys)
	if err != nil {
		return Accounts{}, err
	}
	receiver, err := accountFromEnv("receiver", receiverIDKeys, receiverKeyKeys)
	if err != nil {
		return Accounts{}, err
	}

	return Accounts{
		Network:  network,
		Operator: operator,
		Treasury: treasury,
		Receiver: receiver,
	}, nil
}

func accountFromEnv(role string, idKeys []string, keyKeys []string) (Account, error) {
	rawID := firstNonEmptyEnv(idKeys...)
	if rawID == "" {
		return Account{}, &MissingEnvError{Key: idKeys[0]}
	}
	rawKey := firstNonEmptyEnv(keyKeys...)
	if rawKey == "" {
		return Account{}, &MissingEnvError{Key: keyKeys[0]}
	}

	account, err := ParseAccount(rawID, rawKey)
	if err != nil {
		return Account{}, fmt.Errorf("invalid %s credentials: %w", role, err)
	}
	return account, nil
}

// ParseAccount parses an account ID string and its private key.
func ParseAccount(accountID string, privateKey string) (Account, error) {
	trimmedID := strings.TrimSpace(accountID)
	if trimmedID == "" {
		return Account{}, fmt.Errorf("account ID cannot be empty")
	}

	id, err := hedera.AccountIDFromString(trimmedID)
	if err != nil {
		return Account{}, fmt.Errorf("invalid account ID %q: %w", trimmedID, err)
	}

	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return Account{}, err
	}

	return Account{ID: id, Key: key}, nil
}

// ParsePrivateKey parses a DER or raw hex private key, trying ED25519 first,
// then ECDSA, then the SDK's generic parser.
func ParsePrivateKey(raw string) (hedera.PrivateKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return hedera.PrivateKey{}, fmt.Errorf("private key cannot be empty")
	}

	ed25519Key, edErr := hedera.PrivateKeyFromStringEd25519(candidate)
	if edErr == nil {
		return ed25519Key, nil
	}

	ecdsaKey, ecdsaErr := hedera.PrivateKeyFromStringECDSA(candidate)
	if ecdsaErr == nil {
		return ecdsaKey, nil
	}

	genericKey, genericErr := hedera.PrivateKeyFromString(candidate)
	if genericErr == nil {
		return genericKey, nil
	}

	return hedera.PrivateKey{}, fmt.Errorf(
		"failed to parse private key as ED25519 (%v), ECDSA (%v), or generic (%v)",
		edErr,
		ecdsaErr,
		genericErr,
	)
}
