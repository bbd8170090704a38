package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/mirror"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/shared"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var inspectFlagKeys = []string{
	keyNetwork,
	keyOutput,
	keyMirrorURL,
	keyToken,
	keyContract,
	keyAccount,
	keyTransaction,
}

type inspection struct {
	Token       *mirror.TokenInfo     `json:"token,omitempty"`
	Contract    *mirror.ContractInfo  `json:"contract,omitempty"`
	Balances    []mirror.TokenHolding `json:"balances,omitempty"`
	Accounts    []mirror.AccountInfo  `json:"accounts,omitempty"`
	Transaction *mirror.Transaction   `json:"transaction,omitempty"`
}

func newInspectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Look up demo artifacts on the mirror node",
		Long: "Look up a token, a contract, accounts or a transaction on the mirror node.\n" +
			"With --token, each --account also shows its balance of that token.\n" +
			"Useful for checking what a run left on the network.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(a.viper, cmd.Flags(), inspectFlagKeys...)
			return a.inspect(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String(keyNetwork, "", "hedera network (mainnet, testnet, previewnet)")
	flags.String(keyOutput, outputText, "output format (text, json)")
	flags.String(keyMirrorURL, "", "mirror node base URL; defaults to the network's public mirror")
	flags.String(keyToken, "", "token ID")
	flags.String(keyContract, "", "contract ID")
	flags.StringSlice(keyAccount, nil, "account IDs to show, with their balance of --token when set")
	flags.String(keyTransaction, "", "transaction ID, in 0.0.2@1700000000.000000001 or mirror form")
	return cmd
}

func (a *app) inspect(ctx context.Context) error {
	output, err := parseOutput(a.viper.GetString(keyOutput))
	if err != nil {
		return err
	}
	network, err := shared.NormalizeNetwork(a.viper.GetString(keyNetwork))
	if err != nil {
		return err
	}

	tokenID := strings.TrimSpace(a.viper.GetString(keyToken))
	contractID := strings.TrimSpace(a.viper.GetString(keyContract))
	transactionID := strings.TrimSpace(a.viper.GetString(keyTransaction))
	accounts := a.viper.GetStringSlice(keyAccount)

	if tokenID == "" && contractID == "" && transactionID == "" && len(accounts) == 0 {
		return fmt.Errorf(
			"at least one of --%s, --%s, --%s or --%s is required",
			keyToken, keyContract, keyAccount, keyTransaction,
		)
	}

	client, err := mirror.NewClient(mirror.Config{Network: network, BaseURL: a.viper.GetString(keyMirrorURL)})
	if err != nil {
		return err
	}
	a.logger.Debug("inspecting", zap.String("mirror", client.BaseURL()))

	var result inspection
	if tokenID != "" {
		token, err := client.GetToken(ctx, tokenID)
		if err != nil {
			return err
		}
		result.Token = &token
		for _, account := range accounts {
			holding, err := client.GetAccountTokenBalance(ctx, account, tokenID)
			if err != nil {
				return err
			}
			result.Balances = append(result.Balances, holding)
		}
	}
	for _, account := range accounts {
		info, err := client.GetAccount(ctx, account)
		if err != nil {
			return err
		}
		result.Accounts = append(result.Accounts, info)
	}
	if contractID != "" {
		contract, err := client.GetContract(ctx, contractID)
		if err != nil {
			return err
		}
		result.Contract = &contract
	}
	if transactionID != "" {
		transaction, err := client.GetTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		result.Transaction = transaction
	}

	return writeInspection(a.stdout, output, result)
}

func writeInspection(out io.Writer, format string, result inspection) error {
	if format == outputJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode inspection: %w", err)
		}
		return nil
	}

	if token := result.Token; token != nil {
		fmt.Fprintf(out, "Token %s: %s (%s)\n", token.TokenID, token.Name, token.Symbol)
		fmt.Fprintf(out, "  total supply: %s (decimals %s)\n", token.TotalSupply, token.Decimals)
		fmt.Fprintf(out, "  treasury:     %s\n", token.TreasuryAccountID)
		fmt.Fprintf(out, "  supply key:   %s\n", describeKey(token.SupplyKey))
	}
	for _, holding := range result.Balances {
		if !holding.Associated {
			fmt.Fprintf(out, "  %s: not associated\n", holding.AccountID)
			continue
		}
		fmt.Fprintf(out, "  %s: %d\n", holding.AccountID, holding.Balance)
	}
	for _, account := range result.Accounts {
		fmt.Fprintf(out, "Account %s\n", account.Account)
		fmt.Fprintf(out, "  evm address:  %s\n", account.EVMAddress)
		fmt.Fprintf(out, "  key:          %s\n", describeKey(account.Key))
		if account.Memo != "" {
			fmt.Fprintf(out, "  memo:         %s\n", account.Memo)
		}
	}
	if contract := result.Contract; contract != nil {
		fmt.Fprintf(out, "Contract %s\n", contract.ContractID)
		fmt.Fprintf(out, "  evm address:  %s\n", contract.EVMAddress)
		fmt.Fprintf(out, "  bytecode file: %s\n", contract.FileID)
	}
	if transaction := result.Transaction; transaction != nil {
		fmt.Fprintf(out, "Transaction %s\n", transaction.TransactionID)
		fmt.Fprintf(out, "  %s: %s at %s\n", transaction.Name, transaction.Result, transaction.ConsensusTimestamp)
		for _, transfer := range transaction.TokenTransfers {
			fmt.Fprintf(out, "  %s %s %+d\n", transfer.TokenID, transfer.Account, transfer.Amount)
		}
	}
	return nil
}

// describeKey renders a mirror node key object as its type and value.
func describeKey(key map[string]any) string {
	if len(key) == 0 {
		return "none"
	}
	keyType, _ := key["_type"].(string)
	value, _ := key["key"].(string)
	if keyType == "" {
		return fmt.Sprintf("%v", key)
	}
	if value == "" {
		return keyType
	}
	return keyType + " " + value
}
