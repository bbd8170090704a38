package mirror

type TokenInfo struct {
	TokenID           string         `json:"token_id"`
	Name              string         `json:"name"`
	Symbol            string         `json:"symbol"`
	Type              string         `json:"type"`
	Decimals          string         `json:"decimals"`
	InitialSupply     string         `json:"initial_supply"`
	TotalSupply       string         `json:"total_supply"`
	TreasuryAccountID string         `json:"treasury_account_id"`
	AdminKey          map[string]any `json:"admin_key"`
	SupplyKey         map[string]any `json:"supply_key"`
	Memo              string         `json:"memo"`
	CreatedTimestamp  string         `json:"created_timestamp"`
	Deleted           bool           `json:"deleted"`
}

type ContractInfo struct {
	ContractID       string         `json:"contract_id"`
	EVMAddress       string         `json:"evm_address"`
	FileID           string         `json:"file_id"`
	AdminKey         map[string]any `json:"admin_key"`
	Memo             string         `json:"memo"`
	CreatedTimestamp string         `json:"created_timestamp"`
	Deleted          bool           `json:"deleted"`
	Bytecode         string         `json:"bytecode"`
	RuntimeBytecode  string         `json:"runtime_bytecode"`
}

type AccountInfo struct {
	Account    string         `json:"account"`
	EVMAddress string         `json:"evm_address"`
	Key        map[string]any `json:"key"`
	Memo       string         `json:"memo"`
}

// TokenRelationship is one token held by, or associated with, an account.
type TokenRelationship struct {
	TokenID              string `json:"token_id"`
	Balance              uint64 `json:"balance"`
	Decimals             uint32 `json:"decimals"`
	AutomaticAssociation bool   `json:"automatic_association"`
	FreezeStatus         string `json:"freeze_status"`
	KYCStatus            string `json:"kyc_status"`
	CreatedTimestamp     string `json:"created_timestamp"`
}

// TokenHolding is the balance of one token for one account. Associated is
// false when the mirror node has no relationship between the two.
type TokenHolding struct {
	AccountID  string `json:"account_id"`
	TokenID    string `json:"token_id"`
	Balance    uint64 `json:"balance"`
	Associated bool   `json:"associated"`
}

type tokenRelationshipsResponse struct {
	Tokens []TokenRelationship `json:"tokens"`
	Links  struct {
		Next string `json:"next"`
	} `json:"links"`
}

type Transaction struct {
	ChargedTxFee       int64           `json:"charged_tx_fee"`
	ConsensusTimestamp string          `json:"consensus_timestamp"`
	EntityID           *string         `json:"entity_id"`
	MaxFee             string          `json:"max_fee"`
	MemoBase64         string          `json:"memo_base64"`
	Name               string          `json:"name"`
	Node               string          `json:"node"`
	Result             string          `json:"result"`
	TransactionID      string          `json:"transaction_id"`
	Transfers          []Transfer      `json:"transfers"`
	TokenTransfers     []TokenTransfer `json:"token_transfers"`
}

type Transfer struct {
	Account    string `json:"account"`
	Amount     int64  `json:"amount"`
	IsApproval bool   `json:"is_approval"`
}

type TokenTransfer struct {
	TokenID    string `json:"token_id"`
	Account    string `json:"account"`
	Amount     int64  `json:"amount"`
	IsApproval bool   `json:"is_approval"`
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Links        struct {
		Next string `json:"next"`
	} `json:"links"`
}
