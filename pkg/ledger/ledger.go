package ledger

import (
	"context"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// Ledger is every network operation the demo performs. Submissions block
// until a receipt is available.
type Ledger interface {
	CreateToken(ctx context.Context, params TokenCreateParams) (Receipt, error)
	CreateFile(ctx context.Context, params FileCreateParams) (Receipt, error)
	AppendFile(ctx context.Context, params FileAppendParams) (Receipt, error)
	CreateContract(ctx context.Context, params ContractCreateParams) (Receipt, error)
	ExecuteContract(ctx context.Context, params ContractExecuteParams) (Receipt, error)
	UpdateTokenSupplyKey(ctx context.Context, params TokenSupplyKeyUpdateParams) (Receipt, error)
	TokenInfo(ctx context.Context, tokenID hedera.TokenID) (TokenInfo, error)
	TokenBalances(ctx context.Context, tokenID hedera.TokenID, accounts ...hedera.AccountID) (Balances, error)
}
