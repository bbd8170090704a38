package orchestrator

import (
	"context"
	"fmt"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/ledger"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"go.uber.org/zap"
)

const (
	StepReadBytecode      = "read-bytecode"
	StepCreateToken       = "create-token"
	StepQueryTokenSupply  = "query-token-supply"
	StepCreateFile        = "create-file"
	StepAppendFile        = "append-file"
	StepCreateContract    = "create-contract"
	StepQuerySupplyKey    = "query-supply-key"
	StepDelegateSupplyKey = "delegate-supply-key"
	StepConfirmSupplyKey  = "confirm-supply-key"
	StepMint              = "mint"
	StepBurn              = "burn"
	StepAssociate         = "associate"
	StepTransfer          = "transfer"
	StepQueryBalances     = "query-balances"
)

// Steps returns the pipeline in execution order.
func (o *Orchestrator) Steps() []Step {
	return []Step{
		{Name: StepReadBytecode, Run: o.readBytecode},
		{Name: StepCreateToken, Run: o.createToken},
		{Name: StepQueryTokenSupply, Run: o.queryTokenSupply},
		{Name: StepCreateFile, Run: o.createFile},
		{Name: StepAppendFile, Run: o.appendFile},
		{Name: StepCreateContract, Run: o.createContract},
		{Name: StepQuerySupplyKey, Run: o.querySupplyKey},
		{Name: StepDelegateSupplyKey, Run: o.delegateSupplyKey},
		{Name: StepConfirmSupplyKey, Run: o.confirmSupplyKey},
		{Name: StepMint, Run: o.mint},
		{Name: StepBurn, Run: o.burn},
		{Name: StepAssociate, Run: o.associate},
		{Name: StepTransfer, Run: o.transfer},
		{Name: StepQueryBalances, Run: o.queryBalances},
	}
}

func (o *Orchestrator) readBytecode(ctx context.Context, state *State) error {
	bytecode, err := o.bytecode(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bytecode: %w", err)
	}
	state.Bytecode = bytecode

	o.logger.Info("bytecode loaded",
		zap.String("path", bytecode.Path),
		zap.Int("bytes", bytecode.Size()),
		zap.String("cid", bytecode.CID),
		zap.Bool("compressed", bytecode.Compressed),
	)
	o.printf("- Done reading bytecode (%d bytes, %s)\n", bytecode.Size(), bytecode.CID)
	return nil
}

func (o *Orchestrator) createToken(ctx context.Context, state *State) error {
	treasury := o.accounts.Treasury
	receipt, err := o.ledger.CreateToken(ctx, ledger.TokenCreateParams{
		Name:          o.config.TokenName,
		Symbol:        o.config.TokenSymbol,
		Decimals:      o.config.Decimals,
		InitialSupply: o.config.InitialSupply,
		Treasury:      treasury.ID,
		AdminKey:      treasury.PublicKey(),
		SupplyKey:     treasury.PublicKey(),
		Signers:       []hedera.PrivateKey{treasury.Key},
	})
	state.record(StepCreateToken, receipt)
	if err != nil {
		return err
	}
	if receipt.TokenID == nil {
		return fmt.Errorf("token create: %w", ledger.ErrMissingReceiptField)
	}

	tokenID := *receipt.TokenID
	state.TokenID = &tokenID

	o.logger.Info("token created", zap.String("token", tokenID.String()), zap.String("transaction", receipt.TransactionID))
	o.printf("- Token created with ID: %s\n", tokenID)
	o.printf("- Token ID in Solidity: %s\n", tokenID.ToSolidityAddress())
	return nil
}

func (o *Orchestrator) queryTokenSupply(ctx context.Context, state *State) error {
	tokenID, err := state.requireToken()
	if err != nil {
		return err
	}
	info, err := o.tokenInfo(ctx, tokenID)
	if err != nil {
		return err
	}
	if info.TotalSupply != o.config.InitialSupply {
		return fmt.Errorf("%w: token %s supply is %d, expected %d", ErrVerification, tokenID, info.TotalSupply, o.config.InitialSupply)
	}
	state.InitialSupply = info.TotalSupply

	o.printf("- Token supply: %d\n", info.TotalSupply)
	return nil
}

func (o *Orchestrator) createFile(ctx context.Context, state *State) error {
	// Reject oversized bytecode before anything is created for it.
	if err := ledger.CheckChunks(state.Bytecode.Size(), ledger.DefaultChunkSize, o.config.MaxChunks); err != nil {
		return err
	}

	treasury := o.accounts.Treasury
	receipt, err := o.ledger.CreateFile(ctx, ledger.FileCreateParams{
		Keys:    []hedera.Key{treasury.PublicKey()},
		Signers: []hedera.PrivateKey{treasury.Key},
	})
	state.record(StepCreateFile, receipt)
	if err != nil {
		return err
	}
	if receipt.FileID == nil {
		return fmt.Errorf("file create: %w", ledger.ErrMissingReceiptField)
	}

	fileID := *receipt.FileID
	state.FileID = &fileID

	o.logger.Info("file created", zap.String("file", fileID.String()), zap.String("transaction", receipt.TransactionID))
	o.printf("- File created with ID: %s\n", fileID)
	return nil
}

func (o *Orchestrator) appendFile(ctx context.Context, state *State) error {
	fileID, err := state.requireFile()
	if err != nil {
		return err
	}

	receipt, err := o.ledger.AppendFile(ctx, ledger.FileAppendParams{
		FileID:    fileID,
		Contents:  state.Bytecode.Contents,
		MaxChunks: o.config.MaxChunks,
		ChunkSize: ledger.DefaultChunkSize,
		Signers:   []hedera.PrivateKey{o.accounts.Treasury.Key},
	})
	state.record(StepAppendFile, receipt)
	if err != nil {
		return err
	}
	state.AppendStatus = receipt.Status

	o.logger.Info("file appended",
		zap.String("file", fileID.String()),
		zap.Int("chunks", ledger.ChunkCount(state.Bytecode.Size(), ledger.DefaultChunkSize)),
	)
	o.printf("- File appended: %s\n", receipt.Status)
	return nil
}

func (o *Orchestrator) createContract(ctx context.Context, state *State) error {
	fileID, err := state.requireFile()
	if err != nil {
		return err
	}
	tokenID, err := state.requireToken()
	if err != nil {
		return err
	}

	receipt, err := o.ledger.CreateContract(ctx, ledger.ContractCreateParams{
		BytecodeFileID:  fileID,
		Gas:             o.config.Gas,
		ConstructorArgs: []ledger.Arg{ledger.AddressArg(tokenID.ToSolidityAddress())},
	})
	state.record(StepCreateContract, receipt)
	if err != nil {
		return err
	}
	if receipt.ContractID == nil {
		return fmt.Errorf("contract create: %w", ledger.ErrMissingReceiptField)
	}

	contractID := *receipt.ContractID
	state.ContractID = &contractID
	state.FileRetired = true

	o.logger.Info("contract created", zap.String("contract", contractID.String()), zap.String("file", fileID.String()))
	o.printf("- Contract created with ID: %s\n", contractID)
	o.printf("- Contract ID in Solidity: %s\n", contractID.ToSolidityAddress())
	return nil
}

func (o *Orchestrator) querySupplyKey(ctx context.Context, state *State) error {
	tokenID, err := state.requireToken()
	if err != nil {
		return err
	}
	info, err := o.tokenInfo(ctx, tokenID)
	if err != nil {
		return err
	}
	state.SupplyKeyBefore = info.SupplyKey

	o.printf("- Token supply key: %s\n", info.SupplyKey)
	return nil
}

func (o *Orchestrator) delegateSupplyKey(ctx context.Context, state *State) error {
	tokenID, err := state.requireToken()
	if err != nil {
		return err
	}
	contractID, err := state.requireContract()
	if err != nil {
		return err
	}

	receipt, err := o.ledger.UpdateTokenSupplyKey(ctx, ledger.TokenSupplyKeyUpdateParams{
		TokenID:   tokenID,
		SupplyKey: contractID,
		Signers:   []hedera.PrivateKey{o.accounts.Treasury.Key},
	})
	state.record(StepDelegateSupplyKey, receipt)
	if err != nil {
		return err
	}
	state.DelegationStatus = receipt.Status

	o.logger.Info("supply key delegated", zap.String("token", tokenID.String()), zap.String("contract", contractID.String()))
	o.printf("- Token updated: %s\n", receipt.Status)
	return nil
}

func (o *Orchestrator) confirmSupplyKey(ctx context.Context, state *State) error {
	tokenID, err := state.requireToken()
	if err != nil {
		return err
	}
	contractID, err := state.requireContract()
	if err != nil {
		return err
	}
	info, err := o.tokenInfo(ctx, tokenID)
	if err != nil {
		return err
	}
	state.SupplyKeyAfter = info.SupplyKey

	o.printf("- Token supply key: %s\n", info.SupplyKey)
	if info.SupplyKey != contractID.String() {
		return fmt.Errorf("%w: token %s supply key is %q, expected contract %s", ErrVerification, tokenID, info.SupplyKey, contractID)
	}
	return nil
}

func (o *Orchestrator) mint(ctx context.Context, state *State) error {
	supply, err := o.executeAndQuerySupply(ctx, state, StepMint, ledger.FunctionCall{
		Name: o.config.MintFunction,
		Args: []ledger.Arg{ledger.Uint64Arg(o.config.MintAmount)},
	})
	if err != nil {
		return err
	}
	expected := state.InitialSupply + o.config.MintAmount
	if supply != expected {
		return fmt.Errorf("%w: supply after mint is %d, expected %d", ErrVerification, supply, expected)
	}
	state.SupplyAfterMint = supply
	return nil
}

func (o *Orchestrator) burn(ctx context.Context, state *State) error {
	supply, err := o.executeAndQuerySupply(ctx, state, StepBurn, ledger.FunctionCall{
		Name: o.config.BurnFunction,
		Args: []ledger.Arg{ledger.Uint64Arg(o.config.BurnAmount)},
	})
	if err != nil {
		return err
	}
	expected := state.SupplyAfterMint - o.config.BurnAmount
	if supply != expected {
		return fmt.Errorf("%w: supply after burn is %d, expected %d", ErrVerification, supply, expected)
	}
	state.SupplyAfterBurn = supply
	return nil
}

func (o *Orchestrator) associate(ctx context.Context, state *State) error {
	receiver := o.accounts.Receiver
	_, err := o.executeContract(ctx, state, StepAssociate, ledger.FunctionCall{
		Name: o.config.AssociateFunction,
		Args: []ledger.Arg{ledger.AddressArg(receiver.SolidityAddress())},
	}, receiver.Key)
	return err
}

func (o *Orchestrator) transfer(ctx context.Context, state *State) error {
	treasury := o.accounts.Treasury
	_, err := o.executeContract(ctx, state, StepTransfer, ledger.FunctionCall{
		Name: o.config.TransferFunction,
		Args: []ledger.Arg{
			ledger.AddressArg(treasury.SolidityAddress()),
			ledger.AddressArg(o.accounts.Receiver.SolidityAddress()),
			ledger.Uint64Arg(o.config.TransferAmount),
		},
	}, treasury.Key)
	return err
}

func (o *Orchestrator) queryBalances(ctx context.Context, state *State) error {
	tokenID, err := state.requireToken()
	if err != nil {
		return err
	}
	treasury := o.accounts.Treasury.ID
	receiver := o.accounts.Receiver.ID

	balances, err := o.ledger.TokenBalances(ctx, tokenID, treasury, receiver)
	if err != nil {
		return fmt.Errorf("failed to query token balances: %w", err)
	}
	state.Balances = balances

	o.logger.Info("token balances",
		zap.String("token", tokenID.String()),
		zap.Uint64("treasury", balances.Of(treasury)),
		zap.Uint64("receiver", balances.Of(receiver)),
	)
	o.printf("- Treasury balance: %d units of %s\n", balances.Of(treasury), tokenID)
	o.printf("- Receiver balance: %d units of %s\n", balances.Of(receiver), tokenID)
	return nil
}

func (o *Orchestrator) executeContract(
	ctx context.Context,
	state *State,
	step string,
	call ledger.FunctionCall,
	signers ...hedera.PrivateKey,
) (ledger.Receipt, error) {
	contractID, err := state.requireContract()
	if err != nil {
		return ledger.Receipt{}, err
	}

	receipt, err := o.ledger.ExecuteContract(ctx, ledger.ContractExecuteParams{
		ContractID: contractID,
		Gas:        o.config.Gas,
		Call:       call,
		Signers:    signers,
	})
	state.record(step, receipt)
	if err != nil {
		return receipt, err
	}

	o.logger.Info("contract executed",
		zap.String("contract", contractID.String()),
		zap.String("function", call.Signature()),
		zap.String("transaction", receipt.TransactionID),
	)
	o.printf("- Contract executed %s: %s\n", call.Name, receipt.Status)
	return receipt, nil
}

func (o *Orchestrator) executeAndQuerySupply(
	ctx context.Context,
	state *State,
	step string,
	call ledger.FunctionCall,
) (uint64, error) {
	tokenID, err := state.requireToken()
	if err != nil {
		return 0, err
	}
	if _, err := o.executeContract(ctx, state, step, call); err != nil {
		return 0, err
	}
	info, err := o.tokenInfo(ctx, tokenID)
	if err != nil {
		return 0, err
	}

	o.printf("- Token supply: %d\n", info.TotalSupply)
	return info.TotalSupply, nil
}

func (o *Orchestrator) tokenInfo(ctx context.Context, tokenID hedera.TokenID) (ledger.TokenInfo, error) {
	info, err := o.ledger.TokenInfo(ctx, tokenID)
	if err != nil {
		return ledger.TokenInfo{}, fmt.Errorf("failed to query token info: %w", err)
	}
	if info.TokenID.String() != tokenID.String() {
		return ledger.TokenInfo{}, fmt.Errorf("%w: token info returned %s for %s", ErrVerification, info.TokenID, tokenID)
	}
	return info, nil
}
