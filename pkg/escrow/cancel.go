package escrow

import (
	"context"

	"github.com/pkg/errors"

	"github.com/assetmarket/escrow-server/pkg/solana"
	"github.com/assetmarket/escrow-server/pkg/solana/marketplace"
)

type CancelParams struct {
	Asset  string
	Seller string
}

// Cancel composes the transaction that withdraws a listing and returns the
// asset to the seller. The seller is the fee payer and signs out of band.
func (e *Engine) Cancel(ctx context.Context, params *CancelParams) (*TransactionResult, error) {
	asset, err := parsePublicKey("assetId", params.Asset)
	if err != nil {
		return nil, err
	}
	seller, err := parsePublicKey("seller", params.Seller)
	if err != nil {
		return nil, err
	}

	escrowAddress, err := marketplace.GetEscrowAddress(&marketplace.GetEscrowAddressArgs{
		Asset:  asset,
		Seller: seller,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving escrow address")
	}

	assetState, err := e.assets.GetAsset(ctx, asset)
	if err != nil {
		return nil, errors.Wrap(err, "error fetching asset state")
	}

	ixn := marketplace.NewCancelEscrowInstruction(&marketplace.CancelEscrowInstructionAccounts{
		Seller:           seller,
		Asset:            asset,
		Escrow:           escrowAddress,
		TransferAccounts: marketplace.GetTransferAccounts(assetState),
	})

	blockhash, _, err := e.client.GetLatestBlockhash()
	if err != nil {
		return nil, errors.Wrap(err, "error fetching latest blockhash")
	}

	txn := solana.NewTransaction(seller, ixn)
	txn.SetBlockhash(blockhash)

	marshalled, err := marshalBase64(txn)
	if err != nil {
		return nil, err
	}

	return &TransactionResult{
		Transaction: marshalled,
	}, nil
}
