package escrow

import (
	"context"

	"github.com/pkg/errors"

	"github.com/assetmarket/escrow-server/pkg/solana"
	"github.com/assetmarket/escrow-server/pkg/solana/marketplace"
)

type BuyParams struct {
	Asset  string
	Buyer  string
	Seller string
}

// Buy composes the transaction that purchases a listed asset. The buyer is
// the fee payer and signs out of band. The designated-buyer restriction, if
// any, is enforced by the remote program at execution time.
func (e *Engine) Buy(ctx context.Context, params *BuyParams) (*TransactionResult, error) {
	asset, err := parsePublicKey("assetId", params.Asset)
	if err != nil {
		return nil, err
	}
	buyer, err := parsePublicKey("buyer", params.Buyer)
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

	ixn := marketplace.NewBuyAssetInstruction(&marketplace.BuyAssetInstructionAccounts{
		Buyer:            buyer,
		Asset:            asset,
		Seller:           seller,
		Escrow:           escrowAddress,
		TransferAccounts: marketplace.GetTransferAccounts(assetState),
	})

	blockhash, _, err := e.client.GetLatestBlockhash()
	if err != nil {
		return nil, errors.Wrap(err, "error fetching latest blockhash")
	}

	txn := solana.NewTransaction(buyer, ixn)
	txn.SetBlockhash(blockhash)

	marshalled, err := marshalBase64(txn)
	if err != nil {
		return nil, err
	}

	return &TransactionResult{
		Transaction: marshalled,
	}, nil
}
