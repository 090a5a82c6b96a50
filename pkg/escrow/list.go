package escrow

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/assetmarket/escrow-server/pkg/solana"
	"github.com/assetmarket/escrow-server/pkg/solana/marketplace"
)

type ListParams struct {
	Asset  string
	Seller string
	Price  string
	Buyer  string // optional designated buyer restriction
}

// List composes the transaction that lists an asset for sale: an optional
// CloseEscrow to clear a stale record, then CreateEscrow and DepositAsset.
// The seller is the fee payer and signs out of band.
func (e *Engine) List(ctx context.Context, params *ListParams) (*ListResult, error) {
	asset, err := parsePublicKey("assetId", params.Asset)
	if err != nil {
		return nil, err
	}
	seller, err := parsePublicKey("seller", params.Seller)
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(params.Price)
	if err != nil {
		return nil, err
	}

	var buyer ed25519.PublicKey
	if len(params.Buyer) > 0 {
		if buyer, err = parsePublicKey("buyer", params.Buyer); err != nil {
			return nil, err
		}
	}

	escrowAddress, _, err := marketplace.GetEscrowAddressAndBump(&marketplace.GetEscrowAddressArgs{
		Asset:  asset,
		Seller: seller,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving escrow address")
	}

	log := e.log.WithFields(logFields("List", escrowAddress))

	var ixns []solana.Instruction

	closeInstruction := marketplace.NewCloseEscrowInstruction(&marketplace.CloseEscrowInstructionAccounts{
		Seller: seller,
		Escrow: escrowAddress,
	})

	info, err := e.client.GetAccountInfo(escrowAddress, solana.CommitmentConfirmed)
	switch err {
	case nil:
		var existing marketplace.EscrowAccount
		if decodeErr := existing.Unmarshal(info.Data); decodeErr == nil {
			if existing.Status == marketplace.EscrowStatusDeposited {
				return nil, ErrAlreadyListed
			}

			// A settled or never-funded record still occupies the
			// address. Clear it before recreating.
			ixns = append(ixns, closeInstruction)
		} else if bytes.Equal(info.Owner, marketplace.PROGRAM_ID) {
			// Owned by the escrow program but not decodable as an escrow
			// record. Treat it as stale state and clear it rather than
			// failing the listing outright.
			log.WithError(decodeErr).Warn("undecodable program-owned account at escrow address, closing defensively")
			ixns = append(ixns, closeInstruction)
		} else {
			log.Warn("account at escrow address is not owned by the escrow program")
		}
	case solana.ErrNoAccountInfo:
		// Fresh listing.
	default:
		return nil, errors.Wrap(err, "error fetching escrow account")
	}

	// Asset state is fetched immediately before building so the
	// conditional transfer accounts reflect current plugin state.
	assetState, err := e.assets.GetAsset(ctx, asset)
	if err != nil {
		return nil, errors.Wrap(err, "error fetching asset state")
	}

	ixns = append(
		ixns,
		marketplace.NewCreateEscrowInstruction(
			&marketplace.CreateEscrowInstructionAccounts{
				Seller: seller,
				Asset:  asset,
				Escrow: escrowAddress,
			},
			&marketplace.CreateEscrowInstructionArgs{
				Price: price,
				Buyer: buyer,
			},
		),
		marketplace.NewDepositAssetInstruction(&marketplace.DepositAssetInstructionAccounts{
			Seller:           seller,
			Asset:            asset,
			Escrow:           escrowAddress,
			TransferAccounts: marketplace.GetTransferAccounts(assetState),
		}),
	)

	blockhash, _, err := e.client.GetLatestBlockhash()
	if err != nil {
		return nil, errors.Wrap(err, "error fetching latest blockhash")
	}

	txn := solana.NewTransaction(seller, ixns...)
	txn.SetBlockhash(blockhash)

	marshalled, err := marshalBase64(txn)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Transaction: marshalled,
		Escrow:      base58.Encode(escrowAddress),
	}, nil
}
