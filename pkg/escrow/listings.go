package escrow

import (
	"bytes"
	"context"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/assetmarket/escrow-server/pkg/lamports"
	"github.com/assetmarket/escrow-server/pkg/solana/marketplace"
)

// Listing is one active escrow joined with its asset's display metadata.
type Listing struct {
	Escrow string `json:"escrow"`
	Asset  string `json:"asset"`
	Seller string `json:"seller"`
	Price  string `json:"price"`
	Name   string `json:"name"`
	Uri    string `json:"uri"`
}

// GetListings scans every account owned by the escrow program and returns
// the active listings. A record that fails to decode, fails the address
// check, or whose asset metadata can't be resolved is skipped without
// aborting the scan. A program with no accounts yields an empty slice.
func (e *Engine) GetListings(ctx context.Context) ([]*Listing, error) {
	accounts, err := e.client.GetProgramAccounts(marketplace.PROGRAM_ID)
	if err != nil {
		return nil, errors.Wrap(err, "error fetching escrow program accounts")
	}

	listings := make([]*Listing, 0, len(accounts))
	for _, account := range accounts {
		log := e.log.WithFields(logFields("GetListings", account.Address))

		var record marketplace.EscrowAccount
		if err := record.Unmarshal(account.Data); err != nil {
			log.WithError(err).Warn("skipping undecodable escrow account")
			continue
		}

		if !record.IsActive() {
			continue
		}

		// The record is only trustworthy if it lives at the address its
		// own (asset, seller) pair derives to.
		derived, err := marketplace.GetEscrowAddress(&marketplace.GetEscrowAddressArgs{
			Asset:  record.Asset,
			Seller: record.Seller,
		})
		if err != nil || !bytes.Equal(derived, account.Address) {
			log.Warn("skipping escrow account with mismatched derived address")
			continue
		}

		asset, err := e.assets.GetAsset(ctx, record.Asset)
		if err != nil {
			log.WithError(err).Warn("skipping escrow account with unresolvable asset")
			continue
		}

		listings = append(listings, &Listing{
			Escrow: base58.Encode(account.Address),
			Asset:  base58.Encode(record.Asset),
			Seller: base58.Encode(record.Seller),
			Price:  lamports.ToString(record.Price),
			Name:   asset.Name,
			Uri:    asset.Uri,
		})
	}

	return listings, nil
}
