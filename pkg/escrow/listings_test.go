package escrow

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetmarket/escrow-server/pkg/solana"
	"github.com/assetmarket/escrow-server/pkg/solana/marketplace"
)

func (env *testEnv) activeListingRecord(t *testing.T) solana.ProgramAccount {
	return solana.ProgramAccount{
		Address: env.escrow,
		Data:    env.escrowAccountData(t, marketplace.EscrowStatusDeposited),
	}
}

func TestEngine_GetListings(t *testing.T) {
	env := setup(t)
	env.client.programAccounts = []solana.ProgramAccount{env.activeListingRecord(t)}

	listings, err := env.engine.GetListings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)

	listing := listings[0]
	assert.Equal(t, base58.Encode(env.escrow), listing.Escrow)
	assert.Equal(t, base58.Encode(env.asset), listing.Asset)
	assert.Equal(t, base58.Encode(env.seller), listing.Seller)
	assert.Equal(t, "0.500000000", listing.Price)
	assert.Equal(t, "Test Asset", listing.Name)
	assert.Equal(t, "https://example.com/asset.json", listing.Uri)
}

func TestEngine_GetListingsEmptyProgram(t *testing.T) {
	env := setup(t)

	listings, err := env.engine.GetListings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestEngine_GetListingsSkipsCorruptRecord(t *testing.T) {
	env := setup(t)

	corruptAddress, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	env.client.programAccounts = []solana.ProgramAccount{
		{Address: corruptAddress, Data: []byte{1, 2, 3}},
		env.activeListingRecord(t),
	}

	listings, err := env.engine.GetListings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, base58.Encode(env.escrow), listings[0].Escrow)
}

func TestEngine_GetListingsSkipsInactiveRecord(t *testing.T) {
	for _, status := range []marketplace.EscrowStatus{
		marketplace.EscrowStatusPending,
		marketplace.EscrowStatusCompleted,
		marketplace.EscrowStatusCancelled,
	} {
		env := setup(t)
		env.client.programAccounts = []solana.ProgramAccount{
			{Address: env.escrow, Data: env.escrowAccountData(t, status)},
		}

		listings, err := env.engine.GetListings(context.Background())
		require.NoError(t, err)
		assert.Empty(t, listings, "status: %s", status)
	}
}

func TestEngine_GetListingsSkipsMismatchedAddress(t *testing.T) {
	env := setup(t)

	// A well-formed record planted at an address its own fields don't
	// derive to must not be surfaced.
	wrongAddress, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	env.client.programAccounts = []solana.ProgramAccount{
		{Address: wrongAddress, Data: env.escrowAccountData(t, marketplace.EscrowStatusDeposited)},
	}

	listings, err := env.engine.GetListings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestEngine_GetListingsSkipsUnresolvableAsset(t *testing.T) {
	env := setup(t)
	env.client.programAccounts = []solana.ProgramAccount{env.activeListingRecord(t)}
	delete(env.assets.assets, base58.Encode(env.asset))

	listings, err := env.engine.GetListings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestEngine_GetListingsScanFailure(t *testing.T) {
	env := setup(t)
	env.client.programAccountsErr = errors.New("rpc unavailable")

	_, err := env.engine.GetListings(context.Background())
	assert.Error(t, err)
}
