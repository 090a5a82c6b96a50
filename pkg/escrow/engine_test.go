package escrow

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetmarket/escrow-server/pkg/solana"
	"github.com/assetmarket/escrow-server/pkg/solana/marketplace"
	"github.com/assetmarket/escrow-server/pkg/solana/mplcore"
)

type fakeClient struct {
	accountInfos       map[string]solana.AccountInfo
	accountInfoErr     error
	programAccounts    []solana.ProgramAccount
	programAccountsErr error

	calls int
}

func (c *fakeClient) GetAccountInfo(account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	c.calls++
	if c.accountInfoErr != nil {
		return solana.AccountInfo{}, c.accountInfoErr
	}
	info, ok := c.accountInfos[base58.Encode(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func (c *fakeClient) GetProgramAccounts(_ ed25519.PublicKey) ([]solana.ProgramAccount, error) {
	c.calls++
	if c.programAccountsErr != nil {
		return nil, c.programAccountsErr
	}
	return c.programAccounts, nil
}

func (c *fakeClient) GetLatestBlockhash() (solana.Blockhash, uint64, error) {
	c.calls++
	var bh solana.Blockhash
	bh[0] = 42
	return bh, 100, nil
}

func (c *fakeClient) SubmitTransaction(_ solana.Transaction, _ solana.Commitment) (solana.Signature, error) {
	return solana.Signature{}, errors.New("not supported")
}

type fakeAssetSource struct {
	assets map[string]*mplcore.Asset
	err    error

	calls int
}

func (s *fakeAssetSource) GetAsset(_ context.Context, address ed25519.PublicKey) (*mplcore.Asset, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	asset, ok := s.assets[base58.Encode(address)]
	if !ok {
		return nil, mplcore.ErrNotAnAsset
	}
	return asset, nil
}

type testEnv struct {
	client *fakeClient
	assets *fakeAssetSource
	engine *Engine

	asset  ed25519.PublicKey
	seller ed25519.PublicKey
	buyer  ed25519.PublicKey
	escrow ed25519.PublicKey
	bump   uint8
}

func setup(t *testing.T) *testEnv {
	asset, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	seller, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	buyer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	escrowAddress, bump, err := marketplace.GetEscrowAddressAndBump(&marketplace.GetEscrowAddressArgs{
		Asset:  asset,
		Seller: seller,
	})
	require.NoError(t, err)

	client := &fakeClient{
		accountInfos: make(map[string]solana.AccountInfo),
	}
	assets := &fakeAssetSource{
		assets: map[string]*mplcore.Asset{
			base58.Encode(asset): {
				Address: asset,
				Name:    "Test Asset",
				Uri:     "https://example.com/asset.json",
			},
		},
	}

	return &testEnv{
		client: client,
		assets: assets,
		engine: NewEngine(client, assets),
		asset:  asset,
		seller: seller,
		buyer:  buyer,
		escrow: escrowAddress,
		bump:   bump,
	}
}

func (env *testEnv) escrowAccountData(t *testing.T, status marketplace.EscrowStatus) []byte {
	data := make([]byte, marketplace.EscrowAccountSize)
	offset := 8
	copy(data[offset:], env.asset)
	offset += 32
	copy(data[offset:], env.seller)
	offset += 33 // seller + unset buyer flag
	binary.LittleEndian.PutUint64(data[offset:], 500_000_000)
	offset += 8
	data[offset] = env.bump
	offset++
	data[offset] = uint8(status)
	return data
}

func (env *testEnv) setEscrowAccount(t *testing.T, status marketplace.EscrowStatus) {
	env.client.accountInfos[base58.Encode(env.escrow)] = solana.AccountInfo{
		Data:  env.escrowAccountData(t, status),
		Owner: marketplace.PROGRAM_ID,
	}
}

func decodeTransaction(t *testing.T, encoded string) solana.Transaction {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var txn solana.Transaction
	require.NoError(t, txn.Unmarshal(raw))
	return txn
}

func instructionDiscriminators(txn solana.Transaction) [][]byte {
	var discriminators [][]byte
	for _, ixn := range txn.Message.Instructions {
		discriminators = append(discriminators, ixn.Data[:8])
	}
	return discriminators
}

func TestEngine_ListFreshEscrow(t *testing.T) {
	env := setup(t)

	result, err := env.engine.List(context.Background(), &ListParams{
		Asset:  base58.Encode(env.asset),
		Seller: base58.Encode(env.seller),
		Price:  "0.5",
	})
	require.NoError(t, err)

	assert.Equal(t, base58.Encode(env.escrow), result.Escrow)

	txn := decodeTransaction(t, result.Transaction)

	// Exactly two instructions: CreateEscrow then DepositAsset.
	require.Len(t, txn.Message.Instructions, 2)
	discriminators := instructionDiscriminators(txn)
	assert.Equal(t, marketplace.CreateEscrowInstructionDiscriminator, discriminators[0])
	assert.Equal(t, marketplace.DepositAssetInstructionDiscriminator, discriminators[1])

	// The seller pays fees and is the sole signer; no signature is attached.
	assert.EqualValues(t, env.seller, txn.Message.Accounts[0])
	require.Len(t, txn.Signatures, 1)
	assert.Equal(t, solana.Signature{}, txn.Signatures[0])

	// The create args carry the scaled price.
	args, err := marketplace.CreateEscrowInstructionArgsFromData(txn.Message.Instructions[0].Data)
	require.NoError(t, err)
	assert.EqualValues(t, 500_000_000, args.Price)
	assert.Nil(t, args.Buyer)
}

func TestEngine_ListAlreadyListed(t *testing.T) {
	env := setup(t)
	env.setEscrowAccount(t, marketplace.EscrowStatusDeposited)

	_, err := env.engine.List(context.Background(), &ListParams{
		Asset:  base58.Encode(env.asset),
		Seller: base58.Encode(env.seller),
		Price:  "0.5",
	})
	assert.Equal(t, ErrAlreadyListed, err)

	// Rejected before any instruction was built or asset state fetched.
	assert.Equal(t, 0, env.assets.calls)
}

func TestEngine_ListResetsStaleEscrow(t *testing.T) {
	for _, status := range []marketplace.EscrowStatus{
		marketplace.EscrowStatusPending,
		marketplace.EscrowStatusCompleted,
		marketplace.EscrowStatusCancelled,
	} {
		env := setup(t)
		env.setEscrowAccount(t, status)

		result, err := env.engine.List(context.Background(), &ListParams{
			Asset:  base58.Encode(env.asset),
			Seller: base58.Encode(env.seller),
			Price:  "0.5",
		})
		require.NoError(t, err, "status: %s", status)

		txn := decodeTransaction(t, result.Transaction)
		require.Len(t, txn.Message.Instructions, 3, "status: %s", status)

		discriminators := instructionDiscriminators(txn)
		assert.Equal(t, marketplace.CloseEscrowInstructionDiscriminator, discriminators[0])
		assert.Equal(t, marketplace.CreateEscrowInstructionDiscriminator, discriminators[1])
		assert.Equal(t, marketplace.DepositAssetInstructionDiscriminator, discriminators[2])
	}
}

func TestEngine_ListClosesUndecodableProgramOwnedAccount(t *testing.T) {
	env := setup(t)
	env.client.accountInfos[base58.Encode(env.escrow)] = solana.AccountInfo{
		Data:  []byte{1, 2, 3},
		Owner: marketplace.PROGRAM_ID,
	}

	result, err := env.engine.List(context.Background(), &ListParams{
		Asset:  base58.Encode(env.asset),
		Seller: base58.Encode(env.seller),
		Price:  "0.5",
	})
	require.NoError(t, err)

	txn := decodeTransaction(t, result.Transaction)
	require.Len(t, txn.Message.Instructions, 3)
	assert.Equal(t, marketplace.CloseEscrowInstructionDiscriminator, instructionDiscriminators(txn)[0])
}

func TestEngine_ListIgnoresForeignAccount(t *testing.T) {
	env := setup(t)

	foreignOwner, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	env.client.accountInfos[base58.Encode(env.escrow)] = solana.AccountInfo{
		Data:  []byte{1, 2, 3},
		Owner: foreignOwner,
	}

	result, err := env.engine.List(context.Background(), &ListParams{
		Asset:  base58.Encode(env.asset),
		Seller: base58.Encode(env.seller),
		Price:  "0.5",
	})
	require.NoError(t, err)

	txn := decodeTransaction(t, result.Transaction)
	require.Len(t, txn.Message.Instructions, 2)
}

func TestEngine_ListValidation(t *testing.T) {
	env := setup(t)

	for _, tc := range []struct {
		name   string
		params *ListParams
	}{
		{"missing asset", &ListParams{Seller: base58.Encode(env.seller), Price: "0.5"}},
		{"bad asset", &ListParams{Asset: "nope", Seller: base58.Encode(env.seller), Price: "0.5"}},
		{"missing seller", &ListParams{Asset: base58.Encode(env.asset), Price: "0.5"}},
		{"zero price", &ListParams{Asset: base58.Encode(env.asset), Seller: base58.Encode(env.seller), Price: "0"}},
		{"negative price", &ListParams{Asset: base58.Encode(env.asset), Seller: base58.Encode(env.seller), Price: "-1"}},
		{"non numeric price", &ListParams{Asset: base58.Encode(env.asset), Seller: base58.Encode(env.seller), Price: "abc"}},
		{"bad buyer", &ListParams{Asset: base58.Encode(env.asset), Seller: base58.Encode(env.seller), Price: "0.5", Buyer: "nope"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			before := env.client.calls

			_, err := env.engine.List(context.Background(), tc.params)
			assert.True(t, IsValidationError(err))

			// Rejected before any network access.
			assert.Equal(t, before, env.client.calls)
		})
	}
}

func TestEngine_BuyIncludesConditionalAccounts(t *testing.T) {
	env := setup(t)

	collection, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	env.assets.assets[base58.Encode(env.asset)] = &mplcore.Asset{
		Address:                env.asset,
		UpdateAuthorityKind:    mplcore.UpdateAuthorityKindCollection,
		UpdateAuthorityAddress: collection,
		HasPluginHeader:        true,
	}

	result, err := env.engine.Buy(context.Background(), &BuyParams{
		Asset:  base58.Encode(env.asset),
		Buyer:  base58.Encode(env.buyer),
		Seller: base58.Encode(env.seller),
	})
	require.NoError(t, err)

	txn := decodeTransaction(t, result.Transaction)
	require.Len(t, txn.Message.Instructions, 1)

	ixn := txn.Message.Instructions[0]
	assert.Equal(t, marketplace.BuyAssetInstructionDiscriminator, ixn.Data)

	// Fixed accounts, then the collection authority, then the plugin
	// registry, in that order.
	require.Len(t, ixn.Accounts, 8)
	resolved := make([]ed25519.PublicKey, len(ixn.Accounts))
	for i, index := range ixn.Accounts {
		resolved[i] = txn.Message.Accounts[index]
	}
	assert.EqualValues(t, env.buyer, resolved[0])
	assert.EqualValues(t, env.asset, resolved[1])
	assert.EqualValues(t, env.seller, resolved[2])
	assert.EqualValues(t, env.escrow, resolved[3])
	assert.EqualValues(t, marketplace.SYSTEM_PROGRAM_ID, resolved[4])
	assert.EqualValues(t, marketplace.MPL_CORE_PROGRAM_ID, resolved[5])
	assert.EqualValues(t, collection, resolved[6])
	assert.EqualValues(t, env.asset, resolved[7])

	// The buyer pays fees.
	assert.EqualValues(t, env.buyer, txn.Message.Accounts[0])
}

func TestEngine_CancelComposesSingleInstruction(t *testing.T) {
	env := setup(t)

	result, err := env.engine.Cancel(context.Background(), &CancelParams{
		Asset:  base58.Encode(env.asset),
		Seller: base58.Encode(env.seller),
	})
	require.NoError(t, err)

	txn := decodeTransaction(t, result.Transaction)
	require.Len(t, txn.Message.Instructions, 1)
	assert.Equal(t, marketplace.CancelEscrowInstructionDiscriminator, txn.Message.Instructions[0].Data)
	assert.EqualValues(t, env.seller, txn.Message.Accounts[0])
}

func TestMarshalBase64_PacketLimit(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	program, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	txn := solana.NewTransaction(payer, solana.Instruction{
		Program: program,
		Data:    make([]byte, solana.MaxTransactionSize),
	})

	_, err = marshalBase64(txn)
	assert.Error(t, err)

	txn = solana.NewTransaction(payer, solana.Instruction{
		Program: program,
		Data:    []byte{1},
	})

	_, err = marshalBase64(txn)
	assert.NoError(t, err)
}

func TestEngine_BuyUpstreamFailure(t *testing.T) {
	env := setup(t)
	env.assets.err = errors.New("rpc unavailable")

	_, err := env.engine.Buy(context.Background(), &BuyParams{
		Asset:  base58.Encode(env.asset),
		Buyer:  base58.Encode(env.buyer),
		Seller: base58.Encode(env.seller),
	})
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}
