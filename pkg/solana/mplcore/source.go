package mplcore

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/assetmarket/escrow-server/pkg/solana"
)

// Source resolves the current on-chain state of an asset. Instruction
// builders consult it immediately before building so conditional account
// sets never go stale.
type Source interface {
	GetAsset(ctx context.Context, address ed25519.PublicKey) (*Asset, error)
}

type rpcSource struct {
	client solana.Client
}

// NewRPCSource returns a Source that fetches asset accounts through the
// provided ledger client.
func NewRPCSource(client solana.Client) Source {
	return &rpcSource{
		client: client,
	}
}

func (s *rpcSource) GetAsset(_ context.Context, address ed25519.PublicKey) (*Asset, error) {
	info, err := s.client.GetAccountInfo(address, solana.CommitmentConfirmed)
	if err != nil {
		return nil, errors.Wrap(err, "error fetching asset account")
	}

	if !bytes.Equal(info.Owner, PROGRAM_ID) {
		return nil, ErrNotAnAsset
	}

	var asset Asset
	if err := asset.Unmarshal(info.Data); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling asset account")
	}
	asset.Address = address

	return &asset, nil
}
