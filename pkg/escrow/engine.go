// Package escrow composes the unsigned transactions that drive the
// marketplace escrow program and enumerates its active listings.
//
// The engine is stateless: every decision is made against freshly fetched
// ledger state, so concurrent requests need no coordination and the remote
// program remains the sole authority over escrow transitions.
package escrow

import (
	"crypto/ed25519"
	"encoding/base64"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/assetmarket/escrow-server/pkg/solana"
	"github.com/assetmarket/escrow-server/pkg/solana/mplcore"
)

type Engine struct {
	log    *logrus.Entry
	client solana.Client
	assets mplcore.Source
}

func NewEngine(client solana.Client, assets mplcore.Source) *Engine {
	return &Engine{
		log:    logrus.StandardLogger().WithField("type", "escrow/engine"),
		client: client,
		assets: assets,
	}
}

func logFields(method string, escrow ed25519.PublicKey) logrus.Fields {
	return logrus.Fields{
		"method": method,
		"escrow": base58.Encode(escrow),
	}
}

// marshalBase64 serializes an unsigned transaction for a response body. A
// transaction past the network packet limit can never be submitted, so it
// is an error rather than a payload.
func marshalBase64(txn solana.Transaction) (string, error) {
	raw := txn.Marshal()
	if len(raw) > solana.MaxTransactionSize {
		return "", errors.Errorf("transaction exceeds packet limit: %d bytes", len(raw))
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// TransactionResult is the produced artifact for buy and cancel flows: an
// unsigned serialized transaction the wallet countersigns and submits.
type TransactionResult struct {
	Transaction string `json:"transaction"`
}

// ListResult additionally carries the escrow address the listing will live
// at, for display and confirmation.
type ListResult struct {
	Transaction string `json:"transaction"`
	Escrow      string `json:"escrow"`
}
