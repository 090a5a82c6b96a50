package marketplace

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

type EscrowStatus uint8

const (
	EscrowStatusPending EscrowStatus = iota
	EscrowStatusDeposited
	EscrowStatusCompleted
	EscrowStatusCancelled
)

const (
	// Escrow account layout: discriminator, asset, seller, buyer option
	// flag (+key when set), price, bump, status. The on-chain record also
	// carries reserved padding, which decoding ignores.
	EscrowAccountSize = (8 + // discriminator
		32 + // asset
		32 + // seller
		1 + // buyer option flag
		8 + // price
		1 + // bump
		1) // status

	EscrowAccountSizeWithBuyer = EscrowAccountSize + 32
)

// EscrowAccount is the decoded state of one listing record owned by the
// escrow program.
//
// The engine never mutates this record; the remote program is the sole
// authority over its transitions.
type EscrowAccount struct {
	Asset  ed25519.PublicKey
	Seller ed25519.PublicKey
	Buyer  ed25519.PublicKey // nil unless the listing restricts the purchaser
	Price  uint64
	Bump   uint8
	Status EscrowStatus
}

// IsActive reports whether the listing is eligible for purchase.
func (obj *EscrowAccount) IsActive() bool {
	return obj.Status == EscrowStatusDeposited
}

func (obj *EscrowAccount) Unmarshal(data []byte) error {
	if len(data) < EscrowAccountSize {
		return ErrInvalidAccountData
	}

	var offset int

	// The leading discriminator identifies the account type to the remote
	// program. It isn't interpreted here.
	var discriminator []byte
	getDiscriminator(data, &discriminator, &offset)

	getKey(data, &obj.Asset, &offset)
	getKey(data, &obj.Seller, &offset)

	var hasBuyer uint8
	getUint8(data, &hasBuyer, &offset)
	if hasBuyer == 1 {
		if len(data) < EscrowAccountSizeWithBuyer {
			return ErrInvalidAccountData
		}
		getKey(data, &obj.Buyer, &offset)
	} else {
		obj.Buyer = nil
	}

	getUint64(data, &obj.Price, &offset)
	getUint8(data, &obj.Bump, &offset)

	var status uint8
	getUint8(data, &status, &offset)
	if status > uint8(EscrowStatusCancelled) {
		return ErrInvalidAccountData
	}
	obj.Status = EscrowStatus(status)

	return nil
}

func (obj *EscrowAccount) String() string {
	buyer := "<nil>"
	if obj.Buyer != nil {
		buyer = base58.Encode(obj.Buyer)
	}
	return fmt.Sprintf(
		"Escrow{asset=%s,seller=%s,buyer=%s,price=%d,bump=%d,status=%s}",
		base58.Encode(obj.Asset),
		base58.Encode(obj.Seller),
		buyer,
		obj.Price,
		obj.Bump,
		obj.Status,
	)
}

func (s EscrowStatus) String() string {
	switch s {
	case EscrowStatusPending:
		return "pending"
	case EscrowStatusDeposited:
		return "deposited"
	case EscrowStatusCompleted:
		return "completed"
	case EscrowStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}
