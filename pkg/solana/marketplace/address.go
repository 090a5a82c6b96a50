package marketplace

import (
	"crypto/ed25519"

	"github.com/assetmarket/escrow-server/pkg/solana"
)

// EscrowPrefix is the seed tag domain-separating escrow addresses from other
// PDAs under the program.
var EscrowPrefix = []byte("escrow")

type GetEscrowAddressArgs struct {
	Asset  ed25519.PublicKey
	Seller ed25519.PublicKey
}

// GetEscrowAddressAndBump derives the escrow address for an (asset, seller)
// pair along with the bump seed the program records for signature-less
// authorization.
func GetEscrowAddressAndBump(args *GetEscrowAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		EscrowPrefix,
		args.Asset,
		args.Seller,
	)
}

func GetEscrowAddress(args *GetEscrowAddressArgs) (ed25519.PublicKey, error) {
	address, _, err := GetEscrowAddressAndBump(args)
	return address, err
}
