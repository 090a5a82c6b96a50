package marketplace

import (
	"crypto/ed25519"

	"github.com/assetmarket/escrow-server/pkg/solana"
)

type CloseEscrowInstructionAccounts struct {
	Seller ed25519.PublicKey
	Escrow ed25519.PublicKey
}

// NewCloseEscrowInstruction reclaims a settled (or never-funded) escrow
// record so the address is free for a new listing of the same pair.
func NewCloseEscrowInstruction(
	accounts *CloseEscrowInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, InstructionDiscriminatorSize)
	putDiscriminator(data, CloseEscrowInstructionDiscriminator, &offset)

	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		solana.AccountMeta{
			PublicKey:  accounts.Seller,
			IsWritable: true,
			IsSigner:   true,
		},
		solana.AccountMeta{
			PublicKey:  accounts.Escrow,
			IsWritable: true,
			IsSigner:   false,
		},
	)
}
