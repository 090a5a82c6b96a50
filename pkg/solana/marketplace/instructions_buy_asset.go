package marketplace

import (
	"crypto/ed25519"

	"github.com/assetmarket/escrow-server/pkg/solana"
)

type BuyAssetInstructionAccounts struct {
	Buyer  ed25519.PublicKey
	Asset  ed25519.PublicKey
	Seller ed25519.PublicKey
	Escrow ed25519.PublicKey

	TransferAccounts []solana.AccountMeta
}

func NewBuyAssetInstruction(
	accounts *BuyAssetInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, InstructionDiscriminatorSize)
	putDiscriminator(data, BuyAssetInstructionDiscriminator, &offset)

	metas := []solana.AccountMeta{
		{
			PublicKey:  accounts.Buyer,
			IsWritable: true,
			IsSigner:   true,
		},
		{
			PublicKey:  accounts.Asset,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Seller,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Escrow,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  SYSTEM_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  MPL_CORE_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
	}
	metas = append(metas, accounts.TransferAccounts...)

	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		metas...,
	)
}
