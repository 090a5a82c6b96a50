package marketplace

import (
	"crypto/ed25519"

	"github.com/assetmarket/escrow-server/pkg/solana"
)

type DepositAssetInstructionAccounts struct {
	Seller ed25519.PublicKey
	Asset  ed25519.PublicKey
	Escrow ed25519.PublicKey

	// TransferAccounts is the conditional account set resolved by
	// GetTransferAccounts from fresh asset state.
	TransferAccounts []solana.AccountMeta
}

func NewDepositAssetInstruction(
	accounts *DepositAssetInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, InstructionDiscriminatorSize)
	putDiscriminator(data, DepositAssetInstructionDiscriminator, &offset)

	metas := []solana.AccountMeta{
		{
			PublicKey:  accounts.Seller,
			IsWritable: true,
			IsSigner:   true,
		},
		{
			PublicKey:  accounts.Asset,
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
