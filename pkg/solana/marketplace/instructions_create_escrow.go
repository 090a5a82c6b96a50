package marketplace

import (
	"bytes"
	"crypto/ed25519"

	"github.com/assetmarket/escrow-server/pkg/solana"
)

type CreateEscrowInstructionArgs struct {
	Price uint64
	Buyer ed25519.PublicKey // optional designated buyer restriction
}

type CreateEscrowInstructionAccounts struct {
	Seller ed25519.PublicKey
	Asset  ed25519.PublicKey
	Escrow ed25519.PublicKey
}

func NewCreateEscrowInstruction(
	accounts *CreateEscrowInstructionAccounts,
	args *CreateEscrowInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	argsSize := 8 + 1 // price + buyer option flag
	if args.Buyer != nil {
		argsSize += ed25519.PublicKeySize
	}
	data := make([]byte, InstructionDiscriminatorSize+argsSize)

	putDiscriminator(data, CreateEscrowInstructionDiscriminator, &offset)
	putUint64(data, args.Price, &offset)
	if args.Buyer != nil {
		putUint8(data, 1, &offset)
		putKey(data, args.Buyer, &offset)
	} else {
		putUint8(data, 0, &offset)
	}

	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		solana.AccountMeta{
			PublicKey:  accounts.Seller,
			IsWritable: true,
			IsSigner:   true,
		},
		solana.AccountMeta{
			PublicKey:  accounts.Asset,
			IsWritable: false,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  accounts.Escrow,
			IsWritable: true,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  SYSTEM_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
	)
}

// CreateEscrowInstructionArgsFromData decodes the argument payload of a
// CreateEscrow instruction.
func CreateEscrowInstructionArgsFromData(data []byte) (*CreateEscrowInstructionArgs, error) {
	if len(data) < InstructionDiscriminatorSize+8+1 {
		return nil, ErrInvalidInstructionData
	}

	var offset int

	var discriminator []byte
	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, CreateEscrowInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args CreateEscrowInstructionArgs
	getUint64(data, &args.Price, &offset)

	var hasBuyer uint8
	getUint8(data, &hasBuyer, &offset)
	if hasBuyer == 1 {
		if len(data) < offset+ed25519.PublicKeySize {
			return nil, ErrInvalidInstructionData
		}
		getKey(data, &args.Buyer, &offset)
	}

	return &args, nil
}
