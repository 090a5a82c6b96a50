package marketplace

import (
	"crypto/ed25519"
	"errors"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("4WYfhmmEu1MoSMDQfiN2JEbQV28gSo6vhm9idEL7ArtG")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	MPL_CORE_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d"))
	SYSTEM_PROGRAM_ID   = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
)

const InstructionDiscriminatorSize = 8

// Anchor instruction discriminators: the first 8 bytes of
// sha256("global:<instruction_name>").
var (
	CreateEscrowInstructionDiscriminator = []byte{253, 215, 165, 116, 36, 108, 68, 80}
	DepositAssetInstructionDiscriminator = []byte{107, 93, 89, 87, 226, 203, 154, 19}
	BuyAssetInstructionDiscriminator     = []byte{197, 37, 177, 1, 180, 23, 175, 98}
	CancelEscrowInstructionDiscriminator = []byte{156, 203, 54, 179, 38, 72, 33, 21}
	CloseEscrowInstructionDiscriminator  = []byte{139, 171, 94, 146, 191, 91, 144, 50}
)
