package mplcore

import (
	"crypto/ed25519"
	"errors"

	"github.com/mr-tron/base58"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
	ErrNotAnAsset         = errors.New("account is not an mpl-core asset")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

// Key discriminates mpl-core account types by their first byte.
type Key uint8

const (
	KeyUninitialized Key = iota
	KeyAssetV1
	KeyHashedAssetV1
	KeyPluginHeaderV1
	KeyPluginRegistryV1
	KeyCollectionV1
)

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
