package mplcore

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

type UpdateAuthorityKind uint8

const (
	UpdateAuthorityKindNone UpdateAuthorityKind = iota
	UpdateAuthorityKindAddress
	UpdateAuthorityKindCollection
)

// Asset is the decoded base state of an mpl-core AssetV1 account, limited to
// the fields the escrow engine consults: who may authorize transfers, the
// display metadata, and whether plugin state is attached.
type Asset struct {
	Address ed25519.PublicKey // the account's own address, set by the fetcher

	Owner                  ed25519.PublicKey
	UpdateAuthorityKind    UpdateAuthorityKind
	UpdateAuthorityAddress ed25519.PublicKey // set for Address and Collection kinds
	Name                   string
	Uri                    string
	Seq                    *uint64

	// HasPluginHeader reports whether plugin data trails the base asset
	// fields. The plugin registry lives inside the asset account itself,
	// so transfers touching plugins must include the asset as writable.
	HasPluginHeader bool
}

// PluginRegistry returns the account holding the asset's plugin registry,
// or nil when the asset carries no plugins.
func (obj *Asset) PluginRegistry() ed25519.PublicKey {
	if !obj.HasPluginHeader {
		return nil
	}
	return obj.Address
}

func (obj *Asset) Unmarshal(data []byte) error {
	var offset int

	var key uint8
	if err := readUint8(data, &key, &offset); err != nil {
		return err
	}
	if Key(key) != KeyAssetV1 {
		return ErrNotAnAsset
	}

	if err := readKey(data, &obj.Owner, &offset); err != nil {
		return err
	}

	var authorityTag uint8
	if err := readUint8(data, &authorityTag, &offset); err != nil {
		return err
	}
	switch UpdateAuthorityKind(authorityTag) {
	case UpdateAuthorityKindNone:
		obj.UpdateAuthorityKind = UpdateAuthorityKindNone
		obj.UpdateAuthorityAddress = nil
	case UpdateAuthorityKindAddress, UpdateAuthorityKindCollection:
		obj.UpdateAuthorityKind = UpdateAuthorityKind(authorityTag)
		if err := readKey(data, &obj.UpdateAuthorityAddress, &offset); err != nil {
			return err
		}
	default:
		return ErrInvalidAccountData
	}

	if err := readString(data, &obj.Name, &offset); err != nil {
		return err
	}
	if err := readString(data, &obj.Uri, &offset); err != nil {
		return err
	}

	var hasSeq uint8
	if err := readUint8(data, &hasSeq, &offset); err != nil {
		return err
	}
	if hasSeq == 1 {
		var seq uint64
		if err := readUint64(data, &seq, &offset); err != nil {
			return err
		}
		obj.Seq = &seq
	} else {
		obj.Seq = nil
	}

	// Any bytes past the base asset state belong to the plugin header and
	// registry appended by the mpl-core program.
	obj.HasPluginHeader = offset < len(data)

	return nil
}

func (obj *Asset) String() string {
	authority := "<nil>"
	if obj.UpdateAuthorityAddress != nil {
		authority = base58.Encode(obj.UpdateAuthorityAddress)
	}
	return fmt.Sprintf(
		"Asset{owner=%s,authority_kind=%d,authority=%s,name=%q,uri=%q,plugins=%t}",
		base58.Encode(obj.Owner),
		obj.UpdateAuthorityKind,
		authority,
		obj.Name,
		obj.Uri,
		obj.HasPluginHeader,
	)
}

// The asset layout is length-prefixed in places, so every read is width
// checked against the actual buffer instead of a precomputed struct size.

func readUint8(src []byte, dst *uint8, offset *int) error {
	if len(src) < *offset+1 {
		return ErrInvalidAccountData
	}
	*dst = src[*offset]
	*offset += 1
	return nil
}

func readUint64(src []byte, dst *uint64, offset *int) error {
	if len(src) < *offset+8 {
		return ErrInvalidAccountData
	}
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
	return nil
}

func readKey(src []byte, dst *ed25519.PublicKey, offset *int) error {
	if len(src) < *offset+ed25519.PublicKeySize {
		return ErrInvalidAccountData
	}
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
	return nil
}

func readString(src []byte, dst *string, offset *int) error {
	var length uint32
	if len(src) < *offset+4 {
		return ErrInvalidAccountData
	}
	length = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4

	if len(src) < *offset+int(length) {
		return ErrInvalidAccountData
	}
	*dst = string(src[*offset : *offset+int(length)])
	*offset += int(length)
	return nil
}
