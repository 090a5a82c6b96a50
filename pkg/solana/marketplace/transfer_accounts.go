package marketplace

import (
	"github.com/assetmarket/escrow-server/pkg/solana"
	"github.com/assetmarket/escrow-server/pkg/solana/mplcore"
)

// The mpl-core transfer CPI performed by DepositAsset, BuyAsset and
// CancelEscrow requires extra accounts depending on the asset's plugin
// state. Each rule appends at most one account; rules are evaluated in
// order, so the collection authority account always precedes the plugin
// registry account. Omitting an expected account, or including an
// unexpected one, fails the remote execution.
type transferAccountRule struct {
	applies func(asset *mplcore.Asset) bool
	meta    func(asset *mplcore.Asset) solana.AccountMeta
}

var transferAccountRules = []transferAccountRule{
	{
		applies: func(asset *mplcore.Asset) bool {
			return asset.UpdateAuthorityKind == mplcore.UpdateAuthorityKindCollection &&
				len(asset.UpdateAuthorityAddress) > 0
		},
		meta: func(asset *mplcore.Asset) solana.AccountMeta {
			return solana.NewReadonlyAccountMeta(asset.UpdateAuthorityAddress, false)
		},
	},
	{
		applies: func(asset *mplcore.Asset) bool {
			return asset.HasPluginHeader
		},
		meta: func(asset *mplcore.Asset) solana.AccountMeta {
			return solana.NewAccountMeta(asset.PluginRegistry(), false)
		},
	},
}

// GetTransferAccounts resolves the conditional account set for a transfer
// of the provided asset. The caller must pass freshly fetched asset state.
func GetTransferAccounts(asset *mplcore.Asset) []solana.AccountMeta {
	var accounts []solana.AccountMeta
	for _, rule := range transferAccountRules {
		if rule.applies(asset) {
			accounts = append(accounts, rule.meta(asset))
		}
	}
	return accounts
}
