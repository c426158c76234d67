package models

import "github.com/splittab/splittab/internal/money"

// BalanceRecord is one member's net balance within a group as computed by
// the ledger service. Positive means the member is owed money, negative
// means they owe. Members with no historical activity may be absent from
// the server's list and are treated as balance zero.
type BalanceRecord struct {
	UserID            int64       `json:"user_id"`
	UserName          string      `json:"user_name"`
	ProfilePictureURL string      `json:"profile_picture_url,omitempty"`
	Balance           money.Money `json:"balance"`
}

// GroupBalances is the authoritative balance payload for one group:
// per-member records plus the server's suggested settlements.
type GroupBalances struct {
	Balances             []BalanceRecord       `json:"balances"`
	SuggestedSettlements []SuggestedSettlement `json:"suggested_settlements"`
}
