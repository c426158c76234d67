package calculator

import (
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/money"
)

// Direction labels which way a balance points for display purposes.
type Direction string

const (
	// ToReceive marks a member who is owed money (balance >= 0).
	ToReceive Direction = "to receive"

	// ToPay marks a member who owes money (balance < 0).
	ToPay Direction = "to pay"
)

// MemberBalance is one row of the rendered balance view: the roster member,
// their signed net balance, and the display decomposition into an unsigned
// magnitude plus a direction label.
type MemberBalance struct {
	Member    models.Member
	Balance   money.Money
	Magnitude money.Money
	Direction Direction
}

// MergeBalances aligns the server's balance records with the full group
// roster. Every roster member appears exactly once, in roster order; a
// member without a record (no historical activity) gets balance zero.
// Record order and balance magnitude never affect the output order.
func MergeBalances(roster []models.Member, records []models.BalanceRecord) []MemberBalance {
	byUser := make(map[int64]money.Money, len(records))
	for _, r := range records {
		byUser[r.UserID] = r.Balance
	}

	rows := make([]MemberBalance, 0, len(roster))
	for _, m := range roster {
		balance := byUser[m.ID] // zero when absent
		direction := ToReceive
		if balance < 0 {
			direction = ToPay
		}
		rows = append(rows, MemberBalance{
			Member:    m,
			Balance:   balance,
			Magnitude: balance.Abs(),
			Direction: direction,
		})
	}
	return rows
}
