// Package calculator contains the pure allocation and balance-merge
// functions. Nothing in here touches the network or the session; callers
// feed it roster and amount data and render the result.
package calculator

import (
	"errors"
	"fmt"

	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/money"
)

// SplitMode selects how a total is allocated across the roster.
type SplitMode string

const (
	// SplitEqual divides the total evenly, cent remainder to the first
	// roster member.
	SplitEqual SplitMode = "equal"

	// SplitPercentage divides 100% evenly and converts each percentage to
	// an amount, cent remainder to the last roster member.
	SplitPercentage SplitMode = "percentage"

	// SplitCustom starts every member at zero; amounts are edited
	// independently by the caller and checked at submission time.
	SplitCustom SplitMode = "custom"
)

// DraftSplit is one member's editable line in a split draft. Amount is kept
// as a string because custom mode lets the user type free-form values; the
// draft is parsed and re-validated before submission.
type DraftSplit struct {
	UserID int64
	Amount string
}

// ErrUnknownMode is returned when a split mode is not one of the three
// supported values.
var ErrUnknownMode = errors.New("unknown split mode")

// ComputeSplits derives a full split draft for the given total, mode and
// roster. The draft is always regenerated from scratch: changing the mode or
// the total discards any prior custom edits. The returned sum is exact to
// the cent for equal and percentage modes.
//
// An empty roster yields an empty draft; the caller must refuse to create an
// expense with no members.
func ComputeSplits(total money.Money, mode SplitMode, roster []models.Member) ([]DraftSplit, error) {
	if len(roster) == 0 {
		return nil, nil
	}

	n := money.Money(len(roster))
	splits := make([]DraftSplit, len(roster))

	switch mode {
	case SplitPercentage:
		// Each member gets 100/n% rounded half-up to two decimals, applied
		// to the total. The last member absorbs whatever the rounded
		// percentages leave over so the sum stays exact.
		pctBasis := (int64(10000) + int64(n)/2) / int64(n) // percentage in hundredths
		var assigned money.Money
		for i, m := range roster {
			amount := money.Money(int64(total) * pctBasis / 10000)
			if i == len(roster)-1 {
				amount = total - assigned
			}
			assigned += amount
			splits[i] = DraftSplit{UserID: m.ID, Amount: amount.String()}
		}

	case SplitCustom:
		for i, m := range roster {
			splits[i] = DraftSplit{UserID: m.ID, Amount: money.Money(0).String()}
		}

	case SplitEqual:
		share := total / n
		remainder := total - share*n
		for i, m := range roster {
			amount := share
			if i == 0 {
				amount += remainder
			}
			splits[i] = DraftSplit{UserID: m.ID, Amount: amount.String()}
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	return splits, nil
}

// SumDraft parses every draft line and returns the total. A line that does
// not parse as a two-decimal amount fails the whole draft.
func SumDraft(splits []DraftSplit) (money.Money, error) {
	var sum money.Money
	for _, s := range splits {
		amount, err := money.Parse(s.Amount)
		if err != nil {
			return 0, err
		}
		sum += amount
	}
	return sum, nil
}
