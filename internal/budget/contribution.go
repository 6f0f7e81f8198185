package budget

import (
	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/internal/types"
	"github.com/shopspring/decimal"
)

// contribution returns the savings contribution to apply to a save bucket
// for the given month.
//
// A contribution is applied at most once per calendar month: if the last
// contribution happened in the same month, the result is zero and the
// bucket is left untouched.
func contribution(b models.Bucket, totalIncome decimal.Decimal, month types.Month) decimal.Decimal {
	if b.Mode != models.ModeSave {
		return decimal.Zero
	}

	// Already contributed this month
	if b.LastContribution.Equal(month) {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch b.ContributionType {
	case models.ContributionAmount:
		amount = b.ContributionValue
	case models.ContributionPercentage:
		amount = totalIncome.Mul(b.ContributionValue).Div(hundred).Round(2)
	default:
		// ContributionType "none" never auto-contributes
		return decimal.Zero
	}

	return capContribution(b, amount)
}

// capContribution applies the bucket's cap behavior once the target amount
// comes into reach.
func capContribution(b models.Bucket, amount decimal.Decimal) decimal.Decimal {
	// Buckets without a target can not hit a cap
	if !b.TargetAmount.IsPositive() {
		return amount
	}

	switch b.CapBehavior {
	case models.CapUnallocated:
		// Contributions keep accruing past the target. Reporting is
		// responsible for surfacing the overflow, the engine only records it.
		return amount
	default:
		// stop, bucket and proportional all clamp the contribution so the
		// balance never exceeds the target. The reroute of the clamped-off
		// remainder for "bucket" and "proportional" is an extension point,
		// see DESIGN.md.
		room := b.TargetAmount.Sub(b.CurrentBalance)
		if room.IsNegative() {
			return decimal.Zero
		}

		return decimal.Min(amount, room)
	}
}
