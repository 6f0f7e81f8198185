package budget

import (
	"github.com/bucketly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Distribution is the result of recomputing the funded amounts for a user.
type Distribution struct {
	TotalIncome   decimal.Decimal `json:"totalIncome" example:"2000"`    // Sum of all recurring income
	TotalPlanned  decimal.Decimal `json:"totalPlanned" example:"2150"`   // Sum of all planned allocations
	IsOverPlanned bool            `json:"isOverPlanned" example:"true"`  // True when more is planned than income allows
	OverPlannedBy decimal.Decimal `json:"overPlannedBy" example:"150"`   // How much more is planned than income allows
	FundingRatio  decimal.Decimal `json:"fundingRatio" example:"0.9302"` // The uniform scale-down factor for funding
}

// Status is the read-only distribution snapshot for a user.
type Status struct {
	TotalIncome   decimal.Decimal `json:"totalIncome" example:"2000"`
	TotalPlanned  decimal.Decimal `json:"totalPlanned" example:"1700"`
	TotalFunded   decimal.Decimal `json:"totalFunded" example:"1700"` // Sum of the currently persisted funded amounts
	Unallocated   decimal.Decimal `json:"unallocated" example:"300"`  // Income not granted to any bucket
	IsOverPlanned bool            `json:"isOverPlanned" example:"false"`
	OverPlannedBy decimal.Decimal `json:"overPlannedBy" example:"0"`
}

// planned returns the planned allocation of a single bucket for one cycle.
// Save buckets plan zero, they are funded through contributions instead.
func planned(b models.Bucket, totalIncome decimal.Decimal) decimal.Decimal {
	if !b.OnAllocation() {
		return decimal.Zero
	}

	if b.AllocationType == models.AllocationPercentage {
		return totalIncome.Mul(b.AllocationValue).Div(hundred)
	}

	return b.AllocationValue
}

// fundingRatio returns the uniform scaling ratio for a cycle.
//
// When more is planned than income allows, every bucket is scaled down by
// the same factor. Degradation is proportional, not priority-ordered; this
// is a deliberate simplicity decision, not an oversight.
func fundingRatio(totalIncome, totalPlanned decimal.Decimal) decimal.Decimal {
	// Nothing planned: nothing to scale, no division by zero
	if !totalPlanned.IsPositive() {
		return decimal.NewFromInt(1)
	}

	if totalPlanned.GreaterThan(totalIncome) {
		return totalIncome.Div(totalPlanned)
	}

	return decimal.NewFromInt(1)
}

// allocationBuckets returns all buckets of the user that take part in
// income based allocation.
func allocationBuckets(db *gorm.DB, userID uuid.UUID) ([]models.Bucket, error) {
	var buckets []models.Bucket

	err := db.
		Where("user_id = ?", userID).
		Where("archived = ?", false).
		Where("mode IN ?", []models.BucketMode{models.ModeSpend, models.ModeRecurring}).
		Find(&buckets).
		Error

	return buckets, err
}

// CalculateDistribution recomputes and persists the funded amount for all
// of the user's spend and recurring buckets.
//
// It is called after every bucket or income mutation; there is no cached
// total anywhere, every invocation recomputes from the source records.
// Funded amounts are rounded to cents so that their sum never exceeds the
// income by more than a rounding epsilon.
func CalculateDistribution(db *gorm.DB, userID uuid.UUID) (Distribution, error) {
	var user models.User
	err := db.First(&user, userID).Error
	if err != nil {
		return Distribution{}, err
	}

	totalIncome, err := TotalIncome(db, userID)
	if err != nil {
		return Distribution{}, err
	}

	buckets, err := allocationBuckets(db, userID)
	if err != nil {
		return Distribution{}, err
	}

	totalPlanned := decimal.Zero
	for _, b := range buckets {
		totalPlanned = totalPlanned.Add(planned(b, totalIncome))
	}

	ratio := fundingRatio(totalIncome, totalPlanned)

	for _, b := range buckets {
		funded := planned(b, totalIncome).Mul(ratio).Round(2)

		err = db.Model(&b).Update("funded_amount", funded).Error
		if err != nil {
			return Distribution{}, err
		}
	}

	return Distribution{
		TotalIncome:   totalIncome,
		TotalPlanned:  totalPlanned,
		IsOverPlanned: totalPlanned.GreaterThan(totalIncome),
		OverPlannedBy: decimal.Max(totalPlanned.Sub(totalIncome), decimal.Zero),
		FundingRatio:  ratio,
	}, nil
}

// DistributionStatus returns the distribution snapshot for a user without
// mutating anything.
func DistributionStatus(db *gorm.DB, userID uuid.UUID) (Status, error) {
	var user models.User
	err := db.First(&user, userID).Error
	if err != nil {
		return Status{}, err
	}

	totalIncome, err := TotalIncome(db, userID)
	if err != nil {
		return Status{}, err
	}

	buckets, err := allocationBuckets(db, userID)
	if err != nil {
		return Status{}, err
	}

	totalPlanned := decimal.Zero
	totalFunded := decimal.Zero
	for _, b := range buckets {
		totalPlanned = totalPlanned.Add(planned(b, totalIncome))
		totalFunded = totalFunded.Add(b.FundedAmount)
	}

	return Status{
		TotalIncome:   totalIncome,
		TotalPlanned:  totalPlanned,
		TotalFunded:   totalFunded,
		Unallocated:   totalIncome.Sub(totalFunded),
		IsOverPlanned: totalPlanned.GreaterThan(totalIncome),
		OverPlannedBy: decimal.Max(totalPlanned.Sub(totalIncome), decimal.Zero),
	}, nil
}
