package budget

import (
	"time"

	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BucketResult is the rollover outcome for a single bucket.
type BucketResult struct {
	BucketID uuid.UUID         `json:"bucketId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	Name     string            `json:"name" example:"Groceries"`
	Mode     models.BucketMode `json:"mode" example:"spend"`
	Skipped  bool              `json:"skipped" example:"false"` // True when the bucket had already rolled over this month

	// Spend and recurring buckets
	PreviousCarryover decimal.Decimal `json:"previousCarryover" example:"-50"`
	Funded            decimal.Decimal `json:"funded" example:"100"`
	Spent             decimal.Decimal `json:"spent" example:"30"`
	NewCarryover      decimal.Decimal `json:"newCarryover" example:"20"`

	// Save buckets
	Contribution decimal.Decimal `json:"contribution" example:"50"`
	NewBalance   decimal.Decimal `json:"newBalance" example:"1000"`
}

// Report is the result of one monthly rollover for one user.
type Report struct {
	UserID           uuid.UUID      `json:"userId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	RolloverDate     time.Time      `json:"rolloverDate" example:"2024-07-01T00:04:12.000000Z"`
	Month            types.Month    `json:"month" example:"2024-07-01T00:00:00.000000Z"` // The cycle that was opened
	BucketsProcessed int            `json:"bucketsProcessed" example:"5"`                // Buckets rolled over, not counting skipped ones
	Results          []BucketResult `json:"results"`
}

// Rollover performs the monthly transition for one user.
//
// Buckets and income are loaded once, the funding ratio for the new cycle
// is computed once, then every bucket is transitioned by mode. Buckets do
// not depend on each other's new state, only on the shared ratio, so the
// processing order is irrelevant.
//
// A bucket that already rolled over in the current month is recorded as
// skipped: re-invoking the rollover within the same month is a no-op
// success, not an error.
func Rollover(db *gorm.DB, userID uuid.UUID, now time.Time) (Report, error) {
	now = now.In(time.UTC)
	month := types.MonthOf(now)

	var user models.User
	err := db.First(&user, userID).Error
	if err != nil {
		return Report{}, err
	}

	totalIncome, err := TotalIncome(db, userID)
	if err != nil {
		return Report{}, err
	}

	var buckets []models.Bucket
	err = db.
		Where("user_id = ?", userID).
		Where("archived = ?", false).
		Find(&buckets).
		Error
	if err != nil {
		return Report{}, err
	}

	// The new cycle's funding ratio, computed once for a consistent snapshot
	totalPlanned := decimal.Zero
	for _, b := range buckets {
		totalPlanned = totalPlanned.Add(planned(b, totalIncome))
	}
	ratio := fundingRatio(totalIncome, totalPlanned)

	report := Report{
		UserID:       userID,
		RolloverDate: now,
		Month:        month,
		Results:      make([]BucketResult, 0, len(buckets)),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, bucket := range buckets {
			result, err := rolloverBucket(tx, bucket, totalIncome, ratio, month)
			if err != nil {
				return err
			}

			if !result.Skipped {
				report.BucketsProcessed++
			}
			report.Results = append(report.Results, result)

			err = tx.Create(&models.RolloverLog{
				UserID:            userID,
				BucketID:          bucket.ID,
				Month:             month,
				Mode:              bucket.Mode,
				PreviousCarryover: result.PreviousCarryover,
				Funded:            result.Funded,
				Spent:             result.Spent,
				NewCarryover:      result.NewCarryover,
				Contribution:      result.Contribution,
				NewBalance:        result.NewBalance,
				Skipped:           result.Skipped,
			}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Report{}, err
	}

	log.Info().
		Str("user", user.Name).
		Stringer("month", month).
		Int("buckets", report.BucketsProcessed).
		Msg("rollover complete")

	return report, nil
}

// rolloverBucket transitions a single bucket into the new cycle.
func rolloverBucket(tx *gorm.DB, bucket models.Bucket, totalIncome, ratio decimal.Decimal, month types.Month) (BucketResult, error) {
	result := BucketResult{
		BucketID: bucket.ID,
		Name:     bucket.Name,
		Mode:     bucket.Mode,
	}

	// Already rolled over in this month. The carryover recompute would be
	// safe to re-run since it is derived, not additive, but skipping keeps
	// the scheduled trigger idempotent without special cases.
	if bucket.LastRollover.Equal(month) {
		result.Skipped = true
		result.NewCarryover = bucket.CarryoverBalance
		result.NewBalance = bucket.CurrentBalance
		return result, nil
	}

	switch bucket.Mode {
	case models.ModeSave:
		applied := contribution(bucket, totalIncome, month)
		result.Contribution = applied

		if !applied.IsZero() {
			bucket.CurrentBalance = bucket.CurrentBalance.Add(applied)
			bucket.LastContribution = month
		}
		result.NewBalance = bucket.CurrentBalance

	case models.ModeSpend, models.ModeRecurring:
		// A recurring bucket models an automatic bill-pay: the closing
		// cycle's funding is booked as a system generated expense instead
		// of awaiting discretionary entries.
		if bucket.Mode == models.ModeRecurring && bucket.FundedAmount.IsPositive() {
			err := tx.Create(&models.Expense{
				BucketID:        bucket.ID,
				Amount:          bucket.FundedAmount,
				Date:            month.AddDate(0, -1).LastDay(),
				Note:            "Automatic payment",
				SystemGenerated: true,
			}).Error
			if err != nil {
				return BucketResult{}, err
			}
		}

		// Spend of the closing cycle: everything from the cycle start up to
		// the first day of the new month. Expenses dated in the new month
		// already belong to the new cycle.
		cycleStart := bucket.LastRollover.FirstDay()
		if bucket.LastRollover.IsZero() {
			cycleStart = time.Time{}
		}

		spent, err := SpentBetween(tx, bucket.ID, cycleStart, month.FirstDay())
		if err != nil {
			return BucketResult{}, err
		}

		result.PreviousCarryover = bucket.CarryoverBalance
		result.Spent = spent

		// Carryover is the memory of past performance. Debt is never
		// written off, it persists until absorbed by underspending.
		unspent := bucket.FundedAmount.Add(bucket.CarryoverBalance).Sub(spent)
		bucket.CarryoverBalance = unspent
		result.NewCarryover = unspent

		// Funding is the new cycle's income based grant, independent of
		// the carryover
		funded := planned(bucket, totalIncome).Mul(ratio).Round(2)
		bucket.FundedAmount = funded
		result.Funded = funded
	}

	bucket.LastRollover = month

	err := tx.Save(&bucket).Error
	if err != nil {
		return BucketResult{}, err
	}

	return result, nil
}

// CheckAndRollover is the scheduler facing wrapper around Rollover.
//
// It only proceeds on the first day of a month and only when no bucket of
// the user has rolled over in the current month yet. When the rollover is
// not due, it returns a nil report and no error.
func CheckAndRollover(db *gorm.DB, userID uuid.UUID, now time.Time) (*Report, error) {
	now = now.In(time.UTC)
	if now.Day() != 1 {
		return nil, nil
	}

	month := types.MonthOf(now)

	// The newest last_rollover across the user's buckets decides whether
	// the rollover already ran this month. The value is read through the
	// bucket row so that it passes through the column's Month scanner, an
	// aggregate would come back from sqlite as a bare string.
	var newest []models.Bucket
	err := db.
		Where("user_id = ?", userID).
		Order("last_rollover DESC").
		Limit(1).
		Find(&newest).
		Error
	if err != nil {
		return nil, err
	}

	if len(newest) > 0 && newest[0].LastRollover.Equal(month) {
		return nil, nil
	}

	report, err := Rollover(db, userID, now)
	if err != nil {
		return nil, err
	}

	return &report, nil
}
