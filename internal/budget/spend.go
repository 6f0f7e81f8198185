package budget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Spent returns the sum of all expenses referencing the bucket.
//
// The value is always derived with a SUM over the expense records so that
// edited or deleted expenses are picked up. A query error propagates: a
// spent amount must never silently default to zero, that would report a
// false surplus.
func Spent(db *gorm.DB, bucketID uuid.UUID) (decimal.Decimal, error) {
	return spentQuery(db.Table("expenses").Where("bucket_id = ?", bucketID))
}

// SpentBetween returns the sum of all expenses for the bucket with
// from <= date < until.
func SpentBetween(db *gorm.DB, bucketID uuid.UUID, from, until time.Time) (decimal.Decimal, error) {
	return spentQuery(db.
		Table("expenses").
		Where("bucket_id = ?", bucketID).
		Where("date >= ?", from.In(time.UTC)).
		Where("date < ?", until.In(time.UTC)))
}

func spentQuery(q *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := q.
		Select("SUM(amount)").
		Where("deleted_at IS NULL").
		Find(&sum).
		Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing expenses failed: %w", err)
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}
