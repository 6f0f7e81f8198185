// Package budget implements the allocation, funding-ratio and rollover
// engine of Bucketly.
//
// All functions work on exactly one user's ledger and take the database
// handle explicitly so that the rollover can run inside a transaction.
// Derived values (total income, spent amounts) are always recomputed from
// the source records, nothing in here is cached.
package budget

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TotalIncome returns the monthly income of a user: the sum of all
// recurring income records.
//
// One-off income records are excluded, they must not inflate recurring
// allocation ratios. Zero income is valid and returns zero.
func TotalIncome(db *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.
		Table("incomes").
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Where("recurring = ?", true).
		Where("deleted_at IS NULL").
		Find(&sum).
		Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing income for user %s failed: %w", userID, err)
	}

	// No recurring income records
	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}
