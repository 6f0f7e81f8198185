package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a single expense referencing a bucket.
//
// The allocation engine never mutates expenses and never caches their sum:
// a bucket's spent amount is always re-derived with a SUM over this table,
// so edits and deletions are picked up on the next read.
type Expense struct {
	DefaultModel
	BucketID uuid.UUID
	Bucket   Bucket
	Amount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date     time.Time
	Note     string

	// Set for the synthetic bill-pay expenses the rollover creates for
	// recurring buckets
	SystemGenerated bool
}

func (Expense) Self() string {
	return "Expense"
}

func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Note = strings.TrimSpace(e.Note)

	if e.Amount.IsNegative() {
		return ErrExpenseAmountNegative
	}

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	return nil
}

func (e *Expense) AfterFind(_ *gorm.DB) error {
	e.Date = e.Date.In(time.UTC)
	return nil
}

// Returns all expenses for export
func (Expense) Export() (json.RawMessage, error) {
	var expenses []Expense
	err := DB.Unscoped().Where(&Expense{}).Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&expenses)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
