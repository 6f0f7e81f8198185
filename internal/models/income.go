package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Income is a single income record of a user.
//
// Only recurring income is summed into the monthly income the allocation
// engine distributes. One-off income records are kept for the ledger, but
// they must not inflate recurring allocation ratios.
type Income struct {
	DefaultModel
	UserID    uuid.UUID
	User      User
	Amount    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Recurring bool
	Date      time.Time
	Note      string
}

func (Income) Self() string {
	return "Income"
}

func (i *Income) BeforeSave(_ *gorm.DB) error {
	i.Note = strings.TrimSpace(i.Note)

	if i.Amount.IsNegative() {
		return ErrIncomeAmountNegative
	}

	if i.Date.IsZero() {
		i.Date = time.Now().In(time.UTC)
	} else {
		i.Date = i.Date.In(time.UTC)
	}

	return nil
}

func (i *Income) AfterFind(_ *gorm.DB) error {
	i.Date = i.Date.In(time.UTC)
	return nil
}

// Returns all income records for export
func (Income) Export() (json.RawMessage, error) {
	var incomes []Income
	err := DB.Unscoped().Where(&Income{}).Find(&incomes).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&incomes)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
