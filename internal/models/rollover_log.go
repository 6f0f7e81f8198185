package models

import (
	"encoding/json"

	"github.com/bucketly/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RolloverLog is the audit record of one bucket's monthly transition.
//
// One row is written per bucket per rollover. Rows are never read back by
// the engine itself, they exist so that every funded/carryover/balance
// value can be explained after the fact.
type RolloverLog struct {
	DefaultModel
	UserID   uuid.UUID
	User     User
	BucketID uuid.UUID
	Bucket   Bucket
	Month    types.Month `gorm:"index"`
	Mode     BucketMode

	// Spend and recurring buckets
	PreviousCarryover decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Funded            decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Spent             decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	NewCarryover      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	// Save buckets
	Contribution decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	NewBalance   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	// True when the bucket had already rolled over in this month and the
	// transition was a no-op
	Skipped bool
}

func (RolloverLog) Self() string {
	return "Rollover Log"
}

// Returns all rollover log entries for export
func (RolloverLog) Export() (json.RawMessage, error) {
	var entries []RolloverLog
	err := DB.Unscoped().Where(&RolloverLog{}).Find(&entries).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&entries)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
