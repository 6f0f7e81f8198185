package models

import (
	"encoding/json"
	"strings"

	"github.com/bucketly/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// swagger:enum BucketMode
type BucketMode string

const (
	// A spend bucket is funded from income and tracks discretionary expenses
	ModeSpend BucketMode = "spend"
	// A save bucket accumulates monthly contributions towards a target
	ModeSave BucketMode = "save"
	// A recurring bucket is funded from income and paid out automatically at rollover
	ModeRecurring BucketMode = "recurring"
)

// swagger:enum AllocationType
type AllocationType string

const (
	AllocationNone       AllocationType = ""
	AllocationAmount     AllocationType = "amount"
	AllocationPercentage AllocationType = "percentage"
)

// swagger:enum ContributionType
type ContributionType string

const (
	ContributionNone       ContributionType = "none"
	ContributionAmount     ContributionType = "amount"
	ContributionPercentage ContributionType = "percentage"
)

// swagger:enum CapBehavior
type CapBehavior string

const (
	// Contributions stop once the target is reached
	CapStop CapBehavior = "stop"
	// Contributions keep accruing into the bucket past the target
	CapUnallocated CapBehavior = "unallocated"
	// Overflow is rerouted to a specific bucket. Contribution computation is
	// identical to CapStop until reroute semantics are settled, the
	// configuration is accepted so no schema change is needed later.
	CapBucket CapBehavior = "bucket"
	// Overflow is redistributed across spend buckets. Same state as CapBucket.
	CapProportional CapBehavior = "proportional"
)

// Bucket is a named allocation target for money.
//
// The mode governs which fields are authoritative:
//
//   - spend, recurring: AllocationType/AllocationValue describe the planned
//     allocation, FundedAmount and CarryoverBalance are maintained by the
//     allocation engine. CurrentBalance is never used.
//   - save: TargetAmount, CurrentBalance and the contribution fields are
//     authoritative, FundedAmount is never used.
//
// BeforeSave rejects configuration that is invalid for the mode, so the
// rollover never has to deal with half-configured buckets.
type Bucket struct {
	DefaultModel
	UserID   uuid.UUID `gorm:"uniqueIndex:bucket_name_user"`
	User     User
	Name     string `gorm:"uniqueIndex:bucket_name_user"`
	Note     string
	Mode     BucketMode
	Archived bool

	// Allocation configuration for spend and recurring buckets
	AllocationType  AllocationType
	AllocationValue decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	// Maintained by the allocation engine, never set by users
	FundedAmount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CarryoverBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	LastRollover     types.Month

	// Savings configuration for save buckets
	TargetAmount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CurrentBalance     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ContributionType   ContributionType
	ContributionValue  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CapBehavior        CapBehavior
	CapRerouteBucketID *uuid.UUID
	LastContribution   types.Month
}

func (Bucket) Self() string {
	return "Bucket"
}

// OnAllocation reports whether the bucket takes part in income based
// allocation planning. Save buckets are funded through contributions
// instead, archived buckets keep their history but are no longer funded.
func (b Bucket) OnAllocation() bool {
	return !b.Archived && (b.Mode == ModeSpend || b.Mode == ModeRecurring)
}

func (b *Bucket) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	switch b.Mode {
	case ModeSpend, ModeRecurring:
		return b.validateAllocation()
	case ModeSave:
		return b.validateSavings()
	default:
		return ErrBucketModeInvalid
	}
}

func (b *Bucket) validateAllocation() error {
	if b.AllocationType != AllocationAmount && b.AllocationType != AllocationPercentage {
		return ErrAllocationTypeInvalid
	}

	if b.AllocationValue.IsNegative() {
		return ErrAllocationValueNegative
	}

	if (b.ContributionType != "" && b.ContributionType != ContributionNone) || !b.ContributionValue.IsZero() {
		return ErrContributionOnNonSaveBucket
	}

	return nil
}

func (b *Bucket) validateSavings() error {
	if b.AllocationType != AllocationNone || !b.AllocationValue.IsZero() {
		return ErrAllocationOnSaveBucket
	}

	// Unset configuration defaults to no automatic contributions
	if b.ContributionType == "" {
		b.ContributionType = ContributionNone
	}
	if b.CapBehavior == "" {
		b.CapBehavior = CapStop
	}

	switch b.ContributionType {
	case ContributionNone:
		if !b.ContributionValue.IsZero() {
			return ErrContributionValueWithoutType
		}
	case ContributionAmount, ContributionPercentage:
		if !b.ContributionValue.IsPositive() {
			return ErrContributionValueMissing
		}
	default:
		return ErrContributionTypeInvalid
	}

	switch b.CapBehavior {
	case CapStop, CapUnallocated, CapProportional:
		if b.CapRerouteBucketID != nil {
			return ErrCapRerouteBucketWithoutBehavior
		}
	case CapBucket:
		if b.CapRerouteBucketID == nil {
			return ErrCapRerouteBucketMissing
		}
	default:
		return ErrCapBehaviorInvalid
	}

	return nil
}

// Returns all buckets for export
func (Bucket) Export() (json.RawMessage, error) {
	var buckets []Bucket
	err := DB.Unscoped().Where(&Bucket{}).Find(&buckets).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&buckets)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
