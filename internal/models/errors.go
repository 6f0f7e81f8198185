package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// Uniqueness constraints
	ErrBucketNameNotUnique = errors.New("the bucket name is already in use for this user")
	ErrUserNameNotUnique   = errors.New("the user name is already in use")

	// Invalid configuration is rejected when a resource is written,
	// not when the rollover runs
	ErrIncomeAmountNegative            = errors.New("the income amount must not be negative")
	ErrExpenseAmountNegative           = errors.New("the expense amount must not be negative")
	ErrBucketModeInvalid               = errors.New("the bucket mode must be one of 'spend', 'save', 'recurring'")
	ErrAllocationTypeInvalid           = errors.New("the allocation type must be 'amount' or 'percentage'")
	ErrAllocationValueNegative         = errors.New("the allocation value must not be negative")
	ErrAllocationOnSaveBucket          = errors.New("a 'save' bucket is funded by contributions, it can not have an allocation")
	ErrContributionTypeInvalid         = errors.New("the contribution type must be 'none', 'amount' or 'percentage'")
	ErrContributionValueWithoutType    = errors.New("a contribution value requires a contribution type")
	ErrContributionValueMissing        = errors.New("the contribution type requires a positive contribution value")
	ErrContributionOnNonSaveBucket     = errors.New("only 'save' buckets can have savings contributions")
	ErrCapBehaviorInvalid              = errors.New("the cap behavior must be one of 'stop', 'unallocated', 'bucket', 'proportional'")
	ErrCapRerouteBucketMissing         = errors.New("the cap behavior 'bucket' requires a reroute bucket")
	ErrCapRerouteBucketWithoutBehavior = errors.New("a reroute bucket is only allowed with the cap behavior 'bucket'")
)
