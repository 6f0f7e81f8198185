package v1

import (
	"fmt"

	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/internal/types"
	bl_uuid "github.com/bucketly/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BucketEditable struct {
	UserID   uuid.UUID         `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the user this bucket belongs to
	Name     string            `json:"name" example:"Groceries" default:""`                   // Name of the bucket
	Note     string            `json:"note" example:"Supermarket and bakery" default:""`      // Note about the bucket
	Mode     models.BucketMode `json:"mode" example:"spend" default:"spend"`                  // The behavior of the bucket: spend, save or recurring
	Archived bool              `json:"archived" example:"true" default:"false"`               // Archived buckets are ignored by the allocation engine

	AllocationType  models.AllocationType `json:"allocationType" example:"percentage"`                                                                      // How the planned allocation is expressed: amount or percentage
	AllocationValue decimal.Decimal       `json:"allocationValue" example:"10" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The fixed amount or the percentage of income

	TargetAmount       decimal.Decimal         `json:"targetAmount" example:"1000"`                             // The savings goal. Zero means no target
	ContributionType   models.ContributionType `json:"contributionType" example:"amount"`                       // How the monthly contribution is expressed: none, amount or percentage
	ContributionValue  decimal.Decimal         `json:"contributionValue" example:"50"`                          // The monthly contribution amount or percentage of income
	CapBehavior        models.CapBehavior      `json:"capBehavior" example:"stop"`                              // What happens with overflow past the target: stop, unallocated, bucket or proportional
	CapRerouteBucketID *uuid.UUID              `json:"capRerouteBucketId" example:"b9234b21-5b4b-4430-b611-383eb36d0e26"` // The bucket overflow is rerouted to when capBehavior is "bucket"
}

// model returns the database resource for the API representation of the editable fields
func (editable BucketEditable) model() models.Bucket {
	return models.Bucket{
		UserID:             editable.UserID,
		Name:               editable.Name,
		Note:               editable.Note,
		Mode:               editable.Mode,
		Archived:           editable.Archived,
		AllocationType:     editable.AllocationType,
		AllocationValue:    editable.AllocationValue,
		TargetAmount:       editable.TargetAmount,
		ContributionType:   editable.ContributionType,
		ContributionValue:  editable.ContributionValue,
		CapBehavior:        editable.CapBehavior,
		CapRerouteBucketID: editable.CapRerouteBucketID,
	}
}

// BucketEngineFields are maintained by the allocation engine and cannot be set
// through the API.
type BucketEngineFields struct {
	FundedAmount     decimal.Decimal `json:"fundedAmount" example:"83.33"`                    // The amount granted for the current cycle
	CarryoverBalance decimal.Decimal `json:"carryoverBalance" example:"-12.5"`                // Unspent money from earlier cycles, negative for overspending
	LastRollover     types.Month     `json:"lastRollover" example:"2024-07-01T00:00:00Z"`     // The last cycle this bucket was rolled over into
	CurrentBalance   decimal.Decimal `json:"currentBalance" example:"440"`                    // The accumulated savings balance
	LastContribution types.Month     `json:"lastContribution" example:"2024-07-01T00:00:00Z"` // The last month a contribution was added
}

type BucketLinks struct {
	Self     string `json:"self" example:"https://example.com/v1/buckets/b9234b21-5b4b-4430-b611-383eb36d0e26"`          // The bucket itself
	User     string `json:"user" example:"https://example.com/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`            // The user this bucket belongs to
	Expenses string `json:"expenses" example:"https://example.com/v1/expenses?bucket=b9234b21-5b4b-4430-b611-383eb36d0e26"` // Expenses booked against this bucket
}

type Bucket struct {
	models.DefaultModel
	BucketEditable
	BucketEngineFields
	Links BucketLinks `json:"links"`
}

// newBucket returns the API v1 representation of the resource
func newBucket(c *gin.Context, model models.Bucket) Bucket {
	url := c.GetString(string(models.DBContextURL))

	return Bucket{
		DefaultModel: model.DefaultModel,
		BucketEditable: BucketEditable{
			UserID:             model.UserID,
			Name:               model.Name,
			Note:               model.Note,
			Mode:               model.Mode,
			Archived:           model.Archived,
			AllocationType:     model.AllocationType,
			AllocationValue:    model.AllocationValue,
			TargetAmount:       model.TargetAmount,
			ContributionType:   model.ContributionType,
			ContributionValue:  model.ContributionValue,
			CapBehavior:        model.CapBehavior,
			CapRerouteBucketID: model.CapRerouteBucketID,
		},
		BucketEngineFields: BucketEngineFields{
			FundedAmount:     model.FundedAmount,
			CarryoverBalance: model.CarryoverBalance,
			LastRollover:     model.LastRollover,
			CurrentBalance:   model.CurrentBalance,
			LastContribution: model.LastContribution,
		},
		Links: BucketLinks{
			Self:     fmt.Sprintf("%s/v1/buckets/%s", url, model.ID),
			User:     fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
			Expenses: fmt.Sprintf("%s/v1/expenses?bucket=%s", url, model.ID),
		},
	}
}

type BucketListResponse struct {
	Data       []Bucket    `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type BucketCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []BucketResponse `json:"data"`                                                          // List of created resources
}

func (t *BucketCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, BucketResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BucketResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Bucket `json:"data"`                                                          // The resource
}

type BucketQueryFilter struct {
	UserID   bl_uuid.UUID      `form:"user"`                       // By user ID
	Name     string            `form:"name" filterField:"false"`   // By name
	Note     string            `form:"note" filterField:"false"`   // By the note
	Search   string            `form:"search" filterField:"false"` // By string in name or note
	Mode     models.BucketMode `form:"mode"`                       // By mode
	Archived bool              `form:"archived"`                   // Is the bucket archived?
	Offset   uint              `form:"offset" filterField:"false"` // The offset of the first bucket returned. Defaults to 0.
	Limit    int               `form:"limit" filterField:"false"`  // Maximum number of buckets to return. Defaults to 50.
}

func (f BucketQueryFilter) model() models.Bucket {
	// This does not set the string fields since they are
	// handled by stringFilters in the controller function
	return models.Bucket{
		UserID:   f.UserID.UUID,
		Mode:     f.Mode,
		Archived: f.Archived,
	}
}
