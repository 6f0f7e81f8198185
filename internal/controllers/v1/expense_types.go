package v1

import (
	"fmt"
	"time"

	"github.com/bucketly/backend/internal/models"
	bl_uuid "github.com/bucketly/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseEditable struct {
	BucketID uuid.UUID       `json:"bucketId" example:"b9234b21-5b4b-4430-b611-383eb36d0e26"`                                                       // ID of the bucket this expense is booked against
	Amount   decimal.Decimal `json:"amount" example:"21.5" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001" default:"0"` // The expense amount
	Date     time.Time       `json:"date" example:"2024-07-25T00:00:00Z"`                                                                            // Date of the expense. Defaults to the current time
	Note     string          `json:"note" example:"Weekly groceries" default:""`                                                                     // Note about the expense
}

// model returns the database resource for the API representation of the editable fields
func (editable ExpenseEditable) model() models.Expense {
	return models.Expense{
		BucketID: editable.BucketID,
		Amount:   editable.Amount,
		Date:     editable.Date,
		Note:     editable.Note,
	}
}

type ExpenseLinks struct {
	Self   string `json:"self" example:"https://example.com/v1/expenses/d3c4d3c4-8b43-4d2c-b3e4-7a6b4f21e3f0"`   // The expense itself
	Bucket string `json:"bucket" example:"https://example.com/v1/buckets/b9234b21-5b4b-4430-b611-383eb36d0e26"` // The bucket this expense is booked against
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	SystemGenerated bool         `json:"systemGenerated" example:"false"` // True for the automatic payments of recurring buckets
	Links           ExpenseLinks `json:"links"`
}

// newExpense returns the API v1 representation of the resource
func newExpense(c *gin.Context, model models.Expense) Expense {
	url := c.GetString(string(models.DBContextURL))

	return Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			BucketID: model.BucketID,
			Amount:   model.Amount,
			Date:     model.Date,
			Note:     model.Note,
		},
		SystemGenerated: model.SystemGenerated,
		Links: ExpenseLinks{
			Self:   fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
			Bucket: fmt.Sprintf("%s/v1/buckets/%s", url, model.BucketID),
		},
	}
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ExpenseCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ExpenseResponse `json:"data"`                                                          // List of created resources
}

func (t *ExpenseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, ExpenseResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Expense `json:"data"`                                                          // The resource
}

type ExpenseQueryFilter struct {
	BucketID        bl_uuid.UUID `form:"bucket" filterField:"false"`          // By bucket ID
	UserID          bl_uuid.UUID `form:"user" filterField:"false"`            // By user ID
	SystemGenerated bool         `form:"systemGenerated"`                     // Is the expense an automatic payment?
	Note            string       `form:"note" filterField:"false"`            // By the note
	FromDate        time.Time    `form:"fromDate" filterField:"false" time_format:"2006-01-02"`  // Expenses on this date and later
	UntilDate       time.Time    `form:"untilDate" filterField:"false" time_format:"2006-01-02"` // Expenses before and on this date
	Offset          uint         `form:"offset" filterField:"false"`          // The offset of the first expense returned. Defaults to 0.
	Limit           int          `form:"limit" filterField:"false"`           // Maximum number of expenses to return. Defaults to 50.
}

func (f ExpenseQueryFilter) model() models.Expense {
	return models.Expense{
		SystemGenerated: f.SystemGenerated,
	}
}
