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

type IncomeEditable struct {
	UserID    uuid.UUID       `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                                                         // ID of the user this income belongs to
	Amount    decimal.Decimal `json:"amount" example:"2100" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001" default:"0"` // The income amount
	Recurring bool            `json:"recurring" example:"true" default:"false"`                                                                       // Recurring income is part of the monthly distribution, one-time income is not
	Date      time.Time       `json:"date" example:"2024-07-25T00:00:00Z"`                                                                            // Date of the income. Defaults to the current time
	Note      string          `json:"note" example:"Salary" default:""`                                                                               // Note about the income
}

// model returns the database resource for the API representation of the editable fields
func (editable IncomeEditable) model() models.Income {
	return models.Income{
		UserID:    editable.UserID,
		Amount:    editable.Amount,
		Recurring: editable.Recurring,
		Date:      editable.Date,
		Note:      editable.Note,
	}
}

type IncomeLinks struct {
	Self string `json:"self" example:"https://example.com/v1/incomes/d1b7e9e9-98d2-4f5a-9b24-80c0bb3b6745"`  // The income itself
	User string `json:"user" example:"https://example.com/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // The user this income belongs to
}

type Income struct {
	models.DefaultModel
	IncomeEditable
	Links IncomeLinks `json:"links"`
}

// newIncome returns the API v1 representation of the resource
func newIncome(c *gin.Context, model models.Income) Income {
	url := c.GetString(string(models.DBContextURL))

	return Income{
		DefaultModel: model.DefaultModel,
		IncomeEditable: IncomeEditable{
			UserID:    model.UserID,
			Amount:    model.Amount,
			Recurring: model.Recurring,
			Date:      model.Date,
			Note:      model.Note,
		},
		Links: IncomeLinks{
			Self: fmt.Sprintf("%s/v1/incomes/%s", url, model.ID),
			User: fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
		},
	}
}

type IncomeListResponse struct {
	Data       []Income    `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type IncomeCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []IncomeResponse `json:"data"`                                                          // List of created resources
}

func (t *IncomeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, IncomeResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type IncomeResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Income `json:"data"`                                                          // The resource
}

type IncomeQueryFilter struct {
	UserID    bl_uuid.UUID `form:"user"`                       // By user ID
	Recurring bool         `form:"recurring"`                  // Is the income recurring?
	Note      string       `form:"note" filterField:"false"`   // By the note
	Offset    uint         `form:"offset" filterField:"false"` // The offset of the first income returned. Defaults to 0.
	Limit     int          `form:"limit" filterField:"false"`  // Maximum number of incomes to return. Defaults to 50.
}

func (f IncomeQueryFilter) model() models.Income {
	return models.Income{
		UserID:    f.UserID.UUID,
		Recurring: f.Recurring,
	}
}
