package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bucketly/backend/internal/budget"
	"github.com/bucketly/backend/internal/httputil"
	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/internal/types"
	bl_uuid "github.com/bucketly/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

func RegisterRolloverRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsRollovers)
	r.GET("", GetRolloverLogs)
	r.POST("", BatchRollover)
}

type RolloverResponse struct {
	Error *string        `json:"error" example:"there is no user matching your query"` // The error, if any occurred
	Data  *budget.Report `json:"data"`                                                 // The rollover report
}

type BatchRolloverResponse struct {
	Error *string             `json:"error" example:"the query string contains unparseable data"` // The error, if any occurred
	Data  *budget.BatchResult `json:"data"`                                                       // The outcome per user
}

type RolloverLogLinks struct {
	User   string `json:"user" example:"https://example.com/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`     // The user this entry belongs to
	Bucket string `json:"bucket" example:"https://example.com/v1/buckets/b9234b21-5b4b-4430-b611-383eb36d0e26"` // The bucket this entry belongs to
}

type RolloverLog struct {
	models.DefaultModel
	UserID   uuid.UUID         `json:"userId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	BucketID uuid.UUID         `json:"bucketId" example:"b9234b21-5b4b-4430-b611-383eb36d0e26"`
	Month    types.Month       `json:"month" example:"2024-07-01T00:00:00Z"` // The cycle this entry was written for
	Mode     models.BucketMode `json:"mode" example:"spend"`

	PreviousCarryover decimal.Decimal `json:"previousCarryover" example:"-50"`
	Funded            decimal.Decimal `json:"funded" example:"100"`
	Spent             decimal.Decimal `json:"spent" example:"30"`
	NewCarryover      decimal.Decimal `json:"newCarryover" example:"20"`

	Contribution decimal.Decimal `json:"contribution" example:"0"`
	NewBalance   decimal.Decimal `json:"newBalance" example:"0"`

	Skipped bool             `json:"skipped" example:"false"` // True when the bucket had already rolled over this month
	Links   RolloverLogLinks `json:"links"`
}

// newRolloverLog returns the API v1 representation of the resource
func newRolloverLog(c *gin.Context, model models.RolloverLog) RolloverLog {
	url := c.GetString(string(models.DBContextURL))

	return RolloverLog{
		DefaultModel:      model.DefaultModel,
		UserID:            model.UserID,
		BucketID:          model.BucketID,
		Month:             model.Month,
		Mode:              model.Mode,
		PreviousCarryover: model.PreviousCarryover,
		Funded:            model.Funded,
		Spent:             model.Spent,
		NewCarryover:      model.NewCarryover,
		Contribution:      model.Contribution,
		NewBalance:        model.NewBalance,
		Skipped:           model.Skipped,
		Links: RolloverLogLinks{
			User:   fmt.Sprintf("%s/v1/users/%s", url, model.UserID),
			Bucket: fmt.Sprintf("%s/v1/buckets/%s", url, model.BucketID),
		},
	}
}

type RolloverLogListResponse struct {
	Data       []RolloverLog `json:"data"`                                                          // List of resources
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type RolloverLogQueryFilter struct {
	UserID   bl_uuid.UUID `form:"user" filterField:"false"`   // By user ID
	BucketID bl_uuid.UUID `form:"bucket" filterField:"false"` // By bucket ID
	Month    string       `form:"month" filterField:"false"`  // By cycle month in YYYY-MM format
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first entry returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of entries to return. Defaults to 50.
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Rollover
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id}/rollover [options]
func OptionsUserRollover(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.User{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Roll over a user
// @Description	Transitions all buckets of a user into the current month. Buckets that have already been rolled over this month are skipped.
// @Tags			Rollover
// @Produce		json
// @Success		200	{object}	RolloverResponse
// @Failure		400	{object}	RolloverResponse
// @Failure		404	{object}	RolloverResponse
// @Failure		500	{object}	RolloverResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id}/rollover [post]
func RolloverUser(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RolloverResponse{
			Error: &e,
		})
		return
	}

	report, err := budget.Rollover(models.DB, uri.ID.UUID, time.Now())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RolloverResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, RolloverResponse{Data: &report})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Rollover
// @Success		204
// @Router			/v1/rollovers [options]
func OptionsRollovers(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Roll over all users
// @Description	Checks for every user whether the monthly rollover is due and runs it if so. This is the same operation the scheduler runs on the first day of the month.
// @Tags			Rollover
// @Produce		json
// @Success		200	{object}	BatchRolloverResponse
// @Failure		500	{object}	BatchRolloverResponse
// @Router			/v1/rollovers [post]
func BatchRollover(c *gin.Context) {
	result, err := budget.BatchRollover(c.Request.Context(), models.DB, time.Now())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BatchRolloverResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, BatchRolloverResponse{Data: &result})
}

// @Summary		Get rollover log
// @Description	Returns the audit log of past rollovers
// @Tags			Rollover
// @Produce		json
// @Success		200	{object}	RolloverLogListResponse
// @Failure		400	{object}	RolloverLogListResponse
// @Failure		500	{object}	RolloverLogListResponse
// @Router			/v1/rollovers [get]
// @Param			user	query	string	false	"Filter by user ID"
// @Param			bucket	query	string	false	"Filter by bucket ID"
// @Param			month	query	string	false	"Filter by cycle month, YYYY-MM"
// @Param			offset	query	uint	false	"The offset of the first entry returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of entries to return. Defaults to 50."
func GetRolloverLogs(c *gin.Context) {
	var filter RolloverLogQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, RolloverLogListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Order("date(rollover_logs.month) DESC, rollover_logs.created_at DESC")

	if filter.UserID != bl_uuid.Nil {
		q = q.Where("rollover_logs.user_id = ?", filter.UserID.UUID)
	}

	if filter.BucketID != bl_uuid.Nil {
		q = q.Where("rollover_logs.bucket_id = ?", filter.BucketID.UUID)
	}

	if filter.Month != "" {
		month, err := types.ParseMonth(filter.Month)
		if err != nil {
			s := errMonthInvalid.Error()
			c.JSON(http.StatusBadRequest, RolloverLogListResponse{
				Error: &s,
			})
			return
		}
		q = q.Where("rollover_logs.month >= date(?)", month).Where("rollover_logs.month < date(?)", month.AddDate(0, 1))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 entries and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var logs []models.RolloverLog
	err := q.Find(&logs).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RolloverLogListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RolloverLogListResponse{
			Error: &s,
		})
		return
	}

	data := make([]RolloverLog, 0, len(logs))
	for _, log := range logs {
		data = append(data, newRolloverLog(c, log))
	}

	c.JSON(http.StatusOK, RolloverLogListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}
