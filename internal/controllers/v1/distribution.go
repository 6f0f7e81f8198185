package v1

import (
	"net/http"

	"github.com/bucketly/backend/internal/budget"
	"github.com/bucketly/backend/internal/httputil"
	"github.com/bucketly/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type DistributionResponse struct {
	Error *string        `json:"error" example:"there is no user matching your query"` // The error, if any occurred
	Data  *budget.Status `json:"data"`                                                 // The distribution snapshot
}

type DistributionCalculateResponse struct {
	Error *string              `json:"error" example:"there is no user matching your query"` // The error, if any occurred
	Data  *budget.Distribution `json:"data"`                                                 // The recalculated distribution
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Distribution
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id}/distribution [options]
func OptionsDistribution(c *gin.Context) {
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

	httputil.OptionsGetPost(c)
}

// @Summary		Get distribution
// @Description	Returns the current income distribution of a user without changing any funded amounts
// @Tags			Distribution
// @Produce		json
// @Success		200	{object}	DistributionResponse
// @Failure		400	{object}	DistributionResponse
// @Failure		404	{object}	DistributionResponse
// @Failure		500	{object}	DistributionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id}/distribution [get]
func GetDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &e,
		})
		return
	}

	snapshot, err := budget.DistributionStatus(models.DB, uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DistributionResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, DistributionResponse{Data: &snapshot})
}

// @Summary		Calculate distribution
// @Description	Recalculates the income distribution of a user and persists the new funded amounts
// @Tags			Distribution
// @Produce		json
// @Success		200	{object}	DistributionCalculateResponse
// @Failure		400	{object}	DistributionCalculateResponse
// @Failure		404	{object}	DistributionCalculateResponse
// @Failure		500	{object}	DistributionCalculateResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/users/{id}/distribution [post]
func CalculateDistribution(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DistributionCalculateResponse{
			Error: &e,
		})
		return
	}

	distribution, err := budget.CalculateDistribution(models.DB, uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), DistributionCalculateResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, DistributionCalculateResponse{Data: &distribution})
}
