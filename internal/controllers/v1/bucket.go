package v1

import (
	"net/http"

	"github.com/bucketly/backend/internal/budget"
	"github.com/bucketly/backend/internal/httputil"
	"github.com/bucketly/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

func RegisterBucketRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsBuckets)
		r.GET("", GetBuckets)
		r.POST("", CreateBuckets)
	}
	{
		r.OPTIONS("/:id", OptionsBucketDetail)
		r.GET("/:id", GetBucket)
		r.PATCH("/:id", UpdateBucket)
		r.DELETE("/:id", DeleteBucket)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Buckets
// @Success		204
// @Router			/v1/buckets [options]
func OptionsBuckets(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Buckets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/buckets/{id} [options]
func OptionsBucketDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Bucket{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// recalculateDistribution re-runs the income distribution after a change to
// the allocation configuration. A missing user means the mutation already
// failed, so that error is never surfaced here.
func recalculateDistribution(userID uuid.UUID) error {
	_, err := budget.CalculateDistribution(models.DB, userID)
	return err
}

// @Summary		Create buckets
// @Description	Creates new buckets. The funded amounts of all affected users are recalculated.
// @Tags			Buckets
// @Produce		json
// @Success		201		{object}	BucketCreateResponse
// @Failure		400		{object}	BucketCreateResponse
// @Failure		404		{object}	BucketCreateResponse
// @Failure		500		{object}	BucketCreateResponse
// @Param			buckets	body		[]BucketEditable	true	"Buckets"
// @Router			/v1/buckets [post]
func CreateBuckets(c *gin.Context) {
	var editables []BucketEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BucketCreateResponse{}

	for _, editable := range editables {
		bucket := editable.model()

		// Check that the user exists so that the error message
		// is helpful instead of a raw foreign key violation
		err = models.DB.First(&models.User{}, editable.UserID).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		err = models.DB.Create(&bucket).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		err = recalculateDistribution(bucket.UserID)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// Reload to pick up the recalculated funded amount
		err = models.DB.First(&bucket, bucket.ID).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newBucket(c, bucket)
		r.Data = append(r.Data, BucketResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get buckets
// @Description	Returns a list of buckets
// @Tags			Buckets
// @Produce		json
// @Success		200	{object}	BucketListResponse
// @Failure		400	{object}	BucketListResponse
// @Failure		500	{object}	BucketListResponse
// @Router			/v1/buckets [get]
// @Param			user	query	string	false	"Filter by user ID"
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			mode	query	string	false	"Filter by mode"
// @Param			archived	query	bool	false	"Is the bucket archived?"
// @Param			offset	query	uint	false	"The offset of the first bucket returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of buckets to return. Defaults to 50."
func GetBuckets(c *gin.Context) {
	var filter BucketQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, BucketListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()

	q := models.DB.
		Order("buckets.name ASC").
		Where(&where, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 buckets and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var buckets []models.Bucket
	err := q.Find(&buckets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BucketListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BucketListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Bucket, 0, len(buckets))
	for _, bucket := range buckets {
		data = append(data, newBucket(c, bucket))
	}

	c.JSON(http.StatusOK, BucketListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get bucket
// @Description	Returns a specific bucket
// @Tags			Buckets
// @Produce		json
// @Success		200	{object}	BucketResponse
// @Failure		400	{object}	BucketResponse
// @Failure		404	{object}	BucketResponse
// @Failure		500	{object}	BucketResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/buckets/{id} [get]
func GetBucket(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	var bucket models.Bucket
	err = models.DB.First(&bucket, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	apiResource := newBucket(c, bucket)
	c.JSON(http.StatusOK, BucketResponse{Data: &apiResource})
}

// @Summary		Update bucket
// @Description	Updates an existing bucket. Only values to be updated need to be specified. The funded amounts of the user are recalculated.
// @Tags			Buckets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BucketResponse
// @Failure		400		{object}	BucketResponse
// @Failure		404		{object}	BucketResponse
// @Failure		500		{object}	BucketResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			bucket	body		BucketEditable	true	"Bucket"
// @Router			/v1/buckets/{id} [patch]
func UpdateBucket(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	var bucket models.Bucket
	err = models.DB.First(&bucket, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BucketEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	var data BucketEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&bucket).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	err = recalculateDistribution(bucket.UserID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.First(&bucket, bucket.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BucketResponse{
			Error: &e,
		})
		return
	}

	apiResource := newBucket(c, bucket)
	c.JSON(http.StatusOK, BucketResponse{Data: &apiResource})
}

// @Summary		Delete bucket
// @Description	Deletes a bucket. The funded amounts of the user are recalculated.
// @Tags			Buckets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/buckets/{id} [delete]
func DeleteBucket(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var bucket models.Bucket
	err = models.DB.First(&bucket, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&bucket).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = recalculateDistribution(bucket.UserID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
