package v1

import (
	"net/http"

	"github.com/bucketly/backend/internal/httputil"
	"github.com/bucketly/backend/internal/models"
	"github.com/gin-gonic/gin"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.DELETE("", Cleanup)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Users     string `json:"users" example:"https://example.com/v1/users"`         // URL of User collection endpoint
	Buckets   string `json:"buckets" example:"https://example.com/v1/buckets"`     // URL of Bucket collection endpoint
	Incomes   string `json:"incomes" example:"https://example.com/v1/incomes"`     // URL of Income collection endpoint
	Expenses  string `json:"expenses" example:"https://example.com/v1/expenses"`   // URL of Expense collection endpoint
	Rollovers string `json:"rollovers" example:"https://example.com/v1/rollovers"` // URL of the rollover endpoints
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Users:     url + "/v1/users",
			Buckets:   url + "/v1/buckets",
			Incomes:   url + "/v1/incomes",
			Expenses:  url + "/v1/expenses",
			Rollovers: url + "/v1/rollovers",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}
