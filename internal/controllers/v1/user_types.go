package v1

import (
	"fmt"

	"github.com/bucketly/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type UserEditable struct {
	Name string `json:"name" example:"Morre" default:""`                          // Name of the user
	Note string `json:"note" example:"The one paying for all the coffee" default:""` // Note about the user
}

// model returns the database resource for the API representation of the editable fields
func (editable UserEditable) model() models.User {
	return models.User{
		Name: editable.Name,
		Note: editable.Note,
	}
}

type UserLinks struct {
	Self         string `json:"self" example:"https://example.com/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                  // The user itself
	Buckets      string `json:"buckets" example:"https://example.com/v1/buckets?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`        // Buckets of this user
	Incomes      string `json:"incomes" example:"https://example.com/v1/incomes?user=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`        // Income sources of this user
	Distribution string `json:"distribution" example:"https://example.com/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf/distribution"` // The income distribution for this user
	Rollover     string `json:"rollover" example:"https://example.com/v1/users/550dc009-cea6-4c12-b2a5-03446eb7b7cf/rollover"`     // The monthly rollover for this user
}

type User struct {
	models.DefaultModel
	UserEditable
	Links UserLinks `json:"links"`
}

// newUser returns the API v1 representation of the resource
func newUser(c *gin.Context, model models.User) User {
	url := c.GetString(string(models.DBContextURL))

	return User{
		DefaultModel: model.DefaultModel,
		UserEditable: UserEditable{
			Name: model.Name,
			Note: model.Note,
		},
		Links: UserLinks{
			Self:         fmt.Sprintf("%s/v1/users/%s", url, model.ID),
			Buckets:      fmt.Sprintf("%s/v1/buckets?user=%s", url, model.ID),
			Incomes:      fmt.Sprintf("%s/v1/incomes?user=%s", url, model.ID),
			Distribution: fmt.Sprintf("%s/v1/users/%s/distribution", url, model.ID),
			Rollover:     fmt.Sprintf("%s/v1/users/%s/rollover", url, model.ID),
		},
	}
}

type UserListResponse struct {
	Data       []User      `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type UserCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []UserResponse `json:"data"`                                                          // List of created resources
}

func (t *UserCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, UserResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type UserResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *User   `json:"data"`                                                          // The resource
}

type UserQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // By name
	Note   string `form:"note" filterField:"false"`   // By the note
	Search string `form:"search" filterField:"false"` // By string in name or note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first user returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of users to return. Defaults to 50.
}
