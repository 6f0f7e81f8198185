package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/bucketly/backend/internal/controllers/v1"
	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func createTestUser(t *testing.T, u v1.UserEditable, expectedStatus ...int) v1.UserResponse {
	if u.Name == "" {
		u.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.UserEditable{u}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/users", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var user v1.UserCreateResponse
	test.DecodeResponse(t, &r, &user)

	if r.Code == http.StatusCreated {
		return user.Data[0]
	}

	return v1.UserResponse{}
}

// TestUsersDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestUsersDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestUser(t, v1.UserEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/users", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.UserListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestUsersOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestUsersOptions() {
	tests := []struct {
		name   string
		id     string // path at the users endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No user with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"User exists", createTestUser(suite.T(), v1.UserEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/users", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestUsersGetSingle() {
	user := createTestUser(suite.T(), v1.UserEditable{Name: "Morre", Note: "Pays for coffee"})

	r := test.Request(suite.T(), http.MethodGet, user.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "Morre", response.Data.Name)
	assert.Equal(suite.T(), "Pays for coffee", response.Data.Note)
}

func (suite *TestSuiteStandard) TestUsersGetNotFound() {
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/users/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUsersCreateDuplicateName() {
	createTestUser(suite.T(), v1.UserEditable{Name: "Unique"})
	r := createTestUser(suite.T(), v1.UserEditable{Name: "Unique"}, http.StatusBadRequest)

	assert.Nil(suite.T(), r.Data)
}

func (suite *TestSuiteStandard) TestUsersList() {
	createTestUser(suite.T(), v1.UserEditable{Name: "Alice"})
	createTestUser(suite.T(), v1.UserEditable{Name: "Bob"})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/users", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UserListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "Alice", response.Data[0].Name)
	assert.Equal(suite.T(), int64(2), response.Pagination.Total)
}

func (suite *TestSuiteStandard) TestUsersListFilterName() {
	createTestUser(suite.T(), v1.UserEditable{Name: "Alice"})
	createTestUser(suite.T(), v1.UserEditable{Name: "Bob"})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/users?name=Ali", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UserListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Len(suite.T(), response.Data, 1)
}

func (suite *TestSuiteStandard) TestUsersUpdate() {
	user := createTestUser(suite.T(), v1.UserEditable{Name: "Before"})

	r := test.Request(suite.T(), http.MethodPatch, user.Data.Links.Self, map[string]any{
		"name": "After",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "After", response.Data.Name)
}

func (suite *TestSuiteStandard) TestUsersDelete() {
	user := createTestUser(suite.T(), v1.UserEditable{})

	r := test.Request(suite.T(), http.MethodDelete, user.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, user.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
