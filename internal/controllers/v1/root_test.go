package v1_test

import (
	"net/http"

	v1 "github.com/bucketly/backend/internal/controllers/v1"
	"github.com/bucketly/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGetRoot() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "http://example.com/v1/users", response.Links.Users)
	assert.Equal(suite.T(), "http://example.com/v1/buckets", response.Links.Buckets)
	assert.Equal(suite.T(), "http://example.com/v1/incomes", response.Links.Incomes)
	assert.Equal(suite.T(), "http://example.com/v1/expenses", response.Links.Expenses)
	assert.Equal(suite.T(), "http://example.com/v1/rollovers", response.Links.Rollovers)
}

func (suite *TestSuiteStandard) TestOptionsRoot() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, DELETE", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCleanupWithoutConfirmation() {
	tests := []string{
		"http://example.com/v1",
		"http://example.com/v1?confirm=yes",
	}

	for _, path := range tests {
		r := test.Request(suite.T(), http.MethodDelete, path, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestCleanup() {
	user := createTestUser(suite.T(), v1.UserEditable{})
	createTestIncome(suite.T(), v1.IncomeEditable{UserID: user.Data.ID, Amount: decimal.NewFromInt(1000), Recurring: true})
	bucket := createTestBucket(suite.T(), v1.BucketEditable{UserID: user.Data.ID})
	createTestExpense(suite.T(), v1.ExpenseEditable{BucketID: bucket.Data.ID, Amount: decimal.NewFromInt(10)})

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	for _, path := range []string{
		"http://example.com/v1/users",
		"http://example.com/v1/buckets",
		"http://example.com/v1/incomes",
		"http://example.com/v1/expenses",
	} {
		r := test.Request(suite.T(), http.MethodGet, path, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var response struct {
			Data []any `json:"data"`
		}
		test.DecodeResponse(suite.T(), &r, &response)
		assert.Len(suite.T(), response.Data, 0, "resources left at %s", path)
	}
}
