package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/bucketly/backend/internal/controllers/v1"
	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func createTestBucket(t *testing.T, b v1.BucketEditable, expectedStatus ...int) v1.BucketResponse {
	if b.UserID == uuid.Nil {
		b.UserID = createTestUser(t, v1.UserEditable{}).Data.ID
	}

	if b.Name == "" {
		b.Name = uuid.NewString()
	}

	if b.Mode == "" {
		b.Mode = models.ModeSpend
	}

	if (b.Mode == models.ModeSpend || b.Mode == models.ModeRecurring) && b.AllocationType == "" {
		b.AllocationType = models.AllocationAmount
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.BucketEditable{b}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/buckets", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var bucket v1.BucketCreateResponse
	test.DecodeResponse(t, &r, &bucket)

	if r.Code == http.StatusCreated {
		return bucket.Data[0]
	}

	return v1.BucketResponse{}
}

func createTestIncome(t *testing.T, i v1.IncomeEditable, expectedStatus ...int) v1.IncomeResponse {
	if i.UserID == uuid.Nil {
		i.UserID = createTestUser(t, v1.UserEditable{}).Data.ID
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.IncomeEditable{i}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/incomes", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var income v1.IncomeCreateResponse
	test.DecodeResponse(t, &r, &income)

	if r.Code == http.StatusCreated {
		return income.Data[0]
	}

	return v1.IncomeResponse{}
}

// TestBucketsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestBucketsOptions() {
	tests := []struct {
		name   string
		id     string // path at the buckets endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No bucket with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Bucket exists", createTestBucket(suite.T(), v1.BucketEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/buckets", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestBucketsCreateUnknownUser() {
	createTestBucket(suite.T(), v1.BucketEditable{UserID: uuid.New()}, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBucketsCreateInvalidMode() {
	user := createTestUser(suite.T(), v1.UserEditable{})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/buckets", []map[string]any{
		{"userId": user.Data.ID, "name": "Invalid", "mode": "yolo"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.BucketCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Data[0].Error, models.ErrBucketModeInvalid.Error())
}

func (suite *TestSuiteStandard) TestBucketsCreateDuplicateNamePerUser() {
	user := createTestUser(suite.T(), v1.UserEditable{})

	createTestBucket(suite.T(), v1.BucketEditable{UserID: user.Data.ID, Name: "Groceries"})
	createTestBucket(suite.T(), v1.BucketEditable{UserID: user.Data.ID, Name: "Groceries"}, http.StatusBadRequest)

	// The same name is fine for another user
	createTestBucket(suite.T(), v1.BucketEditable{Name: "Groceries"})
}

// TestBucketsCreateRecalculates verifies that creating a bucket updates the
// funded amounts of all buckets of the user.
func (suite *TestSuiteStandard) TestBucketsCreateRecalculates() {
	user := createTestUser(suite.T(), v1.UserEditable{})
	createTestIncome(suite.T(), v1.IncomeEditable{UserID: user.Data.ID, Amount: decimal.NewFromInt(1000), Recurring: true})

	first := createTestBucket(suite.T(), v1.BucketEditable{
		UserID:          user.Data.ID,
		Name:            "Rent",
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromInt(700),
	})
	assert.True(suite.T(), first.Data.FundedAmount.Equal(decimal.NewFromInt(700)), "funded amount is %s", first.Data.FundedAmount)

	// Planning 700 + 800 against 1000 income scales both buckets down
	second := createTestBucket(suite.T(), v1.BucketEditable{
		UserID:          user.Data.ID,
		Name:            "Groceries",
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromInt(800),
	})
	assert.True(suite.T(), second.Data.FundedAmount.LessThan(decimal.NewFromInt(800)))

	r := test.Request(suite.T(), http.MethodGet, first.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BucketResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.FundedAmount.LessThan(decimal.NewFromInt(700)), "first bucket was not scaled down, funded amount is %s", response.Data.FundedAmount)
}

func (suite *TestSuiteStandard) TestBucketsListFilterUser() {
	user := createTestUser(suite.T(), v1.UserEditable{})
	createTestBucket(suite.T(), v1.BucketEditable{UserID: user.Data.ID})
	createTestBucket(suite.T(), v1.BucketEditable{UserID: user.Data.ID})
	createTestBucket(suite.T(), v1.BucketEditable{})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/buckets?user=%s", user.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BucketListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 2)
}

func (suite *TestSuiteStandard) TestBucketsListFilterMode() {
	user := createTestUser(suite.T(), v1.UserEditable{})
	createTestBucket(suite.T(), v1.BucketEditable{UserID: user.Data.ID, Mode: models.ModeSpend})
	createTestBucket(suite.T(), v1.BucketEditable{UserID: user.Data.ID, Mode: models.ModeSave})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/buckets?mode=save", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BucketListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), models.ModeSave, response.Data[0].Mode)
}

func (suite *TestSuiteStandard) TestBucketsUpdateRecalculates() {
	user := createTestUser(suite.T(), v1.UserEditable{})
	createTestIncome(suite.T(), v1.IncomeEditable{UserID: user.Data.ID, Amount: decimal.NewFromInt(1000), Recurring: true})

	bucket := createTestBucket(suite.T(), v1.BucketEditable{
		UserID:          user.Data.ID,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromInt(100),
	})

	r := test.Request(suite.T(), http.MethodPatch, bucket.Data.Links.Self, map[string]any{
		"allocationValue": "250",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BucketResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.FundedAmount.Equal(decimal.NewFromInt(250)), "funded amount is %s", response.Data.FundedAmount)
}

func (suite *TestSuiteStandard) TestBucketsDelete() {
	bucket := createTestBucket(suite.T(), v1.BucketEditable{})

	r := test.Request(suite.T(), http.MethodDelete, bucket.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, bucket.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
