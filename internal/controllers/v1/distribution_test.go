package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/bucketly/backend/internal/controllers/v1"
	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestDistributionOptions() {
	user := createTestUser(suite.T(), v1.UserEditable{})

	r := test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/users/%s/distribution", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodOptions, user.Data.Links.Distribution, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, POST", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestDistributionGetNotFound() {
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/users/%s/distribution", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestDistributionGet verifies the read-only snapshot, including the
// unallocated rest of the income.
func (suite *TestSuiteStandard) TestDistributionGet() {
	user := createTestUser(suite.T(), v1.UserEditable{})
	createTestIncome(suite.T(), v1.IncomeEditable{UserID: user.Data.ID, Amount: decimal.NewFromInt(2000), Recurring: true})
	createTestBucket(suite.T(), v1.BucketEditable{
		UserID:          user.Data.ID,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromInt(1200),
	})
	createTestBucket(suite.T(), v1.BucketEditable{
		UserID:          user.Data.ID,
		AllocationType:  models.AllocationPercentage,
		AllocationValue: decimal.NewFromInt(25),
	})

	r := test.Request(suite.T(), http.MethodGet, user.Data.Links.Distribution, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.DistributionResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.True(suite.T(), response.Data.TotalIncome.Equal(decimal.NewFromInt(2000)))
	assert.True(suite.T(), response.Data.TotalPlanned.Equal(decimal.NewFromInt(1700)), "total planned is %s", response.Data.TotalPlanned)
	assert.True(suite.T(), response.Data.TotalFunded.Equal(decimal.NewFromInt(1700)), "total funded is %s", response.Data.TotalFunded)
	assert.True(suite.T(), response.Data.Unallocated.Equal(decimal.NewFromInt(300)), "unallocated is %s", response.Data.Unallocated)
	assert.False(suite.T(), response.Data.IsOverPlanned)
}

// TestDistributionCalculateOverPlanned verifies the uniform scale-down when
// more is planned than the income allows.
func (suite *TestSuiteStandard) TestDistributionCalculateOverPlanned() {
	user := createTestUser(suite.T(), v1.UserEditable{})
	createTestIncome(suite.T(), v1.IncomeEditable{UserID: user.Data.ID, Amount: decimal.NewFromInt(1000), Recurring: true})
	first := createTestBucket(suite.T(), v1.BucketEditable{
		UserID:          user.Data.ID,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromInt(700),
	})
	second := createTestBucket(suite.T(), v1.BucketEditable{
		UserID:          user.Data.ID,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromInt(500),
	})

	r := test.Request(suite.T(), http.MethodPost, user.Data.Links.Distribution, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.DistributionCalculateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.True(suite.T(), response.Data.IsOverPlanned)
	assert.True(suite.T(), response.Data.OverPlannedBy.Equal(decimal.NewFromInt(200)), "over planned by %s", response.Data.OverPlannedBy)
	assert.True(suite.T(), response.Data.FundingRatio.LessThan(decimal.NewFromInt(1)))

	// 700 and 500 planned against 1000 income scale to 583.33 and 416.67
	r = test.Request(suite.T(), http.MethodGet, first.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var bucket v1.BucketResponse
	test.DecodeResponse(suite.T(), &r, &bucket)
	assert.True(suite.T(), bucket.Data.FundedAmount.Equal(decimal.NewFromFloat(583.33)), "funded amount is %s", bucket.Data.FundedAmount)

	r = test.Request(suite.T(), http.MethodGet, second.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &bucket)
	assert.True(suite.T(), bucket.Data.FundedAmount.Equal(decimal.NewFromFloat(416.67)), "funded amount is %s", bucket.Data.FundedAmount)
}

// TestDistributionNoIncome verifies that without recurring income nothing
// is funded.
func (suite *TestSuiteStandard) TestDistributionNoIncome() {
	user := createTestUser(suite.T(), v1.UserEditable{})
	bucket := createTestBucket(suite.T(), v1.BucketEditable{
		UserID:          user.Data.ID,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromInt(100),
	})

	assert.True(suite.T(), bucket.Data.FundedAmount.IsZero(), "funded amount is %s", bucket.Data.FundedAmount)

	r := test.Request(suite.T(), http.MethodGet, user.Data.Links.Distribution, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.DistributionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.TotalIncome.IsZero())
	assert.True(suite.T(), response.Data.IsOverPlanned)
}
