package budget_test

import (
	"time"

	"github.com/bucketly/backend/internal/budget"
	"github.com/bucketly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTotalIncomeRecurringOnly() {
	user := suite.createTestUser(models.User{Name: "TestTotalIncomeRecurringOnly"})

	suite.createTestIncome(models.Income{UserID: user.ID, Amount: decimal.NewFromFloat(2000), Recurring: true})
	suite.createTestIncome(models.Income{UserID: user.ID, Amount: decimal.NewFromFloat(350.50), Recurring: true})

	// One-off income must not count towards the monthly income
	suite.createTestIncome(models.Income{UserID: user.ID, Amount: decimal.NewFromFloat(10000), Recurring: false})

	total, err := budget.TotalIncome(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.NewFromFloat(2350.50)), "Total income is %s", total)
}

func (suite *TestSuiteStandard) TestTotalIncomeZero() {
	user := suite.createTestUser(models.User{Name: "TestTotalIncomeZero"})

	total, err := budget.TotalIncome(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), total.IsZero())
}

func (suite *TestSuiteStandard) TestSpentBetween() {
	user := suite.createTestUser(models.User{Name: "TestSpentBetween"})
	bucket := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Groceries",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(100),
	})

	suite.createTestExpense(models.Expense{BucketID: bucket.ID, Amount: decimal.NewFromFloat(10), Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)})
	suite.createTestExpense(models.Expense{BucketID: bucket.ID, Amount: decimal.NewFromFloat(20), Date: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)})
	suite.createTestExpense(models.Expense{BucketID: bucket.ID, Amount: decimal.NewFromFloat(40), Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)})

	spent, err := budget.SpentBetween(models.DB, bucket.ID,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), spent.Equal(decimal.NewFromFloat(30)), "Spent is %s", spent)

	all, err := budget.Spent(models.DB, bucket.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), all.Equal(decimal.NewFromFloat(70)), "Spent is %s", all)
}

// TestCalculateDistributionProportional verifies the proportional
// degradation: planned 700 + 500 with income 1000 funds 583.33 and 416.67.
func (suite *TestSuiteStandard) TestCalculateDistributionProportional() {
	user := suite.recurringIncome(1000)

	rent := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Rent",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(700),
	})
	food := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Food",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(500),
	})

	distribution, err := budget.CalculateDistribution(models.DB, user.ID)
	assert.Nil(suite.T(), err)

	assert.True(suite.T(), distribution.IsOverPlanned)
	assert.True(suite.T(), distribution.OverPlannedBy.Equal(decimal.NewFromFloat(200)), "OverPlannedBy is %s", distribution.OverPlannedBy)
	assert.True(suite.T(), distribution.FundingRatio.LessThan(decimal.NewFromInt(1)))

	assert.True(suite.T(), suite.reloadBucket(rent).FundedAmount.Equal(decimal.NewFromFloat(583.33)), "Rent funded with %s", suite.reloadBucket(rent).FundedAmount)
	assert.True(suite.T(), suite.reloadBucket(food).FundedAmount.Equal(decimal.NewFromFloat(416.67)), "Food funded with %s", suite.reloadBucket(food).FundedAmount)

	// Funding sum must never exceed income by more than a rounding epsilon
	sum := suite.reloadBucket(rent).FundedAmount.Add(suite.reloadBucket(food).FundedAmount)
	assert.True(suite.T(), sum.LessThanOrEqual(decimal.NewFromFloat(1000.01)), "Funded sum is %s", sum)
}

func (suite *TestSuiteStandard) TestCalculateDistributionUnderPlanned() {
	user := suite.recurringIncome(3000)

	bucket := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Groceries",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationPercentage,
		AllocationValue: decimal.NewFromFloat(10),
	})

	distribution, err := budget.CalculateDistribution(models.DB, user.ID)
	assert.Nil(suite.T(), err)

	assert.False(suite.T(), distribution.IsOverPlanned)
	assert.True(suite.T(), distribution.OverPlannedBy.IsZero())
	assert.True(suite.T(), distribution.FundingRatio.Equal(decimal.NewFromInt(1)))
	assert.True(suite.T(), suite.reloadBucket(bucket).FundedAmount.Equal(decimal.NewFromFloat(300)))
}

// TestCalculateDistributionNoPlanned verifies the division-by-zero guard:
// with nothing planned, the ratio stays 1.0 regardless of income.
func (suite *TestSuiteStandard) TestCalculateDistributionNoPlanned() {
	user := suite.recurringIncome(1000)

	distribution, err := budget.CalculateDistribution(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), distribution.FundingRatio.Equal(decimal.NewFromInt(1)))
	assert.False(suite.T(), distribution.IsOverPlanned)
}

// TestCalculateDistributionIdempotent verifies that recomputing without
// data changes yields identical funded amounts.
func (suite *TestSuiteStandard) TestCalculateDistributionIdempotent() {
	user := suite.recurringIncome(1000)

	bucket := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Rent",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(1200),
	})

	first, err := budget.CalculateDistribution(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	fundedFirst := suite.reloadBucket(bucket).FundedAmount

	second, err := budget.CalculateDistribution(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	fundedSecond := suite.reloadBucket(bucket).FundedAmount

	assert.True(suite.T(), first.FundingRatio.Equal(second.FundingRatio))
	assert.True(suite.T(), fundedFirst.Equal(fundedSecond), "First: %s, second: %s", fundedFirst, fundedSecond)
}

// Save buckets and archived buckets do not take part in allocation.
func (suite *TestSuiteStandard) TestCalculateDistributionExcludes() {
	user := suite.recurringIncome(1000)

	suite.createTestBucket(models.Bucket{
		UserID:            user.ID,
		Name:              "Vacation",
		Mode:              models.ModeSave,
		TargetAmount:      decimal.NewFromFloat(5000),
		ContributionType:  models.ContributionAmount,
		ContributionValue: decimal.NewFromFloat(100),
		CapBehavior:       models.CapStop,
	})
	archived := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Old",
		Mode:            models.ModeSpend,
		Archived:        true,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(9999),
	})

	distribution, err := budget.CalculateDistribution(models.DB, user.ID)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), distribution.TotalPlanned.IsZero(), "TotalPlanned is %s", distribution.TotalPlanned)
	assert.True(suite.T(), suite.reloadBucket(archived).FundedAmount.IsZero())
}

func (suite *TestSuiteStandard) TestCalculateDistributionUserNotFound() {
	_, err := budget.CalculateDistribution(models.DB, uuid.New())
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDistributionStatus() {
	user := suite.recurringIncome(2000)

	suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Rent",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(700),
	})

	_, err := budget.CalculateDistribution(models.DB, user.ID)
	assert.Nil(suite.T(), err)

	status, err := budget.DistributionStatus(models.DB, user.ID)
	assert.Nil(suite.T(), err)

	assert.True(suite.T(), status.TotalIncome.Equal(decimal.NewFromFloat(2000)))
	assert.True(suite.T(), status.TotalPlanned.Equal(decimal.NewFromFloat(700)))
	assert.True(suite.T(), status.TotalFunded.Equal(decimal.NewFromFloat(700)))
	assert.True(suite.T(), status.Unallocated.Equal(decimal.NewFromFloat(1300)), "Unallocated is %s", status.Unallocated)
	assert.False(suite.T(), status.IsOverPlanned)
}
