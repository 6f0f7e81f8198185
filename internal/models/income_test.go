package models_test

import (
	"time"

	"github.com/bucketly/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestIncomeNegativeAmount() {
	user := suite.createTestUser(models.User{Name: "TestIncomeNegativeAmount"})

	err := models.DB.Create(&models.Income{
		UserID: user.ID,
		Amount: decimal.NewFromFloat(-100),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrIncomeAmountNegative)
}

func (suite *TestSuiteStandard) TestIncomeDateDefaultsToNow() {
	user := suite.createTestUser(models.User{Name: "TestIncomeDateDefaultsToNow"})

	income := models.Income{
		UserID:    user.ID,
		Amount:    decimal.NewFromFloat(100),
		Recurring: true,
	}
	err := models.DB.Create(&income).Error
	assert.Nil(suite.T(), err)
	assert.WithinDuration(suite.T(), time.Now(), income.Date, time.Minute)
}

func (suite *TestSuiteStandard) TestExpenseNegativeAmount() {
	user := suite.createTestUser(models.User{Name: "TestExpenseNegativeAmount"})
	bucket := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Groceries",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(100),
	})

	err := models.DB.Create(&models.Expense{
		BucketID: bucket.ID,
		Amount:   decimal.NewFromFloat(-5),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrExpenseAmountNegative)
}

func (suite *TestSuiteStandard) TestExpenseDateUTC() {
	user := suite.createTestUser(models.User{Name: "TestExpenseDateUTC"})
	bucket := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Groceries",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(100),
	})

	berlin, _ := time.LoadLocation("Europe/Berlin")
	expense := models.Expense{
		BucketID: bucket.ID,
		Amount:   decimal.NewFromFloat(5),
		Date:     time.Date(2024, 7, 1, 1, 30, 0, 0, berlin),
	}
	err := models.DB.Create(&expense).Error
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), time.UTC, expense.Date.Location())
}
