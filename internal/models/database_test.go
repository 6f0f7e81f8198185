package models_test

import (
	"github.com/bucketly/backend/internal/models"
	"github.com/bucketly/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestConnectInvalidDSN() {
	err := models.Connect("/not/a/directory/that/exists/db.sqlite")
	assert.NotNil(suite.T(), err)

	// Reconnect so that TearDownTest has a database to close
	suite.SetupTest()
}

func (suite *TestSuiteStandard) TestQueryCallbackNotFound() {
	var bucket models.Bucket
	err := models.DB.First(&bucket, uuid.New()).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
	assert.Contains(suite.T(), err.Error(), "bucket", "Error message does not name the resource: %s", err)
}

// TestMigrateLegacyAllocation verifies the one-time migration of the
// deprecated single allocation column.
func (suite *TestSuiteStandard) TestMigrateLegacyAllocation() {
	suite.CloseDB()

	dsn := test.TmpFile(suite.T())
	err := models.Connect(dsn)
	require.Nil(suite.T(), err)

	user := suite.createTestUser(models.User{Name: "TestMigrateLegacyAllocation"})
	bucket := suite.createTestBucket(models.Bucket{
		UserID:          user.ID,
		Name:            "Legacy",
		Mode:            models.ModeSpend,
		AllocationType:  models.AllocationAmount,
		AllocationValue: decimal.NewFromFloat(100),
	})

	// Re-create the legacy schema state: an allocation column with a
	// value, no allocation type set
	err = models.DB.Exec("ALTER TABLE buckets ADD COLUMN allocation DECIMAL(20,8)").Error
	require.Nil(suite.T(), err)
	err = models.DB.Exec("UPDATE buckets SET allocation = 250, allocation_type = '', allocation_value = 0 WHERE id = ?", bucket.ID).Error
	require.Nil(suite.T(), err)

	// Reconnecting runs the migration
	suite.CloseDB()
	err = models.Connect(dsn)
	require.Nil(suite.T(), err)

	var migrated models.Bucket
	err = models.DB.First(&migrated, bucket.ID).Error
	require.Nil(suite.T(), err)

	assert.Equal(suite.T(), models.AllocationAmount, migrated.AllocationType)
	assert.True(suite.T(), migrated.AllocationValue.Equal(decimal.NewFromFloat(250)), "AllocationValue is %s", migrated.AllocationValue)

	assert.False(suite.T(), models.DB.Migrator().HasColumn(&models.Bucket{}, "allocation"))
}
