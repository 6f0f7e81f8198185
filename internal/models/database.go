package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BucketlyContext is a context key type for bucketly specific values
type BucketlyContext string

const (
	DBContextURL BucketlyContext = "bucketly-backend-url"
)

var DB *gorm.DB

// Connect opens the SQLite database and configures the connection pool.
func Connect(dsn string) error {
	config := &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	// Migration runs with foreign keys disabled since sqlite does not
	// support ALTER COLUMN. Tables are copied to a temporary table, then
	// dropped and recreated.
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Reconnect with foreign keys enabled
	dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)
	db, err = gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection prevents SQLITE_BUSY errors. It also serializes
	// all writes, which gives the allocation engine the single-writer
	// discipline it expects: a manual rollover and the scheduled one can
	// never interleave their writes for the same user.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	// Query callbacks
	err = db.Callback().Query().After("*").Register("bucketly:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("bucketly:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("bucketly:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("bucketly:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	// Update callbacks
	err = db.Callback().Update().After("*").Register("bucketly:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("bucketly:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	// Delete callbacks
	err = db.Callback().Delete().After("*").Register("bucketly:after_delete_general", generalCallback)
	if err != nil {
		return err
	}

	DB = db

	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// Bucket names must be unique per user
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: buckets.user_id, buckets.name") {
		db.Error = ErrBucketNameNotUnique
	}

	// User names must be unique
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: users.name") {
		db.Error = ErrUserNameNotUnique
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module, see
	// https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=1298;drc=0d018b49e33b1383dc0ae5cc968e800dffeeaf7d
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		// A general error where we cannot provide more useful information
		// to the end user. We log the error and provide a general error
		// message so that server admins can debug
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral

		return
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) (err error) {
	// Early versions stored a single "allocation" amount per bucket. This
	// was replaced by the allocation_type/allocation_value pair so that
	// percentage based allocations are possible.
	hasLegacyAllocation := db.Migrator().HasTable(&Bucket{}) && db.Migrator().HasColumn(&Bucket{}, "allocation")

	err = db.AutoMigrate(User{}, Income{}, Bucket{}, Expense{}, RolloverLog{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	// Migrate the legacy column once, then drop it
	if hasLegacyAllocation {
		err = db.Exec("UPDATE buckets SET allocation_type = 'amount', allocation_value = allocation WHERE allocation_type = '' AND mode != 'save'").Error
		if err != nil {
			return fmt.Errorf("error when migrating the legacy allocation column: %w", err)
		}

		// Dropped with a plain ALTER TABLE: the column is not part of the
		// Bucket model, so the migrator's table rebuild does not remove it
		err = db.Exec("ALTER TABLE buckets DROP COLUMN allocation").Error
		if err != nil {
			return fmt.Errorf("error when dropping the legacy allocation column: %w", err)
		}
	}

	return nil
}
