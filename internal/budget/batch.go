package budget

import (
	"context"
	"time"

	"github.com/bucketly/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// batchConcurrency bounds the number of users rolled over at the same
// time. Buckets of one user are always processed sequentially, only the
// fan-out over users is parallel.
const batchConcurrency = 4

// UserResult is the outcome of one user's scheduled rollover.
type UserResult struct {
	UserID uuid.UUID `json:"userId" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	Name   string    `json:"name" example:"Morre"`
	Report *Report   `json:"report"`          // Nil when the rollover was not due or failed
	Error  string    `json:"error,omitempty"` // The error, if the rollover failed
}

// BatchResult is the outcome of a scheduled rollover run over all users.
type BatchResult struct {
	RolloverDate   time.Time    `json:"rolloverDate" example:"2024-07-01T00:04:12.000000Z"`
	UsersProcessed int          `json:"usersProcessed" example:"2"` // Users whose rollover was due and succeeded
	Failed         int          `json:"failed" example:"0"`
	Results        []UserResult `json:"results"`
}

// BatchRollover runs CheckAndRollover for every user.
//
// A failure for one user is recorded in the result and never aborts the
// run: the batch is partial-failure tolerant and safe to re-run, since
// users that already rolled over this month are skipped by the per-month
// guard.
func BatchRollover(ctx context.Context, db *gorm.DB, now time.Time) (BatchResult, error) {
	var users []models.User
	err := db.Find(&users).Error
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{
		RolloverDate: now.In(time.UTC),
		Results:      make([]UserResult, len(users)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, user := range users {
		g.Go(func() error {
			userResult := UserResult{
				UserID: user.ID,
				Name:   user.Name,
			}

			if err := ctx.Err(); err != nil {
				userResult.Error = err.Error()
				result.Results[i] = userResult
				return nil
			}

			report, err := CheckAndRollover(db.WithContext(ctx), user.ID, now)
			if err != nil {
				// Fault isolation: record the error, keep processing the
				// other users
				log.Error().Err(err).Str("user", user.Name).Msg("rollover failed")
				userResult.Error = err.Error()
			} else {
				userResult.Report = report
			}

			result.Results[i] = userResult
			return nil
		})
	}

	// The goroutines never return errors, failures are recorded per user
	_ = g.Wait()

	for _, r := range result.Results {
		if r.Error != "" {
			result.Failed++
		} else if r.Report != nil {
			result.UsersProcessed++
		}
	}

	return result, nil
}
