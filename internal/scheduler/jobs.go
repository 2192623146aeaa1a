package scheduler

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/stackmatch/stackmatch/internal/database"
)

// StoreStatsJobID is the id of the store statistics job.
const StoreStatsJobID = "store_stats"

// StatsSource reports row counts of the store.
type StatsSource interface {
	GetStats(ctx context.Context) (*database.Stats, error)
}

// StoreStatsJob logs the row counts of the store on the given schedule.
func StoreStatsJob(schedule string, db StatsSource) Job {
	return Job{
		ID:          StoreStatsJobID,
		Name:        "Store Statistics",
		Description: "Logs the number of users, messages and swipes",
		Schedule:    schedule,
		Singleton:   true,
		RunOnStart:  true,
		Run: func(ctx context.Context) error {
			stats, err := db.GetStats(ctx)
			if err != nil {
				return fmt.Errorf("failed to get store stats: %w", err)
			}
			log.Info("Store statistics", "users", stats.Users, "messages", stats.Messages, "swipes", stats.Swipes)
			return nil
		},
	}
}
