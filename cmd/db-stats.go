package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/stackmatch/stackmatch/internal/database"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display the number of stored users, messages and swipes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.New(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}

		start := time.Now()
		if err := db.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		latency := time.Since(start)

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		printStats(cmd.OutOrStdout(), db.Dialect(), latency, stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}

func printStats(w io.Writer, dialect database.Dialect, latency time.Duration, stats *database.Stats) {
	fmt.Fprintln(w, "Database Statistics:")
	fmt.Fprintf(w, "Dialect:  %s\n", dialect)
	fmt.Fprintf(w, "Ping:     %s\n", latency.Round(time.Microsecond))
	fmt.Fprintf(w, "Users:    %s\n", humanize.Comma(stats.Users))
	fmt.Fprintf(w, "Messages: %s\n", humanize.Comma(stats.Messages))
	fmt.Fprintf(w, "Swipes:   %s\n", humanize.Comma(stats.Swipes))
}
