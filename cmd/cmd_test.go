package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stackmatch/stackmatch/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogLevel(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	tests := []struct {
		level string
		want  log.Level
	}{
		{level: "debug", want: log.DebugLevel},
		{level: "info", want: log.InfoLevel},
		{level: "warn", want: log.WarnLevel},
		{level: "error", want: log.ErrorLevel},
		{level: "verbose", want: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			setLogLevel(tt.level)
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, database.DialectSQLite, 1500*time.Microsecond, &database.Stats{Users: 1234567, Messages: 42, Swipes: 0})

	out := buf.String()
	assert.Contains(t, out, "Dialect:  sqlite")
	assert.Contains(t, out, "Ping:     1.5ms")
	assert.Contains(t, out, "Users:    1,234,567")
	assert.Contains(t, out, "Messages: 42")
	assert.Contains(t, out, "Swipes:   0")
}

func TestMigrateAndStatsCommands(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STACKMATCH_DATABASE_URL", "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	dbURL := "sqlite:///" + filepath.Join(dir, "cli.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: error\ndatabase:\n  url: "+dbURL+"\n"), 0o600))

	run := func(args ...string) string {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs(args)
		t.Cleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetArgs(nil)
			rootCmdPersistentFlags.ConfigFile = ""
		})
		require.NoError(t, rootCmd.ExecuteContext(context.Background()))
		return buf.String()
	}

	assert.Contains(t, run("migrate", "--config", cfgPath), "Database migrations completed successfully!")
	out := run("db-stats", "--config", cfgPath)
	assert.Contains(t, out, "Users:    0")
	assert.Contains(t, out, "Ping:")
}
