// Package cli implements the ethical-memory CLI commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcliao/ethical-memory/internal/audit"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "ethical-memory",
	Short: "Auditable store for emotionally weighted memories",
	Long: "Scores memories for suffering, gates semantic healings on authenticity, " +
		"reflects without mutating the source and links memories into a depth-bounded entanglement graph.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is not an error.
		_ = godotenv.Load()

		logger, err := newLogger(cmd.ErrOrStderr(), viper.GetString("log-level"), viper.GetString("log-format"))
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringP("db", "d", "", "Audit archive path (default: $ETHICAL_MEMORY_DB or ~/.ethical-memory/audit.db)")
	RootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	for _, name := range []string{"db", "log-level", "log-format"} {
		if err := viper.BindPFlag(name, RootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("ethical_memory")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func getDBPath() string {
	if p := viper.GetString("db"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ethical-memory", "audit.db")
}

func openSink() (*audit.SQLiteSink, error) {
	return audit.NewSQLiteSink(getDBPath())
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (valid: text, json)", format)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
