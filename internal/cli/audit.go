package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/ethical-memory/internal/audit"
)

func init() {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List archived guardian log entries",
		Run:   runAudit,
	}

	cmd.Flags().StringP("memory", "m", "", "Filter by memory id")
	cmd.Flags().StringP("kind", "k", "", "Filter by entry kind (stored, healed, reflected, ...)")
	cmd.Flags().IntP("limit", "l", 50, "Max entries (newest kept)")

	RootCmd.AddCommand(cmd)
}

func runAudit(cmd *cobra.Command, args []string) {
	memoryID, _ := cmd.Flags().GetString("memory")
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")

	sink, err := openSink()
	if err != nil {
		exitErr("open audit db", err)
	}
	defer sink.Close()

	entries, err := sink.List(cmd.Context(), audit.ListParams{
		MemoryID: memoryID,
		Kind:     audit.Kind(kind),
		Limit:    limit,
	})
	if err != nil {
		exitErr("audit", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}

	b, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
