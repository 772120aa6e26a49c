package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/ethical-memory/internal/healing"
)

func init() {
	cmd := &cobra.Command{
		Use:   "score [narrative]",
		Short: "Score a healing narrative for authenticity",
		Long:  "Print the authenticity verdict for a narrative and its transformation steps without storing anything.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runScore,
	}

	cmd.Flags().StringArrayP("step", "s", nil, "Transformation step (repeatable)")

	RootCmd.AddCommand(cmd)
}

func runScore(cmd *cobra.Command, args []string) {
	steps, _ := cmd.Flags().GetStringArray("step")
	narrative := strings.Join(args, " ")

	vd := healing.NewVerifier().Evaluate(narrative, steps)

	b, _ := json.MarshalIndent(vd, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
