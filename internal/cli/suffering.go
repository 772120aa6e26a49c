package cli

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/rcliao/ethical-memory/internal/suffering"
)

func init() {
	cmd := &cobra.Command{
		Use:   "suffering",
		Short: "Compute the suffering index for an emotion",
		Run:   runSuffering,
	}

	cmd.Flags().StringP("emotion", "e", "", "Emotion label (required)")
	cmd.Flags().Float64P("intensity", "i", 1.0, "Intensity from 0.0 to 1.0")
	cmd.Flags().Int("reflections", 0, "Number of reflections")
	cmd.Flags().Float64("healing-potential", 0, "Healing potential from 0.0 to 1.0")

	cmd.MarkFlagRequired("emotion")

	RootCmd.AddCommand(cmd)
}

type sufferingResult struct {
	Emotion    string  `json:"emotion"`
	BaseWeight float64 `json:"base_weight"`
	Suffering  float64 `json:"suffering"`
}

func runSuffering(cmd *cobra.Command, args []string) {
	emotion, _ := cmd.Flags().GetString("emotion")
	intensity, _ := cmd.Flags().GetFloat64("intensity")
	reflections, _ := cmd.Flags().GetInt("reflections")
	potential, _ := cmd.Flags().GetFloat64("healing-potential")

	if err := unitInterval("intensity", intensity); err != nil {
		exitErr("suffering", err)
	}
	if err := unitInterval("healing-potential", potential); err != nil {
		exitErr("suffering", err)
	}
	if reflections < 0 {
		exitErr("suffering", fmt.Errorf("reflections %d is negative", reflections))
	}

	res := sufferingResult{
		Emotion:    emotion,
		BaseWeight: suffering.BaseWeight(emotion),
		Suffering:  suffering.Compute(emotion, intensity, nil, reflections, potential),
	}

	b, _ := json.MarshalIndent(res, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

// unitInterval rejects NaN and values outside [0, 1].
func unitInterval(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%s %v outside [0, 1]", name, v)
	}
	return nil
}
