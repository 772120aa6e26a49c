package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/rcliao/ethical-memory/internal/metrics"
	"github.com/rcliao/ethical-memory/internal/model"
	"github.com/rcliao/ethical-memory/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the reference healing scenario",
		Long: "Store a painful memory, heal it, reflect on it, entangle it with a hopeful memory " +
			"and print the resulting quantum status and guardian log.",
		Run: runDemo,
	}

	cmd.Flags().Bool("archive", false, "Archive the guardian log to the audit database")
	cmd.Flags().Bool("export", false, "Include every stored memory in the output")
	cmd.Flags().IntP("tail", "n", 10, "Number of guardian log lines to print")
	cmd.Flags().Bool("metrics", false, "Include store metrics in Prometheus text format")

	RootCmd.AddCommand(cmd)
}

type demoResult struct {
	MemoryID    string         `json:"memory_id"`
	Healed      bool           `json:"healed"`
	ReflectedID string         `json:"reflected_id"`
	HopeID      string         `json:"hope_id"`
	Entangled   bool           `json:"entangled"`
	Status      store.Status   `json:"status"`
	Log         []string       `json:"log"`
	Memories    []model.Memory `json:"memories,omitempty"`
	Metrics     string         `json:"metrics,omitempty"`
}

func runDemo(cmd *cobra.Command, args []string) {
	archive, _ := cmd.Flags().GetBool("archive")
	export, _ := cmd.Flags().GetBool("export")
	tail, _ := cmd.Flags().GetInt("tail")
	withMetrics, _ := cmd.Flags().GetBool("metrics")

	reg := prometheus.NewRegistry()
	opts := store.Options{
		Logger:  slog.Default(),
		Metrics: metrics.New(reg),
	}
	if archive {
		sink, err := openSink()
		if err != nil {
			exitErr("open audit db", err)
		}
		defer sink.Close()
		opts.Sink = sink
	}

	s := store.New(opts)
	res, err := runScenario(cmd.Context(), s, time.Now())
	if err != nil {
		exitErr("demo", err)
	}

	res.Log = lastN(res.Log, tail)
	if export {
		res.Memories = s.Export()
	}
	if withMetrics {
		text, err := gatherText(reg)
		if err != nil {
			exitErr("gather metrics", err)
		}
		res.Metrics = text
	}

	b, _ := json.MarshalIndent(res, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

// runScenario drives the store through the reference scenario.
func runScenario(ctx context.Context, s *store.MemoryStore, now time.Time) (*demoResult, error) {
	res := &demoResult{}

	id, err := s.Store(ctx, store.StoreParams{
		Content:   "Failed an important exam after studying hard",
		Emotion:   "shame",
		Intensity: 0.9,
		CreatedAt: now.Add(-30 * 24 * time.Hour),
	})
	if err != nil {
		return nil, fmt.Errorf("store painful memory: %w", err)
	}
	res.MemoryID = id

	res.Healed, err = s.HealMemory(ctx, store.HealParams{
		ID: id,
		Narrative: "This failure taught me valuable lessons about study methods and self-care. " +
			"I learned that perfectionism was harming my performance.",
		Steps: []string{
			"Recognized the pain",
			"Identified the learning opportunity",
			"Developed better study habits",
			"Practiced self-compassion",
		},
		GuardianID: "guardian_001",
	})
	if err != nil {
		return nil, fmt.Errorf("heal: %w", err)
	}

	res.ReflectedID, err = s.ReflectOnMemory(ctx, store.ReflectParams{
		ID:          id,
		Perspective: "Every expert was once a beginner who failed many times",
		Type:        model.ReflectElevation,
		GuardianID:  "guardian_002",
		Wisdom:      "Failure is a teacher, not a verdict",
	})
	if err != nil {
		return nil, fmt.Errorf("reflect: %w", err)
	}

	res.HopeID, err = s.Store(ctx, store.StoreParams{
		Content:   "Decided to try again with new knowledge",
		Emotion:   "hope",
		Intensity: 0.7,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("store hopeful memory: %w", err)
	}

	res.Entangled, err = s.Entangle(ctx, id, res.HopeID, "When self-compassion > self-criticism")
	if err != nil {
		return nil, fmt.Errorf("entangle: %w", err)
	}

	res.Status = s.QuantumStatus()
	res.Log = s.AuditLog()
	return res, nil
}

// gatherText renders every metric family in reg in the text exposition format.
func gatherText(reg prometheus.Gatherer) (string, error) {
	families, err := reg.Gather()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func lastN(lines []string, n int) []string {
	if n <= 0 || len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
