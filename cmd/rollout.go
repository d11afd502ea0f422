package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/TumiLabsJN/RumiAIv3/internal/config"
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Inspect or update the temporal marker rollout configuration",
}

var rolloutStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current rollout state",
	Args:  cobra.NoArgs,
	RunE:  runRolloutStatus,
}

var rolloutSetCmd = &cobra.Command{
	Use:   "set <percentage>",
	Short: "Update the rollout percentage",
	Long: `Set updates the percentage of videos that receive temporal markers.
Decreases always apply immediately. Increases are held back for 24 hours
after the previous change unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRolloutSet,
}

var (
	rolloutConfigPath string
	rolloutEnable     bool
	rolloutDisable    bool
	rolloutForce      bool
)

// rolloutChange is one entry in the append-only rollout history.
type rolloutChange struct {
	Timestamp string  `json:"timestamp"`
	From      float64 `json:"from_percentage"`
	To        float64 `json:"to_percentage"`
	Reason    string  `json:"reason"`
}

const rolloutCoolDown = 24 * time.Hour

func init() {
	rolloutCmd.PersistentFlags().StringVarP(&rolloutConfigPath, "config", "c", filepath.Join("config", "temporal_markers.json"), "rollout config path")
	rolloutSetCmd.Flags().BoolVar(&rolloutEnable, "enable", false, "enable temporal markers")
	rolloutSetCmd.Flags().BoolVar(&rolloutDisable, "disable", false, "disable temporal markers")
	rolloutSetCmd.Flags().BoolVar(&rolloutForce, "force", false, "override the increase cool-down")

	rolloutCmd.AddCommand(rolloutStatusCmd)
	rolloutCmd.AddCommand(rolloutSetCmd)
	rootCmd.AddCommand(rolloutCmd)
}

func runRolloutStatus(cmd *cobra.Command, args []string) error {
	rollout, err := config.LoadRollout(rolloutConfigPath)
	if err != nil {
		return err
	}
	history, err := loadRolloutHistory()
	if err != nil {
		return err
	}

	fmt.Printf("enabled:     %t\n", rollout.Enabled)
	fmt.Printf("percentage:  %.1f\n", rollout.Percentage)
	if len(history) > 0 {
		fmt.Printf("last change: %s\n", history[len(history)-1].Timestamp)
	}
	fmt.Printf("changes:     %d\n", len(history))
	return nil
}

func runRolloutSet(cmd *cobra.Command, args []string) error {
	pct, err := strconv.ParseFloat(args[0], 64)
	if err != nil || pct < 0 || pct > 100 {
		return fmt.Errorf("percentage must be a number between 0 and 100")
	}
	if rolloutEnable && rolloutDisable {
		return fmt.Errorf("--enable and --disable are mutually exclusive")
	}

	rollout, err := config.LoadRollout(rolloutConfigPath)
	if err != nil {
		return err
	}
	history, err := loadRolloutHistory()
	if err != nil {
		return err
	}

	reason := "manual decrease"
	if pct > rollout.Percentage {
		reason = "manual increase"
		if len(history) > 0 && !rolloutForce {
			last, err := time.Parse(time.RFC3339, history[len(history)-1].Timestamp)
			if err == nil {
				if since := time.Since(last); since < rolloutCoolDown {
					return fmt.Errorf("only %.1f hours since last change (min %.0f); use --force to override",
						since.Hours(), rolloutCoolDown.Hours())
				}
			}
		}
		if rolloutForce {
			reason += " (forced)"
		}
	}

	change := rolloutChange{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		From:      rollout.Percentage,
		To:        pct,
		Reason:    reason,
	}

	rollout.Percentage = pct
	if rolloutEnable {
		rollout.Enabled = true
	}
	if rolloutDisable {
		rollout.Enabled = false
	}

	if err := rollout.Save(rolloutConfigPath); err != nil {
		return err
	}
	if err := saveRolloutHistory(append(history, change)); err != nil {
		return err
	}

	fmt.Printf("rollout updated: %.1f%% -> %.1f%% (enabled: %t)\n", change.From, change.To, rollout.Enabled)
	return nil
}

func rolloutHistoryPath() string {
	return filepath.Join(filepath.Dir(rolloutConfigPath), "rollout_history.json")
}

func loadRolloutHistory() ([]rolloutChange, error) {
	data, err := os.ReadFile(rolloutHistoryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rollout history: %w", err)
	}
	var history []rolloutChange
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse rollout history: %w", err)
	}
	return history, nil
}

func saveRolloutHistory(history []rolloutChange) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rollout history: %w", err)
	}
	if err := os.WriteFile(rolloutHistoryPath(), data, 0o644); err != nil {
		return fmt.Errorf("write rollout history: %w", err)
	}
	return nil
}
