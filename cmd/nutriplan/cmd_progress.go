package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/progress"
	"nutriplan/internal/types"
)

func newProgressCmd(o *options) *cobra.Command {
	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Log and review body-metric progress",
	}

	var (
		date, performance, notes string
		weight, waist            float64
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a progress entry",
		Example: `  nutriplan progress add --weight 78.2 --waist 84 --workout good
  nutriplan progress add --date 2024-05-17 --weight 78.0 --notes "felt strong"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := progress.Input{
				Date:               date,
				Weight:             weight,
				WorkoutPerformance: performance,
				Notes:              notes,
			}
			if in.Date == "" {
				in.Date = time.Now().Format(types.DateLayout)
			}
			if cmd.Flags().Changed("waist") {
				in.Waist = &waist
			}
			return o.addProgress(cmd, in)
		},
	}
	addCmd.Flags().StringVar(&date, "date", "", "Entry date as YYYY-MM-DD (default: today)")
	addCmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kg")
	addCmd.Flags().Float64Var(&waist, "waist", 0, "Waist in cm")
	addCmd.Flags().StringVar(&performance, "workout", "", "Excellent, Good, Average, Tired or Rest")
	addCmd.Flags().StringVar(&notes, "notes", "", "Free-text notes")
	_ = addCmd.MarkFlagRequired("weight")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show progress history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.listProgress(cmd)
		},
	}

	progressCmd.AddCommand(addCmd, listCmd)
	return progressCmd
}

func (o *options) addProgress(cmd *cobra.Command, in progress.Input) error {
	ctx, cancel := signalContext()
	defer cancel()
	a, kv, err := o.loadApp(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	entry, err := a.AddProgress(in)
	if err != nil {
		return err
	}
	if err := a.PersistErr(); err != nil {
		return fmt.Errorf("entry not saved: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged %.1f kg on %s\n", entry.Weight, entry.Date)
	return nil
}

func (o *options) listProgress(cmd *cobra.Command) error {
	ctx, cancel := signalContext()
	defer cancel()
	a, kv, err := o.loadApp(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	log := a.Progress()
	summary := log.Summary()
	if summary.Count == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No progress entries.")
		return nil
	}
	styles := ui.NewStyles(ui.DetectTheme(o.cfg.UI.DarkMode))

	if summary.Chartable() {
		var weights []float64
		for e := range log.Chronological() {
			weights = append(weights, e.Weight)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.WeightChart(styles, weights))
		fmt.Fprintf(cmd.OutOrStdout(), "%s to %s: %+.1f kg over %d entries\n\n",
			summary.FirstDate, summary.LastDate, summary.Delta(), summary.Count)
	}

	table := ui.NewSimpleTable("", []string{"Date", "Weight", "Waist", "Workout", "Notes"})
	for e := range log.NewestFirst() {
		waist := "-"
		if e.Waist != nil {
			waist = fmt.Sprintf("%.1f", *e.Waist)
		}
		perf := string(e.WorkoutPerformance)
		if perf == "" {
			perf = "-"
		}
		table.AddRow(e.Date, fmt.Sprintf("%.1f", e.Weight), waist, perf, e.Notes)
	}
	fmt.Fprint(cmd.OutOrStdout(), table.View(styles))
	return nil
}
