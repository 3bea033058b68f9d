package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/catalog"
	"nutriplan/internal/types"
)

func newPlansCmd(o *options) *cobra.Command {
	plansCmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage saved plans",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved plans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.listPlans(cmd)
		},
	}

	var raw bool
	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.showPlan(cmd, args[0], raw)
		},
	}
	showCmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved plan",
		Long:  "Deletes a saved plan permanently. Deletion requires --yes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.deletePlan(cmd, args[0], yes)
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")

	var format, output string
	exportCmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a saved plan as markdown or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.exportPlan(cmd, args[0], format, output)
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "markdown", "markdown or json")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	plansCmd.AddCommand(listCmd, showCmd, deleteCmd, exportCmd)
	return plansCmd
}

// findPlan loads the catalog and returns the plan with id.
func (o *options) findPlan(id string) (types.SavedPlan, error) {
	ctx, cancel := signalContext()
	defer cancel()
	a, kv, err := o.loadApp(ctx)
	if err != nil {
		return types.SavedPlan{}, err
	}
	defer kv.Close()
	sp, ok := a.Catalog().Get(id)
	if !ok {
		return types.SavedPlan{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return sp, nil
}

func (o *options) listPlans(cmd *cobra.Command) error {
	ctx, cancel := signalContext()
	defer cancel()
	a, kv, err := o.loadApp(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	if a.Catalog().Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved plans.")
		return nil
	}
	table := ui.NewSimpleTable("", []string{"ID", "Name", "Created", "Goal"})
	for sp := range a.Catalog().NewestFirst() {
		table.AddRow(sp.ID, sp.Name, sp.CreatedAt.Local().Format("2006-01-02 15:04"), string(sp.Profile.Goal))
	}
	fmt.Fprint(cmd.OutOrStdout(), table.View(ui.NewStyles(ui.DetectTheme(o.cfg.UI.DarkMode))))
	return nil
}

func (o *options) showPlan(cmd *cobra.Command, id string, raw bool) error {
	sp, err := o.findPlan(id)
	if err != nil {
		return err
	}
	md := ui.PlanMarkdown(sp.Profile, sp.Plan)
	if raw {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}
	r, err := ui.NewRenderer(ui.DetectTheme(o.cfg.UI.DarkMode), 100)
	if err != nil {
		o.logger.Debug("Falling back to raw markdown", zap.Error(err))
	}
	fmt.Fprint(cmd.OutOrStdout(), r.Render(md))
	return nil
}

func (o *options) deletePlan(cmd *cobra.Command, id string, yes bool) error {
	ctx, cancel := signalContext()
	defer cancel()
	a, kv, err := o.loadApp(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	if err := a.RequestDeletePlan(id); err != nil {
		return err
	}
	if !yes {
		a.CancelDeletePlan()
		pending, _ := a.Catalog().Get(id)
		return fmt.Errorf("refusing to delete %q without --yes", pending.Name)
	}
	removed, err := a.ConfirmDeletePlan()
	if err != nil {
		return err
	}
	if err := a.PersistErr(); err != nil {
		return fmt.Errorf("delete not saved: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%s)\n", removed.Name, removed.ID)
	return nil
}

func (o *options) exportPlan(cmd *cobra.Command, id, format, output string) error {
	sp, err := o.findPlan(id)
	if err != nil {
		return err
	}
	var data []byte
	switch format {
	case "markdown", "md":
		data = []byte(ui.PlanMarkdown(sp.Profile, sp.Plan))
	case "json":
		if data, err = json.MarshalIndent(sp, "", "  "); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		data = append(data, '\n')
	default:
		return errors.New("format must be markdown or json")
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", sp.Name, output)
	return nil
}
