package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/profile"
)

type generateFlags struct {
	planName string
	name     string
	age      string
	gender   string
	height   string
	weight   string
	goal     string
	workouts []string
	show     bool
}

func newGenerateCmd(o *options) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and save a weekly plan",
		Long: `Generates a seven-day plan from the profile flags and saves it.

Workout days are given as --workout Day[=HH:mm] (time defaults to 18:00).

Example:
  nutriplan generate --name Alex --age 32 --height 175 --weight 78.5 \
    --goal tone --workout monday=18:00 --workout wednesday=07:30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runGenerate(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.planName, "plan-name", "", "Plan name (default: Plan <date>)")
	cmd.Flags().StringVar(&f.name, "name", "", "Your name")
	cmd.Flags().StringVar(&f.age, "age", "", "Age in years")
	cmd.Flags().StringVar(&f.gender, "gender", "Male", "Male, Female or Other")
	cmd.Flags().StringVar(&f.height, "height", "", "Height in cm")
	cmd.Flags().StringVar(&f.weight, "weight", "", "Weight in kg")
	cmd.Flags().StringVar(&f.goal, "goal", "Muscle-gain", "Muscle-gain or Tone")
	cmd.Flags().StringArrayVar(&f.workouts, "workout", nil, "Training day as Day[=HH:mm] (repeatable)")
	cmd.Flags().BoolVar(&f.show, "show", false, "Print the generated plan")
	return cmd
}

// builder turns the flags into a profile.Builder.
func (f *generateFlags) builder() (*profile.Builder, error) {
	b := profile.NewBuilder()
	b.PlanName = f.planName
	b.Name = f.name
	b.Age = f.age
	b.Gender = f.gender
	b.Height = f.height
	b.Weight = f.weight
	b.Goal = f.goal
	for _, w := range f.workouts {
		day, hhmm, hasTime := strings.Cut(w, "=")
		if err := b.SetWorkout(day, true); err != nil {
			return nil, err
		}
		if hasTime {
			if err := b.SetWorkoutTime(day, hhmm); err != nil {
				return nil, fmt.Errorf("%s: %w", day, err)
			}
		}
	}
	return b, nil
}

func (o *options) runGenerate(cmd *cobra.Command, f *generateFlags) error {
	ctx, cancel := signalContext()
	defer cancel()

	b, err := f.builder()
	if err != nil {
		return err
	}
	// Validate before touching the store or the network.
	if _, err := b.Build(); err != nil {
		return err
	}
	gen, err := o.generator(ctx)
	if err != nil {
		return err
	}
	a, kv, err := o.loadApp(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Generating plan...")
	sp, err := a.Generate(ctx, gen, b)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if err := a.PersistErr(); err != nil {
		return fmt.Errorf("plan generated but not saved: %w", err)
	}
	o.logger.Info("Plan saved", zap.String("id", sp.ID), zap.String("name", sp.Name))
	fmt.Fprintf(cmd.OutOrStdout(), "Saved plan %q (%s)\n", sp.Name, sp.ID)

	if f.show {
		r, _ := ui.NewRenderer(ui.DetectTheme(o.cfg.UI.DarkMode), 100)
		fmt.Fprint(cmd.OutOrStdout(), r.Render(ui.PlanMarkdown(sp.Profile, sp.Plan)))
	}
	return nil
}
