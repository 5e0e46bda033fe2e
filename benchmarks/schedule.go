package benchmarks

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/zeu5/smartcab-rl/config"
	"github.com/zeu5/smartcab-rl/policies"
	"github.com/zeu5/smartcab-rl/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FirstTestingTrial is the first trial whose epsilon, computed at its reset,
// falls below the tolerance. Returns false if that does not happen within limit trials
func FirstTestingTrial(schedule policies.Schedule, tolerance float64, limit int) (int, bool) {
	for trial := 1; trial <= limit; trial++ {
		if schedule.Epsilon(trial-1) < tolerance {
			return trial, true
		}
	}
	return 0, false
}

// PrintSchedule writes the epsilon of every step-th trial
func PrintSchedule(w io.Writer, schedule policies.Schedule, trials, step int) {
	if step < 1 {
		step = 1
	}
	for trial := 1; trial <= trials; trial += step {
		fmt.Fprintf(w, "trial %*d  epsilon %.6g\n", 5, trial, schedule.Epsilon(trial-1))
	}
}

func plotSchedule(schedule policies.Schedule, trials int, plotPath string) error {
	points := make(plotter.XYs, trials)
	for i := range points {
		points[i] = plotter.XY{X: float64(i + 1), Y: schedule.Epsilon(i)}
	}
	p := plot.New()
	p.Title.Text = "Exploration schedule"
	p.X.Label.Text = "Trial"
	p.Y.Label.Text = "Epsilon"
	line, err := plotter.NewLine(points)
	if err != nil {
		return errors.Wrap(err, "plotting schedule")
	}
	p.Add(line)
	if err := util.EnsureDir(path.Dir(plotPath)); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, plotPath)
}

func ScheduleCommand() *cobra.Command {
	var trials int
	var step int
	var baseline bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print and plot the epsilon curve of the configured schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			base := config.Default
			if baseline {
				base = config.DefaultBaseline
			}
			cfg, err := loadConfig(cmd, base)
			if err != nil {
				return err
			}
			schedule, err := cfg.BuildSchedule()
			if err != nil {
				return err
			}

			PrintSchedule(os.Stdout, schedule, trials, step)
			if trial, ok := FirstTestingTrial(schedule, cfg.Simulation.Tolerance, cfg.Simulation.MaxTrainingTrials); ok {
				fmt.Printf("testing starts at trial %d (tolerance %g, minimum %d training trials)\n",
					trial, cfg.Simulation.Tolerance, cfg.Simulation.MinTrainingTrials)
			} else {
				fmt.Printf("epsilon stays above the tolerance %g for %d trials\n",
					cfg.Simulation.Tolerance, cfg.Simulation.MaxTrainingTrials)
			}

			if cfg.Output.Plots {
				return plotSchedule(schedule, trials, path.Join(cfg.Output.SavePath, "plots", "schedule.png"))
			}
			return nil
		},
	}
	cmd.PersistentFlags().IntVar(&trials, "trials", 300, "Number of trials to print and plot")
	cmd.PersistentFlags().IntVar(&step, "step", 10, "Print every step-th trial")
	cmd.PersistentFlags().BoolVar(&baseline, "baseline", false, "Use the unoptimized defaults instead of the optimized ones")
	return cmd
}
