package benchmarks

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/smartcab-rl/config"
	"github.com/zeu5/smartcab-rl/types"
)

// Compare runs the baseline agent (linear decay, alpha 0.5, tolerance 0.05)
// against the optimized one (Gompertz decay, alpha 0.2). World, simulation
// and output settings of cfg apply to both
func Compare(ctx context.Context, cfg *config.Config) ([]*types.ExperimentResult, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	stop, err := startProfiling(cfg.Output.SavePath, logger)
	if err != nil {
		return nil, err
	}
	defer stop()

	baseline := config.DefaultBaseline()
	baseline.World = cfg.World
	baseline.Output = cfg.Output
	baseline.Simulation.Runs = cfg.Simulation.Runs
	baseline.Simulation.Seed = cfg.Simulation.Seed
	baseline.Simulation.TestTrials = cfg.Simulation.TestTrials

	results, err := runComparison(ctx, cfg, logger,
		SmartcabExperiment("default", baseline),
		SmartcabExperiment("optimized", cfg),
	)
	if err != nil {
		return nil, err
	}
	logResults(logger, results)
	return results, nil
}

func CompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare the default and the optimized agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, config.Default)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			_, err = Compare(ctx, cfg)
			return err
		},
	}
}
