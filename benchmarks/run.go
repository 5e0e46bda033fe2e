package benchmarks

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/zeu5/smartcab-rl/config"
)

// Run trains and tests a single agent configured by cfg
func Run(ctx context.Context, cfg *config.Config, name string, linger bool) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	stop, err := startProfiling(cfg.Output.SavePath, logger)
	if err != nil {
		return err
	}
	defer stop()

	results, err := runComparison(ctx, cfg, logger, SmartcabExperiment(name, cfg))
	if err != nil {
		return err
	}
	logResults(logger, results)

	if linger && cfg.Output.Serve != "" {
		level.Info(logger).Log("msg", "run finished, monitor keeps serving until interrupted", "addr", cfg.Output.Serve)
		<-ctx.Done()
	}
	return nil
}

func RunCommand() *cobra.Command {
	var name string
	var serve string
	var redisAddr string
	var baseline bool
	var linger bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train an agent until epsilon drops below the tolerance and test it",
		RunE: func(cmd *cobra.Command, args []string) error {
			base := config.Default
			if baseline {
				base = config.DefaultBaseline
			}
			cfg, err := loadConfig(cmd, base)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("serve") {
				cfg.Output.Serve = serve
			}
			if cmd.Flags().Changed("redis") {
				cfg.Output.Redis.Addr = redisAddr
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return Run(ctx, cfg, name, linger)
		},
	}
	cmd.PersistentFlags().StringVar(&name, "name", "optimized", "Name of the experiment in the results")
	cmd.PersistentFlags().StringVar(&serve, "serve", "", "Serve the live monitor on this address, e.g. localhost:8080")
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Stream trial records to the redis server at this address")
	cmd.PersistentFlags().BoolVar(&baseline, "baseline", false, "Start from the unoptimized defaults instead of the optimized ones")
	cmd.PersistentFlags().BoolVar(&linger, "linger", false, "Keep the monitor serving after the run finished")
	return cmd
}
