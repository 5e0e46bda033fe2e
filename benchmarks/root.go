package benchmarks

import (
	"os"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
	"github.com/zeu5/smartcab-rl/config"
	"github.com/zeu5/smartcab-rl/util"
)

var (
	configPath string
	saveFile   string
	runs       int
	seed       uint64
	logLevel   string
	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "smartcab",
		Short:        "Train and evaluate Q-learning driving agents in a grid world",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file, defaults apply when empty")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed of the world and the agent, 0 seeds from the clock")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a heap profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(ScheduleCommand())
	return rootCommand
}

// loadConfig reads the configuration file (or the defaults) and applies the
// persistent flags that were explicitly set
func loadConfig(cmd *cobra.Command, base func() *config.Config) (*config.Config, error) {
	cfg := base()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("save") {
		cfg.Output.SavePath = saveFile
	}
	if flags.Changed("runs") {
		cfg.Simulation.Runs = runs
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.Output.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (log.Logger, error) {
	return util.NewLogger(cfg.Output.LogLevel, os.Stderr)
}
