package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug        = "debug"
	ConfigConfigFile   = "config"
	ConfigStrategy     = "strategy"
	ConfigBoardWidth   = "board-width"
	ConfigBoardHeight  = "board-height"
	ConfigThreads      = "threads"
	ConfigOutputFormat = "output-format"
	ConfigCPUProfile   = "cpu-profile"
	ConfigMemProfile   = "mem-profile"

	ConfigMinimaxDepth                = "minimax.depth"
	ConfigMinimaxMaxCandidates        = "minimax.max-candidates"
	ConfigMinimaxTTable               = "minimax.ttable"
	ConfigMinimaxTTableMemoryFraction = "minimax.ttable-memory-fraction"

	ConfigMctsIterations        = "mcts.iterations"
	ConfigMctsTimeBudget        = "mcts.time-budget"
	ConfigMctsExploration       = "mcts.exploration"
	ConfigMctsSimulation        = "mcts.simulation"
	ConfigMctsMaxRolloutPlies   = "mcts.max-rollout-plies"
	ConfigMctsRandomRollouts    = "mcts.random-rollouts"
	ConfigMctsReuseTree         = "mcts.reuse-tree"
	ConfigMctsStoppingCondition = "mcts.stopping-condition"
	ConfigMctsStopCheckInterval = "mcts.stop-check-interval"
)

const envPrefix = "GOMOKU"

var ErrBadOutputFormat = errors.New("output format must be json or yaml")

// Config is the layered configuration: defaults, then an optional YAML
// file, then GOMOKU_* environment variables, then command-line flags.
type Config struct {
	*viper.Viper
	flags *pflag.FlagSet
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigStrategy, "minimax")
	v.SetDefault(ConfigBoardWidth, 15)
	v.SetDefault(ConfigBoardHeight, 15)
	v.SetDefault(ConfigThreads, 1)
	v.SetDefault(ConfigOutputFormat, "json")
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")

	v.SetDefault(ConfigMinimaxDepth, 4)
	v.SetDefault(ConfigMinimaxMaxCandidates, 0)
	v.SetDefault(ConfigMinimaxTTable, true)
	v.SetDefault(ConfigMinimaxTTableMemoryFraction, 0.01)

	v.SetDefault(ConfigMctsIterations, 5000)
	v.SetDefault(ConfigMctsTimeBudget, time.Duration(0))
	v.SetDefault(ConfigMctsExploration, 0.7)
	v.SetDefault(ConfigMctsSimulation, "rollout")
	v.SetDefault(ConfigMctsMaxRolloutPlies, 60)
	v.SetDefault(ConfigMctsRandomRollouts, false)
	v.SetDefault(ConfigMctsReuseTree, false)
	v.SetDefault(ConfigMctsStoppingCondition, "none")
	v.SetDefault(ConfigMctsStopCheckInterval, 500)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfig has every default and picks up environment overrides, but
// reads no file and no flags.
func DefaultConfig() Config {
	return Config{Viper: newViper()}
}

// Flags returns a flag set with one flag per setting. Nested keys keep
// their dotted names, e.g. --minimax.depth.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gomoku", pflag.ContinueOnError)
	fs.String(ConfigConfigFile, "", "optional YAML config file")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.String(ConfigStrategy, "minimax", "search strategy: minimax or monte")
	fs.Int(ConfigBoardWidth, 15, "board width")
	fs.Int(ConfigBoardHeight, 15, "board height")
	fs.Int(ConfigThreads, 1, "worker goroutines for batch solving")
	fs.String(ConfigOutputFormat, "json", "json or yaml")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a heap profile to this file on exit")

	fs.Int(ConfigMinimaxDepth, 4, "minimax search depth in plies")
	fs.Int(ConfigMinimaxMaxCandidates, 0, "only search the best N candidates per ply (0 = all)")
	fs.Bool(ConfigMinimaxTTable, true, "use a transposition table")
	fs.Float64(ConfigMinimaxTTableMemoryFraction, 0.01, "fraction of system memory for the transposition table")

	fs.Int(ConfigMctsIterations, 5000, "MCTS iteration budget (0 = no iterations)")
	fs.Duration(ConfigMctsTimeBudget, 0, "MCTS wall-clock budget (0 = none)")
	fs.Float64(ConfigMctsExploration, 0.7, "UCB1 exploration constant")
	fs.String(ConfigMctsSimulation, "rollout", "rollout or heuristic")
	fs.Int(ConfigMctsMaxRolloutPlies, 60, "rollout length cap; longer games are draws")
	fs.Bool(ConfigMctsRandomRollouts, false, "break rollout ties at random")
	fs.Bool(ConfigMctsReuseTree, false, "keep the tree between searches")
	fs.String(ConfigMctsStoppingCondition, "none", "none, 95, 98 or 99")
	fs.Int(ConfigMctsStopCheckInterval, 500, "iterations between stopping checks")
	return fs
}

// Load parses args, reads the config file if one was named and binds
// everything into c. Positional arguments are left in Args.
func (c *Config) Load(args []string) error {
	v := newViper()
	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	if cf := v.GetString(ConfigConfigFile); cf != "" {
		v.SetConfigFile(cf)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	c.Viper = v
	c.flags = fs
	c.Set("args", fs.Args())
	return c.Validate()
}

// Args returns the positional arguments left over by Load.
func (c *Config) Args() []string {
	return c.GetStringSlice("args")
}

// FlagChanged reports whether key was given on the command line.
func (c *Config) FlagChanged(key string) bool {
	return c.flags != nil && c.flags.Changed(key)
}

// Validate checks the settings that have a closed set of values.
func (c *Config) Validate() error {
	switch c.GetString(ConfigOutputFormat) {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: %q", ErrBadOutputFormat, c.GetString(ConfigOutputFormat))
	}
	if c.GetInt(ConfigMinimaxDepth) < 1 {
		return fmt.Errorf("%s must be at least 1", ConfigMinimaxDepth)
	}
	return nil
}
