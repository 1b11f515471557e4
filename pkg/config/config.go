// Package config loads the analysis settings from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. EXAMSCORE_MODEL_SEED.
const EnvPrefix = "EXAMSCORE"

// Config is the full set of knobs the report reads.
type Config struct {
	Input    Input    `mapstructure:"input" yaml:"input"`
	Columns  Columns  `mapstructure:"columns" yaml:"columns"`
	Encoding Encoding `mapstructure:"encoding" yaml:"encoding"`
	Model    Model    `mapstructure:"model" yaml:"model"`
	Plots    Plots    `mapstructure:"plots" yaml:"plots"`
	HeadRows int      `mapstructure:"head_rows" yaml:"head_rows"`
	LogLevel string   `mapstructure:"log_level" yaml:"log_level"`
}

type Input struct {
	Path      string `mapstructure:"path" yaml:"path"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Columns names the role of each column.
type Columns struct {
	Target  string   `mapstructure:"target" yaml:"target"`
	Impute  []string `mapstructure:"impute" yaml:"impute"`
	Ordinal []string `mapstructure:"ordinal" yaml:"ordinal"`
	Nominal []string `mapstructure:"nominal" yaml:"nominal"`
}

type Encoding struct {
	// SharedUniverse fits the encoder once on the raw table and reuses it
	// for the clean table.
	SharedUniverse bool `mapstructure:"shared_universe" yaml:"shared_universe"`
}

type Model struct {
	TestRatio   float64 `mapstructure:"test_ratio" yaml:"test_ratio"`
	Seed        int64   `mapstructure:"seed" yaml:"seed"`
	RidgeAlpha  float64 `mapstructure:"ridge_alpha" yaml:"ridge_alpha"`
	LassoAlpha  float64 `mapstructure:"lasso_alpha" yaml:"lasso_alpha"`
	ForestTrees int     `mapstructure:"forest_trees" yaml:"forest_trees"`
	StackFolds  int     `mapstructure:"stack_folds" yaml:"stack_folds"`
}

type Plots struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	Dir     string   `mapstructure:"dir" yaml:"dir"`
	Scatter []string `mapstructure:"scatter" yaml:"scatter"` // "x:y" pairs
}

// ScatterPairs parses Scatter into (x, y) column pairs.
func (p Plots) ScatterPairs() ([][2]string, error) {
	out := make([][2]string, 0, len(p.Scatter))
	for _, s := range p.Scatter {
		x, y, ok := strings.Cut(s, ":")
		if !ok || x == "" || y == "" {
			return nil, fmt.Errorf("invalid scatter pair %q (want x:y)", s)
		}
		out = append(out, [2]string{x, y})
	}
	return out, nil
}

// DelimiterRune returns the configured field separator, ',' when unset.
func (in Input) DelimiterRune() (rune, error) {
	switch d := []rune(in.Delimiter); len(d) {
	case 0:
		return ',', nil
	case 1:
		return d[0], nil
	default:
		if in.Delimiter == `\t` {
			return '\t', nil
		}
		return 0, fmt.Errorf("invalid delimiter %q: want a single character", in.Delimiter)
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Columns.Target == "" {
		return fmt.Errorf("columns.target must be set")
	}
	if c.Model.TestRatio <= 0 || c.Model.TestRatio >= 1 {
		return fmt.Errorf("model.test_ratio must be in (0, 1), got %v", c.Model.TestRatio)
	}
	if c.Model.ForestTrees < 1 {
		return fmt.Errorf("model.forest_trees must be positive, got %d", c.Model.ForestTrees)
	}
	if c.Model.StackFolds < 2 {
		return fmt.Errorf("model.stack_folds must be at least 2, got %d", c.Model.StackFolds)
	}
	if c.Model.RidgeAlpha <= 0 {
		return fmt.Errorf("model.ridge_alpha must be positive, got %v", c.Model.RidgeAlpha)
	}
	if c.Model.LassoAlpha < 0 {
		return fmt.Errorf("model.lasso_alpha must be non-negative, got %v", c.Model.LassoAlpha)
	}
	if _, err := c.Input.DelimiterRune(); err != nil {
		return err
	}
	_, err := c.Plots.ScatterPairs()
	return err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "StudentPerformanceFactors.csv")
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("columns.target", "Exam_Score")
	v.SetDefault("columns.impute", []string{"Parental_Education_Level", "Distance_from_Home", "Teacher_Quality"})
	v.SetDefault("columns.ordinal", []string{
		"Parental_Involvement", "Access_to_Resources", "Motivation_Level", "Family_Income",
		"Teacher_Quality", "Parental_Education_Level", "Distance_from_Home",
	})
	v.SetDefault("columns.nominal", []string{
		"Extracurricular_Activities", "Internet_Access", "School_Type",
		"Peer_Influence", "Learning_Disabilities", "Gender",
	})
	v.SetDefault("encoding.shared_universe", false)
	v.SetDefault("model.test_ratio", 0.25)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.ridge_alpha", 1.0)
	v.SetDefault("model.lasso_alpha", 0.1)
	v.SetDefault("model.forest_trees", 100)
	v.SetDefault("model.stack_folds", 5)
	v.SetDefault("plots.enabled", true)
	v.SetDefault("plots.dir", "plots")
	v.SetDefault("plots.scatter", []string{"Hours_Studied:Exam_Score", "Attendance:Exam_Score"})
	v.SetDefault("head_rows", 5)
	v.SetDefault("log_level", "warn")
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; flags are applied by the caller.
// Without cfgFile it looks for ./examscore.yaml, then ~/.examscore/config.yaml.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.SetConfigName("examscore")
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
		case !errors.As(err, &notFound):
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if path, ok := homeConfig(); ok {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return nil, fmt.Errorf("read config %s: %w", path, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// homeConfig reports ~/.examscore/config.yaml when it exists.
func homeConfig() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(home, ".examscore", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Save writes c as YAML to path. An empty path writes
// ~/.examscore/config.yaml, creating the directory if necessary.
func Save(c *Config, path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".examscore")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
