package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STABLAB_TAU0 or
// STABLAB_LOGGING_LEVEL.
const EnvPrefix = "STABLAB"

// flagKeys maps flag names that differ from their configuration key.
var flagKeys = map[string]string{
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// Load loads configuration from configPath, or from stablab.yaml in the
// default locations when configPath is empty. Variables from envFiles
// (default ".env") are added to the environment first without overriding
// it. Changed flags in flags take precedence over everything else.
func Load(configPath string, flags *pflag.FlagSet, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("stablab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return parseConfig(v)
}

// LoadDotEnv loads each existing file into the process environment.
// Missing files are ignored; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("tau0", d.Tau0)
	v.SetDefault("scale", d.Scale)
	v.SetDefault("column", d.Column)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("confidence", d.Confidence)
	v.SetDefault("ci_method", d.CIMethod)
	v.SetDefault("estimators", d.Estimators)
	v.SetDefault("factors", []int{})
	v.SetDefault("noise_id", d.NoiseID)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("output", d.Output)
	v.SetDefault("workbook", d.Workbook)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// bindFlags binds every flag to the key of the same name with dashes
// replaced by underscores, unless flagKeys says otherwise.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
