package cli

import (
	"fmt"
	"os"

	"github.com/bhi5hmaraj/anchorage/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Anchorage configuration",
	Long: `Manage Anchorage configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (ANCHORAGE_*)
3. Config file (~/.anchorage/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		raw, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Println(string(raw))

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		configDir := home + "/.anchorage"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}

		raw, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		if err := os.WriteFile(configPath, raw, 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("Wrote %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// buildConfig assembles the effective configuration from defaults plus
// any config-file or environment overrides viper has picked up.
// Commands layer their own flags on top of the result.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetDuration("http.timeout"); v > 0 {
		cfg.HTTP.Timeout = v
	}
	if v := viper.GetString("http.user_agent"); v != "" {
		cfg.HTTP.UserAgent = v
	}
	if v := viper.GetInt64("http.max_body_bytes"); v > 0 {
		cfg.HTTP.MaxBodyBytes = v
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := viper.GetInt("anchor.context_length"); v > 0 {
		cfg.Anchor.ContextLength = v
	}
	if v := viper.GetFloat64("anchor.fuzzy_threshold"); v > 0 {
		cfg.Anchor.FuzzyThreshold = v
	}
	if v := viper.GetInt("anchor.max_radius"); v > 0 {
		cfg.Anchor.MaxRadius = v
	}
	if v := viper.GetInt("concurrency.resolve_workers"); v > 0 {
		cfg.Concurrency.ResolveWorkers = v
	}
	if v := viper.GetInt("concurrency.fetch_workers"); v > 0 {
		cfg.Concurrency.FetchWorkers = v
	}
	if v := viper.GetFloat64("concurrency.fetch_rate"); v > 0 {
		cfg.Concurrency.FetchRate = v
	}

	cfg.Output.Verbose = verbose
	return cfg
}
