package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "BUBBL"

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	BaseURL            string        `mapstructure:"base-url" yaml:"base-url" validate:"required,url"`
	PollInterval       time.Duration `mapstructure:"poll-interval" yaml:"poll-interval" validate:"gt=0"`
	RequestTimeout     time.Duration `mapstructure:"request-timeout" yaml:"request-timeout" validate:"gt=0"`
	ActiveDays         int           `mapstructure:"active-days" yaml:"active-days" validate:"gt=0"`
	ChartDays          int           `mapstructure:"chart-days" yaml:"chart-days" validate:"gt=0,lte=365"`
	ExportDir          string        `mapstructure:"export-dir" yaml:"export-dir"`
	OpenBrowser        bool          `mapstructure:"open-browser" yaml:"open-browser"`
	APIAddr            string        `mapstructure:"api-addr" yaml:"api-addr" validate:"hostname_port"`
	LogLevel           string        `mapstructure:"log-level" yaml:"log-level" validate:"oneof=trace debug info warn error"`
	LogFile            string        `mapstructure:"log-file" yaml:"log-file"`
	ReverseScrollWheel bool          `mapstructure:"reverse-scroll-wheel" yaml:"reverse-scroll-wheel"`
	ConfigPath         string        `mapstructure:"-" yaml:"-"` // not from config file
}

// flagKeys are config keys that may be overridden by command-line flags.
var flagKeys = []string{"base-url", "log-level", "poll-interval", "chart-days", "export-dir", "api-addr"}

func loadConfig(configPath string, cmd *cobra.Command) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("base-url", model.DefaultBaseURL)
	v.SetDefault("poll-interval", model.DefaultPollInterval)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("active-days", model.DefaultActiveWindowDays)
	v.SetDefault("chart-days", model.DefaultChartDays)
	v.SetDefault("export-dir", filepath.Join(home, "Downloads"))
	v.SetDefault("open-browser", true)
	v.SetDefault("api-addr", model.DefaultAPIAddr)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", filepath.Join(home, ".local", "state", "bubbl-metrics", "bubbl-metrics.log"))
	v.SetDefault("reverse-scroll-wheel", false)

	if cmd != nil {
		for _, key := range flagKeys {
			if f := cmd.Flags().Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return cfg, fmt.Errorf("binding flag %s: %w", key, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "bubbl-metrics", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	} else {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	// Expand ~ in paths
	cfg.ExportDir = expandHome(cfg.ExportDir, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg appConfig) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("invalid %s: %v", fe.Field(), fe.Value())
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func newConfigCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(app.cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if app.cfg.ConfigPath != "" {
				cmd.Printf("# %s\n", app.cfg.ConfigPath)
			}
			cmd.Print(string(out))
			return nil
		},
	}
}
