package config

import (
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	// Address is where /status, /metrics and /ws are served. Leave empty
	// to run a single batch and exit instead.
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type ProbeConfig struct {
	SampleCount       int    `mapstructure:"sample_count"`
	Timeout           string `mapstructure:"timeout"`
	InterAttemptDelay string `mapstructure:"inter_attempt_delay"`
	RunInterval       string `mapstructure:"run_interval"`
}

type ClassifyConfig struct {
	FastThreshold        string `mapstructure:"fast_threshold"`
	SlowCeiling          string `mapstructure:"slow_ceiling"`
	ObfuscateDegradedRTT bool   `mapstructure:"obfuscate_degraded_rtt"`
	DegradedBandMin      string `mapstructure:"degraded_band_min"`
	DegradedBandMax      string `mapstructure:"degraded_band_max"`
}

type TargetConfig struct {
	ID string `mapstructure:"id"`
	// URL may be empty: an unconfigured target is reported down without
	// ever being probed.
	URL string `mapstructure:"url"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Targets  []TargetConfig `mapstructure:"targets"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("server.address", "")
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("probe.sample_count", 3)
	viper.SetDefault("probe.timeout", "4200ms")
	viper.SetDefault("probe.inter_attempt_delay", "180ms")
	viper.SetDefault("probe.run_interval", "60s")
	viper.SetDefault("classify.fast_threshold", "150ms")
	viper.SetDefault("classify.slow_ceiling", "700ms")
	viper.SetDefault("classify.obfuscate_degraded_rtt", true)
	viper.SetDefault("classify.degraded_band_min", "150ms")
	viper.SetDefault("classify.degraded_band_max", "160ms")
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Error("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				if sc.Address != "" {
					if err := validateHostPort(sc.Address); err != nil {
						return err
					}
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
				)
			}),
		),
		validation.Field(&c.Probe,
			validation.Required,
			validation.By(func(value interface{}) error {
				pc, ok := value.(ProbeConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ProbeConfig")
				}
				return validation.ValidateStruct(&pc,
					validation.Field(&pc.SampleCount,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&pc.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&pc.InterAttemptDelay,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&pc.RunInterval,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Classify,
			validation.Required,
			validation.By(validateClassifyConfig),
		),
		validation.Field(&c.Targets,
			validation.Each(validation.By(validateTargetConfig)),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
	)
}

func validateClassifyConfig(value interface{}) error {
	cc, ok := value.(ClassifyConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a ClassifyConfig")
	}

	if err := validation.ValidateStruct(&cc,
		validation.Field(&cc.FastThreshold, validation.Required, validation.By(validateDuration)),
		validation.Field(&cc.SlowCeiling, validation.Required, validation.By(validateDuration)),
		validation.Field(&cc.DegradedBandMin, validation.Required, validation.By(validateDuration)),
		validation.Field(&cc.DegradedBandMax, validation.Required, validation.By(validateDuration)),
	); err != nil {
		return err
	}

	fast, _ := time.ParseDuration(cc.FastThreshold)
	ceiling, _ := time.ParseDuration(cc.SlowCeiling)
	if fast > ceiling {
		return validation.NewError("validation_threshold_order", "fast_threshold must not exceed slow_ceiling")
	}

	bandMin, _ := time.ParseDuration(cc.DegradedBandMin)
	bandMax, _ := time.ParseDuration(cc.DegradedBandMax)
	if bandMin > bandMax {
		return validation.NewError("validation_band_order", "degraded_band_min must not exceed degraded_band_max")
	}

	return nil
}

func validateTargetConfig(value interface{}) error {
	tc, ok := value.(TargetConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a TargetConfig")
	}

	if tc.ID == "" {
		return validation.NewError("validation_empty_id", "target id cannot be empty")
	}

	if tc.URL == "" {
		return nil
	}

	parsedURL, err := url.Parse(tc.URL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 150ms, 2s)")
	}

	return nil
}
