package config

import (
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"placement-go/metrics"
	"placement-go/placement"
	"placement-go/types"
	"placement-go/util"
)

const envPrefix = "PLACEMENT"

var logFormats = []string{"text", "json"}

type Config struct {
	Logging   LoggingConfig
	Report    ReportConfig
	Placement PlacementConfig
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ReportConfig struct {
	Dir    string
	Format string
}

type PlacementConfig struct {
	MedianPolicy string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("report.dir", os.TempDir())
	v.SetDefault("report.format", string(metrics.FormatJSON))
	v.SetDefault("placement.medianPolicy", placement.MedianStandard.String())
}

// LoadConfig reads config.yaml from path when present, applies PLACEMENT_*
// environment overrides on top of the defaults and unmarshals into config.
// An empty path skips the file lookup.
func LoadConfig(v *viper.Viper, config *Config, path string) error {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigName("config")
		v.AddConfigPath(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return errors.Wrapf(err, "reading config from %s", path)
			}
			log.WithField("path", path).Debug("no config file found, using defaults")
		}
	}
	if err := v.Unmarshal(config); err != nil {
		return errors.Wrap(err, "unmarshalling config")
	}
	return config.Validate()
}

func (c *Config) Validate() error {
	var result *multierror.Error
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		result = multierror.Append(result, &types.ErrInvalidArgument{Name: "logging.level", Value: c.Logging.Level, Message: err.Error()})
	}
	if util.IndexOf(logFormats, c.Logging.Format) < 0 {
		result = multierror.Append(result, &types.ErrInvalidArgument{Name: "logging.format", Value: c.Logging.Format, Message: "expected text or json"})
	}
	if _, err := metrics.ParseFormat(c.Report.Format); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := placement.ParseMedianPolicy(c.Placement.MedianPolicy); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// MedianPolicy and ReportFormat assume Validate has passed.
func (c *Config) MedianPolicy() placement.MedianPolicy {
	policy, _ := placement.ParseMedianPolicy(c.Placement.MedianPolicy)
	return policy
}

func (c *Config) ReportFormat() metrics.Format {
	format, _ := metrics.ParseFormat(c.Report.Format)
	return format
}

func ConfigureLogging(config LoggingConfig) error {
	level, err := log.ParseLevel(config.Level)
	if err != nil {
		return errors.WithStack(err)
	}
	log.SetLevel(level)
	if config.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stdout)
	return nil
}
