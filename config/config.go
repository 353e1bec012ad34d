// Package config loads the configuration of the primary node. Defaults are kept
// in an embedded yaml file; an optional config file, environment variables with
// the PRIMARY_ prefix and command line flags override them, in increasing order
// of precedence.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//go:embed default-config.yml
var defaultConfigFile []byte

const envPrefix = "PRIMARY"

// Config is the configuration of the primary node.
type Config struct {
	LogLevel    string         `validate:"oneof=trace debug info warn error" mapstructure:"log-level"`
	WorkersFile string         `validate:"required" mapstructure:"workers-file"`
	RPC         RPCConfig      `mapstructure:"rpc"`
	Handoff     HandoffConfig  `mapstructure:"handoff"`
	Proposer    ProposerConfig `mapstructure:"proposer"`
	Storage     StorageConfig  `mapstructure:"storage"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}

// RPCConfig configures the worker facing grpc server.
type RPCConfig struct {
	ListenAddr     string         `validate:"required,hostname_port" mapstructure:"listen-addr"`
	MaxMsgSize     ByteSize       `validate:"gt=0" mapstructure:"max-msg-size"`
	MetricsEnabled bool           `mapstructure:"metrics-enabled"`
	RateLimits     map[string]int `validate:"dive,gt=0" mapstructure:"rate-limits"`
	BurstLimits    map[string]int `validate:"dive,gt=0" mapstructure:"burst-limits"`
}

// HandoffConfig configures the channel between the receiver and the proposer.
type HandoffConfig struct {
	Capacity int `validate:"gt=0" mapstructure:"capacity"`
}

// ProposerConfig configures how own digests are packed into headers.
type ProposerConfig struct {
	MaxHeaderDigests uint          `validate:"gt=0" mapstructure:"max-header-digests"`
	MaxHeaderDelay   time.Duration `validate:"gt=0" mapstructure:"max-header-delay"`
}

// StorageConfig configures the payload store.
type StorageConfig struct {
	Engine    string `validate:"oneof=badger pebble" mapstructure:"engine"`
	Dir       string `validate:"required" mapstructure:"dir"`
	CacheSize uint   `validate:"gt=0" mapstructure:"cache-size"`
}

// MetricsConfig configures the metrics http server.
type MetricsConfig struct {
	Port     uint `validate:"lte=65535" mapstructure:"port"`
	Profiler bool `mapstructure:"profiler"`
}

// ByteSize is a size in bytes. In configuration files and flags it may be
// written in human readable form, such as 4MiB.
type ByteSize uint

// flag names and the config keys they override
var flagKeys = map[string]string{
	"log-level":                   "log-level",
	"workers-file":                "workers-file",
	"rpc-addr":                    "rpc.listen-addr",
	"rpc-max-msg-size":            "rpc.max-msg-size",
	"rpc-metrics-enabled":         "rpc.metrics-enabled",
	"handoff-capacity":            "handoff.capacity",
	"proposer-max-header-digests": "proposer.max-header-digests",
	"proposer-max-header-delay":   "proposer.max-header-delay",
	"storage-engine":              "storage.engine",
	"datadir":                     "storage.dir",
	"storage-cache-size":          "storage.cache-size",
	"metrics-port":                "metrics.port",
	"profiler-enabled":            "metrics.profiler",
}

// DefaultConfig returns the configuration defined by the embedded defaults.
func DefaultConfig() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return unmarshal(v)
}

// InitializeFlags registers the command line flags of the node on the given
// flag set, using the given config for default values.
func InitializeFlags(flags *pflag.FlagSet, config *Config) {
	flags.String("log-level", config.LogLevel, "level for logging output")
	flags.String("workers-file", config.WorkersFile, "path to the yaml file holding the workers of this primary")
	flags.String("rpc-addr", config.RPC.ListenAddr, "the address the worker facing grpc server listens on")
	flags.String("rpc-max-msg-size", units.BytesSize(float64(config.RPC.MaxMsgSize)), "maximum size of grpc messages, e.g. 4MiB")
	flags.Bool("rpc-metrics-enabled", config.RPC.MetricsEnabled, "whether to enable the grpc metrics")
	flags.Int("handoff-capacity", config.Handoff.Capacity, "number of own digests buffered for the proposer")
	flags.Uint("proposer-max-header-digests", config.Proposer.MaxHeaderDigests, "maximum number of digests in a header")
	flags.Duration("proposer-max-header-delay", config.Proposer.MaxHeaderDelay, "maximum delay before a non-empty header is sealed")
	flags.String("storage-engine", config.Storage.Engine, "payload store engine: badger or pebble")
	flags.String("datadir", config.Storage.Dir, "directory of the payload store")
	flags.Uint("storage-cache-size", config.Storage.CacheSize, "number of payload keys cached in memory")
	flags.Uint("metrics-port", config.Metrics.Port, "port for the metrics server")
	flags.Bool("profiler-enabled", config.Metrics.Profiler, "whether to expose pprof on the metrics server")
}

// Load builds the configuration from the embedded defaults, the optional
// config file, the environment and the flags that were set on the command line.
// It returns an error if the result does not pass validation.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		err = v.MergeInConfig()
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			err = v.BindPFlag(key, flag)
			if err != nil {
				return nil, fmt.Errorf("could not bind flag %s: %w", name, err)
			}
		}
	}

	return unmarshal(v)
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	err := v.ReadConfig(bytes.NewReader(defaultConfigFile))
	if err != nil {
		return nil, fmt.Errorf("could not read default config: %w", err)
	}
	return v, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		byteSizeHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	err = validator.New().Struct(config)
	if err != nil {
		return nil, NewInvalidConfigError(err)
	}
	return &config, nil
}

// byteSizeHookFunc decodes human readable sizes, such as 4MiB, into ByteSize.
func byteSizeHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(ByteSize(0)) || f.Kind() != reflect.String {
			return data, nil
		}
		size, err := units.RAMInBytes(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid byte size %q: %w", data, err)
		}
		if size < 0 {
			return nil, fmt.Errorf("byte size must not be negative, got %q", data)
		}
		return ByteSize(size), nil
	}
}
