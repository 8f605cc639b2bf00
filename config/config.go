package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spacesedan/sentiscope/internal/cache"
	"github.com/spacesedan/sentiscope/internal/clients"
	"github.com/spacesedan/sentiscope/internal/inference"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv string
	Port   int

	MaxContentLength int64
	ShutdownTimeout  time.Duration

	InferenceBackend   string
	ModelName          string
	ModelDir           string
	OnnxLibraryPath    string
	SerializeInference bool
	BatchSize          int
	BatchWorkers       int

	RemoteInferenceURL string
	HFAPIToken         string
	RemoteTimeout      time.Duration

	CacheBackend      string
	CacheTTL          time.Duration
	ValkeyInitAddress string
	ValkeyPassword    string
	ValkeyTLS         bool

	ResultsTableName string
	AWSRegion        string
	AWSEndpoint      string

	LogLevel            string
	HealthcheckInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "dev")
	v.SetDefault("port", 5003)
	v.SetDefault("max_content_length", 16*1024*1024)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetDefault("inference_backend", inference.BackendHugot)
	v.SetDefault("model_name", "cardiffnlp/twitter-roberta-base-sentiment")
	v.SetDefault("model_dir", "./models")
	v.SetDefault("onnx_library_path", "")
	v.SetDefault("serialize_inference", false)
	v.SetDefault("batch_size", 10)
	v.SetDefault("batch_workers", 4)

	v.SetDefault("remote_inference_url", "")
	v.SetDefault("hf_api_token", "")
	v.SetDefault("remote_timeout", 30*time.Second)

	v.SetDefault("cache_backend", cache.BackendNone)
	v.SetDefault("cache_ttl", 24*time.Hour)
	v.SetDefault("valkey_init_address", "")
	v.SetDefault("valkey_password", "")
	v.SetDefault("valkey_tls", false)

	v.SetDefault("results_table_name", "")
	v.SetDefault("aws_region", "us-west-2")
	v.SetDefault("aws_endpoint", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("healthcheck_interval", 15*time.Second)
}

// Load resolves the configuration from defaults and environment variables.
// Every key maps to its upper-case env name, e.g. model_dir to MODEL_DIR.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:           v.GetString("app_env"),
		Port:             v.GetInt("port"),
		MaxContentLength: v.GetInt64("max_content_length"),
		ShutdownTimeout:  v.GetDuration("shutdown_timeout"),

		InferenceBackend:   v.GetString("inference_backend"),
		ModelName:          v.GetString("model_name"),
		ModelDir:           v.GetString("model_dir"),
		OnnxLibraryPath:    v.GetString("onnx_library_path"),
		SerializeInference: v.GetBool("serialize_inference"),
		BatchSize:          v.GetInt("batch_size"),
		BatchWorkers:       v.GetInt("batch_workers"),

		RemoteInferenceURL: v.GetString("remote_inference_url"),
		HFAPIToken:         v.GetString("hf_api_token"),
		RemoteTimeout:      v.GetDuration("remote_timeout"),

		CacheBackend:      v.GetString("cache_backend"),
		CacheTTL:          v.GetDuration("cache_ttl"),
		ValkeyInitAddress: v.GetString("valkey_init_address"),
		ValkeyPassword:    v.GetString("valkey_password"),
		ValkeyTLS:         v.GetBool("valkey_tls"),

		ResultsTableName: v.GetString("results_table_name"),
		AWSRegion:        v.GetString("aws_region"),
		AWSEndpoint:      v.GetString("aws_endpoint"),

		LogLevel:            v.GetString("log_level"),
		HealthcheckInterval: v.GetDuration("healthcheck_interval"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.MaxContentLength <= 0 {
		errs = append(errs, fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", c.MaxContentLength))
	}
	switch c.InferenceBackend {
	case inference.BackendHugot, inference.BackendVader, inference.BackendRemote:
	default:
		errs = append(errs, fmt.Errorf("INFERENCE_BACKEND must be one of hugot, vader, remote, got %q", c.InferenceBackend))
	}
	if c.InferenceBackend != inference.BackendVader && c.ModelName == "" {
		errs = append(errs, fmt.Errorf("MODEL_NAME is required for the %s backend", c.InferenceBackend))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize))
	}
	if c.BatchWorkers <= 0 {
		errs = append(errs, fmt.Errorf("BATCH_WORKERS must be positive, got %d", c.BatchWorkers))
	}
	switch c.CacheBackend {
	case cache.BackendNone, cache.BackendMemory:
	case cache.BackendValkey:
		if c.ValkeyInitAddress == "" {
			errs = append(errs, errors.New("VALKEY_INIT_ADDRESS is required for the valkey cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be one of none, memory, valkey, got %q", c.CacheBackend))
	}

	return errors.Join(errs...)
}

// RemoteEndpoint is REMOTE_INFERENCE_URL, or the hosted inference URL of
// MODEL_NAME when unset.
func (c *Config) RemoteEndpoint() string {
	if c.RemoteInferenceURL != "" {
		return c.RemoteInferenceURL
	}
	return clients.InferenceEndpointFor(c.ModelName)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ModelID names the model behind the configured backend.
func (c *Config) ModelID() string {
	if c.InferenceBackend == inference.BackendVader {
		return inference.BackendVader
	}
	return c.ModelName
}
