// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Network  NetworkConfig  `mapstructure:"network" yaml:"network"`
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
}

// LoggerConfig configures the zap logger and its optional rotating file core.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to console colors.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the per-investigation browser instance.
type BrowserConfig struct {
	Headless        bool     `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors bool     `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Args            []string `mapstructure:"args" yaml:"args"`
	// MaxNetworkRequests bounds the capture store on ad-heavy pages.
	MaxNetworkRequests int `mapstructure:"max_network_requests" yaml:"max_network_requests"`
}

// NetworkConfig tunes the timing of browser-side operations.
type NetworkConfig struct {
	NavigationTimeout  time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	NetworkIdleTimeout time.Duration `mapstructure:"network_idle_timeout" yaml:"network_idle_timeout"`
	NetworkIdleQuiet   time.Duration `mapstructure:"network_idle_quiet" yaml:"network_idle_quiet"`
	PostLoadWait       time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// ResolverConfig tunes the overlay resolution loop.
type ResolverConfig struct {
	MaxRounds       int           `mapstructure:"max_rounds" yaml:"max_rounds"`
	StrategyTimeout time.Duration `mapstructure:"strategy_timeout" yaml:"strategy_timeout"`
	SettleDelay     time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// LLMConfig configures the hosted-model collaborators.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	VisionModel string        `mapstructure:"vision_model" yaml:"vision_model"`
	TextModel   string        `mapstructure:"text_model" yaml:"text_model"`
	APITimeout  time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float32       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`

	MaxRetryElapsed  time.Duration `mapstructure:"max_retry_elapsed" yaml:"max_retry_elapsed"`
	MaxRetryInterval time.Duration `mapstructure:"max_retry_interval" yaml:"max_retry_interval"`
	RequestsPerMin   int           `mapstructure:"requests_per_min" yaml:"requests_per_min"`
}

// Configured reports whether the hosted-model collaborators can be used.
func (c LLMConfig) Configured() bool { return c.APIKey != "" }

// ServerConfig holds the HTTP streaming server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DatabaseConfig enables the optional investigation history store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// SetDefaults registers every configuration default on the given viper.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "trackscope")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.max_network_requests", 1500)

	// -- Network --
	v.SetDefault("network.navigation_timeout", 30*time.Second)
	v.SetDefault("network.network_idle_timeout", 15*time.Second)
	v.SetDefault("network.network_idle_quiet", 750*time.Millisecond)
	v.SetDefault("network.post_load_wait", 2*time.Second)

	// -- Resolver --
	v.SetDefault("resolver.max_rounds", 5)
	v.SetDefault("resolver.strategy_timeout", 2500*time.Millisecond)
	v.SetDefault("resolver.settle_delay", 1500*time.Millisecond)

	// -- LLM --
	v.SetDefault("llm.vision_model", "gemini-2.0-flash")
	v.SetDefault("llm.text_model", "gemini-2.0-flash")
	v.SetDefault("llm.api_timeout", 45*time.Second)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.max_retry_elapsed", 2*time.Minute)
	v.SetDefault("llm.max_retry_interval", 30*time.Second)
	v.SetDefault("llm.requests_per_min", 30)

	// -- Server --
	v.SetDefault("server.addr", ":8085")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
}

// NewConfigFromViper unmarshals a fully loaded viper into a Config.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Sensitive values come from the environment, never the config file.
	_ = v.BindEnv("llm.api_key", "TRACKSCOPE_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("database.url", "TRACKSCOPE_DATABASE_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Resolver.MaxRounds <= 0 {
		return nil, fmt.Errorf("resolver.max_rounds must be positive, got %d", cfg.Resolver.MaxRounds)
	}
	if cfg.Browser.MaxNetworkRequests <= 0 {
		return nil, fmt.Errorf("browser.max_network_requests must be positive, got %d", cfg.Browser.MaxNetworkRequests)
	}
	return &cfg, nil
}

// NewDefaultConfig returns a Config populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults are static; this indicates a programming error.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}
