package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"SignalPulse/pkg/util"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Engine struct {
		// Factor weight table; must sum to 1.0. Empty means built-in defaults.
		Weights map[string]float64 `yaml:"weights"`

		MaxSingleFactorScore   float64 `yaml:"max_single_factor_score" default:"15"`
		MaxTotalScore          float64 `yaml:"max_total_score" default:"130"`
		MaxProbability         float64 `yaml:"max_probability" default:"85"`
		SidewaysMaxProbability float64 `yaml:"sideways_max_probability" default:"62"`

		DeadZone     float64 `yaml:"dead_zone" default:"10"`
		WideDeadZone float64 `yaml:"wide_dead_zone" default:"15"`
		// Symbols with sparser factor data get the wider dead zone.
		ThinDataSymbols []string `yaml:"thin_data_symbols"`

		BaseThreshold  float64 `yaml:"base_threshold" default:"1.0"`
		RSILowExtreme  float64 `yaml:"rsi_low_extreme" default:"20"`
		RSIHighExtreme float64 `yaml:"rsi_high_extreme" default:"80"`

		Stability struct {
			SmoothingAlpha        float64       `yaml:"smoothing_alpha" default:"0.4"`
			Cooldown              time.Duration `yaml:"cooldown" default:"60m"`
			ConfirmationsRequired int           `yaml:"confirmations_required" default:"3"`
			ScoreChangeThreshold  float64       `yaml:"score_change_threshold" default:"0.30"`
			ReversalThreshold     float64       `yaml:"reversal_threshold" default:"30"`
		} `yaml:"stability"`

		Correlation struct {
			AnchorSymbol    string        `yaml:"anchor_symbol" default:"BTC"`
			StrongScore     float64       `yaml:"strong_score" default:"30"`
			TTL             time.Duration `yaml:"ttl" default:"600s"`
			AdjustFactor    float64       `yaml:"adjust_factor" default:"0.7"`
			ReinforceFactor float64       `yaml:"reinforce_factor" default:"0.3"`
		} `yaml:"correlation"`
	} `yaml:"engine"`
	Decisions struct {
		CacheTTL time.Duration `yaml:"cache_ttl" default:"15m"`
	} `yaml:"decisions"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity" default:"5"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"1"`
	} `yaml:"ratelimit"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"signal.decisions"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"signalpulse"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(c.Engine.Weights) == 0 {
		c.Engine.Weights = DefaultWeights()
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Enabled = true
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Addr = v
	}
	if v := os.Getenv("ANCHOR_SYMBOL"); v != "" {
		c.Engine.Correlation.AnchorSymbol = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("SERVER_PORT"), c.Server.Port)
	c.Redis.DB = util.ParseIntDefault(os.Getenv("REDIS_DB"), c.Redis.DB)

	return c, nil
}

// Default returns a configuration with built-in defaults only, no file.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	c.Engine.Weights = DefaultWeights()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DefaultWeights is the built-in factor weight table. Sums to 1.0.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"momentum":       0.09,
		"trend":          0.08,
		"macd":           0.06,
		"bollinger":      0.05,
		"stoch_rsi":      0.04,
		"volume":         0.06,
		"volatility":     0.04,
		"multi_tf":       0.05,
		"whale_netflow":  0.07,
		"whale_tx":       0.05,
		"accumulation":   0.04,
		"open_interest":  0.06,
		"funding":        0.05,
		"liquidations":   0.04,
		"long_short":     0.03,
		"fear_greed":     0.04,
		"social":         0.03,
		"macro_dxy":      0.04,
		"macro_risk":     0.03,
		"put_call":       0.03,
		"iv_skew":        0.02,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	var sum float64
	for name, w := range c.Engine.Weights {
		if w < 0 {
			return fmt.Errorf("engine.weights[%s] is negative", name)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-3 {
		return fmt.Errorf("engine.weights must sum to 1.0, got %.4f", sum)
	}

	if c.Engine.MaxProbability <= 50 || c.Engine.MaxProbability > 100 {
		return fmt.Errorf("engine.max_probability must be in (50, 100]")
	}
	if c.Engine.SidewaysMaxProbability > c.Engine.MaxProbability {
		return fmt.Errorf("engine.sideways_max_probability exceeds max_probability")
	}
	if c.Engine.DeadZone <= 0 || c.Engine.WideDeadZone < c.Engine.DeadZone {
		return fmt.Errorf("engine dead zones misconfigured")
	}
	if c.Engine.Stability.SmoothingAlpha <= 0 || c.Engine.Stability.SmoothingAlpha > 1 {
		return fmt.Errorf("engine.stability.smoothing_alpha must be in (0, 1]")
	}
	if c.Engine.Stability.Cooldown <= 0 {
		return fmt.Errorf("engine.stability.cooldown must be positive")
	}
	if c.Engine.Stability.ConfirmationsRequired < 1 {
		return fmt.Errorf("engine.stability.confirmations_required must be >= 1")
	}
	if c.Engine.Correlation.TTL <= 0 {
		return fmt.Errorf("engine.correlation.ttl must be positive")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}

// DeadZoneFor returns the dead zone for a symbol, widened for thin-data assets.
func (c *Config) DeadZoneFor(symbol string) float64 {
	for _, s := range c.Engine.ThinDataSymbols {
		if strings.EqualFold(s, symbol) {
			return c.Engine.WideDeadZone
		}
	}
	return c.Engine.DeadZone
}
