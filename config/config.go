package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig     `mapstructure:"server"`
	JWT      JWTConfig        `mapstructure:"jwt"`
	Engine   EngineConfig     `mapstructure:"engine"`
	Treasury []TreasuryConfig `mapstructure:"treasury"`
	Seed     SeedConfig       `mapstructure:"seed"`
	Log      LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Addr returns the listen address string.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// EngineConfig tunes the ledger and exchange behavior. Rates is keyed by
// currency pair, e.g. "usd/usdt" (viper lowercases map keys).
type EngineConfig struct {
	FeeRate          float64            `mapstructure:"fee_rate"`
	QuoteTTL         time.Duration      `mapstructure:"quote_ttl"`
	Latency          time.Duration      `mapstructure:"latency"`
	WithdrawalDelay  time.Duration      `mapstructure:"withdrawal_delay"`
	FiatCurrencies   []string           `mapstructure:"fiat_currencies"`
	CryptoCurrencies []string           `mapstructure:"crypto_currencies"`
	Rates            map[string]float64 `mapstructure:"rates"`
}

// TreasuryConfig seeds one system hot/cold wallet pair.
type TreasuryConfig struct {
	Currency    string  `mapstructure:"currency"`
	HotBalance  float64 `mapstructure:"hot_balance"`
	ColdBalance float64 `mapstructure:"cold_balance"`
	Address     string  `mapstructure:"address"`
}

// SeedConfig controls boot-time seeding. RNGSeed fixes the deposit
// address stream so demo state is reproducible.
type SeedConfig struct {
	Demo     bool   `mapstructure:"demo"`
	Password string `mapstructure:"password"`
	RNGSeed  int64  `mapstructure:"rng_seed"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: HL_ (Hydra Ledger).
// Nested keys use underscore: HL_SERVER_PORT, HL_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "hydra-ledger")
	v.SetDefault("engine.fee_rate", 0.005)
	v.SetDefault("engine.quote_ttl", "30s")
	v.SetDefault("engine.latency", "750ms")
	v.SetDefault("engine.withdrawal_delay", "24h")
	v.SetDefault("engine.fiat_currencies", []string{"USD"})
	v.SetDefault("engine.crypto_currencies", []string{"USDT"})
	v.SetDefault("engine.rates", map[string]float64{
		"usd/usdt": 0.998,
		"usdt/usd": 1.001,
	})
	v.SetDefault("seed.demo", true)
	v.SetDefault("seed.password", "password123")
	v.SetDefault("seed.rng_seed", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: HL_SERVER_PORT -> server.port
	v.SetEnvPrefix("HL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
