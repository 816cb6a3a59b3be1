package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      Log      `yaml:"log"`
	HTTP     HTTP     `yaml:"http"`
	Database Database `yaml:"database"`
	Kafka    Kafka    `yaml:"kafka"`
	Redis    Redis    `yaml:"redis"`
	Checkout Checkout `yaml:"checkout"`
	Sweeper  Sweeper  `yaml:"sweeper"`
}

type Log struct {
	Level string `yaml:"level"`
}

type HTTP struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimit       int64         `yaml:"rate_limit"`
	RateWindow      time.Duration `yaml:"rate_window"`
}

type Database struct {
	URL string `yaml:"url"`
}

type Kafka struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
}

type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	OrderTTL time.Duration `yaml:"order_ttl"`
}

// Checkout amounts are decimal strings in the store currency.
type Checkout struct {
	Currency              string   `yaml:"currency"`
	FreeDeliveryThreshold string   `yaml:"free_delivery_threshold"`
	FlatDeliveryFee       string   `yaml:"flat_delivery_fee"`
	RemoteDeliveryFee     string   `yaml:"remote_delivery_fee"`
	RemoteZones           []string `yaml:"remote_zones"`
	TaxRate               string   `yaml:"tax_rate"`
	MaxLines              int      `yaml:"max_lines"`
	ReserveRetries        uint64   `yaml:"reserve_retries"`
	ReactivateOnRelease   bool     `yaml:"reactivate_on_release"`
}

type Sweeper struct {
	Interval time.Duration `yaml:"interval"`
}

// LoadFile reads the YAML file at path, applies defaults and environment overrides.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("os.ReadFile[%s]: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}

	applyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	applyDefaults(&cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.RateLimit == 0 {
		cfg.HTTP.RateLimit = 20
	}
	if cfg.HTTP.RateWindow == 0 {
		cfg.HTTP.RateWindow = time.Minute
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "order-events"
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = "flashcheckout"
	}

	if cfg.Redis.OrderTTL == 0 {
		cfg.Redis.OrderTTL = 5 * time.Minute
	}

	if cfg.Checkout.Currency == "" {
		cfg.Checkout.Currency = "KES"
	}
	if cfg.Checkout.FreeDeliveryThreshold == "" {
		cfg.Checkout.FreeDeliveryThreshold = "100000"
	}
	if cfg.Checkout.FlatDeliveryFee == "" {
		cfg.Checkout.FlatDeliveryFee = "500"
	}
	if cfg.Checkout.RemoteDeliveryFee == "" {
		cfg.Checkout.RemoteDeliveryFee = "1500"
	}
	if cfg.Checkout.TaxRate == "" {
		cfg.Checkout.TaxRate = "0"
	}
	if cfg.Checkout.MaxLines == 0 {
		cfg.Checkout.MaxLines = maxCheckoutLines
	}
	if cfg.Checkout.ReserveRetries == 0 {
		cfg.Checkout.ReserveRetries = 3
	}

	if cfg.Sweeper.Interval == 0 {
		cfg.Sweeper.Interval = time.Minute
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.Database.URL = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v, ok := lookup("KAFKA_USERNAME"); ok {
		cfg.Kafka.Username = v
	}
	if v, ok := lookup("KAFKA_PASSWORD"); ok {
		cfg.Kafka.Password = v
	}
	if v, ok := lookup("REDIS_ADDR"); ok {
		cfg.Redis.Addr = v
	}
	if v, ok := lookup("HTTP_ADDR"); ok {
		cfg.HTTP.Addr = v
	}
}

func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is empty")
	}
	if c.Redis.Addr == "" {
		return errors.New("redis.addr is empty")
	}
	if len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is empty")
	}
	if (c.Kafka.Username == "") != (c.Kafka.Password == "") {
		return errors.New("kafka.username and kafka.password must be set together")
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateWindow < 0 || c.HTTP.ShutdownTimeout < 0 {
		return errors.New("http limits must not be negative")
	}
	if c.Redis.OrderTTL < 0 {
		return errors.New("redis.order_ttl is negative")
	}
	if c.Sweeper.Interval < 0 {
		return errors.New("sweeper.interval is negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return c.Checkout.Validate()
}

func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level[%s]: %w", c.Log.Level, err)
	}
	return level, nil
}

// maxCheckoutLines is the hard upper bound on lines per order.
const maxCheckoutLines = 50

func (c Checkout) Validate() error {
	if _, err := c.Unit(); err != nil {
		return err
	}
	if _, err := c.DeliveryFeeRule(); err != nil {
		return err
	}
	if _, err := c.TaxRule(); err != nil {
		return err
	}
	if c.MaxLines < 1 || c.MaxLines > maxCheckoutLines {
		return fmt.Errorf("checkout.max_lines[%d] is outside 1..%d", c.MaxLines, maxCheckoutLines)
	}
	return nil
}

func (c Checkout) Unit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("checkout.currency[%s]: %w", c.Currency, err)
	}
	return unit, nil
}

func (c Checkout) DeliveryFeeRule() (domain.DeliveryFeeRule, error) {
	threshold, err := nonNegative("checkout.free_delivery_threshold", c.FreeDeliveryThreshold)
	if err != nil {
		return domain.DeliveryFeeRule{}, err
	}

	flat, err := nonNegative("checkout.flat_delivery_fee", c.FlatDeliveryFee)
	if err != nil {
		return domain.DeliveryFeeRule{}, err
	}

	remote, err := nonNegative("checkout.remote_delivery_fee", c.RemoteDeliveryFee)
	if err != nil {
		return domain.DeliveryFeeRule{}, err
	}

	return domain.DeliveryFeeRule{
		FreeThreshold: threshold,
		FlatFee:       flat,
		RemoteFee:     remote,
		RemoteZones:   c.RemoteZones,
	}, nil
}

// TaxRule returns ZeroTax for a zero rate.
func (c Checkout) TaxRule() (domain.TaxRule, error) {
	rate, err := nonNegative("checkout.tax_rate", c.TaxRate)
	if err != nil {
		return nil, err
	}
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("checkout.tax_rate[%s] is above 1", c.TaxRate)
	}

	if rate.IsZero() {
		return domain.ZeroTax{}, nil
	}
	return domain.FlatRateTax{Rate: rate}, nil
}

func nonNegative(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s[%s]: %w", name, value, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s[%s] is negative", name, value)
	}
	return d, nil
}
