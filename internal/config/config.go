package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server     ServerConfig     `envPrefix:"SERVER_"`
	Storefront StorefrontConfig `envPrefix:"STOREFRONT_"`
	Session    SessionConfig    `envPrefix:"SESSION_"`
	Database   DatabaseConfig   `envPrefix:"DATABASE_"`
	Kafka      KafkaConfig      `envPrefix:"KAFKA_"`
	Metrics    MetricsConfig    `envPrefix:"METRICS_"`
}

type ServerConfig struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	Host        string   `env:"HOST" envDefault:"0.0.0.0"`
	CORSPattern string   `env:"CORS_PATTERN" envDefault:""`
	Pprof       bool     `env:"PPROF" envDefault:"false"`
	SkipLogURIs []string `env:"SKIP_LOG_URIS" envDefault:"/health,/metrics"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type StorefrontConfig struct {
	// Domain is the platform store domain, e.g. "pg-hvac.myshopify.com".
	Domain            string        `env:"DOMAIN,required"`
	Endpoint          string        `env:"ENDPOINT"`
	PublicStoreDomain string        `env:"PUBLIC_DOMAIN"`
	APIVersion        string        `env:"API_VERSION" envDefault:"2024-01"`
	PublicToken       string        `env:"PUBLIC_TOKEN,required"`
	Country           string        `env:"COUNTRY"`
	Language          string        `env:"LANGUAGE"`
	Timeout           time.Duration `env:"TIMEOUT" envDefault:"10s"`
	HeaderMenu        string        `env:"HEADER_MENU" envDefault:"main-menu"`
	FooterMenu        string        `env:"FOOTER_MENU" envDefault:"footer"`
	ShopTitle         string        `env:"SHOP_TITLE" envDefault:"PG HVAC Parts"`
}

// GraphQLEndpoint is Endpoint when set, otherwise the endpoint derived from
// Domain and APIVersion.
func (c StorefrontConfig) GraphQLEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.Domain, c.APIVersion)
}

type SessionConfig struct {
	Backend    string        `env:"BACKEND" envDefault:"cookie"`
	CookieName string        `env:"COOKIE_NAME" envDefault:"session"`
	Secret     string        `env:"SECRET,required"`
	MaxAge     time.Duration `env:"MAX_AGE" envDefault:"720h"`
	Secure     bool          `env:"SECURE" envDefault:"true"`
}

type DatabaseConfig struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"storefront"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"storefront.customer-events"`
}

type MetricsConfig struct {
	StatsdAddress string `env:"STATSD_ADDRESS"`
	Service       string `env:"SERVICE" envDefault:"storefront"`
}

const (
	SessionBackendCookie = "cookie"
	SessionBackendMongo  = "mongo"
)

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	switch cfg.Session.Backend {
	case SessionBackendCookie, SessionBackendMongo:
	default:
		return nil, fmt.Errorf("unsupported session backend: %q", cfg.Session.Backend)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}
